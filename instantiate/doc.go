// Package instantiate implements the §4.5 module instantiation algorithm:
// validate resolved imports against the module's declared types, create
// storage for each declared memory/table/global and run their
// initialisers, evaluate element and data segments against the final
// table/memory, build the exports map, and record the optional start
// function (never invoked here — the host calls it explicitly).
package instantiate
