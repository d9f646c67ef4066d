// Package linker implements the §4.4 capability-resolution protocol: a
// Resolver looks up an import by (module name, export name, expected type)
// and either returns a matching object or misses. NullResolver always
// misses; StubResolver synthesizes a function that traps on call so link
// failures surface at invoke time instead of load time; RootResolver
// carries a host-built module-name→ModuleInstance map and falls back to a
// StubResolver on miss or type mismatch — the same chain wavm-run.cpp's
// RootResolver/StubResolver pair implements.
package linker
