package linker

import (
	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/types"
)

// Resolver is the host capability for import lookup during linking (§4.4).
// A miss is reported by returning ok == false; it is not an error in
// itself — LinkModule collects misses into the link result's missing-import
// list.
type Resolver interface {
	Resolve(moduleName, exportName string, expectedType types.ObjectType) (obj compartment.Object, ok bool)
}

// NullResolver always misses. Used for bare modules that declare no
// imports worth resolving against a host (§4.4).
type NullResolver struct{}

func (NullResolver) Resolve(string, string, types.ObjectType) (compartment.Object, bool) {
	return nil, false
}
