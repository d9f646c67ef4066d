package linker

import (
	"go.uber.org/multierr"

	"github.com/embervm/embervm/compartment"
	"github.com/embervm/embervm/compiler"
	"github.com/embervm/embervm/errors"
	"github.com/embervm/embervm/types"
)

// MissingImport names one import LinkModule could not resolve to a
// satisfying object.
type MissingImport struct {
	Module string
	Export string
	Type   types.ObjectType
}

// ResolvedImports is LinkModule's result: one resolved compartment.Object
// per entry of the IR's import table, in declaration order, plus the list
// of imports that missed. Success reports whether every import resolved
// (§4.4: "success = missingImports.empty()").
type ResolvedImports struct {
	Objects []compartment.Object
	Missing []MissingImport
}

func (r *ResolvedImports) Success() bool { return len(r.Missing) == 0 }

// LinkModule resolves every import of ir against resolver, in declaration
// order, aggregating every miss into both ResolvedImports.Missing and a
// multierr-combined error so a caller gets the complete list in one shot
// rather than only the first failure.
func LinkModule(ir *compiler.ModuleIR, resolver Resolver) (*ResolvedImports, error) {
	resolved := &ResolvedImports{Objects: make([]compartment.Object, len(ir.Imports))}

	var errs error
	for i, imp := range ir.Imports {
		obj, ok := resolver.Resolve(imp.Module, imp.Name, imp.Type)
		if !ok {
			resolved.Missing = append(resolved.Missing, MissingImport{Module: imp.Module, Export: imp.Name, Type: imp.Type})
			errs = multierr.Append(errs, errors.New(errors.PhaseLinking, errors.KindMissingImport).
				Detail("missing import: module=%q export=%q type=%q", imp.Module, imp.Name, imp.Type.Kind.String()).Build())
			continue
		}
		resolved.Objects[i] = obj
	}
	return resolved, errs
}
