package instantiate

import "github.com/embervm/embervm/errors"

func instantiateError(format string, args ...any) error {
	return errors.New(errors.PhaseRuntime, errors.KindInstantiation).Detail(format, args...).Build()
}
