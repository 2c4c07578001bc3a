package modbuild

import "github.com/evefit/fitcalc/pkg/catalog"

// Status is an effect's overall build outcome: ok_partial if any
// declared modifiers were dropped, error if none survived compilation.
type Status string

const (
	StatusOKFull    Status = "ok_full"
	StatusOKPartial Status = "ok_partial"
	StatusError     Status = "error"
)

// Result is the outcome of compiling one effect's declared modifiers.
type Result struct {
	Modifiers []catalog.Modifier
	Status    Status
}

func statusFor(declared, built int) Status {
	switch {
	case built == 0 && declared > 0:
		return StatusError
	case built < declared:
		return StatusOKPartial
	default:
		return StatusOKFull
	}
}
