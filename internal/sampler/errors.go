package sampler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks malformed sampling parameters.
	ErrInvalidRequest = errors.New("invalid sampling request")
	// ErrPopulationExhausted is returned by SampleRandom once every candidate
	// frame has been drawn without meeting the requested coverage.
	ErrPopulationExhausted = errors.New("candidate population exhausted")
)

// ShortfallError reports a request for more distinct items than exist.
type ShortfallError struct {
	Category   string
	Background bool
	Wanted     int
	Available  int
}

func (e *ShortfallError) Error() string {
	what := fmt.Sprintf("category %q", e.Category)
	if e.Background {
		what = "background"
	}
	return fmt.Sprintf("%s: requested %d samples but only %d eligible (short by %d)",
		what, e.Wanted, e.Available, e.Wanted-e.Available)
}
