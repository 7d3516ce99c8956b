package innerhits

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/innerhits/join"
)

var (
	// ErrTransient marks failures of the underlying execution (I/O,
	// cancellation) that the enclosing request may retry. The core
	// itself never retries.
	ErrTransient = errors.New("innerhits: transient failure")

	// ErrFatalInternal marks invariant violations elsewhere in the
	// system: malformed composite keys, cross-segment anchors,
	// invalid definitions. Never swallowed or downgraded.
	ErrFatalInternal = errors.New("innerhits: internal invariant violation")
)

// ErrInvalidDefinition reports a definition rejected at registry build
// time.
//
// It unwraps to ErrFatalInternal.
type ErrInvalidDefinition struct {
	Name   string
	Reason string
}

func (e *ErrInvalidDefinition) Error() string {
	return fmt.Sprintf("innerhits: invalid definition %q: %s", e.Name, e.Reason)
}

func (e *ErrInvalidDefinition) Unwrap() error { return ErrFatalInternal }

// translateError classifies failures bubbling out of resolvers and the
// ranker into the two error kinds, leaving everything else untouched.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var malformed *join.ErrMalformedUid
	if errors.As(err, &malformed) {
		return fmt.Errorf("%w: %w", ErrFatalInternal, err)
	}
	var mismatch *join.ErrSegmentMismatch
	if errors.As(err, &mismatch) {
		return fmt.Errorf("%w: %w", ErrFatalInternal, err)
	}
	var outOfRange *join.ErrDocOutOfRange
	if errors.As(err, &outOfRange) {
		return fmt.Errorf("%w: %w", ErrFatalInternal, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}

	return err
}
