// Package faults classifies errors into the four kinds the ingestion and
// query pipelines care about: configuration errors abort before any work,
// transient errors are retryable, permanent errors skip the affected item,
// and cancellations propagate untouched.
package faults

import (
	"context"
	"errors"
	"fmt"
)

// Kind identifies how an error should be handled by callers.
type Kind int

const (
	// KindConfiguration is fatal and aborts before work begins.
	KindConfiguration Kind = iota
	// KindTransient is eligible for retry with backoff.
	KindTransient
	// KindPermanent affects a single item; callers skip and continue.
	KindPermanent
	// KindCancelled is a propagated cancellation, never retried.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Fault wraps an error with its handling kind.
type Fault struct {
	Kind Kind
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// Configuration marks err as a fatal configuration error.
func Configuration(format string, args ...any) error {
	return &Fault{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

// Transient marks err as retryable.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: KindTransient, Err: err}
}

// Permanent marks err as a skip-and-continue failure for one item.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: KindPermanent, Err: err}
}

// Classify returns the kind of err. Context cancellations and deadline
// expirations are always KindCancelled, regardless of wrapping. Unmarked
// errors default to KindTransient so callers err on the side of retrying.
func Classify(err error) Kind {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCancelled
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindTransient
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return err != nil && Classify(err) == KindConfiguration }

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool { return err != nil && Classify(err) == KindTransient }

// IsPermanent reports whether err is a per-item failure.
func IsPermanent(err error) bool { return err != nil && Classify(err) == KindPermanent }

// IsCancelled reports whether err stems from context cancellation.
func IsCancelled(err error) bool { return err != nil && Classify(err) == KindCancelled }
