package prox

import "errors"

var (
	// ErrEmptyInput indicates a zero-length input vector.
	ErrEmptyInput = errors.New("prox: input vector must be non-empty")

	// ErrDimensionMismatch indicates that weights and input lengths differ.
	ErrDimensionMismatch = errors.New("prox: dimension mismatch")

	// ErrNegativeWeight indicates a negative or non-finite penalty weight.
	ErrNegativeWeight = errors.New("prox: weights must be finite and non-negative")

	// ErrNilWeights indicates a nil weight matrix passed to Path.
	ErrNilWeights = errors.New("prox: weight matrix is nil")
)

// DefaultWorkers is the number of goroutines used by Path unless overridden.
const DefaultWorkers = 1

const panicWorkersInvalid = "prox: WithWorkers: workers must be >= 1"

// Option configures Path.
type Option func(*options)

type options struct {
	workers int
}

// WithWorkers evaluates Path columns on k goroutines.
// Columns are independent, so the result does not depend on k.
// Panics if k < 1 (programmer error).
func WithWorkers(k int) Option {
	if k < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *options) { o.workers = k }
}

func gatherOptions(opts ...Option) options {
	o := options{workers: DefaultWorkers}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
