package sop

import "time"

// Solver is the capability boundary to the MILP backend. Implementations
// must be deterministic for identical problems so repeated runs reproduce
// the same assignment.
type Solver interface {
	Solve(prob *Problem, timeLimit time.Duration) (Solution, error)
}

// TransientError marks a solver failure worth one retry, such as an
// unreachable license server. Everything else is treated as permanent.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
