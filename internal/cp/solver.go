package cp

import "context"

// Solver decides satisfiability of a SAT instance.
//
// Returns a solution of the SAT instance if satisfiable, else returns nil
// (these are valid outputs where error shall be nil). The context bounds the
// search: a cancelled or expired context aborts the solver and surfaces
// ctx.Err()
type Solver interface {
	Solve(ctx context.Context, instance SAT) (SATSolution, error)
}
