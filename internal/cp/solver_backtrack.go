package cp

import "context"

type backtrackSolver struct{}

// NewBacktrackSolver returns an in-process DPLL-style solver: unit propagation
// plus chronological backtracking. It needs no external binary, which makes it
// the default for tests and for small instances, but it does not scale to the
// sizes the subprocess solvers handle
func NewBacktrackSolver() Solver {
	return &backtrackSolver{}
}

func (solver *backtrackSolver) Solve(ctx context.Context, instance SAT) (SATSolution, error) {
	values := make([]int8, instance.Variables+1) // 0 unassigned, 1 true, -1 false

	result, err := solver.search(ctx, instance.Clauses, values)
	if err != nil {
		return nil, err
	} else if result == nil {
		return nil, nil
	}

	solution := make(SATSolution, 0, instance.Variables)
	for variable := int64(1); variable <= int64(instance.Variables); variable++ {
		if result[variable] < 0 {
			solution = append(solution, -variable)
		} else {
			solution = append(solution, variable)
		}
	}
	return solution, nil
}

func (solver *backtrackSolver) search(ctx context.Context, clauses [][]int64, values []int8) ([]int8, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if !propagate(clauses, values) {
		return nil, nil
	}

	branch := int64(0)
	for variable := int64(1); variable < int64(len(values)); variable++ {
		if values[variable] == 0 {
			branch = variable
			break
		}
	}
	if branch == 0 { // Every variable is assigned without conflict
		return values, nil
	}

	for _, phase := range []int8{1, -1} {
		candidate := make([]int8, len(values))
		copy(candidate, values)
		candidate[branch] = phase

		result, err := solver.search(ctx, clauses, candidate)
		if err != nil {
			return nil, err
		} else if result != nil {
			return result, nil
		}
	}
	return nil, nil
}

// propagate applies unit clauses until a fixpoint, mutating values in place.
// Returns false on conflict
func propagate(clauses [][]int64, values []int8) bool {
	for changed := true; changed; {
		changed = false
		for _, clause := range clauses {
			satisfied := false
			unassigned := int64(0)
			unassignedCount := 0
			for _, literal := range clause {
				switch value(values, literal) {
				case 1:
					satisfied = true
				case 0:
					unassigned = literal
					unassignedCount++
				}
				if satisfied {
					break
				}
			}

			if satisfied {
				continue
			} else if unassignedCount == 0 {
				return false
			} else if unassignedCount == 1 {
				assign(values, unassigned)
				changed = true
			}
		}
	}
	return true
}

func value(values []int8, literal int64) int8 {
	if literal < 0 {
		return -values[-literal]
	}
	return values[literal]
}

func assign(values []int8, literal int64) {
	if literal < 0 {
		values[-literal] = -1
	} else {
		values[literal] = 1
	}
}
