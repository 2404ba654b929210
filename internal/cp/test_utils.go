package cp

import (
	"math/rand/v2"

	"github.com/samber/lo"
)

// GenerateSATInstance builds a random CNF instance: every clause samples each
// literal with probability 1/2 under a random sign, falling back to one random
// literal so no clause comes out empty
func GenerateSATInstance(literals uint64, clauses int) SAT {
	instance := SAT{
		Variables: literals,
		Clauses:   make([][]int64, clauses),
	}

	for i := range instance.Clauses {
		clause := make([]int64, 0, literals)
		for literal := int64(1); literal <= int64(literals); literal++ {
			if rand.Float32() < 0.5 {
				clause = append(clause, randomSign()*literal)
			}
		}
		if len(clause) == 0 {
			clause = append(clause, randomSign()*(1+rand.Int64N(int64(literals))))
		}
		instance.Clauses[i] = clause
	}

	return instance
}

// AssertSATSolution reports whether the solution is consistent (no duplicate
// nor contradictory literals) and satisfies every clause of the instance
func AssertSATSolution(instance SAT, solution SATSolution) bool {
	assigned := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if assigned[literal] || assigned[-literal] {
			return false
		}
		assigned[literal] = true
	}

	return lo.EveryBy(instance.Clauses, func(clause []int64) bool {
		return lo.SomeBy(clause, func(literal int64) bool { return assigned[literal] })
	})
}

func randomSign() int64 {
	if rand.Float32() < 0.5 {
		return -1
	}
	return 1
}
