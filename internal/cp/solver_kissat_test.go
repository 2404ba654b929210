package cp

import (
	"context"
	"log"
	"math/rand/v2"
	"os/exec"
	"testing"
)

func TestKissatSatisfiable(t *testing.T) {
	if _, err := exec.LookPath(executablePath(kissatName)); err != nil {
		t.Skipf("kissat is not installed: %v", err)
	}

	solver := NewKissatSolver()
	unsatisfiableCount := 0

	for range 10 {
		literals := uint64(rand.IntN(100) + 1)
		clauses := rand.IntN(200) + 1
		instance := GenerateSATInstance(literals, clauses)

		solution, err := solver.Solve(context.Background(), instance)
		if err != nil {
			t.Errorf("an error occurred while solving a SAT instance: %v", err)
		}

		if solution == nil {
			unsatisfiableCount++
			continue
		}

		if !AssertSATSolution(instance, solution) {
			t.Error("Wrong answer")
		}
	}

	log.Printf("Unsatisfiable instances: %v", unsatisfiableCount)
}
