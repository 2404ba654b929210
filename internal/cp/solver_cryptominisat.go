package cp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

const cryptominisatName = "cryptominisat"

type cryptominisatSolver struct{}

func NewCryptominisatSolver() Solver {
	return &cryptominisatSolver{}
}

func (solver *cryptominisatSolver) Solve(ctx context.Context, instance SAT) (SATSolution, error) {
	dimacs := instance.ToDIMACS() // Transform the instance into DIMACS-CNF string format

	cmd := exec.CommandContext(ctx, executablePath(cryptominisatName), "--verb", "0")
	cmd.Stdin = strings.NewReader(dimacs) // Feed dimacs into cryptominisat's standard input

	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stdErr bytes.Buffer
	cmd.Stderr = &stdErr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	if err != nil && cmd.ProcessState.ExitCode() != 10 && cmd.ProcessState.ExitCode() != 20 {
		return nil, fmt.Errorf("an error occurred during cryptominisat execution: %v : %v", err, stdErr.String())
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	}

	return parseSolution(stdOut.String()), nil
}
