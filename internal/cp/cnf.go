package cp

import (
	"context"
	"errors"
	"log"

	"github.com/samber/lo"
)

// cnfModel lowers the model surface to CNF clauses as constraints are added.
// Every interval has constant bounds, so no-overlap reduces to pairwise
// presence exclusion and the only numeric machinery needed is a cardinality
// encoding over booleans
type cnfModel struct {
	variables uint64
	decisions []BoolVar
	intervals []interval
	clauses   [][]int64
	names     map[BoolVar]string
}

type interval struct {
	start, end int64
	presence   BoolVar
}

func (model *cnfModel) newVariable() int64 {
	model.variables++
	return int64(model.variables)
}

func (model *cnfModel) add(clause ...int64) {
	model.clauses = append(model.clauses, clause)
}

func (model *cnfModel) NewBoolVar(name string) BoolVar {
	variable := BoolVar(model.newVariable())
	model.decisions = append(model.decisions, variable)
	model.names[variable] = name
	return variable
}

func (model *cnfModel) NewOptionalIntervalVar(start, length, end int64, presence BoolVar, name string) IntervalVar {
	if start+length != end {
		log.Panicf("inconsistent interval %v: start %v + length %v != end %v", name, start, length, end)
	}
	model.intervals = append(model.intervals, interval{start: start, end: end, presence: presence})
	return IntervalVar(len(model.intervals) - 1)
}

func (model *cnfModel) AddExactlyOne(variables []BoolVar) {
	atLeastOne := lo.Map(variables, func(variable BoolVar, _ int) int64 { return int64(variable) })
	model.add(atLeastOne...)

	for i := 0; i < len(variables); i++ {
		for j := i + 1; j < len(variables); j++ {
			model.add(-int64(variables[i]), -int64(variables[j]))
		}
	}
}

func (model *cnfModel) AddNoOverlap(intervals []IntervalVar) {
	for i := 0; i < len(intervals); i++ {
		for j := i + 1; j < len(intervals); j++ {
			a, b := model.intervals[intervals[i]], model.intervals[intervals[j]]
			if a.start < b.end && b.start < a.end {
				// Overlapping ranges: at most one of the two may be present
				model.add(-int64(a.presence), -int64(b.presence))
			}
		}
	}
}

func (model *cnfModel) AddImplication(a, b BoolVar) {
	model.add(-int64(a), int64(b))
}

func (model *cnfModel) AddBoolOr(variables []BoolVar) BoolVar {
	disjunction := BoolVar(model.newVariable())

	clause := make([]int64, 0, len(variables)+1)
	clause = append(clause, -int64(disjunction))
	for _, variable := range variables {
		clause = append(clause, int64(variable))
		model.add(-int64(variable), int64(disjunction))
	}
	model.add(clause...)

	return disjunction
}

func (model *cnfModel) AddLinear(variables []BoolVar, comparator Comparator, bound int64) {
	literals := lo.Map(variables, func(variable BoolVar, _ int) int64 { return int64(variable) })
	negated := lo.Map(literals, func(literal int64, _ int) int64 { return -literal })

	switch comparator {
	case LessOrEqual:
		model.atMost(literals, bound)
	case GreaterOrEqual:
		// At least k true literals is at most n-k false ones
		model.atMost(negated, int64(len(literals))-bound)
	case Equal:
		model.atMost(literals, bound)
		model.atMost(negated, int64(len(literals))-bound)
	}
}

// atMost encodes "at most bound of the literals are true" with a sequential
// counter over auxiliary register variables
func (model *cnfModel) atMost(literals []int64, bound int64) {
	n := int64(len(literals))
	if bound >= n {
		return
	} else if bound < 0 {
		model.add() // Empty clause: unsatisfiable by construction
		return
	} else if bound == 0 {
		for _, literal := range literals {
			model.add(-literal)
		}
		return
	}

	// registers[i][j] is true when at least j+1 of the first i+1 literals are
	registers := make([][]int64, n-1)
	for i := range registers {
		registers[i] = make([]int64, bound)
		for j := range registers[i] {
			registers[i][j] = model.newVariable()
		}
	}

	model.add(-literals[0], registers[0][0])
	for j := int64(1); j < bound; j++ {
		model.add(-registers[0][j])
	}

	for i := int64(1); i < n-1; i++ {
		model.add(-literals[i], registers[i][0])
		model.add(-registers[i-1][0], registers[i][0])
		for j := int64(1); j < bound; j++ {
			model.add(-literals[i], -registers[i-1][j-1], registers[i][j])
			model.add(-registers[i-1][j], registers[i][j])
		}
		model.add(-literals[i], -registers[i-1][bound-1])
	}
	model.add(-literals[n-1], -registers[n-2][bound-1])
}

func (model *cnfModel) Name(variable BoolVar) string {
	return model.names[variable]
}

func (model *cnfModel) Solve(ctx context.Context, solver Solver, options Options) (Result, error) {
	instance := SAT{Variables: model.variables, Clauses: model.clauses}

	if !options.EnumerateAll {
		solution, err := solver.Solve(ctx, instance)
		if interrupted(err) {
			return Result{Status: StatusUnknown}, nil
		} else if err != nil {
			return Result{}, err
		} else if solution == nil {
			return Result{Status: StatusInfeasible}, nil
		}
		return Result{Status: StatusFeasible, Solutions: []Assignment{model.assignment(solution)}}, nil
	}

	// Enumerate by re-solving with a blocking clause per found assignment.
	// Blocking only ranges over decision variables so auxiliary literals do
	// not split one timetable into several "solutions"
	scratch := SAT{Variables: instance.Variables, Clauses: append([][]int64{}, instance.Clauses...)}
	solutions := []Assignment{}
	for {
		solution, err := solver.Solve(ctx, scratch)
		if interrupted(err) {
			if len(solutions) > 0 {
				return Result{Status: StatusFeasible, Solutions: solutions}, nil
			}
			return Result{Status: StatusUnknown}, nil
		} else if err != nil {
			return Result{}, err
		} else if solution == nil {
			break
		}

		assignment := model.assignment(solution)
		solutions = append(solutions, assignment)

		blocking := lo.Map(model.decisions, func(variable BoolVar, _ int) int64 {
			if assignment[variable] {
				return -int64(variable)
			}
			return int64(variable)
		})
		scratch.Clauses = append(scratch.Clauses, blocking)
	}

	if len(solutions) == 0 {
		return Result{Status: StatusInfeasible}, nil
	}
	return Result{Status: StatusOptimal, Solutions: solutions}, nil
}

func (model *cnfModel) assignment(solution SATSolution) Assignment {
	positives := make(map[int64]bool, len(solution))
	for _, literal := range solution {
		if literal > 0 {
			positives[literal] = true
		}
	}

	assignment := make(Assignment, len(model.decisions))
	for _, variable := range model.decisions {
		assignment[variable] = positives[int64(variable)]
	}
	return assignment
}

func interrupted(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
