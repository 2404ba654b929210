package cp

import "context"

// BoolVar identifies a boolean decision variable. Its value doubles as the
// positive DIMACS literal of the variable
type BoolVar int64

// IntervalVar identifies an optional interval variable: a constant-bound
// [start, end) range that only constrains other intervals while its presence
// variable is true
type IntervalVar int

type Comparator int

const (
	LessOrEqual Comparator = iota
	GreaterOrEqual
	Equal
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
)

var statusNames = map[Status]string{
	StatusUnknown:    "UNKNOWN",
	StatusOptimal:    "OPTIMAL",
	StatusFeasible:   "FEASIBLE",
	StatusInfeasible: "INFEASIBLE",
}

func (status Status) String() string {
	return statusNames[status]
}

// Assignment maps every decision variable of a model to its solved value
type Assignment map[BoolVar]bool

type Options struct {
	// EnumerateAll collects every satisfying assignment over the decision
	// variables instead of stopping at the first
	EnumerateAll bool
}

type Result struct {
	Status    Status
	Solutions []Assignment
}

// Model accumulates decision variables and constraints and hands them to a
// Solver. Variable and constraint creation is not safe for concurrent use;
// build each model from a single goroutine
type Model interface {
	NewBoolVar(name string) BoolVar
	// NewOptionalIntervalVar registers a [start, end) interval of the given
	// length whose enforcement is gated by the presence variable
	NewOptionalIntervalVar(start, length, end int64, presence BoolVar, name string) IntervalVar
	// AddExactlyOne constrains exactly one of the variables to be true
	AddExactlyOne(variables []BoolVar)
	// AddNoOverlap forbids any two present intervals from intersecting
	AddNoOverlap(intervals []IntervalVar)
	// AddLinear constrains the number of true variables against the bound
	AddLinear(variables []BoolVar, comparator Comparator, bound int64)
	// AddImplication constrains b to be true whenever a is
	AddImplication(a, b BoolVar)
	// AddBoolOr returns an auxiliary variable equivalent to the disjunction of
	// the given variables
	AddBoolOr(variables []BoolVar) BoolVar
	// Name returns the name a variable was created with
	Name(variable BoolVar) string

	// Solve lowers the model and runs the solver. A context expiry surfaces as
	// StatusUnknown, a proven absence of solutions as StatusInfeasible; the
	// two are never conflated. Under EnumerateAll an exhausted search reports
	// StatusOptimal and an interrupted one returns the solutions found so far
	// as StatusFeasible
	Solve(ctx context.Context, solver Solver, options Options) (Result, error)
}

func NewModel() Model {
	return &cnfModel{names: map[BoolVar]string{}}
}
