package sop

// Infinity is the bound used for variables without an upper limit. Concrete
// solver backends map it onto their own representation of +inf.
const Infinity = 1e30

type Sense int8

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

type VarType int8

const (
	IntegerVar VarType = iota
	ContinuousVar
)

type Variable struct {
	Name string
	Obj  float64
	LB   float64
	UB   float64
	Type VarType
}

// Constraint is a linear constraint in sparse form: Val[i] is the coefficient
// of the variable with index Ind[i].
type Constraint struct {
	Name  string
	Ind   []int32
	Val   []float64
	Sense Sense
	RHS   float64
}

// Problem is the solver-agnostic model of one configuration. The assignment
// variables come first, item-major then marine, followed by the per-marine
// weight and volume overload slacks. That fixed ordering is what makes
// repeated solves reproducible.
type Problem struct {
	Name     string
	Vars     []Variable
	Constrs  []Constraint
	Maximize bool

	// Proven infeasible during the build, before any solver is involved.
	Infeasible       bool
	InfeasibleReason string

	// KeptItems maps each variable block back to the index of its item in
	// the configuration. Items with no available quantity have no block.
	KeptItems []int
	Squad     int
	ItemCount int

	SlackStart int
}

// XIndex returns the variable index for the a-th kept item and marine k.
func (p *Problem) XIndex(a, k int) int {
	return a*p.Squad + k
}

// WeightSlackIndex returns the index of marine k's weight overload slack.
func (p *Problem) WeightSlackIndex(k int) int {
	return p.SlackStart + k
}

// VolumeSlackIndex returns the index of marine k's volume overload slack.
func (p *Problem) VolumeSlackIndex(k int) int {
	return p.SlackStart + p.Squad + k
}

// ExtractAssignment converts a raw solver value vector into an Assignment
// over all configuration items, zero-filling the excluded ones. Quantities
// are rounded and clamped to the variable bounds.
func (p *Problem) ExtractAssignment(values []float64) Assignment {
	assignment := make(Assignment, p.ItemCount)
	for i := range assignment {
		assignment[i] = make([]int, p.Squad)
	}
	for a, i := range p.KeptItems {
		for k := 0; k < p.Squad; k++ {
			x := p.XIndex(a, k)
			qty := int(values[x] + 0.5)
			if qty < 0 {
				qty = 0
			}
			if ub := int(p.Vars[x].UB + 0.5); qty > ub {
				qty = ub
			}
			assignment[i][k] = qty
		}
	}
	return assignment
}
