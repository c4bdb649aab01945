package sprout

// Rule is a production rule. Symbols no rule matches are carried over unchanged.
type Rule interface {
	// Whether it applies to the predecessor in this environment
	Matches(predecessor *Symbol, env *Environment) bool

	// Execute writes the successor into to and returns how many symbols it wrote
	Execute(to []Symbol, predecessor *Symbol, env *Environment) int

	// Return output size
	OutputSize() int
}

var (
	_ Rule = BranchRule{}
	_ Rule = ElongationRule{}
)

// DefaultRules returns the apical bifurcation and internode elongation rules, in that order
func DefaultRules() []Rule {
	return []Rule{BranchRule{}, ElongationRule{}}
}

// BranchRule replaces a ripe apex with two staggered child apexes flanked by internodes:
//
//	A(a) -> I(l1) [ B(+1) A(d1*r+dt) ] [ B(-1) A(d2*r+dt) ] I(l2)
//
// An apex is ripe when its own age is positive and the plant is still young enough to branch.
type BranchRule struct{}

func (BranchRule) Matches(predecessor *Symbol, env *Environment) bool {
	return predecessor.Letter == Apex && predecessor.Value > 0 && env.Age < env.Parameters.EndBranching
}

func (BranchRule) Execute(to []Symbol, _ *Symbol, env *Environment) int {
	p := env.Parameters
	to[0] = NewInternode(p.L1)
	to[1] = PushState()
	to[2] = NewBranch(1)
	to[3] = NewApex(p.D1*env.Random() + env.Delta)
	to[4] = PopState()
	to[5] = PushState()
	to[6] = NewBranch(-1)
	to[7] = NewApex(p.D2*env.Random() + env.Delta)
	to[8] = PopState()
	to[9] = NewInternode(p.L2)
	return 10
}

func (BranchRule) OutputSize() int {
	return 10
}

// ElongationRule lengthens internodes until the plant stops growing
type ElongationRule struct{}

func (ElongationRule) Matches(predecessor *Symbol, env *Environment) bool {
	return predecessor.Letter == Internode && env.Age < env.Parameters.EndGrowth
}

func (ElongationRule) Execute(to []Symbol, predecessor *Symbol, env *Environment) int {
	to[0] = NewInternode(predecessor.Value + env.Delta*env.Parameters.GrowthRate)
	return 1
}

func (ElongationRule) OutputSize() int {
	return 1
}
