// Package sprout grows plants with a parametric L-system whose production rules are gated by age
package sprout

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/garden-nomes/sprout/turtle"
)

// Parameters are fixed for the lifetime of a plant
type Parameters struct {
	// Axiom is the starting sequence, a single Apex(0) when empty
	Axiom Sequence

	// EndBranching is the plant age after which apexes stop forking
	EndBranching float64
	// EndGrowth is the plant age after which internodes stop lengthening
	EndGrowth  float64
	GrowthRate float64

	// D1 and D2 are the (negative) head starts given to the two child apexes of a fork
	D1, D2 float64
	// L1 and L2 are the initial lengths of the two internodes created by a fork
	L1, L2 float64

	// Rules default to DefaultRules
	Rules []Rule

	Seed int64
}

// RandomParameters draws a plant's parameters
func RandomParameters(rng *rand.Rand) Parameters {
	return Parameters{
		EndBranching: rng.Float64()*2 + 4,
		EndGrowth:    rng.Float64()*5 + 2,
		GrowthRate:   0.01 * rng.Float64(),
		D1:           -rng.Float64()*2 - 1,
		D2:           -rng.Float64()*2 - 1,
		L1:           rng.Float64()*0.5 + 0.25,
		L2:           rng.Float64()*0.5 + 0.25,
		Seed:         rng.Int63(),
	}
}

// Palette holds the two colors a plant is drawn with
type Palette struct {
	Stem color.RGBA
	Tip  color.RGBA
}

var DefaultPalette = Palette{Stem: turtle.Dark, Tip: turtle.Light}

// Grammar is the growth state of a single plant. It is not safe for concurrent use.
type Grammar struct {
	Parameters Parameters
	Palette    Palette

	age        float64
	generation uint

	rng      *rand.Rand
	sequence Sequence
}

func New(parameters Parameters) *Grammar {
	axiom := parameters.Axiom
	if len(axiom) == 0 {
		axiom = Sequence{NewApex(0)}
	}
	if parameters.Rules == nil {
		parameters.Rules = DefaultRules()
	}

	sequence := make(Sequence, len(axiom))
	copy(sequence, axiom)

	return &Grammar{
		Parameters: parameters,
		Palette:    DefaultPalette,
		rng:        rand.New(rand.NewSource(parameters.Seed)),
		sequence:   sequence,
	}
}

// calculateRules associates each symbol to the first rule matching it, or nil
func (g *Grammar) calculateRules(rules []Rule, input Sequence, env *Environment) {
	for i := range input {
		for _, r := range g.Parameters.Rules {
			if r.Matches(&input[i], env) {
				rules[i] = r
				break
			}
		}
	}
}

func (g *Grammar) calculateOutputSize(rules []Rule) int {
	var val int
	for _, r := range rules {
		if r != nil {
			val += r.OutputSize()
		} else {
			val++
		}
	}
	return val
}

// rewrite applies the rules, reading only the input
func (g *Grammar) rewrite(output Sequence, input Sequence, rules []Rule, env *Environment) {
	outputCursor := 0
	for inputCursor := range input {
		rule := rules[inputCursor]
		if rule == nil {
			output[outputCursor] = input[inputCursor]
			outputCursor++
			continue
		}
		outputCursor += rule.Execute(output[outputCursor:], &input[inputCursor], env)
	}
}

// ageNodes returns a copy of the sequence where every apex is older by dt
func (g *Grammar) ageNodes(dt float64) Sequence {
	aged := make(Sequence, len(g.sequence))
	for i, s := range g.sequence {
		if s.Letter == Apex {
			s.Value += dt
		}
		aged[i] = s
	}
	return aged
}

/*
Iterate advances the plant by dt seconds of growth.

	0. Advance the plant age and every apex age
	1. Select the rule to apply to each symbol
	2. Sum up the output size and allocate the new sequence
	3. Rewrite the aged sequence into the new one and swap

All rules read the aged sequence only, so rewriting is simultaneous.
*/
func (g *Grammar) Iterate(dt float64) {
	g.age += dt
	aged := g.ageNodes(dt)

	env := &Environment{
		Age:        g.age,
		Delta:      dt,
		Parameters: &g.Parameters,
		rng:        g.rng,
	}

	rules := make([]Rule, len(aged))
	g.calculateRules(rules, aged, env)

	output := make(Sequence, g.calculateOutputSize(rules))
	g.rewrite(output, aged, rules, env)

	g.sequence = output
	g.generation++
}

// Age is the accumulated growth time
func (g *Grammar) Age() float64 {
	return g.age
}

// Generation counts the calls to Iterate
func (g *Grammar) Generation() uint {
	return g.generation
}

// Export returns a copy of the current sequence
func (g *Grammar) Export() Sequence {
	out := make(Sequence, len(g.sequence))
	copy(out, g.sequence)
	return out
}

func (g *Grammar) Len() int {
	return len(g.sequence)
}

func (g *Grammar) Count(l Letter) int {
	return g.sequence.Count(l)
}

// Terminal reports whether the plant is past both EndBranching and EndGrowth
func (g *Grammar) Terminal() bool {
	return g.age >= math.Max(g.Parameters.EndBranching, g.Parameters.EndGrowth)
}
