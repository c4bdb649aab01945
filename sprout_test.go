package sprout

import (
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/garden-nomes/sprout/turtle"
)

var TestParameters = Parameters{
	Axiom:        Sequence{NewApex(0.5)},
	EndBranching: 10,
	EndGrowth:    10,
	GrowthRate:   0.01,
	D1:           -1,
	D2:           -2,
	L1:           0.3,
	L2:           0.4,
	Seed:         42,
}

func TestGrammar_New(t *testing.T) {
	g := New(Parameters{})
	want := Sequence{NewApex(0)}
	if !reflect.DeepEqual(g.Export(), want) {
		t.Errorf("Expected %v, got %v", want, g.Export())
	}
	if g.Age() != 0 || g.Generation() != 0 {
		t.Errorf("Fresh grammar should have age 0 and generation 0, got %v and %v", g.Age(), g.Generation())
	}
}

func TestGrammar_Iterate_SingleBranchEvent(t *testing.T) {
	g := New(TestParameters)
	g.Iterate(1.0)

	if g.Age() != 1.0 {
		t.Errorf("Expected age 1, got %v", g.Age())
	}

	seq := g.Export()
	if len(seq) != 10 {
		t.Fatalf("Expected 10 symbols, got %d: %v", len(seq), seq)
	}

	letters := make([]Letter, len(seq))
	for i, s := range seq {
		letters[i] = s.Letter
	}
	wantLetters := []Letter{Internode, Push, Branch, Apex, Pop, Push, Branch, Apex, Pop, Internode}
	if !reflect.DeepEqual(letters, wantLetters) {
		t.Errorf("Expected shape %q, got %q", string(wantLetters), string(letters))
	}

	if seq[0].Value != 0.3 || seq[9].Value != 0.4 {
		t.Errorf("New internodes should have lengths l1 and l2, got %v and %v", seq[0], seq[9])
	}
	if seq[2].Value != 1 || seq[6].Value != -1 {
		t.Errorf("Branch markers should be +1 then -1, got %v and %v", seq[2], seq[6])
	}
	if a := seq[3].Value; a <= 0 || a > 1 {
		t.Errorf("First child apex should be in (d1+dt, dt], got %v", a)
	}
	if a := seq[7].Value; a <= -1 || a > 1 {
		t.Errorf("Second child apex should be in (d2+dt, dt], got %v", a)
	}
}

func TestGrammar_Iterate_UnripeApex(t *testing.T) {
	p := TestParameters
	p.Axiom = Sequence{NewApex(-2)}
	g := New(p)

	g.Iterate(1)
	if want := (Sequence{NewApex(-1)}); !reflect.DeepEqual(g.Export(), want) {
		t.Errorf("Expected %v, got %v", want, g.Export())
	}

	// Aged to 0, still not strictly positive
	g.Iterate(1)
	if want := (Sequence{NewApex(0)}); !reflect.DeepEqual(g.Export(), want) {
		t.Errorf("Expected %v, got %v", want, g.Export())
	}

	g.Iterate(0.5)
	if g.Len() != 10 {
		t.Errorf("Apex should branch once its age is positive, got %v", g.Export())
	}
}

func TestGrammar_Iterate_TerminalGrowth(t *testing.T) {
	p := TestParameters
	p.EndGrowth = 1
	p.Axiom = Sequence{NewInternode(0.2)}
	g := New(p)
	g.age = 1.5

	g.Iterate(1.0)
	if want := (Sequence{NewInternode(0.2)}); !reflect.DeepEqual(g.Export(), want) {
		t.Errorf("Expected %v, got %v", want, g.Export())
	}
}

func TestGrammar_Iterate_Elongation(t *testing.T) {
	p := TestParameters
	p.Axiom = Sequence{NewInternode(0.2)}
	g := New(p)

	g.Iterate(2)
	got := g.Export()[0].Value
	if want := 0.2 + 2*p.GrowthRate; math.Abs(got-want) > 1e-12 {
		t.Errorf("Expected length %v, got %v", want, got)
	}
}

func TestGrammar_Iterate_NoBranchingAfterEnd(t *testing.T) {
	p := TestParameters
	p.EndBranching = 0.5
	g := New(p)

	g.Iterate(1)
	if want := (Sequence{NewApex(1.5)}); !reflect.DeepEqual(g.Export(), want) {
		t.Errorf("Expected %v, got %v", want, g.Export())
	}
}

func TestGrammar_Iterate_DoesNotMutatePrevious(t *testing.T) {
	g := New(TestParameters)
	previous := g.sequence

	g.Iterate(1)
	if !reflect.DeepEqual(previous, Sequence{NewApex(0.5)}) {
		t.Errorf("Previous sequence was modified: %v", previous)
	}
}

func TestGrammar_ApexCount(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := New(RandomParameters(rng))

		apexes := g.Count(Apex)
		for i := 0; i < 200; i++ {
			wasTerminal := g.Age() >= g.Parameters.EndBranching
			g.Iterate(0.05)
			n := g.Count(Apex)
			switch {
			case wasTerminal && n != apexes:
				t.Fatalf("seed %d: apex count changed after the end of branching: %d -> %d", seed, apexes, n)
			case n < apexes:
				t.Fatalf("seed %d: apex count decreased: %d -> %d", seed, apexes, n)
			}
			apexes = n
		}
	}
}

func internodeLengths(seq Sequence) []float64 {
	var lengths []float64
	for _, s := range seq {
		if s.Letter == Internode {
			lengths = append(lengths, s.Value)
		}
	}
	return lengths
}

func TestGrammar_InternodeGrowth(t *testing.T) {
	p := TestParameters
	p.EndBranching = 0
	p.EndGrowth = 1
	p.Axiom = Sequence{NewInternode(0.1), PushState(), NewBranch(1), NewInternode(0.3), NewApex(1), PopState()}
	g := New(p)

	previous := internodeLengths(g.Export())
	for i := 0; i < 20; i++ {
		g.Iterate(0.1)
		current := internodeLengths(g.Export())
		for j := range current {
			if current[j] < previous[j] {
				t.Fatalf("Internode %d shrank: %v -> %v", j, previous[j], current[j])
			}
			if g.Age() >= p.EndGrowth && current[j] != previous[j] {
				t.Fatalf("Internode %d grew after the end of growth: %v -> %v", j, previous[j], current[j])
			}
		}
		previous = current
	}
}

func TestGrammar_Balanced(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g := New(RandomParameters(rng))
		for i := 0; i < 60; i++ {
			g.Iterate(0.1)

			if !g.Export().Balanced() {
				t.Fatalf("seed %d: unbalanced sequence %v", seed, g.Export())
			}

			pushes, pops := 0, 0
			for _, cmd := range g.Interpret() {
				switch cmd.Op {
				case turtle.PushState:
					pushes++
				case turtle.PopState:
					pops++
				}
			}
			if pushes != pops {
				t.Fatalf("seed %d: %d pushes for %d pops", seed, pushes, pops)
			}

			if _, err := g.Lines(0, 0, 1); err != nil {
				t.Fatalf("seed %d: interpretation failed: %v", seed, err)
			}
		}
	}
}

func TestGrammar_Iterate_ZeroDelta(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := New(RandomParameters(rng))
	for !g.Terminal() {
		g.Iterate(0.25)
	}

	age := g.Age()
	before := g.Export()
	for i := 0; i < 5; i++ {
		g.Iterate(0)
	}
	if g.Age() != age {
		t.Errorf("Age moved from %v to %v", age, g.Age())
	}
	if !reflect.DeepEqual(before, g.Export()) {
		t.Errorf("Sequence changed under a zero delta:\n%v\n%v", before, g.Export())
	}
}

func TestGrammar_SameSeedSameGrowth(t *testing.T) {
	a, b := New(TestParameters), New(TestParameters)
	for i := 0; i < 30; i++ {
		a.Iterate(0.2)
		b.Iterate(0.2)
	}
	if !reflect.DeepEqual(a.Export(), b.Export()) {
		t.Error("Grammars with the same parameters diverged")
	}
}

func TestGrammar_Interpret(t *testing.T) {
	var tests = []struct {
		name  string
		axiom Sequence
		age   float64
		want  []turtle.Command
	}{
		{
			name:  "apex",
			axiom: Sequence{NewApex(0)},
			want:  []turtle.Command{turtle.C(turtle.Light), turtle.F(1)},
		},
		{
			name:  "branch at full angle",
			axiom: Sequence{PushState(), NewBranch(-1), PopState()},
			age:   6,
			want:  []turtle.Command{turtle.Push(), turtle.T(-1.0 / 12), turtle.Pop()},
		},
		{
			name:  "young branch",
			axiom: Sequence{NewBranch(1)},
			age:   1.5,
			want:  []turtle.Command{turtle.T(0.5 / 12)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Parameters{Axiom: tt.axiom})
			g.age = tt.age
			if got := g.Interpret(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGrammar_Interpret_Internode(t *testing.T) {
	var tests = []struct {
		age     float64
		segment float64
	}{
		{0, 0.2},
		{0.75, 0.25},
		{3, 0.3},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.age), func(t *testing.T) {
			g := New(Parameters{Axiom: Sequence{NewInternode(1)}})
			g.age = tt.age

			cmds := g.Interpret()
			if len(cmds) != 1+2*internodeSegments {
				t.Fatalf("Expected %d commands, got %d", 1+2*internodeSegments, len(cmds))
			}
			if cmds[0] != turtle.C(turtle.Dark) {
				t.Errorf("Internode should start with the stem color, got %v", cmds[0])
			}
			for i := 1; i < len(cmds); i += 2 {
				if cmds[i].Op != turtle.Forward || math.Abs(cmds[i].Value-tt.segment) > 1e-12 {
					t.Errorf("Command %d: expected f(%v), got %v", i, tt.segment, cmds[i])
				}
				if cmds[i+1] != turtle.TU(upwardsTurn/internodeSegments) {
					t.Errorf("Command %d: expected tu(%v), got %v", i+1, upwardsTurn/internodeSegments, cmds[i+1])
				}
			}
		})
	}
}

func TestGrammar_Palette(t *testing.T) {
	g := New(Parameters{})
	g.Palette = Palette{Stem: turtle.Light, Tip: turtle.Dark}
	lines, err := g.Lines(0, 0, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].Color != turtle.Dark {
		t.Errorf("Apex should be drawn with the tip color, got %v", lines)
	}
}

func TestSequence_String(t *testing.T) {
	seq := Sequence{NewInternode(0.25), PushState(), NewBranch(1), NewApex(-0.5), PopState()}
	if want := "I(0.25) [ B(1) A(-0.5) ]"; seq.String() != want {
		t.Errorf("Expected %q, got %q", want, seq.String())
	}
}

func TestSequence_Balanced(t *testing.T) {
	var tests = []struct {
		seq  Sequence
		want bool
	}{
		{nil, true},
		{Sequence{PushState(), PopState()}, true},
		{Sequence{PopState(), PushState()}, false},
		{Sequence{PushState()}, false},
	}
	for _, tt := range tests {
		if got := tt.seq.Balanced(); got != tt.want {
			t.Errorf("%v: expected %v, got %v", tt.seq, tt.want, got)
		}
	}
}

func BenchmarkGrammar_Iterate(b *testing.B) {
	// Precompute a grown plant
	p := RandomParameters(rand.New(rand.NewSource(1)))
	p.EndBranching = math.Inf(1)
	grown := New(p)
	for grown.Len() < 4096 {
		grown.Iterate(0.5)
	}
	p.Axiom = grown.Export()

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		g := New(p)
		g.Iterate(0.1)
	}
}
