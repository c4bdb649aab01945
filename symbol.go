package sprout

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Letter identifies the kind of a Symbol
type Letter rune

const (
	// Apex is a growing bud, its value is its age
	Apex Letter = 'A'
	// Internode is a stem segment, its value is its length
	Internode Letter = 'I'
	// Branch records the side (+1 or -1) a sub-branch forked to
	Branch Letter = 'B'
	Push   Letter = '['
	Pop    Letter = ']'
)

// Symbol is a single element of a plant's sequence.
// Only Apex, Internode and Branch carry a Value.
type Symbol struct {
	Letter Letter
	Value  float64
}

func NewApex(age float64) Symbol {
	return Symbol{Letter: Apex, Value: age}
}

func NewInternode(length float64) Symbol {
	return Symbol{Letter: Internode, Value: length}
}

func NewBranch(dir int) Symbol {
	return Symbol{Letter: Branch, Value: float64(dir)}
}

func PushState() Symbol {
	return Symbol{Letter: Push}
}

func PopState() Symbol {
	return Symbol{Letter: Pop}
}

// Symbol stringifier
func (s Symbol) String() string {
	if s.Letter == Push || s.Letter == Pop {
		return string(s.Letter)
	}
	return string(s.Letter) + "(" + strconv.FormatFloat(s.Value, 'f', -1, 64) + ")"
}

// Sequence is an ordered list of symbols, read left to right as a depth-first walk
type Sequence []Symbol

func (seq Sequence) String() string {
	parts := make([]string, len(seq))
	for i, s := range seq {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// Count returns how many symbols of the given letter the sequence holds
func (seq Sequence) Count(l Letter) int {
	n := 0
	for _, s := range seq {
		if s.Letter == l {
			n++
		}
	}
	return n
}

// Balanced reports whether every Pop closes an earlier Push and no Push is left open
func (seq Sequence) Balanced() bool {
	depth := 0
	for _, s := range seq {
		switch s.Letter {
		case Push:
			depth++
		case Pop:
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// ParseSequence reads a sequence written the way Sequence.String writes it, e.g. "I(0.5) [ B(1) A(0) ]"
func ParseSequence(s string) (Sequence, error) {
	fields := strings.Fields(s)
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		sym, err := parseSymbol(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, sym)
	}
	return seq, nil
}

func parseSymbol(f string) (Symbol, error) {
	switch f {
	case string(Push):
		return PushState(), nil
	case string(Pop):
		return PopState(), nil
	}

	if len(f) < 4 || f[1] != '(' || f[len(f)-1] != ')' {
		return Symbol{}, errors.Errorf("malformed symbol %q", f)
	}
	l := Letter(f[0])
	if l != Apex && l != Internode && l != Branch {
		return Symbol{}, errors.Errorf("unknown letter %q in %q", f[0], f)
	}
	v, err := strconv.ParseFloat(f[2:len(f)-1], 64)
	if err != nil {
		return Symbol{}, errors.Wrapf(err, "parameter of %q", f)
	}
	return Symbol{Letter: l, Value: v}, nil
}
