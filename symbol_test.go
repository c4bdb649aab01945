package sprout

import (
	"reflect"
	"testing"
)

func TestParseSequence(t *testing.T) {
	seq, err := ParseSequence("I(0.25) [ B(1) A(-0.5) ] A(0)")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	want := Sequence{NewInternode(0.25), PushState(), NewBranch(1), NewApex(-0.5), PopState(), NewApex(0)}
	if !reflect.DeepEqual(seq, want) {
		t.Errorf("Expected %v, got %v", want, seq)
	}

	again, err := ParseSequence(seq.String())
	if err != nil || !reflect.DeepEqual(again, seq) {
		t.Errorf("Parsing the stringified sequence gave %v (%v)", again, err)
	}
}

func TestParseSequence_Errors(t *testing.T) {
	for _, s := range []string{"X(1)", "A(", "A(one)", "A1", "{"} {
		if _, err := ParseSequence(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestParseSequence_Empty(t *testing.T) {
	seq, err := ParseSequence("  ")
	if err != nil || len(seq) != 0 {
		t.Errorf("Expected an empty sequence, got %v (%v)", seq, err)
	}
}
