package plant

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/garden-nomes/sprout"
)

func newTestPlant(t *testing.T, o *Options) *Plant {
	t.Helper()
	params := sprout.RandomParameters(rand.New(rand.NewSource(9)))
	p, err := New(10, 20, params, sprout.DefaultPalette, o)
	if err != nil {
		t.Fatalf("Couldn't create plant: %v", err)
	}
	return p
}

func TestNew_Seedling(t *testing.T) {
	p := newTestPlant(t, nil)
	if !p.Cache().Built() {
		t.Fatal("Seedling should be drawable right away")
	}
	if p.Hydration != 1 || p.State() != Happy {
		t.Errorf("Unexpected seedling %+v", p)
	}
}

func TestNew_Unbalanced(t *testing.T) {
	params := sprout.Parameters{Axiom: sprout.Sequence{sprout.PopState()}}
	if _, err := New(0, 0, params, sprout.DefaultPalette, nil); err == nil {
		t.Error("Expected an error for an unbalanced axiom")
	}
}

func TestPlant_Update_BatchesIterations(t *testing.T) {
	p := newTestPlant(t, &Options{UpdateInterval: 1, GrowthSpeed: 1, Scale: 1})

	for i := 0; i < 9; i++ {
		if err := p.Update(0.1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if p.Grammar().Generation() != 0 {
		t.Fatalf("Grammar should not iterate before the interval, generation %d", p.Grammar().Generation())
	}

	if err := p.Update(0.2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.Grammar().Generation() != 1 {
		t.Fatalf("Expected one iteration, got %d", p.Grammar().Generation())
	}
	if p.Grammar().Age() <= 0.9 {
		t.Errorf("The whole pending growth should be passed on, age %v", p.Grammar().Age())
	}
}

func TestPlant_Update_Dry(t *testing.T) {
	p := newTestPlant(t, nil)
	p.Hydration = 0

	for i := 0; i < 100; i++ {
		if err := p.Update(0.1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if p.Grammar().Generation() != 0 || p.Growth != 0 {
		t.Errorf("A dry plant should not grow, generation %d, growth %v", p.Grammar().Generation(), p.Growth)
	}
	if p.State() != Thirsty {
		t.Errorf("Expected thirsty, got %v", p.State())
	}
}

func TestPlant_Update_NoIntervalNoGrowth(t *testing.T) {
	p := newTestPlant(t, &Options{UpdateInterval: 0, GrowthSpeed: 1, Scale: 1})
	p.Hydration = 0

	for i := 0; i < 10; i++ {
		if err := p.Update(0.1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if got := p.Grammar().Generation(); got != 0 {
		t.Errorf("Zero growth time should not rewrite the grammar, got generation %d", got)
	}

	p.Hydration = 1
	if err := p.Update(0.1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := p.Grammar().Generation(); got != 1 {
		t.Errorf("Without an interval every update with growth should iterate, got generation %d", got)
	}
}

func TestPlant_State(t *testing.T) {
	var tests = []struct {
		hydration, sickly float64
		want              State
	}{
		{1, 0, Happy},
		{0.4, 0, Thirsty},
		{0.4, 0.6, Sickly},
		{2, 0.6, Sickly},
	}
	for _, tt := range tests {
		p := Plant{Hydration: tt.hydration, Sickly: tt.sickly}
		if got := p.State(); got != tt.want {
			t.Errorf("hydration %v sickly %v: expected %v, got %v", tt.hydration, tt.sickly, tt.want, got)
		}
	}
}

func TestPlant_Overwatered(t *testing.T) {
	p := newTestPlant(t, nil)
	p.Water()
	p.Water()
	for i := 0; i < 100; i++ {
		if err := p.Update(0.1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if p.Hydration > 2 {
		t.Errorf("Hydration should be clamped to 2, got %v", p.Hydration)
	}
	if p.Sickly <= 0 {
		t.Errorf("Too much water should make the plant sick, got %v", p.Sickly)
	}
}

func TestPlant_Grows(t *testing.T) {
	p := newTestPlant(t, nil)
	before := p.Cache().Len()
	for i := 0; i < 300; i++ {
		p.Hydration = 1
		if err := p.Update(0.1); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	if p.Grammar().Count(sprout.Apex) < 2 {
		t.Errorf("Plant should have branched, got %v", p.Grammar().Export())
	}
	if p.Cache().Len() <= before {
		t.Errorf("Cache should have grown from %d pixels, got %d", before, p.Cache().Len())
	}
	if p.Growth <= 0 || p.Growth >= 1 {
		t.Errorf("Growth should be within (0, 1), got %v", p.Growth)
	}
}

func TestPlant_Draw(t *testing.T) {
	p := newTestPlant(t, nil)
	dst := image.NewRGBA(image.Rect(0, 0, 32, 32))

	p.Draw(dst, nil)
	if got := dst.RGBAAt(10, 20); got != sprout.DefaultPalette.Tip {
		t.Errorf("Seedling base should be drawn with the tip color, got %v", got)
	}

	highlight := color.RGBA{R: 0xff, A: 0xff}
	p.Draw(dst, highlight)
	if got := dst.RGBAAt(10, 19); got != highlight {
		t.Errorf("Expected highlighted pixel, got %v", got)
	}
}
