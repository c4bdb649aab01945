// Package plant couples a growth grammar with the needs of a potted plant: water, sickness and pace
package plant

import (
	"image/color"
	"image/draw"
	"math"

	"github.com/garden-nomes/sprout"
	"github.com/garden-nomes/sprout/raster"
	"github.com/pkg/errors"
)

type State int

const (
	Happy State = iota
	Thirsty
	Sickly
)

func (s State) String() string {
	switch s {
	case Happy:
		return "happy"
	case Thirsty:
		return "thirsty"
	case Sickly:
		return "sickly"
	}
	return "unknown"
}

const (
	// DefUpdateInterval is the growth time accumulated before the grammar is rewritten
	DefUpdateInterval = 0.25
	// DefGrowthSpeed converts real seconds into growth seconds for a healthy plant
	DefGrowthSpeed = 0.5
	DefScale       = 1

	evaporation = 0.01
	maxGrowth   = 1 - 10e-6
)

// Options represents how a plant turns time into growth
type Options struct {
	UpdateInterval float64
	GrowthSpeed    float64
	Scale          float64
}

var DefaultOptions = Options{
	UpdateInterval: DefUpdateInterval,
	GrowthSpeed:    DefGrowthSpeed,
	Scale:          DefScale,
}

// Plant is rooted at (X, Y), its stems grow upwards from there
type Plant struct {
	X, Y float64

	Growth    float64
	Hydration float64
	Sickly    float64

	options Options
	grammar *sprout.Grammar
	cache   *raster.Cache

	pending float64
}

func New(x float64, y float64, parameters sprout.Parameters, palette sprout.Palette, o *Options) (*Plant, error) {
	if o == nil {
		o = &DefaultOptions
	}

	g := sprout.New(parameters)
	g.Palette = palette

	p := &Plant{
		X:         x,
		Y:         y,
		Hydration: 1,
		options:   *o,
		grammar:   g,
		cache:     raster.New(palette.Stem, palette.Tip),
	}
	if err := p.rebuild(); err != nil {
		return nil, err
	}
	return p, nil
}

func clamp(v float64, lo float64, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// vigor scales growth down for thirsty or sick plants
func (p *Plant) vigor() float64 {
	return math.Min(p.Hydration, 1) * (1 - p.Sickly)
}

// Update advances the plant by dt real seconds.
// The grammar is only rewritten, and the cache rebuilt, once enough growth time has piled up.
func (p *Plant) Update(dt float64) error {
	p.Hydration = clamp(p.Hydration-dt*evaporation, 0, 2)
	p.Sickly = clamp(p.Sickly+dt*(p.Hydration-1)*0.1, 0, 1)

	vigor := p.vigor()
	p.Growth = clamp(p.Growth+dt*0.01*vigor, 0, maxGrowth)

	p.pending += dt * p.options.GrowthSpeed * vigor
	if p.pending <= 0 || p.pending < p.options.UpdateInterval {
		return nil
	}
	return p.grow()
}

func (p *Plant) grow() error {
	p.grammar.Iterate(p.pending)
	p.pending = 0
	return p.rebuild()
}

func (p *Plant) rebuild() error {
	lines, err := p.grammar.Lines(0, 0, p.options.Scale)
	if err != nil {
		return errors.Wrapf(err, "generation %d", p.grammar.Generation())
	}
	p.cache.Rebuild(lines)
	return nil
}

func (p *Plant) State() State {
	if p.Sickly > 0.5 {
		return Sickly
	} else if p.Hydration < 0.5 {
		return Thirsty
	}
	return Happy
}

func (p *Plant) Water() {
	p.Hydration += 1
}

func (p *Plant) Grammar() *sprout.Grammar {
	return p.grammar
}

func (p *Plant) Cache() *raster.Cache {
	return p.cache
}

// Draw blits the plant; a non-nil highlight paints it in a single color
func (p *Plant) Draw(dst draw.Image, highlight color.Color) {
	if highlight != nil {
		p.cache.DrawHighlighted(dst, p.X, p.Y, highlight)
		return
	}
	p.cache.Draw(dst, p.X, p.Y)
}
