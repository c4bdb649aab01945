package species

import (
	"image/color"
	"math/rand"
	"strconv"
	"strings"

	"github.com/garden-nomes/sprout"
	"github.com/pkg/errors"
)

type parameterExpression struct {
	name string
	expr string
	to   *float64
}

func orDefault(expr string, def string) string {
	if expr == "" {
		return def
	}
	return expr
}

// expressions pairs every parameter expression with the field it fills, in draw order
func (format *Format) expressions(p *sprout.Parameters) []parameterExpression {
	def := Default.Parameters
	return []parameterExpression{
		{"endBranching", orDefault(format.Parameters.EndBranching, def.EndBranching), &p.EndBranching},
		{"endGrowth", orDefault(format.Parameters.EndGrowth, def.EndGrowth), &p.EndGrowth},
		{"growthRate", orDefault(format.Parameters.GrowthRate, def.GrowthRate), &p.GrowthRate},
		{"d1", orDefault(format.Parameters.D1, def.D1), &p.D1},
		{"d2", orDefault(format.Parameters.D2, def.D2), &p.D2},
		{"l1", orDefault(format.Parameters.L1, def.L1), &p.L1},
		{"l2", orDefault(format.Parameters.L2, def.L2), &p.L2},
	}
}

// Validate parses every expression and the axiom without drawing anything
func (format *Format) Validate() error {
	var p sprout.Parameters
	for _, e := range format.expressions(&p) {
		if _, err := parseExpression(e.expr, format.Constants); err != nil {
			return errors.Wrapf(err, "species %s, parameter %s", format.Name, e.name)
		}
	}
	if _, err := format.axiom(); err != nil {
		return err
	}
	_, err := format.Palette()
	return err
}

// Sample draws the parameters of one plant of this species
func (format *Format) Sample(rng *rand.Rand) (sprout.Parameters, error) {
	var p sprout.Parameters
	for _, e := range format.expressions(&p) {
		f, err := parseExpression(e.expr, format.Constants)
		if err != nil {
			return sprout.Parameters{}, errors.Wrapf(err, "species %s, parameter %s", format.Name, e.name)
		}
		v, err := f(rng)
		if err != nil {
			return sprout.Parameters{}, errors.Wrapf(err, "species %s, parameter %s", format.Name, e.name)
		}
		*e.to = v
	}

	axiom, err := format.axiom()
	if err != nil {
		return sprout.Parameters{}, err
	}
	p.Axiom = axiom
	p.Seed = rng.Int63()

	return p, nil
}

// axiom parses the axiom, which must close every branch it opens
func (format *Format) axiom() (sprout.Sequence, error) {
	axiom, err := sprout.ParseSequence(format.Axiom)
	if err != nil {
		return nil, errors.Wrapf(err, "species %s, axiom", format.Name)
	}
	if !axiom.Balanced() {
		return nil, errors.Errorf("species %s: unbalanced axiom %q", format.Name, format.Axiom)
	}
	return axiom, nil
}

// Palette returns the species colors, the default ones for those left out
func (format *Format) Palette() (sprout.Palette, error) {
	palette := sprout.DefaultPalette

	if format.Colors.Stem != "" {
		c, err := parseColor(format.Colors.Stem)
		if err != nil {
			return sprout.Palette{}, errors.Wrapf(err, "species %s, stem color", format.Name)
		}
		palette.Stem = c
	}
	if format.Colors.Tip != "" {
		c, err := parseColor(format.Colors.Tip)
		if err != nil {
			return sprout.Palette{}, errors.Wrapf(err, "species %s, tip color", format.Name)
		}
		palette.Tip = c
	}

	return palette, nil
}

func parseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, errors.Errorf("malformed color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "malformed color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
