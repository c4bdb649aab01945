// Package species reads plant species from a stream of YAML documents.
//
// A species gives every growth parameter as an expression, evaluated once per plant with the variable
// rand standing for a fresh uniform draw in [0,1) wherever it occurs:
//
//	name: shrub
//	constants:
//	  base: 4
//	parameters:
//	  endBranching: rand * 2 + base
//	  growthRate: 0.01 * rand
//	palette:
//	  stem: "#3b6e3a"
//	  tip: "#c8f08c"
//
// Parameters left out take the expression of the Default species.
package species

import (
	"io"

	"github.com/garden-nomes/sprout/interchange"
	"gopkg.in/yaml.v2"
)

var _ interchange.Format = &Format{}

type Format struct {
	Name       string
	Axiom      string
	Constants  map[string]float64
	Parameters Parameters
	Colors     Palette `yaml:"palette"`
}

// Parameters holds one expression per growth parameter
type Parameters struct {
	EndBranching string `yaml:"endBranching"`
	EndGrowth    string `yaml:"endGrowth"`
	GrowthRate   string `yaml:"growthRate"`
	D1           string `yaml:"d1"`
	D2           string `yaml:"d2"`
	L1           string `yaml:"l1"`
	L2           string `yaml:"l2"`
}

// Palette colors are written #rrggbb
type Palette struct {
	Stem string
	Tip  string
}

// Default is the species every plant was drawn from before species files existed
var Default = Format{
	Name:  "default",
	Axiom: "A(0)",
	Parameters: Parameters{
		EndBranching: "rand * 2 + 4",
		EndGrowth:    "rand * 5 + 2",
		GrowthRate:   "0.01 * rand",
		D1:           "-rand * 2 - 1",
		D2:           "-rand * 2 - 1",
		L1:           "rand * 0.5 + 0.25",
		L2:           "rand * 0.5 + 0.25",
	},
	Colors: Palette{
		Stem: "#3b6e3a",
		Tip:  "#c8f08c",
	},
}

type Decoder struct {
	in          io.Reader
	yamlDecoder *yaml.Decoder
}

func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{
		in:          in,
		yamlDecoder: yaml.NewDecoder(in),
	}
}

// Decode reads the next document, returning io.EOF once the stream is exhausted
func (dec *Decoder) Decode() (*Format, error) {
	format := &Format{}
	// Read until yaml multi-document delimiter and/or until EOF
	err := dec.yamlDecoder.Decode(format)
	return format, err
}

// DecodeAll reads every document of the stream
func DecodeAll(in io.Reader) ([]*Format, error) {
	dec := NewDecoder(in)
	var formats []*Format
	for {
		format, err := dec.Decode()
		if err == io.EOF {
			return formats, nil
		} else if err != nil {
			return nil, err
		}
		formats = append(formats, format)
	}
}
