// Package interchange defines how plant descriptions stored outside of the program become growth parameters
package interchange

import (
	"math/rand"

	"github.com/garden-nomes/sprout"
)

// Format is a description of a family of plants, each sample being one plant
type Format interface {
	Sample(rng *rand.Rand) (sprout.Parameters, error)
	Palette() (sprout.Palette, error)
}
