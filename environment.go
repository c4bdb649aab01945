package sprout

import "math/rand"

// Environment is the read-only view of the grammar a rule gets while rewriting.
// Every rule of a tick sees the same environment.
type Environment struct {
	// Age is the plant age, already advanced by Delta
	Age   float64
	Delta float64

	Parameters *Parameters

	rng *rand.Rand
}

// Random returns a fresh uniform draw in [0,1) from the plant's own stream
func (env *Environment) Random() float64 {
	return env.rng.Float64()
}
