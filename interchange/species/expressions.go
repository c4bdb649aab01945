package species

import (
	"math/rand"
	"strconv"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"
)

// RandVariable is bound to a fresh uniform draw at each of its occurrences
const RandVariable = "rand"

type expressionFunction func(rng *rand.Rand) (float64, error)

// variablesForExpression resolves rand and the species constants
type variablesForExpression struct {
	rng       *rand.Rand
	constants map[string]float64
}

func (vfe variablesForExpression) Get(name string) (interface{}, error) {
	if name == RandVariable {
		return vfe.rng.Float64(), nil
	}
	val, ok := vfe.constants[name]
	if !ok {
		return nil, errors.Errorf("couldn't find %s", name)
	}
	return val, nil
}

func parseExpression(asString string, constants map[string]float64) (expressionFunction, error) {
	// Check if possible to simplify if it just a scalar
	if scalar, err := strconv.ParseFloat(asString, 64); err == nil {
		return func(_ *rand.Rand) (float64, error) {
			return scalar, nil
		}, nil
	}

	evaluable, err := govaluate.NewEvaluableExpression(asString)
	if err != nil {
		return nil, errors.Wrapf(err, "error while parsing expression %q", asString)
	}

	return func(rng *rand.Rand) (float64, error) {
		resAsInterface, err := evaluable.Eval(variablesForExpression{rng, constants})
		if err != nil {
			return 0, errors.Wrapf(err, "error while evaluating %q", asString)
		}

		resAsFloat, ok := resAsInterface.(float64)
		if !ok {
			return 0, errors.Errorf("%q evaluates to %T, not a number", asString, resAsInterface)
		}

		return resAsFloat, nil
	}, nil
}
