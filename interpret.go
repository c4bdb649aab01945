package sprout

import (
	"math"

	"github.com/garden-nomes/sprout/turtle"
)

const (
	internodeSegments = 5
	// upwardsTurn is the total curvature of an internode, in full turns
	upwardsTurn = 0.05
)

// Interpret translates the sequence into turtle commands.
// Young plants have narrow forks and compressed stems which relax to full scale as they age.
func (g *Grammar) Interpret() []turtle.Command {
	branchingAngle := math.Min(g.age/3, 1) * (1.0 / 12)
	internodeLength := math.Min(g.age/1.5, 1)*0.5 + 1

	interpretation := make([]turtle.Command, 0, g.interpretationSize())
	for _, s := range g.sequence {
		switch s.Letter {
		case Apex:
			interpretation = append(interpretation, turtle.C(g.Palette.Tip), turtle.F(1))
		case Internode:
			interpretation = append(interpretation, turtle.C(g.Palette.Stem))
			for i := 0; i < internodeSegments; i++ {
				interpretation = append(interpretation,
					turtle.F(s.Value*internodeLength/internodeSegments),
					turtle.TU(upwardsTurn/internodeSegments),
				)
			}
		case Branch:
			interpretation = append(interpretation, turtle.T(branchingAngle*s.Value))
		case Push:
			interpretation = append(interpretation, turtle.Push())
		case Pop:
			interpretation = append(interpretation, turtle.Pop())
		}
	}

	return interpretation
}

func (g *Grammar) interpretationSize() int {
	n := 0
	for _, s := range g.sequence {
		switch s.Letter {
		case Apex:
			n += 2
		case Internode:
			n += 1 + 2*internodeSegments
		default:
			n++
		}
	}
	return n
}

// Lines interprets the sequence and runs the turtle from (x, y)
func (g *Grammar) Lines(x float64, y float64, scale float64) ([]turtle.Line, error) {
	return turtle.Run(g.Interpret(), x, y, scale)
}
