package turtle

import (
	"fmt"
	"image/color"
	"strconv"
)

// Op is a turtle operation
type Op uint8

const (
	Forward Op = iota
	Move
	Turn
	TurnUpwards
	PushState
	PopState
	SetColor
)

var opNames = [...]string{
	Forward:     "f",
	Move:        "m",
	Turn:        "t",
	TurnUpwards: "tu",
	PushState:   "pu",
	PopState:    "po",
	SetColor:    "c",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "op(" + strconv.Itoa(int(op)) + ")"
}

// Command is a single turtle instruction.
// Value holds the distance for Forward/Move and the amount of full turns for Turn/TurnUpwards,
// Color is only meaningful for SetColor.
type Command struct {
	Op    Op
	Value float64
	Color color.RGBA
}

func (c Command) String() string {
	switch c.Op {
	case PushState, PopState:
		return c.Op.String()
	case SetColor:
		return fmt.Sprintf("%s(#%02x%02x%02x)", c.Op, c.Color.R, c.Color.G, c.Color.B)
	default:
		return c.Op.String() + "(" + strconv.FormatFloat(c.Value, 'f', -1, 64) + ")"
	}
}

func F(d float64) Command { return Command{Op: Forward, Value: d} }

func M(d float64) Command { return Command{Op: Move, Value: d} }

func T(t float64) Command { return Command{Op: Turn, Value: t} }

func TU(t float64) Command { return Command{Op: TurnUpwards, Value: t} }

func Push() Command { return Command{Op: PushState} }

func Pop() Command { return Command{Op: PopState} }

func C(c color.RGBA) Command { return Command{Op: SetColor, Color: c} }
