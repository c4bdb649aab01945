// Package turtle interprets a stream of drawing commands into colored line segments
package turtle

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
)

// Palette used by the plant renderer
var (
	Dark  = color.RGBA{R: 0x3b, G: 0x6e, B: 0x3a, A: 0xff}
	Light = color.RGBA{R: 0xc8, G: 0xf0, B: 0x8c, A: 0xff}
)

// ErrEmptyStack is returned when a PopState has no matching PushState.
// It means the command stream is malformed, not that something went wrong at runtime.
var ErrEmptyStack = errors.New("no pushed state to retrieve")

// Line is a segment drawn by a Forward command
type Line struct {
	X0, Y0 float64
	X1, Y1 float64
	Color  color.RGBA
}

type state struct {
	x, y, dir float64
}

// Run walks the commands starting at (x, y) heading upwards (y grows downwards, as on screen)
// and returns the segments in command order. Distances are multiplied by scale.
func Run(cmds []Command, x float64, y float64, scale float64) ([]Line, error) {
	col := Dark
	dir := -math.Pi / 2
	var stack []state
	lines := make([]Line, 0, countForwards(cmds))

	for i, cmd := range cmds {
		switch cmd.Op {
		case Forward:
			nx, ny := x+math.Cos(dir)*cmd.Value*scale, y+math.Sin(dir)*cmd.Value*scale
			lines = append(lines, Line{x, y, nx, ny, col})
			x, y = nx, ny
		case Move:
			x, y = x+math.Cos(dir)*cmd.Value*scale, y+math.Sin(dir)*cmd.Value*scale
		case Turn:
			dir -= math.Pi * 2 * cmd.Value
		case TurnUpwards:
			sign := -1.0
			if math.Cos(dir) > 0 {
				sign = 1
			}
			dir -= math.Pi * 2 * cmd.Value * sign
		case PushState:
			stack = append(stack, state{x, y, dir})
		case PopState:
			if len(stack) == 0 {
				return nil, errors.Wrapf(ErrEmptyStack, "command %d", i)
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y, dir = top.x, top.y, top.dir
		case SetColor:
			col = cmd.Color
		default:
			return nil, errors.Errorf("command %d: unknown op %v", i, cmd.Op)
		}
	}

	return lines, nil
}

func countForwards(cmds []Command) int {
	n := 0
	for _, cmd := range cmds {
		if cmd.Op == Forward {
			n++
		}
	}
	return n
}

// Bounds returns the extent of the segments' endpoints.
// ok is false for an empty list.
func Bounds(lines []Line) (xMin, yMin, xMax, yMax float64, ok bool) {
	if len(lines) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		xMin = math.Min(xMin, math.Min(l.X0, l.X1))
		xMax = math.Max(xMax, math.Max(l.X0, l.X1))
		yMin = math.Min(yMin, math.Min(l.Y0, l.Y1))
		yMax = math.Max(yMax, math.Max(l.Y0, l.Y1))
	}
	return xMin, yMin, xMax, yMax, true
}
