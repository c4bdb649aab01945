// Package raster caches a plant's line art as a small pixel buffer so it can be blitted every frame
// without walking the turtle again.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/garden-nomes/sprout/turtle"
)

// Cell values
const (
	Empty uint8 = iota
	Stem
	Tip
)

// Cache holds one byte per pixel of the bounding box of the last rebuilt lines
type Cache struct {
	stem color.RGBA
	tip  color.RGBA

	cells  []uint8
	bounds image.Rectangle
	built  bool
}

func New(stem color.RGBA, tip color.RGBA) *Cache {
	return &Cache{stem: stem, tip: tip}
}

// round matches the half-up rounding the line art was designed with
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

type pixelLine struct {
	x0, y0, x1, y1 int
	color          color.RGBA
}

// Rebuild rasterizes the endpoints of every line.
// Stem-colored endpoints are stamped first and tip-colored ones after, so tips always win where they overlap.
// Lines of any other color only count towards the bounding box.
func (c *Cache) Rebuild(lines []turtle.Line) {
	c.built = true

	if len(lines) == 0 {
		c.cells = c.cells[:0]
		c.bounds = image.Rectangle{}
		return
	}

	rounded := make([]pixelLine, len(lines))
	xMin, yMin := math.MaxInt, math.MaxInt
	xMax, yMax := math.MinInt, math.MinInt
	for i, l := range lines {
		pl := pixelLine{round(l.X0), round(l.Y0), round(l.X1), round(l.Y1), l.Color}
		rounded[i] = pl

		xMin = min(xMin, pl.x0, pl.x1)
		xMax = max(xMax, pl.x0, pl.x1)
		yMin = min(yMin, pl.y0, pl.y1)
		yMax = max(yMax, pl.y0, pl.y1)
	}

	c.bounds = image.Rect(xMin, yMin, xMax+1, yMax+1)
	size := c.bounds.Dx() * c.bounds.Dy()
	if cap(c.cells) < size {
		c.cells = make([]uint8, size)
	} else {
		c.cells = c.cells[:size]
		for i := range c.cells {
			c.cells[i] = Empty
		}
	}

	c.stamp(rounded, c.stem, Stem)
	c.stamp(rounded, c.tip, Tip)
}

func (c *Cache) stamp(lines []pixelLine, col color.RGBA, value uint8) {
	for _, l := range lines {
		if l.color != col {
			continue
		}
		c.cells[c.index(l.x0, l.y0)] = value
		c.cells[c.index(l.x1, l.y1)] = value
	}
}

func (c *Cache) index(x, y int) int {
	return (y-c.bounds.Min.Y)*c.bounds.Dx() + (x - c.bounds.Min.X)
}

// Built reports whether Rebuild has been called at least once
func (c *Cache) Built() bool {
	return c.built
}

// Bounds is the cached area in plant space, the plant base being at (0, 0)
func (c *Cache) Bounds() image.Rectangle {
	return c.bounds
}

// At returns the cell value at (x, y) in plant space, Empty outside of the bounds
func (c *Cache) At(x, y int) uint8 {
	if !(image.Point{x, y}).In(c.bounds) {
		return Empty
	}
	return c.cells[c.index(x, y)]
}

// Len is the number of non-empty cells
func (c *Cache) Len() int {
	n := 0
	for _, v := range c.cells {
		if v != Empty {
			n++
		}
	}
	return n
}

// Draw blits the cache with its base at (x, y) of dst
func (c *Cache) Draw(dst draw.Image, x float64, y float64) {
	c.draw(dst, x, y, nil)
}

// DrawHighlighted blits the cache with every pixel painted col
func (c *Cache) DrawHighlighted(dst draw.Image, x float64, y float64, col color.Color) {
	c.draw(dst, x, y, col)
}

func (c *Cache) draw(dst draw.Image, x float64, y float64, override color.Color) {
	if len(c.cells) == 0 {
		return
	}

	ox, oy := round(x)+c.bounds.Min.X, round(y)+c.bounds.Min.Y
	w := c.bounds.Dx()
	for i, v := range c.cells {
		if v == Empty {
			continue
		}

		var col color.Color
		switch {
		case override != nil:
			col = override
		case v == Stem:
			col = c.stem
		default:
			col = c.tip
		}
		dst.Set(ox+i%w, oy+i/w, col)
	}
}
