package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/garden-nomes/sprout/raster"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

// cacheImage draws the cache on a transparent image fitted to its bounds
func cacheImage(c *raster.Cache) *image.RGBA {
	b := c.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	c.Draw(img, float64(-b.Min.X), float64(-b.Min.Y))
	return img
}

// xterm256 maps a color onto the 6x6x6 cube of the 256 color palette
func xterm256(c color.RGBA) uint8 {
	level := func(v uint8) uint8 {
		return uint8((int(v)*5 + 127) / 255)
	}
	return 16 + 36*level(c.R) + 6*level(c.G) + level(c.B)
}

// halfBlocks renders two pixel rows per text line with upper and lower half block characters.
// Fully transparent pixels are left blank.
func halfBlocks(au aurora.Aurora, img *image.RGBA) string {
	var b bytes.Buffer
	r := img.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y += 2 {
		if y != r.Min.Y {
			b.WriteByte('\n')
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			top := img.RGBAAt(x, y)
			var bottom color.RGBA
			if y+1 < r.Max.Y {
				bottom = img.RGBAAt(x, y+1)
			}

			switch {
			case top.A == 0 && bottom.A == 0:
				b.WriteByte(' ')
			case bottom.A == 0:
				b.WriteString(au.Index(xterm256(top), "▀").String())
			case top.A == 0:
				b.WriteString(au.Index(xterm256(bottom), "▄").String())
			default:
				b.WriteString(au.Index(xterm256(top), "▀").BgIndex(xterm256(bottom)).String())
			}
		}
	}
	return b.String()
}

// writePNG saves the specimen as <dir>/<name>-<index>.png
func writePNG(dir string, s *specimen) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.png", s.name, s.index))
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "couldn't create %s", path)
	}
	defer f.Close()

	if err := png.Encode(f, cacheImage(s.cache)); err != nil {
		return "", errors.Wrapf(err, "couldn't encode %s", path)
	}
	return path, nil
}
