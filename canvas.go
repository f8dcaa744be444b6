// canvas.go — drawing surfaces the interpreter renders onto.
//
// The interpreter never touches pixels. It hands every pen-down move to a
// Canvas and adopts the endpoint the canvas reports back, so the drawing
// backend is the single authority on geometry. Image is the concrete raster
// backend; tests substitute recorders.
//
// Geometry convention: heading 0 points along +y and angles grow clockwise,
// so a move of distance d at heading h lands at
//
//	(x + d*sin(h), y + d*cos(h))
//
// Segments that leave the image bounds are clipped silently while the
// turtle itself keeps its off-canvas coordinates.
package rslogo

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Canvas is the drawing surface contract the interpreter programs against.
type Canvas interface {
	// Size reports the surface dimensions in pixels.
	Size() (width, height int)

	// DrawLine draws a segment of length dist from (x, y) at headingDeg,
	// in the palette color colorIdx, and returns the segment's endpoint.
	DrawLine(x, y float32, headingDeg int, dist float32, colorIdx int) (newX, newY float32, err error)
}

// EndCoordinates computes where a move of dist at headingDeg ends, without
// drawing anything. Pen-up moves use this directly.
func EndCoordinates(x, y float32, headingDeg int, dist float32) (float32, float32) {
	rad := float64(headingDeg) * math.Pi / 180
	return x + dist*float32(math.Sin(rad)), y + dist*float32(math.Cos(rad))
}

// Image is a raster canvas. It keeps both the pixel grid and the list of
// drawn segments, so the same session can be saved as PNG or SVG.
type Image struct {
	img      *image.RGBA
	palette  Palette
	segments []segment
}

// NewImage creates a width x height canvas with a black background.
func NewImage(width, height int, palette Palette) *Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}
	return &Image{img: img, palette: palette}
}

func (c *Image) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// DrawLine rasterizes the segment and records it for vector output. A
// non-finite distance is rejected; an out-of-range color index cannot occur
// when called through the interpreter but is still rejected here so the
// canvas stands on its own.
func (c *Image) DrawLine(x, y float32, headingDeg int, dist float32, colorIdx int) (float32, float32, error) {
	if math.IsNaN(float64(dist)) || math.IsInf(float64(dist), 0) {
		return x, y, fmt.Errorf("cannot draw a line of non-finite length %v", dist)
	}
	if colorIdx < 0 || colorIdx >= len(c.palette) {
		return x, y, fmt.Errorf("color index %d is outside the palette", colorIdx)
	}

	nx, ny := EndCoordinates(x, y, headingDeg, dist)
	c.rasterize(x, y, nx, ny, c.palette[colorIdx])
	c.segments = append(c.segments, segment{x, y, nx, ny, colorIdx})
	return nx, ny, nil
}

// SavePNG writes the pixel grid to path.
func (c *Image) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, c.img)
}

// SaveSVG writes the recorded segments as an SVG document to path.
func (c *Image) SaveSVG(path string) error {
	w, h := c.Size()

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="black"/>`+"\n", w, h)
	for _, s := range c.segments {
		col := c.palette[s.colorIdx]
		fmt.Fprintf(&b, `<line x1="%g" y1="%g" x2="%g" y2="%g" stroke="#%02x%02x%02x" stroke-width="1"/>`+"\n",
			s.x1, s.y1, s.x2, s.y2, col.R, col.G, col.B)
	}
	b.WriteString("</svg>\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                                   PRIVATE
////////////////////////////////////////////////////////////////////////////////

type segment struct {
	x1, y1, x2, y2 float32
	colorIdx       int
}

// rasterize plots the segment by stepping one unit at a time along its
// longer axis. Points outside the bounds are dropped; img.Set already
// ignores them, so no explicit clipping is needed.
func (c *Image) rasterize(x1, y1, x2, y2 float32, col color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}
	n := int(math.Ceil(steps))
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		px := int(math.Round(float64(x1) + dx*t))
		py := int(math.Round(float64(y1) + dy*t))
		c.img.SetRGBA(px, py, col)
	}
}
