package csg

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/unixpickle/model3d/model3d"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

var glyphFace = basicfont.Face7x13

// Text rasterises text with a fixed bitmap font and sweeps the lit pixels
// through the face by depth on either side.
func (k *Kernel) Text(face kernel.Face, center r2.Vec, text string, height, depth float64) (kernel.Solid, error) {
	switch {
	case strings.TrimSpace(text) == "":
		return nil, fmt.Errorf("label text is empty")
	case height <= 0:
		return nil, fmt.Errorf("text height %.3f must be positive", height)
	case depth <= 0:
		return nil, fmt.Errorf("text depth %.3f must be positive", depth)
	}

	img := rasterize(text)
	if !anyLit(img) {
		return nil, fmt.Errorf("label %q has no printable glyphs", text)
	}

	scale := height / float64(glyphFace.Height)
	w := float64(img.Bounds().Dx()) * scale
	h := float64(img.Bounds().Dy()) * scale
	g := &glyphs{
		face:   face,
		in:     face.Inward(),
		img:    img,
		origin: r2.Vec{X: center.X - w/2, Y: center.Y + h/2},
		scale:  scale,
		depth:  depth,
	}
	g.bounds = g.span(w, h)

	return newSolid(g, g.bounds, []kernel.Feature{{Kind: kernel.FeatureText, Count: len([]rune(text)), Note: text}}), nil
}

// MeasureText returns the width of text at the given line height.
func (k *Kernel) MeasureText(text string, height float64) float64 {
	px := font.MeasureString(glyphFace, text).Ceil()
	return float64(px) * height / float64(glyphFace.Height)
}

func rasterize(text string) *image.Alpha {
	width := font.MeasureString(glyphFace, text).Ceil()
	img := image.NewAlpha(image.Rect(0, 0, width, glyphFace.Height))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: glyphFace,
		Dot:  fixed.P(0, glyphFace.Ascent),
	}
	d.DrawString(text)
	return img
}

func anyLit(img *image.Alpha) bool {
	for _, a := range img.Pix {
		if a >= 0x80 {
			return true
		}
	}
	return false
}

// glyphs is a bitmap swept along a face normal.
type glyphs struct {
	face   kernel.Face
	in     r3.Vec
	img    *image.Alpha
	origin r2.Vec // top-left pixel corner, face coordinates
	scale  float64
	depth  float64
	bounds r3.Box
}

func (g *glyphs) span(w, h float64) r3.Box {
	corners := []r2.Vec{
		g.origin,
		{X: g.origin.X + w, Y: g.origin.Y},
		{X: g.origin.X, Y: g.origin.Y - h},
		{X: g.origin.X + w, Y: g.origin.Y - h},
	}
	var b r3.Box
	for i, c := range corners {
		for j, d := range []float64{-g.depth, g.depth} {
			p := r3.Add(g.face.Point(c), r3.Scale(d, g.in))
			if i == 0 && j == 0 {
				b = kernel.NewBox(p, p)
				continue
			}
			b = kernel.Union(b, kernel.NewBox(p, p))
		}
	}
	return b
}

func (g *glyphs) Min() model3d.Coord3D { return toCoord(g.bounds.Min) }
func (g *glyphs) Max() model3d.Coord3D { return toCoord(g.bounds.Max) }

func (g *glyphs) Contains(c model3d.Coord3D) bool {
	v := toVec(c)
	if d := r3.Dot(r3.Sub(v, g.face.Center), g.in); math.Abs(d) > g.depth {
		return false
	}
	local := g.face.Local(v)
	px := int(math.Floor((local.X - g.origin.X) / g.scale))
	py := int(math.Floor((g.origin.Y - local.Y) / g.scale))
	if !(image.Point{X: px, Y: py}).In(g.img.Bounds()) {
		return false
	}
	return g.img.AlphaAt(px, py).A >= 0x80
}
