package csg

import (
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

// translated is inner shifted by offset.
type translated struct {
	inner  model3d.Solid
	offset model3d.Coord3D
}

func (t *translated) Min() model3d.Coord3D { return t.inner.Min().Add(t.offset) }
func (t *translated) Max() model3d.Coord3D { return t.inner.Max().Add(t.offset) }

func (t *translated) Contains(c model3d.Coord3D) bool {
	return t.inner.Contains(c.Sub(t.offset))
}

// cornerPrism is the triangular sliver removed when chamfering a hull edge.
// In the edge's cross-section, with u and v measured inward from the corner,
// it holds u+v < d.
type cornerPrism struct {
	along  kernel.Axis
	lo, hi float64

	a, b   kernel.Axis
	ca, cb float64 // corner position
	sa, sb float64 // +1 when the solid lies on the positive side

	d        float64
	min, max model3d.Coord3D
}

func newCornerPrism(bounds r3.Box, e kernel.Edge, d float64) (*cornerPrism, error) {
	along, ok := e.Axis()
	if !ok {
		return nil, fmt.Errorf("edge %s is not axis aligned", e)
	}
	p := &cornerPrism{along: along, d: d}
	p.lo = math.Min(along.Component(e.From), along.Component(e.To))
	p.hi = math.Max(along.Component(e.From), along.Component(e.To))
	p.a, p.b = (along+1)%3, (along+2)%3

	var err error
	if p.ca, p.sa, err = hullSide(bounds, p.a, e.From); err != nil {
		return nil, fmt.Errorf("edge %s is not on the hull: %w", e, err)
	}
	if p.cb, p.sb, err = hullSide(bounds, p.b, e.From); err != nil {
		return nil, fmt.Errorf("edge %s is not on the hull: %w", e, err)
	}

	var lo, hi r3.Vec
	set := func(v *r3.Vec, axis kernel.Axis, value float64) {
		switch axis {
		case kernel.AxisX:
			v.X = value
		case kernel.AxisY:
			v.Y = value
		default:
			v.Z = value
		}
	}
	set(&lo, along, p.lo)
	set(&hi, along, p.hi)
	set(&lo, p.a, p.ca-d)
	set(&hi, p.a, p.ca+d)
	set(&lo, p.b, p.cb-d)
	set(&hi, p.b, p.cb+d)
	p.min, p.max = toCoord(lo), toCoord(hi)
	return p, nil
}

func hullSide(bounds r3.Box, axis kernel.Axis, p r3.Vec) (corner, sign float64, err error) {
	v := axis.Component(p)
	switch {
	case math.Abs(v-axis.Component(bounds.Min)) < hullTolerance:
		return v, 1, nil
	case math.Abs(v-axis.Component(bounds.Max)) < hullTolerance:
		return v, -1, nil
	}
	return 0, 0, fmt.Errorf("%s=%.3f is inside the solid", axis, v)
}

func (p *cornerPrism) Min() model3d.Coord3D { return p.min }
func (p *cornerPrism) Max() model3d.Coord3D { return p.max }

func (p *cornerPrism) Contains(c model3d.Coord3D) bool {
	v := toVec(c)
	along := p.along.Component(v)
	if along < p.lo || along > p.hi {
		return false
	}
	du := p.sa * (p.a.Component(v) - p.ca)
	dv := p.sb * (p.b.Component(v) - p.cb)
	return du > -p.d && dv > -p.d && du < p.d && dv < p.d && du+dv < p.d
}

// frustum is a truncated cone from p1 (radius r1) to p2 (radius r2).
type frustum struct {
	p1     r3.Vec
	axis   r3.Vec
	length float64
	r1, r2 float64

	min, max model3d.Coord3D
}

func newFrustum(p1, p2 r3.Vec, r1, r2 float64) *frustum {
	d := r3.Sub(p2, p1)
	length := r3.Norm(d)
	r := math.Max(r1, r2)
	pad := r3.Vec{X: r, Y: r, Z: r}
	lo := r3.Vec{X: math.Min(p1.X, p2.X), Y: math.Min(p1.Y, p2.Y), Z: math.Min(p1.Z, p2.Z)}
	hi := r3.Vec{X: math.Max(p1.X, p2.X), Y: math.Max(p1.Y, p2.Y), Z: math.Max(p1.Z, p2.Z)}
	return &frustum{
		p1:     p1,
		axis:   r3.Scale(1/length, d),
		length: length,
		r1:     r1,
		r2:     r2,
		min:    toCoord(r3.Sub(lo, pad)),
		max:    toCoord(r3.Add(hi, pad)),
	}
}

func (f *frustum) Min() model3d.Coord3D { return f.min }
func (f *frustum) Max() model3d.Coord3D { return f.max }

func (f *frustum) Contains(c model3d.Coord3D) bool {
	rel := r3.Sub(toVec(c), f.p1)
	t := r3.Dot(rel, f.axis)
	if t < 0 || t > f.length {
		return false
	}
	radial := r3.Norm(r3.Sub(rel, r3.Scale(t, f.axis)))
	return radial <= f.r1+(f.r2-f.r1)*t/f.length
}

// prism is a planar polygon swept along a face's inward normal.
type prism struct {
	face    kernel.Face
	in      r3.Vec
	profile []r2.Vec
	near    float64
	far     float64
	bounds  r3.Box
}

func newPrism(face kernel.Face, profile []r2.Vec, offset, distance float64) *prism {
	p := &prism{
		face:    face,
		in:      face.Inward(),
		profile: append([]r2.Vec(nil), profile...),
		near:    offset,
		far:     offset + distance,
	}
	first := true
	for _, q := range profile {
		for _, depth := range []float64{p.near, p.far} {
			w := r3.Add(face.Point(q), r3.Scale(depth, p.in))
			b := kernel.NewBox(w, w)
			if first {
				p.bounds = b
				first = false
				continue
			}
			p.bounds = kernel.Union(p.bounds, b)
		}
	}
	return p
}

func (p *prism) Min() model3d.Coord3D { return toCoord(p.bounds.Min) }
func (p *prism) Max() model3d.Coord3D { return toCoord(p.bounds.Max) }

func (p *prism) Contains(c model3d.Coord3D) bool {
	v := toVec(c)
	depth := r3.Dot(r3.Sub(v, p.face.Center), p.in)
	if depth < p.near || depth > p.far {
		return false
	}
	return pointInPolygon(p.face.Local(v), p.profile)
}

// polygonArea returns the signed shoelace area of poly.
func polygonArea(poly []r2.Vec) float64 {
	var sum float64
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return sum / 2
}

// pointInPolygon is the even-odd crossing test.
func pointInPolygon(p r2.Vec, poly []r2.Vec) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
