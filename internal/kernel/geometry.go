package kernel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is a principal axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	default:
		return "Z"
	}
}

// Unit returns the positive unit vector of a.
func (a Axis) Unit() r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: 1}
	case AxisY:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// Component returns the coordinate of v along a.
func (a Axis) Component(v r3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Direction is a signed principal axis.
type Direction struct {
	Axis     Axis
	Negative bool
}

var (
	PosX = Direction{Axis: AxisX}
	NegX = Direction{Axis: AxisX, Negative: true}
	PosY = Direction{Axis: AxisY}
	NegY = Direction{Axis: AxisY, Negative: true}
	PosZ = Direction{Axis: AxisZ}
	NegZ = Direction{Axis: AxisZ, Negative: true}
)

// String renders the direction as a face selector, ">Z" or "<Z".
func (d Direction) String() string {
	if d.Negative {
		return "<" + d.Axis.String()
	}
	return ">" + d.Axis.String()
}

// Normal returns the unit vector pointing along d.
func (d Direction) Normal() r3.Vec {
	if d.Negative {
		return r3.Scale(-1, d.Axis.Unit())
	}
	return d.Axis.Unit()
}

// Face is a planar rectangular face with a local 2D frame. Face coordinates
// (u, v) map to Center + u*U + v*V.
type Face struct {
	Direction Direction
	Center    r3.Vec
	U, V      r3.Vec  // in-plane unit axes
	Width     float64 // extent along U
	Height    float64 // extent along V
}

// Normal returns the outward normal of f.
func (f Face) Normal() r3.Vec {
	return f.Direction.Normal()
}

// Inward returns the unit vector pointing into the solid.
func (f Face) Inward() r3.Vec {
	return r3.Scale(-1, f.Direction.Normal())
}

// Point maps face coordinates to world coordinates.
func (f Face) Point(p r2.Vec) r3.Vec {
	return r3.Add(f.Center, r3.Add(r3.Scale(p.X, f.U), r3.Scale(p.Y, f.V)))
}

// Local maps a world point onto face coordinates.
func (f Face) Local(p r3.Vec) r2.Vec {
	d := r3.Sub(p, f.Center)
	return r2.Vec{X: r3.Dot(d, f.U), Y: r3.Dot(d, f.V)}
}

// Holds reports whether a disc of the given radius centered on p lies on f.
func (f Face) Holds(p r2.Vec, radius float64) bool {
	const tol = 1e-9
	return math.Abs(p.X)+radius <= f.Width/2+tol && math.Abs(p.Y)+radius <= f.Height/2+tol
}

// Edge is a straight edge between two points.
type Edge struct {
	From, To r3.Vec
}

// Length returns the edge length.
func (e Edge) Length() float64 {
	return r3.Norm(r3.Sub(e.To, e.From))
}

// Axis returns the principal axis e runs along, if any.
func (e Edge) Axis() (Axis, bool) {
	d := r3.Sub(e.To, e.From)
	const tol = 1e-9
	switch {
	case math.Abs(d.Y) < tol && math.Abs(d.Z) < tol && math.Abs(d.X) > tol:
		return AxisX, true
	case math.Abs(d.X) < tol && math.Abs(d.Z) < tol && math.Abs(d.Y) > tol:
		return AxisY, true
	case math.Abs(d.X) < tol && math.Abs(d.Y) < tol && math.Abs(d.Z) > tol:
		return AxisZ, true
	}
	return 0, false
}

func (e Edge) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)-(%.3f, %.3f, %.3f)",
		e.From.X, e.From.Y, e.From.Z, e.To.X, e.To.Y, e.To.Z)
}
