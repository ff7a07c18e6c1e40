package kernel

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewBox returns the box spanning min to max.
func NewBox(min, max r3.Vec) r3.Box {
	return r3.Box{Min: min, Max: max}
}

// BoxAt returns the box of the given size whose minimum corner is origin.
func BoxAt(origin, size r3.Vec) r3.Box {
	return r3.Box{Min: origin, Max: r3.Add(origin, size)}
}

// Size returns the edge lengths of b.
func Size(b r3.Box) r3.Vec {
	return r3.Sub(b.Max, b.Min)
}

// Center returns the midpoint of b.
func Center(b r3.Box) r3.Vec {
	return r3.Scale(0.5, r3.Add(b.Min, b.Max))
}

// Union returns the smallest box containing a and b.
func Union(a, b r3.Box) r3.Box {
	return r3.Box{
		Min: r3.Vec{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y), Z: math.Min(a.Min.Z, b.Min.Z)},
		Max: r3.Vec{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y), Z: math.Max(a.Max.Z, b.Max.Z)},
	}
}

// Translate shifts b by offset.
func Translate(b r3.Box, offset r3.Vec) r3.Box {
	return r3.Box{Min: r3.Add(b.Min, offset), Max: r3.Add(b.Max, offset)}
}

// Overlaps reports whether a and b share interior volume.
func Overlaps(a, b r3.Box) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y &&
		a.Min.Z < b.Max.Z && b.Min.Z < a.Max.Z
}

// Margins returns how far inner sits inside outer on each side: lo holds the
// gaps on the minimum sides, hi those on the maximum sides. Negative values
// mean inner pokes out.
func Margins(outer, inner r3.Box) (lo, hi r3.Vec) {
	return r3.Sub(inner.Min, outer.Min), r3.Sub(outer.Max, inner.Max)
}

// BoxFace returns the face of b on the side given by d.
func BoxFace(b r3.Box, d Direction) Face {
	c := Center(b)
	s := Size(b)
	f := Face{Direction: d, Center: c}
	switch d.Axis {
	case AxisX:
		f.U, f.V = AxisY.Unit(), AxisZ.Unit()
		f.Width, f.Height = s.Y, s.Z
		f.Center.X = pick(d, b.Min.X, b.Max.X)
	case AxisY:
		f.U, f.V = AxisX.Unit(), AxisZ.Unit()
		f.Width, f.Height = s.X, s.Z
		f.Center.Y = pick(d, b.Min.Y, b.Max.Y)
	default:
		f.U, f.V = AxisX.Unit(), AxisY.Unit()
		f.Width, f.Height = s.X, s.Y
		f.Center.Z = pick(d, b.Min.Z, b.Max.Z)
	}
	return f
}

func pick(d Direction, lo, hi float64) float64 {
	if d.Negative {
		return lo
	}
	return hi
}

// FaceEdges returns the four boundary edges of a rectangular face, filtered
// to those running along axis.
func FaceEdges(f Face, axis Axis) []Edge {
	hu := r3.Scale(f.Width/2, f.U)
	hv := r3.Scale(f.Height/2, f.V)
	corner := func(su, sv float64) r3.Vec {
		return r3.Add(f.Center, r3.Add(r3.Scale(su, hu), r3.Scale(sv, hv)))
	}
	all := []Edge{
		{From: corner(-1, -1), To: corner(1, -1)}, // along U
		{From: corner(-1, 1), To: corner(1, 1)},   // along U
		{From: corner(-1, -1), To: corner(-1, 1)}, // along V
		{From: corner(1, -1), To: corner(1, 1)},   // along V
	}
	var edges []Edge
	for _, e := range all {
		if a, ok := e.Axis(); ok && a == axis {
			edges = append(edges, e)
		}
	}
	return edges
}
