package model

import "gonum.org/v1/gonum/spatial/r2"

// gridTolerance absorbs rounding when a footprint touches the face edge.
const gridTolerance = 1e-9

// GridCenters returns the hole centers of a in face coordinates, relative to
// the face center. The grid is centered on (OffsetX, OffsetY); X varies
// slowest.
func GridCenters(a HoleArray) []r2.Vec {
	centers := make([]r2.Vec, 0, a.Count())
	x0 := a.OffsetX - float64(a.CountX-1)*a.PitchX/2
	y0 := a.OffsetY - float64(a.CountY-1)*a.PitchY/2
	for i := 0; i < a.CountX; i++ {
		for j := 0; j < a.CountY; j++ {
			centers = append(centers, r2.Vec{
				X: x0 + float64(i)*a.PitchX,
				Y: y0 + float64(j)*a.PitchY,
			})
		}
	}
	return centers
}

// GridExtent returns the min and max corners of the area covered by the hole
// mouths, relative to the face center.
func GridExtent(a HoleArray) (min, max r2.Vec) {
	halfX := float64(a.CountX-1)*a.PitchX/2 + a.MouthRadius()
	halfY := float64(a.CountY-1)*a.PitchY/2 + a.MouthRadius()
	min = r2.Vec{X: a.OffsetX - halfX, Y: a.OffsetY - halfY}
	max = r2.Vec{X: a.OffsetX + halfX, Y: a.OffsetY + halfY}
	return min, max
}

// GridFits reports whether every hole footprint of a lies within a face of
// the given width (along X) and height (along Y).
func GridFits(a HoleArray, faceWidth, faceHeight float64) bool {
	min, max := GridExtent(a)
	return min.X >= -faceWidth/2-gridTolerance && max.X <= faceWidth/2+gridTolerance &&
		min.Y >= -faceHeight/2-gridTolerance && max.Y <= faceHeight/2+gridTolerance
}
