// Package kernel defines the contract between the tray generator and a solid
// modeling kernel. The generator only decides which operations run and in
// which order; storing geometry, boolean robustness and meshing belong to the
// kernel implementation (see package csg).
package kernel

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solid is an immutable solid produced by a Kernel. Every operation returns a
// new Solid; inputs are never modified.
type Solid interface {
	// ID identifies the solid in logs and manifests.
	ID() string

	// Bounds returns the axis-aligned bounding box.
	Bounds() r3.Box

	// Contains reports whether p lies inside the solid.
	Contains(p r3.Vec) bool

	// Face returns the face whose outward normal is most aligned with d.
	Face(d Direction) (Face, error)

	// Edges returns the edges of f that run parallel to axis.
	Edges(f Face, axis Axis) []Edge

	// Features returns the ordered feature log of the solid.
	Features() []Feature
}

// Kernel builds and combines solids.
type Kernel interface {
	// CenteredBox returns a box of the given size centered on the origin.
	CenteredBox(size r3.Vec) (Solid, error)

	// Translate moves s by the given offset.
	Translate(s Solid, by r3.Vec) Solid

	Union(a, b Solid) (Solid, error)
	Cut(a, b Solid) (Solid, error)

	// Chamfer bevels each edge of s by distance on both adjacent faces.
	Chamfer(s Solid, edges []Edge, distance float64) (Solid, error)

	// Drill bores blind holes into s, normal to face, at centers given in
	// face coordinates. A positive mouthChamfer bevels the ring where each
	// bore leaves the face at 45°.
	Drill(s Solid, face Face, centers []r2.Vec, diameter, depth, mouthChamfer float64) (Solid, error)

	// Extrude sweeps the closed profile (face coordinates) from a plane
	// offset inward from face, distance further inward.
	Extrude(face Face, profile []r2.Vec, offset, distance float64) (Solid, error)

	// Text returns the glyphs of text as a solid sunk depth into face,
	// centered on center (face coordinates). Glyphs read along U with V up;
	// height is the font's line height.
	Text(face Face, center r2.Vec, text string, height, depth float64) (Solid, error)

	// MeasureText returns the width Text would give text at height.
	MeasureText(text string, height float64) float64

	// WriteSTL meshes s at the given resolution and writes it to path.
	WriteSTL(path string, s Solid, resolution float64) error

	// Concurrent reports whether independent solids may be built from
	// separate goroutines.
	Concurrent() bool
}

// FeatureKind names a kernel operation recorded in a feature log.
type FeatureKind string

const (
	FeatureBox     FeatureKind = "box"
	FeatureUnion   FeatureKind = "union"
	FeatureCut     FeatureKind = "cut"
	FeatureChamfer FeatureKind = "chamfer"
	FeatureDrill   FeatureKind = "drill"
	FeatureExtrude FeatureKind = "extrude"
	FeatureText    FeatureKind = "text"
)

// Feature is one entry of a solid's feature log. Drill entries carry the face
// selector (">Z", "<Z") in Note.
type Feature struct {
	Kind  FeatureKind `json:"kind"`
	Count int         `json:"count,omitempty"` // holes drilled or edges chamfered
	Note  string      `json:"note,omitempty"`
}

// CountFeatures sums Count over the features of the given kind.
func CountFeatures(features []Feature, kind FeatureKind) int {
	total := 0
	for _, f := range features {
		if f.Kind == kind {
			total += f.Count
		}
	}
	return total
}

// FeaturesOf returns the features of the given kind, in log order.
func FeaturesOf(features []Feature, kind FeatureKind) []Feature {
	var out []Feature
	for _, f := range features {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
