// Package csg implements kernel.Kernel with point-membership solids from
// model3d. Solids are combined lazily and only meshed when written out.
package csg

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

const (
	// tolerance for deciding whether a coordinate lies on the hull.
	hullTolerance = 1e-6

	// holes start this far outside their face so the bore opens cleanly.
	drillLeadIn = 0.01

	// marching cubes bisection steps per edge crossing.
	meshSearchIterations = 8
)

// Kernel builds solids as model3d point-membership trees.
type Kernel struct{}

// New creates a Kernel.
func New() *Kernel {
	return &Kernel{}
}

var _ kernel.Kernel = (*Kernel)(nil)

type solid struct {
	id       string
	model    model3d.Solid
	bounds   r3.Box
	features []kernel.Feature
}

func newSolid(m model3d.Solid, bounds r3.Box, features []kernel.Feature) *solid {
	return &solid{
		id:       uuid.New().String()[:8],
		model:    m,
		bounds:   bounds,
		features: features,
	}
}

func (s *solid) ID() string { return s.id }

func (s *solid) Bounds() r3.Box { return s.bounds }

func (s *solid) Contains(p r3.Vec) bool { return s.model.Contains(toCoord(p)) }

func (s *solid) Features() []kernel.Feature {
	out := make([]kernel.Feature, len(s.features))
	copy(out, s.features)
	return out
}

// Face returns the bounding-box face on side d.
func (s *solid) Face(d kernel.Direction) (kernel.Face, error) {
	if d.Axis < kernel.AxisX || d.Axis > kernel.AxisZ {
		return kernel.Face{}, fmt.Errorf("unknown axis %d", d.Axis)
	}
	return kernel.BoxFace(s.bounds, d), nil
}

// Edges returns the edges of f that run along axis.
func (s *solid) Edges(f kernel.Face, axis kernel.Axis) []kernel.Edge {
	return kernel.FaceEdges(f, axis)
}

func (s *solid) with(kind kernel.FeatureKind, count int, note string) []kernel.Feature {
	out := make([]kernel.Feature, 0, len(s.features)+1)
	out = append(out, s.features...)
	return append(out, kernel.Feature{Kind: kind, Count: count, Note: note})
}

func unwrap(s kernel.Solid) (*solid, error) {
	cs, ok := s.(*solid)
	if !ok || cs == nil {
		return nil, fmt.Errorf("solid %T was not built by this kernel", s)
	}
	return cs, nil
}

// CenteredBox returns a box of the given size centered on the origin.
func (k *Kernel) CenteredBox(size r3.Vec) (kernel.Solid, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("box size (%.3f, %.3f, %.3f) must be positive", size.X, size.Y, size.Z)
	}
	half := r3.Scale(0.5, size)
	bounds := kernel.NewBox(r3.Scale(-1, half), half)
	rect := &model3d.Rect{MinVal: toCoord(bounds.Min), MaxVal: toCoord(bounds.Max)}
	return newSolid(rect, bounds, []kernel.Feature{{Kind: kernel.FeatureBox}}), nil
}

// Translate moves s by the given offset.
func (k *Kernel) Translate(s kernel.Solid, by r3.Vec) kernel.Solid {
	cs, err := unwrap(s)
	if err != nil {
		return s
	}
	return newSolid(
		&translated{inner: cs.model, offset: toCoord(by)},
		kernel.Translate(cs.bounds, by),
		cs.Features(),
	)
}

// Union joins a and b.
func (k *Kernel) Union(a, b kernel.Solid) (kernel.Solid, error) {
	ca, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	cb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	features := append(ca.Features(), cb.features...)
	features = append(features, kernel.Feature{Kind: kernel.FeatureUnion})
	return newSolid(
		model3d.JoinedSolid{ca.model, cb.model},
		kernel.Union(ca.bounds, cb.bounds),
		features,
	), nil
}

// Cut removes b from a. The result keeps the bounds of a.
func (k *Kernel) Cut(a, b kernel.Solid) (kernel.Solid, error) {
	ca, err := unwrap(a)
	if err != nil {
		return nil, err
	}
	cb, err := unwrap(b)
	if err != nil {
		return nil, err
	}
	if !kernel.Overlaps(ca.bounds, cb.bounds) {
		return nil, fmt.Errorf("cut tool %s does not touch solid %s", cb.id, ca.id)
	}
	return newSolid(
		&model3d.SubtractedSolid{Positive: ca.model, Negative: cb.model},
		ca.bounds,
		ca.with(kernel.FeatureCut, 1, ""),
	), nil
}

// Chamfer bevels hull edges of s by distance on both adjacent faces.
func (k *Kernel) Chamfer(s kernel.Solid, edges []kernel.Edge, distance float64) (kernel.Solid, error) {
	cs, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	if distance <= 0 {
		return nil, fmt.Errorf("chamfer distance %.3f must be positive", distance)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("no edges selected for chamfer")
	}

	size := kernel.Size(cs.bounds)
	tools := make(model3d.JoinedSolid, 0, len(edges))
	for _, e := range edges {
		prism, err := newCornerPrism(cs.bounds, e, distance)
		if err != nil {
			return nil, err
		}
		if distance >= prism.a.Component(size) || distance >= prism.b.Component(size) {
			return nil, fmt.Errorf("chamfer %.3f does not fit the faces next to edge %s", distance, e)
		}
		tools = append(tools, prism)
	}

	return newSolid(
		&model3d.SubtractedSolid{Positive: cs.model, Negative: tools},
		cs.bounds,
		cs.with(kernel.FeatureChamfer, len(edges), fmt.Sprintf("%.3f", distance)),
	), nil
}

// Drill bores blind holes into s normal to face.
func (k *Kernel) Drill(s kernel.Solid, face kernel.Face, centers []r2.Vec, diameter, depth, mouthChamfer float64) (kernel.Solid, error) {
	cs, err := unwrap(s)
	if err != nil {
		return nil, err
	}
	radius := diameter / 2
	switch {
	case diameter <= 0:
		return nil, fmt.Errorf("hole diameter %.3f must be positive", diameter)
	case depth <= 0:
		return nil, fmt.Errorf("hole depth %.3f must be positive", depth)
	case mouthChamfer < 0:
		return nil, fmt.Errorf("mouth chamfer %.3f must not be negative", mouthChamfer)
	case mouthChamfer >= radius || mouthChamfer >= depth:
		return nil, fmt.Errorf("mouth chamfer %.3f must be smaller than the hole radius %.3f and depth %.3f",
			mouthChamfer, radius, depth)
	case len(centers) == 0:
		return nil, fmt.Errorf("no hole centers given")
	}

	in := face.Inward()
	holes := make(model3d.JoinedSolid, 0, len(centers))
	for _, c := range centers {
		if !face.Holds(c, radius+mouthChamfer) {
			return nil, fmt.Errorf("hole at (%.3f, %.3f) with radius %.3f leaves the %s face",
				c.X, c.Y, radius+mouthChamfer, face.Direction)
		}
		mouth := face.Point(c)
		start := r3.Sub(mouth, r3.Scale(drillLeadIn, in))
		holes = append(holes, &model3d.Cylinder{
			P1:     toCoord(start),
			P2:     toCoord(r3.Add(mouth, r3.Scale(depth, in))),
			Radius: radius,
		})
		if mouthChamfer > 0 {
			// 45° cone from outside the face to depth mouthChamfer.
			holes = append(holes, newFrustum(start, r3.Add(mouth, r3.Scale(mouthChamfer, in)),
				radius+mouthChamfer+drillLeadIn, radius))
		}
	}

	return newSolid(
		&model3d.SubtractedSolid{Positive: cs.model, Negative: holes},
		cs.bounds,
		cs.with(kernel.FeatureDrill, len(centers), face.Direction.String()),
	), nil
}

// Extrude sweeps a closed profile drawn on face into the solid side.
func (k *Kernel) Extrude(face kernel.Face, profile []r2.Vec, offset, distance float64) (kernel.Solid, error) {
	if len(profile) < 3 {
		return nil, fmt.Errorf("profile needs at least 3 points, got %d", len(profile))
	}
	if distance <= 0 {
		return nil, fmt.Errorf("extrude distance %.3f must be positive", distance)
	}
	if math.Abs(polygonArea(profile)) < hullTolerance {
		return nil, fmt.Errorf("profile is degenerate")
	}

	p := newPrism(face, profile, offset, distance)
	return newSolid(p, p.bounds, []kernel.Feature{{Kind: kernel.FeatureExtrude, Count: len(profile)}}), nil
}

// WriteSTL meshes s with marching cubes and writes a binary STL file.
func (k *Kernel) WriteSTL(path string, s kernel.Solid, resolution float64) error {
	cs, err := unwrap(s)
	if err != nil {
		return err
	}
	if resolution <= 0 {
		return fmt.Errorf("mesh resolution %.3f must be positive", resolution)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	mesh := model3d.MarchingCubesSearch(cs.model, resolution, meshSearchIterations)
	if len(mesh.TriangleSlice()) == 0 {
		return fmt.Errorf("solid %s meshed to nothing at resolution %.3f", cs.id, resolution)
	}
	if err := mesh.SaveGroupedSTL(path); err != nil {
		return fmt.Errorf("failed to write STL: %w", err)
	}
	return nil
}

// Concurrent reports true: solids are immutable trees with no shared state.
func (k *Kernel) Concurrent() bool {
	return true
}

func toCoord(v r3.Vec) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

func toVec(c model3d.Coord3D) r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}
