package csg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

// cube returns a 10mm cube spanning [0, 10] on every axis.
func cube(t *testing.T, k *Kernel) kernel.Solid {
	t.Helper()
	s, err := k.CenteredBox(r3.Vec{X: 10, Y: 10, Z: 10})
	require.NoError(t, err)
	return k.Translate(s, r3.Vec{X: 5, Y: 5, Z: 5})
}

func contains(t *testing.T, s kernel.Solid, x, y, z float64) bool {
	t.Helper()
	cs, err := unwrap(s)
	require.NoError(t, err)
	return cs.model.Contains(model3d.XYZ(x, y, z))
}

func TestCenteredBox(t *testing.T) {
	k := New()
	s, err := k.CenteredBox(r3.Vec{X: 4, Y: 6, Z: 8})
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: -2, Y: -3, Z: -4}, s.Bounds().Min)
	assert.Equal(t, r3.Vec{X: 2, Y: 3, Z: 4}, s.Bounds().Max)
	assert.Equal(t, 1, len(kernel.FeaturesOf(s.Features(), kernel.FeatureBox)))

	_, err = k.CenteredBox(r3.Vec{X: 4, Y: 0, Z: 8})
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	k := New()
	s := cube(t, k)
	assert.Equal(t, r3.Vec{}, s.Bounds().Min)
	assert.Equal(t, r3.Vec{X: 10, Y: 10, Z: 10}, s.Bounds().Max)
	assert.True(t, contains(t, s, 9, 9, 9))
	assert.False(t, contains(t, s, -1, 5, 5))
}

func TestChamfer(t *testing.T) {
	k := New()
	s := cube(t, k)
	face, err := s.Face(kernel.PosY)
	require.NoError(t, err)
	edges := s.Edges(face, kernel.AxisZ)
	require.Len(t, edges, 2)

	out, err := k.Chamfer(s, edges, 1)
	require.NoError(t, err)
	assert.Equal(t, s.Bounds(), out.Bounds())
	assert.Equal(t, 2, kernel.CountFeatures(out.Features(), kernel.FeatureChamfer))

	assert.False(t, contains(t, out, 0.2, 9.8, 5), "corner at x=0 should be bevelled")
	assert.False(t, contains(t, out, 9.8, 9.8, 5), "corner at x=10 should be bevelled")
	assert.True(t, contains(t, out, 0.8, 9.5, 5))
	assert.True(t, contains(t, out, 0.2, 0.2, 5), "unselected edge stays sharp")
}

func TestChamferRejects(t *testing.T) {
	k := New()
	s := cube(t, k)

	inner := kernel.Edge{From: r3.Vec{X: 5, Y: 5}, To: r3.Vec{X: 5, Y: 5, Z: 10}}
	_, err := k.Chamfer(s, []kernel.Edge{inner}, 1)
	assert.ErrorContains(t, err, "not on the hull")

	diagonal := kernel.Edge{From: r3.Vec{}, To: r3.Vec{X: 10, Z: 10}}
	_, err = k.Chamfer(s, []kernel.Edge{diagonal}, 1)
	assert.ErrorContains(t, err, "not axis aligned")

	face, _ := s.Face(kernel.PosY)
	_, err = k.Chamfer(s, s.Edges(face, kernel.AxisZ), 10)
	assert.ErrorContains(t, err, "does not fit")

	_, err = k.Chamfer(s, s.Edges(face, kernel.AxisZ), 0)
	assert.Error(t, err)
}

func TestDrill(t *testing.T) {
	k := New()
	s := cube(t, k)
	top, err := s.Face(kernel.PosZ)
	require.NoError(t, err)

	out, err := k.Drill(s, top, []r2.Vec{{}}, 4, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, kernel.CountFeatures(out.Features(), kernel.FeatureDrill))
	assert.Equal(t, ">Z", kernel.FeaturesOf(out.Features(), kernel.FeatureDrill)[0].Note)

	assert.False(t, contains(t, out, 5, 5, 9))
	assert.True(t, contains(t, out, 5, 5, 6.5), "below the hole floor")
	assert.True(t, contains(t, out, 5, 7.5, 9), "outside the bore")
}

func TestDrillMouthChamfer(t *testing.T) {
	k := New()
	s := cube(t, k)
	top, _ := s.Face(kernel.PosZ)

	out, err := k.Drill(s, top, []r2.Vec{{}}, 4, 3, 1)
	require.NoError(t, err)

	assert.False(t, contains(t, out, 7.7, 5, 9.9), "bevel just inside the mouth ring")
	assert.True(t, contains(t, out, 8.2, 5, 9.9), "face beyond the mouth ring")
	assert.True(t, contains(t, out, 7.5, 5, 9.2), "below the bevel at its outer edge")
	assert.False(t, contains(t, out, 6.9, 5, 7.1), "full bore near the floor")
	assert.True(t, contains(t, out, 5, 5, 6.9), "below the hole floor")
}

func TestDrillRejects(t *testing.T) {
	k := New()
	s := cube(t, k)
	top, _ := s.Face(kernel.PosZ)

	_, err := k.Drill(s, top, []r2.Vec{{X: 4}}, 4, 3, 0)
	assert.ErrorContains(t, err, "leaves the >Z face")

	_, err = k.Drill(s, top, []r2.Vec{{}}, 4, 3, 2)
	assert.ErrorContains(t, err, "mouth chamfer")

	_, err = k.Drill(s, top, []r2.Vec{{X: 2.5}}, 4, 3, 1)
	assert.ErrorContains(t, err, "leaves the >Z face", "mouth ring crosses the edge")

	_, err = k.Drill(s, top, nil, 4, 3, 0)
	assert.Error(t, err)
}

func TestExtrude(t *testing.T) {
	k := New()
	s := cube(t, k)
	side, err := s.Face(kernel.NegX)
	require.NoError(t, err)

	wedge, err := k.Extrude(side, []r2.Vec{{}, {X: 2}, {Y: 2}}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 1, Y: 5, Z: 5}, wedge.Bounds().Min)
	assert.Equal(t, r3.Vec{X: 4, Y: 7, Z: 7}, wedge.Bounds().Max)
	assert.True(t, contains(t, wedge, 2, 5.5, 5.5))
	assert.False(t, contains(t, wedge, 0.5, 5.5, 5.5))
	assert.False(t, contains(t, wedge, 2, 6.5, 6.5))

	_, err = k.Extrude(side, []r2.Vec{{}, {X: 1}, {X: 2}}, 0, 1)
	assert.ErrorContains(t, err, "degenerate")
}

func TestUnionAndCut(t *testing.T) {
	k := New()
	a := cube(t, k)
	b := k.Translate(a, r3.Vec{X: 20})

	u, err := k.Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, r3.Vec{X: 30, Y: 10, Z: 10}, u.Bounds().Max)
	assert.True(t, contains(t, u, 25, 5, 5))

	_, err = k.Cut(a, b)
	assert.ErrorContains(t, err, "does not touch")

	tool := k.Translate(a, r3.Vec{X: 5})
	cut, err := k.Cut(a, tool)
	require.NoError(t, err)
	assert.Equal(t, a.Bounds(), cut.Bounds())
	assert.True(t, contains(t, cut, 2, 5, 5))
	assert.False(t, contains(t, cut, 7, 5, 5))
}

func TestText(t *testing.T) {
	k := New()
	s := cube(t, k)
	top, _ := s.Face(kernel.PosZ)

	label, err := k.Text(top, r2.Vec{}, "0.2", 3, 0.6)
	require.NoError(t, err)
	size := kernel.Size(label.Bounds())
	assert.InDelta(t, k.MeasureText("0.2", 3), size.X, 1e-9)
	assert.InDelta(t, 3.0, size.Y, 1e-9)
	assert.InDelta(t, 1.2, size.Z, 1e-9)
	assert.InDelta(t, 21*3/13.0, k.MeasureText("0.2", 3), 1e-9)

	_, err = k.Text(top, r2.Vec{}, "   ", 3, 0.6)
	assert.ErrorContains(t, err, "empty")
	_, err = k.Text(top, r2.Vec{}, "A", 0, 0.6)
	assert.Error(t, err)
}

func TestPolygonHelpers(t *testing.T) {
	square := []r2.Vec{{}, {X: 2}, {X: 2, Y: 2}, {Y: 2}}
	assert.InDelta(t, 4.0, polygonArea(square), 1e-12)
	assert.True(t, pointInPolygon(r2.Vec{X: 1, Y: 1}, square))
	assert.False(t, pointInPolygon(r2.Vec{X: 3, Y: 1}, square))
}

func TestWriteSTL(t *testing.T) {
	k := New()
	s := cube(t, k)
	path := filepath.Join(t.TempDir(), "out", "cube.stl")

	require.NoError(t, k.WriteSTL(path, s, 1))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(84))

	assert.Error(t, k.WriteSTL(path, s, 0))
	assert.True(t, k.Concurrent())
}
