package tray

import (
	"fmt"

	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/model"
)

// PlaceHoleArray drills the grid a into the face of s on side d. The grid is
// centered on the face center shifted by the array offsets.
func PlaceHoleArray(k kernel.Kernel, s kernel.Solid, d kernel.Direction, a model.HoleArray) (kernel.Solid, error) {
	face, err := s.Face(d)
	if err != nil {
		return nil, err
	}
	centers := model.GridCenters(a)
	for _, c := range centers {
		if !face.Holds(c, a.MouthRadius()) {
			return nil, fmt.Errorf("hole at (%.3f, %.3f) does not fit the %s face", c.X, c.Y, d)
		}
	}
	return k.Drill(s, face, centers, a.Diameter, a.Depth, a.MouthChamfer)
}

// drilled returns how many holes were drilled into the face on side d.
func drilled(features []kernel.Feature, d kernel.Direction) int {
	n := 0
	for _, f := range kernel.FeaturesOf(features, kernel.FeatureDrill) {
		if f.Note == d.String() {
			n += f.Count
		}
	}
	return n
}
