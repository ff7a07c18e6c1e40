// Package tray builds the solids of a stackable nozzle tray family. Every
// position is derived from the tier index and the family config; nothing
// here reads geometry back from the kernel to decide where to put things.
package tray

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel"
)

// MakeBox returns a box of the given size whose minimum corner is origin.
// Kernel boxes are centered, so the box is moved by origin + size/2.
func MakeBox(k kernel.Kernel, size, origin r3.Vec) (kernel.Solid, error) {
	b, err := k.CenteredBox(size)
	if err != nil {
		return nil, err
	}
	return k.Translate(b, r3.Add(origin, r3.Scale(0.5, size))), nil
}

// boxFrom builds the box b with MakeBox.
func boxFrom(k kernel.Kernel, b r3.Box) (kernel.Solid, error) {
	return MakeBox(k, kernel.Size(b), b.Min)
}

// chamferVertical bevels the vertical edges of s that lie on side d.
func chamferVertical(k kernel.Kernel, s kernel.Solid, d kernel.Direction, distance float64) (kernel.Solid, error) {
	face, err := s.Face(d)
	if err != nil {
		return nil, err
	}
	return k.Chamfer(s, s.Edges(face, kernel.AxisZ), distance)
}
