package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/nozzletray/internal/kernel"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// DefaultSTLResolution is the marching-cubes cell size in mm.
const DefaultSTLResolution = 0.25

// BaseName turns a family name into a file name stem.
func BaseName(family string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, family)
	if name == "" {
		name = "tray"
	}
	return name
}

// STLFileName returns the file name used for one tier's mesh.
func STLFileName(family string, tier int) string {
	return fmt.Sprintf("%s_tier%d.stl", BaseName(family), tier)
}

// ExportSTL meshes every built tier of stack into dir and returns the paths
// written, bottom tier first. Failed tiers are skipped.
func ExportSTL(k kernel.Kernel, dir string, stack *tray.Stack, resolution float64) ([]string, error) {
	if stack == nil {
		return nil, fmt.Errorf("no stack to export")
	}
	if resolution <= 0 {
		resolution = DefaultSTLResolution
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var paths []string
	for _, r := range stack.Tiers {
		if r.Err != nil {
			continue
		}
		path := filepath.Join(dir, STLFileName(stack.Config.Name, r.Spec.Index))
		if err := k.WriteSTL(path, r.Solid, resolution); err != nil {
			return paths, fmt.Errorf("failed to write tier %d: %w", r.Spec.Index, err)
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no built tiers to export")
	}
	return paths, nil
}
