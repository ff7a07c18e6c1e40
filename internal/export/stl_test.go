package export

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/piwi3910/nozzletray/internal/kernel/csg"
	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

func TestSTLFileName(t *testing.T) {
	tests := []struct {
		family string
		tier   int
		want   string
	}{
		{"calibration", 0, "calibration_tier0.stl"},
		{"nozzle sizes/v2", 3, "nozzle_sizes_v2_tier3.stl"},
		{"", 1, "tray_tier1.stl"},
	}
	for _, tt := range tests {
		if got := STLFileName(tt.family, tt.tier); got != tt.want {
			t.Errorf("STLFileName(%q, %d) = %q, want %q", tt.family, tt.tier, got, tt.want)
		}
	}
}

func TestExportSTL_WritesBuiltTiers(t *testing.T) {
	k := csg.New()
	cube, err := tray.MakeBox(k, r3.Vec{X: 4, Y: 4, Z: 4}, r3.Vec{})
	if err != nil {
		t.Fatalf("MakeBox returned error: %v", err)
	}

	cfg := model.CalibrationFamily()
	stack := &tray.Stack{Config: cfg, Tiers: []tray.TierResult{
		{Spec: cfg.Tier(0), Solid: cube},
		{Spec: cfg.Tier(1), Solid: cube},
	}}
	stack = withFailedTier(stack, 1)

	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ExportSTL(k, dir, stack, 0.5)
	if err != nil {
		t.Fatalf("ExportSTL returned error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 file, got %d", len(paths))
	}
	if want := filepath.Join(dir, "calibration_tier0.stl"); paths[0] != want {
		t.Errorf("expected %s, got %s", want, paths[0])
	}

	info, err := os.Stat(paths[0])
	if err != nil {
		t.Fatalf("STL file was not created: %v", err)
	}
	// 80 byte header, triangle count, at least 12 triangles of 50 bytes.
	if info.Size() < 84+12*50 {
		t.Errorf("STL file seems too small: %d bytes", info.Size())
	}
}

func TestExportSTL_NothingToWrite(t *testing.T) {
	if _, err := ExportSTL(csg.New(), t.TempDir(), nil, 0); err == nil {
		t.Fatal("expected error for nil stack, got nil")
	}
	if _, err := ExportSTL(csg.New(), t.TempDir(), &tray.Stack{}, 0); err == nil {
		t.Fatal("expected error for stack without tiers, got nil")
	}
}
