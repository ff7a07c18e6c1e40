package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/nozzletray/internal/model"
)

func TestExportDXF_PlanView(t *testing.T) {
	stack := buildTestStack(t, model.FamilyNozzleSizes)
	r := stack.Tiers[2]
	path := filepath.Join(t.TempDir(), "tier2.dxf")

	if err := ExportDXF(path, stack.Config, r.Layout); err != nil {
		t.Fatalf("ExportDXF returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("DXF file was not created: %v", err)
	}
	content := string(data)

	for _, layer := range []string{LayerOutline, LayerThread, LayerTip, LayerHandle, LayerGrip, LayerClearance, LayerLabel} {
		if !strings.Contains(content, layer) {
			t.Errorf("expected layer %s in DXF output", layer)
		}
	}
	if !strings.Contains(content, r.Spec.Label) {
		t.Errorf("expected label %q in DXF output", r.Spec.Label)
	}

	holes := stack.Config.ThreadHoles.Count() + stack.Config.TipHoles.Count()
	if got := strings.Count(content, "\nCIRCLE"); got < holes {
		t.Errorf("expected at least %d circles, got %d", holes, got)
	}
}

func TestExportDXF_InvalidPath(t *testing.T) {
	stack := buildTestStack(t, model.FamilyCalibration)
	path := filepath.Join(t.TempDir(), "missing", "tier0.dxf")

	if err := ExportDXF(path, stack.Config, stack.Tiers[0].Layout); err == nil {
		t.Fatal("expected error for unwritable path, got nil")
	}
}
