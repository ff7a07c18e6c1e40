package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

func TestExportTags_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.pdf")

	if err := ExportTags(path, buildTestStack(t, model.FamilyCalibration), "run-1"); err != nil {
		t.Fatalf("ExportTags returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("tag file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("tag file is empty")
	}
}

func TestExportTags_NoBuiltTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.pdf")

	if err := ExportTags(path, &tray.Stack{}, ""); err == nil {
		t.Fatal("expected error for a stack without tiers, got nil")
	}

	stack := buildTestStack(t, model.FamilyNozzleSizes)
	for i := range stack.Tiers {
		stack = withFailedTier(stack, i)
	}
	if err := ExportTags(path, stack, ""); err == nil {
		t.Fatal("expected error when every tier failed, got nil")
	}
}

func TestCollectTagInfos(t *testing.T) {
	stack := withFailedTier(buildTestStack(t, model.FamilyCalibration), 2)

	tags := CollectTagInfos(stack, "abc")
	if len(tags) != 3 {
		t.Fatalf("expected 3 tags, got %d", len(tags))
	}

	want := []string{"0.2", "0.6", "1.0"}
	for i, tag := range tags {
		if tag.Label != want[i] {
			t.Errorf("tag %d: expected label %q, got %q", i, want[i], tag.Label)
		}
		if tag.Family != model.FamilyCalibration {
			t.Errorf("tag %d: expected family %q, got %q", i, model.FamilyCalibration, tag.Family)
		}
		if tag.RunID != "abc" {
			t.Errorf("tag %d: expected run id abc, got %q", i, tag.RunID)
		}
	}
	if tags[2].Tier != 3 {
		t.Errorf("expected the failed tier to be skipped, last tag is tier %d", tags[2].Tier)
	}
	if tags[2].ZBase != 30 || tags[2].HandleTop != 45 {
		t.Errorf("tier 3: expected z 30 and handle top 45, got %v and %v", tags[2].ZBase, tags[2].HandleTop)
	}
	if CollectTagInfos(nil, "") != nil {
		t.Error("expected no tags for a nil stack")
	}
}

func TestTagInfo_JSON(t *testing.T) {
	data, err := json.Marshal(TagInfo{Family: "f", Tier: 1, Label: "0.6"})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"family", "tier", "label", "z_base_mm", "handle_x_mm", "handle_top_mm"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
	if _, ok := fields["run_id"]; ok {
		t.Errorf("expected run_id to be omitted when empty: %s", data)
	}
}
