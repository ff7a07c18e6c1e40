package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

// ManifestVersion is written into every manifest.
const ManifestVersion = "1.0.0"

// ManifestFile is the manifest's file name inside an output directory.
const ManifestFile = "manifest.json"

// Output kinds recorded in a manifest.
const (
	OutputSTL      = "stl"
	OutputDXF      = "dxf"
	OutputPDF      = "pdf"
	OutputTags     = "tags"
	OutputSchedule = "schedule"
)

// Output is one file written by a run. Tier is -1 for stack-wide files.
type Output struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
	Tier int    `json:"tier"`
}

// RunManifest records what one generate run produced.
type RunManifest struct {
	Version   string                 `json:"version"`
	RunID     string                 `json:"run_id"`
	CreatedAt string                 `json:"created_at"`
	Config    model.TrayFamilyConfig `json:"config"`
	Tiers     []tray.TierSummary     `json:"tiers"`
	Outputs   []Output               `json:"outputs"`
}

// NewRunManifest starts a manifest for stack with a fresh run ID.
func NewRunManifest(stack *tray.Stack) RunManifest {
	return RunManifest{
		Version:   ManifestVersion,
		RunID:     uuid.New().String(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    stack.Config,
		Tiers:     stack.Summary(),
		Outputs:   []Output{},
	}
}

// Add records an output file.
func (m *RunManifest) Add(kind, path string, tier int) {
	m.Outputs = append(m.Outputs, Output{Kind: kind, Path: path, Tier: tier})
}

// Failed reports whether any tier of the run failed.
func (m RunManifest) Failed() bool {
	for _, t := range m.Tiers {
		if t.Error != "" {
			return true
		}
	}
	return false
}

// WriteManifest writes m as indented JSON, creating parent directories.
func WriteManifest(path string, m RunManifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (RunManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunManifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m RunManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return RunManifest{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.Version == "" {
		return RunManifest{}, fmt.Errorf("invalid manifest: missing version field")
	}
	if m.Outputs == nil {
		m.Outputs = []Output{}
	}
	return m, nil
}
