package project

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nozzletray/internal/kernel/csg"
	"github.com/piwi3910/nozzletray/internal/model"
	"github.com/piwi3910/nozzletray/internal/tray"
)

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]string{
		"a.json":      FormatJSON,
		"a.TOML":      FormatTOML,
		"dir/a.yaml":  FormatYAML,
		"dir/a.b.yml": FormatYAML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("family.ini")
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestFamilyConfigRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".toml", ".yaml"} {
		for _, name := range model.FamilyNames() {
			t.Run(name+ext, func(t *testing.T) {
				want, _ := model.Family(name)
				path := filepath.Join(t.TempDir(), "nested", name+ext)

				require.NoError(t, SaveFamilyConfig(path, want))
				got, err := LoadFamilyConfig(path)
				require.NoError(t, err)

				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("config mismatch (-want +got):\n%s", diff)
				}
				assert.NoError(t, got.Validate())
			})
		}
	}
}

func TestLoadFamilyConfigMissingFile(t *testing.T) {
	_, err := LoadFamilyConfig(filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadDefaultFamilyConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadDefaultFamilyConfig()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFamily().Name, cfg.Name)

	require.NoError(t, SaveFamilyConfig(DefaultConfigPath(), model.NozzleSizesFamily()))
	cfg, err = LoadDefaultFamilyConfig()
	require.NoError(t, err)
	assert.Equal(t, model.FamilyNozzleSizes, cfg.Name)
}

func TestLoadFamilyConfigRejectsUnknownKeys(t *testing.T) {
	files := map[string]string{
		"f.json": `{"name": "x", "lenght": 41}`,
		"f.toml": "name = \"x\"\nlenght = 41\n",
		"f.yaml": "name: x\nlenght: 41\n",
	}
	for name, content := range files {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadFamilyConfig(path)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "lenght", name)
	}
}

func TestLoadFamilyConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
name = "custom"
length = 41.0
width = 46.0
height_per_tier = 12.0
tier_count = 2
labels = ["0.4", "0.6"]

[label]
mode = "list"
font_height = 3.0
depth = 0.6

[thread_holes]
diameter = 6.2
depth = 7.5
count_x = 4
count_y = 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFamilyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 2, cfg.TierCount)
	assert.Equal(t, model.LabelModeList, cfg.Label.Mode)
	assert.Equal(t, []string{"0.4", "0.6"}, cfg.Labels)
	assert.Equal(t, 16, cfg.ThreadHoles.Count())
}

func TestEncodeFamilyConfigUsesSnakeCase(t *testing.T) {
	data, err := EncodeFamilyConfig("f.yaml", model.CalibrationFamily())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "height_per_tier: 10"), string(data))
}

func TestManifestRoundTrip(t *testing.T) {
	stack, err := tray.New(csg.New()).Generate(context.Background(), model.NozzleSizesFamily())
	require.NoError(t, err)

	m := NewRunManifest(stack)
	_, err = uuid.Parse(m.RunID)
	require.NoError(t, err)
	assert.Equal(t, ManifestVersion, m.Version)
	assert.Len(t, m.Tiers, 3)
	assert.False(t, m.Failed())

	m.Add(OutputSTL, "out/nozzle-sizes_tier0.stl", 0)
	m.Add(OutputPDF, "out/stack.pdf", -1)

	path := filepath.Join(t.TempDir(), "run", ManifestFile)
	require.NoError(t, WriteManifest(path, m))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestReadManifestErrors(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"run_id": "x"}`), 0644))
	_, err = ReadManifest(path)
	assert.ErrorContains(t, err, "missing version")
}
