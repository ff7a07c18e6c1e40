// Package project persists tray family configs and run manifests.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/piwi3910/nozzletray/internal/model"
)

// Config file formats, chosen by extension.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// DefaultConfigDir returns the default directory for nozzletray files.
// On all platforms this is ~/.nozzletray/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".nozzletray")
}

// DefaultConfigPath returns the default path for the family config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "family.toml")
}

// FormatOf returns the config format for path, or an error for an unknown
// extension.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config format %q (want .json, .toml, .yaml or .yml)", filepath.Ext(path))
	}
}

// SaveFamilyConfig writes cfg to path in the format given by its extension.
// It creates any missing parent directories automatically.
func SaveFamilyConfig(path string, cfg model.TrayFamilyConfig) error {
	data, err := EncodeFamilyConfig(path, cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// EncodeFamilyConfig renders cfg in the format given by path's extension.
func EncodeFamilyConfig(path string, cfg model.TrayFamilyConfig) ([]byte, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// LoadDefaultFamilyConfig reads the config at DefaultConfigPath. If that
// file does not exist, it returns the default built-in family.
func LoadDefaultFamilyConfig() (model.TrayFamilyConfig, error) {
	cfg, err := LoadFamilyConfig(DefaultConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultFamily(), nil
	}
	return cfg, err
}

// LoadFamilyConfig reads a family config from path. A missing file is an
// error wrapping fs.ErrNotExist. Unknown keys are rejected so a misspelt
// field cannot silently fall back to zero. The result is not validated.
func LoadFamilyConfig(path string) (model.TrayFamilyConfig, error) {
	format, err := FormatOf(path)
	if err != nil {
		return model.TrayFamilyConfig{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.TrayFamilyConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg model.TrayFamilyConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	case FormatTOML:
		var md toml.MetaData
		md, err = toml.Decode(string(data), &cfg)
		if err == nil {
			err = undecodedError(md.Undecoded())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
	}
	if err != nil {
		return model.TrayFamilyConfig{}, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func undecodedError(keys []toml.Key) error {
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)
	return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
}
