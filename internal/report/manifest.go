package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"digihealth/domain/run"
)

// ManifestStore persists run manifests as indented JSON
type ManifestStore struct {
	path string
}

// NewManifestStore creates a store writing to path
func NewManifestStore(path string) *ManifestStore {
	return &ManifestStore{path: path}
}

// WriteManifest validates and saves the manifest, listing its own path among
// the outputs.
func (s *ManifestStore) WriteManifest(ctx context.Context, manifest *run.Manifest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := manifest.Validate(); err != nil {
		return "", err
	}
	manifest.AddOutputs(s.path)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create manifest directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write manifest file: %w", err)
	}
	return s.path, nil
}

// LoadManifest reads a manifest written by WriteManifest.
func LoadManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var manifest run.Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &manifest, nil
}
