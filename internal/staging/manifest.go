//-------------------------------------------------------------------------
//
// pgEdge Ops Data Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package staging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the manifest's file name inside a staging directory.
const ManifestFile = "manifest.yaml"

// Manifest records how a staging directory was produced and what it holds.
// It carries no timestamps or random identifiers, so the same generation
// parameters always produce the same bytes.
type Manifest struct {
	Seed      uint64     `yaml:"seed"`
	Days      int        `yaml:"days"`
	Locations int        `yaml:"locations"`
	Items     int        `yaml:"items"`
	EndDate   string     `yaml:"end_date"`
	Artifacts []Artifact `yaml:"artifacts"`
}

// Artifact returns the artifact staged for the named table.
func (m *Manifest) Artifact(table string) (Artifact, bool) {
	for _, a := range m.Artifacts {
		if a.Table == table {
			return a, true
		}
	}
	return Artifact{}, false
}

// OfKind returns the artifacts of the given kind in manifest order.
func (m *Manifest) OfKind(kind Kind) []Artifact {
	var out []Artifact
	for _, a := range m.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// WriteManifest writes the manifest into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads the manifest from dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &m, nil
}

// Verify checks that every artifact exists in dir and matches its recorded
// checksum.
func (m *Manifest) Verify(dir string) error {
	if len(m.Artifacts) == 0 {
		return fmt.Errorf("manifest in %s lists no artifacts", dir)
	}
	for _, a := range m.Artifacts {
		sum, err := fileSHA256(filepath.Join(dir, a.File))
		if err != nil {
			return err
		}
		if sum != a.SHA256 {
			return fmt.Errorf("artifact %s checksum mismatch: manifest %s, file %s", a.File, a.SHA256, sum)
		}
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
