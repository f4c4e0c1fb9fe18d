package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/scenecore/internal/scene"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the encoding from a file extension. Anything that is not
// .json is treated as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func EncodeScene(snap scene.Snapshot, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	case FormatYAML:
		return yaml.Marshal(snap)
	default:
		return nil, fmt.Errorf("unknown scene format: %s", f)
	}
}

func DecodeScene(data []byte, f Format) (scene.Snapshot, error) {
	var snap scene.Snapshot
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &snap)
	case FormatYAML:
		err = yaml.Unmarshal(data, &snap)
	default:
		return snap, fmt.Errorf("unknown scene format: %s", f)
	}
	if err != nil {
		return snap, fmt.Errorf("decode scene: %w", err)
	}
	if snap.Version > scene.SnapshotVersion {
		return snap, fmt.Errorf("scene version %d is newer than supported version %d", snap.Version, scene.SnapshotVersion)
	}
	return snap, nil
}

// Digest fingerprints a snapshot independently of the file format it was
// read from.
func Digest(snap scene.Snapshot) uint64 {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}

// SaveScene serializes w to path and returns the snapshot digest.
func SaveScene(path string, w *scene.Scene) (uint64, error) {
	snap := w.Serialize()
	data, err := EncodeScene(snap, FormatFor(path))
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("write scene: %w", err)
	}
	return Digest(snap), nil
}

// LoadScene replaces the contents of w with the scene stored at path. A file
// that fails to decode or validate leaves w unchanged.
func LoadScene(path string, w *scene.Scene) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read scene: %w", err)
	}
	snap, err := DecodeScene(data, FormatFor(path))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Deserialize(snap); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return Digest(snap), nil
}
