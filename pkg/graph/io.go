package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/orakul/orakul/pkg/errors"
)

// MarshalScene serialises s to indented JSON.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalScene decodes and checks a scene. A missing version is treated
// as the current one; newer versions are rejected.
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal scene")
	}
	if s.Version == 0 {
		s.Version = Version
	}
	if s.Version > Version {
		return Scene{}, errors.New(errors.ErrCodeUnsupported, "scene version %d is newer than %d", s.Version, Version)
	}
	if _, err := s.Snapshot(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// WriteScene writes s as indented JSON to w.
func WriteScene(s Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadScene decodes a scene from r.
func ReadScene(r io.Reader) (Scene, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Scene{}, fmt.Errorf("read: %w", err)
	}
	return UnmarshalScene(data)
}

// WriteSceneFile writes s to path with 0644 permissions.
func WriteSceneFile(s Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
	}
	return nil
}

// ReadSceneFile reads a scene from path.
func ReadSceneFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Scene{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalScene(data)
}
