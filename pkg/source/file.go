package source

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/orakul/orakul/pkg/errors"
	"github.com/orakul/orakul/pkg/projection"
)

// Format is a file encoding.
type Format string

// Supported file formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf returns the format implied by path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported file type %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
}

// File reads raw data from a local file.
type File struct {
	Path   string
	Format Format
}

// NewFile returns a File source for path, with the format taken from the
// extension.
func NewFile(path string) (*File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Format: format}, nil
}

func (f *File) String() string { return f.Path }

// Load implements Source.
func (f *File) Load(ctx context.Context) (projection.RawData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", f.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", f.Path)
	}
	return Decode(data, f.Format)
}

// Decode parses data in format into raw data.
func Decode(data []byte, format Format) (projection.RawData, error) {
	var doc map[string]any
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return projection.RawData(normalize(doc).(map[string]any)), nil
}
