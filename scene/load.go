package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnsupportedFormat = errors.New("scene resource must be .json, .yaml or .yml")
	ErrNotFound          = errors.New("scene resource cannot be found")
)

// Format is a scene file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf picks the format from a path's extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	default:
		return 0, false
	}
}

// IsSceneFile reports whether path has a scene file extension.
func IsSceneFile(path string) bool {
	_, ok := FormatOf(path)
	return ok
}

// Load reads and decodes the scene file at path.
func Load(path string) (*File, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, fmt.Errorf("scene: load %s: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("scene: load %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: unable to open the scene file: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	return file, nil
}

// Decode parses a scene from r. Unknown keys are rejected.
func Decode(r io.Reader, format Format) (*File, error) {
	var file File
	var err error

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&file)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&file)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return nil, ErrUnsupportedFormat
	}

	if err != nil {
		return nil, fmt.Errorf("failed parsing scene %s file: %w", format, err)
	}
	return &file, nil
}

// Encode writes file to w in the given format.
func Encode(w io.Writer, format Format, file *File) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(file)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return err
		}
		return enc.Close()
	default:
		return ErrUnsupportedFormat
	}
}
