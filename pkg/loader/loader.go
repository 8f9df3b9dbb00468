package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/connecthear/opsportal/pkg/model"
)

// Format is a serialization format for directory files
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension. Unknown extensions are
// treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadDirectory reads a directory file. Any failure to produce a directory
// with at least one department wraps model.ErrNoData.
func LoadDirectory(path string) (*model.Directory, error) {
	if path == "" {
		return nil, fmt.Errorf("no data file configured: %w", model.ErrNoData)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no operations data found at %s: %w", path, model.ErrNoData)
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	dir, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return dir, nil
}

// Decode parses directory data in the given format.
func Decode(data []byte, format Format) (*model.Directory, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty data: %w", model.ErrNoData)
	}

	var dir model.Directory
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &dir); err != nil {
			return nil, fmt.Errorf("invalid yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &dir); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
	}

	if len(dir.Departments) == 0 {
		return nil, fmt.Errorf("directory has no departments: %w", model.ErrNoData)
	}
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	return &dir, nil
}

// Encode serializes a directory. JSON output is indented.
func Encode(dir *model.Directory, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(dir); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndent(dir, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// SaveDirectory writes a directory file, creating parent directories. The
// format follows the file extension.
func SaveDirectory(dir *model.Directory, path string) error {
	data, err := Encode(dir, FormatFor(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
