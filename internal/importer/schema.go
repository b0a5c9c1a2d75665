// Package importer reads and writes project backlog files in the same
// shape the backend returns from PDF analysis.
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/autobacklog/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is a backlog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q (expected json or yaml)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%s: cannot infer format without a file extension", path)
	}
	return ParseFormat(ext)
}

// Load reads and parses a backlog file, picking the format from its extension.
func Load(path string) (*domain.ProjectBacklog, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	b, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse decodes a backlog document. Missing collections come back empty.
func Parse(data []byte, format Format) (*domain.ProjectBacklog, error) {
	var b domain.ProjectBacklog
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parsing backlog json: %w", err)
		}
	case FormatYAML:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yaml.Unmarshal(data, &b); err != nil {
				return nil, fmt.Errorf("parsing backlog yaml: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	b.Normalize()
	return &b, nil
}

// Export writes b to w in the given format.
func Export(w io.Writer, b *domain.ProjectBacklog, format Format) error {
	out := *b
	out.Normalize()
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
