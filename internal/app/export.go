package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/prefstore/internal/prefs"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// ErrUnknownFormat indicates an export format other than yaml or toml.
var ErrUnknownFormat = errors.New("unknown export format")

// ExportedSetting is one setting in an export document.
type ExportedSetting struct {
	Name  string `yaml:"name" toml:"name"`
	Type  string `yaml:"type" toml:"type"`
	Value string `yaml:"value" toml:"value"`
}

// exportDocument wraps the list because a TOML document must be a table.
type exportDocument struct {
	Settings []ExportedSetting `yaml:"settings" toml:"settings"`
}

// Export writes every setting in s to w, sorted by key.
func Export(w io.Writer, s *prefs.Store, format string) error {
	doc := exportDocument{Settings: []ExportedSetting{}}
	for _, e := range s.Entries() {
		doc.Settings = append(doc.Settings, ExportedSetting{
			Name:  e.Name,
			Type:  e.Type,
			Value: e.Value,
		})
	}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
