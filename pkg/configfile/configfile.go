// Package configfile decodes the YAML/JSON registry files (strategies,
// publishers) into caller-provided structs.
package configfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnrecognized is returned when no decoder accepts the content.
var ErrUnrecognized = errors.New("file format not recognized (expected YAML or JSON)")

type decoder struct {
	exts []string
	fn   func([]byte, any) error
}

var decoders = []decoder{
	{exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
	{exts: []string{".json"}, fn: json.Unmarshal},
}

// Load reads path and decodes it into out.
func Load(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return Decode(raw, filepath.Ext(path), out)
}

// Decode picks the decoder matching ext. An unknown or empty extension tries
// every decoder in turn.
func Decode(data []byte, ext string, out any) error {
	ext = strings.ToLower(strings.TrimSpace(ext))
	candidates := decoders
	for _, d := range decoders {
		for _, e := range d.exts {
			if e == ext {
				candidates = []decoder{d}
			}
		}
	}

	var errs []error
	for _, d := range candidates {
		if err := d.fn(data, out); err != nil {
			errs = append(errs, err)
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnrecognized, errors.Join(errs...))
}
