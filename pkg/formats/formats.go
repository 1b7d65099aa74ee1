// Package formats reads and writes the YAML documents exchanged by the
// meshgauss tools, and decodes and encodes texture images.
package formats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Document errors.
var (
	ErrInvalidDocument    = errors.New("invalid document")
	ErrUnsupportedTexture = errors.New("unsupported texture format")
)

// Pair is a 2-vector written in flow style.
type Pair [2]float64

// Triple is a 3-vector written in flow style.
type Triple [3]float64

// Quad is a 4-vector written in flow style.
type Quad [4]float64

// Index3 is a face index triple written in flow style.
type Index3 [3]int

// Color8 is an 8-bit RGBA color written in flow style.
type Color8 [4]uint8

// MarshalYAML implements yaml.Marshaler.
func (p Pair) MarshalYAML() (interface{}, error) { return flow([2]float64(p)) }

// MarshalYAML implements yaml.Marshaler.
func (t Triple) MarshalYAML() (interface{}, error) { return flow([3]float64(t)) }

// MarshalYAML implements yaml.Marshaler.
func (q Quad) MarshalYAML() (interface{}, error) { return flow([4]float64(q)) }

// MarshalYAML implements yaml.Marshaler.
func (i Index3) MarshalYAML() (interface{}, error) { return flow([3]int(i)) }

// MarshalYAML implements yaml.Marshaler.
func (c Color8) MarshalYAML() (interface{}, error) { return flow([4]uint8(c)) }

// flow encodes v as a single-line sequence.
func flow(v interface{}) (interface{}, error) {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	return &n, nil
}

// readYAML decodes the YAML file at path into out.
func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// writeYAML encodes v to path, creating parent directories as needed.
func writeYAML(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
