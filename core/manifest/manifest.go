// Package manifest loads manifests: documents that declare the models to
// initialize and a tree of nodes, each running a pipeline of those models
// over its inputs.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"co2js-plugin/core/types"
	"co2js-plugin/internal/errors"
)

// Format is a manifest encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// Manifest is a complete manifest document
type Manifest struct {
	Name        string                 `yaml:"name" json:"name" validate:"required"`
	Description string                 `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        map[string]interface{} `yaml:"tags,omitempty" json:"tags,omitempty"`
	Initialize  Initialize             `yaml:"initialize" json:"initialize"`
	Graph       Graph                  `yaml:"graph" json:"graph"`
}

// Initialize declares the models a manifest uses
type Initialize struct {
	Models []ModelRef `yaml:"models" json:"models" validate:"dive"`
}

// ModelRef binds a pipeline name to a registered model plugin
type ModelRef struct {
	// Name is how pipelines refer to the model
	Name string `yaml:"name" json:"name" validate:"required"`

	// Model is the registered plugin name, e.g. Co2jsModel
	Model string `yaml:"model" json:"model" validate:"required"`

	// Path records where the plugin comes from
	Path string `yaml:"path,omitempty" json:"path,omitempty"`

	// Config is the static configuration shared by every node
	Config types.KeyValuePair `yaml:"config,omitempty" json:"config,omitempty"`
}

// Graph is the root of the node tree
type Graph struct {
	Children map[string]*Node `yaml:"children" json:"children"`
}

// Node is a component in the tree. Leaf nodes carry a pipeline and inputs.
type Node struct {
	Pipeline []string                      `yaml:"pipeline,omitempty" json:"pipeline,omitempty"`
	Config   map[string]types.KeyValuePair `yaml:"config,omitempty" json:"config,omitempty"`
	Inputs   []types.ModelParams           `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs  []types.ModelParams           `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Children map[string]*Node              `yaml:"children,omitempty" json:"children,omitempty"`
}

var validate = validator.New()

// Load reads a manifest, choosing the decoder from the file extension
func Load(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeNotFound, err, "cannot read manifest %s", path)
	}

	return Parse(data, format, path)
}

// FormatFromPath infers a manifest format from a file name
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", errors.Newf(errors.TypeNotSupported, "unsupported manifest extension %q", filepath.Ext(path))
	}
}

// Parse decodes and validates a manifest. filename is used in diagnostics.
func Parse(data []byte, format Format, filename string) (*Manifest, error) {
	m := &Manifest{}

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, errors.Parsing("invalid YAML manifest", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, m); err != nil {
			return nil, errors.Parsing("invalid JSON manifest", err)
		}
	case FormatHCL:
		if err := decodeHCL(data, filename, m); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Newf(errors.TypeNotSupported, "unsupported manifest format %q", format)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks required fields and that every pipeline step refers to an
// initialized model
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid manifest", err)
	}

	known := make(map[string]bool, len(m.Initialize.Models))
	for _, ref := range m.Initialize.Models {
		if known[ref.Name] {
			return errors.Newf(errors.TypeConfig, "model %q initialized twice", ref.Name)
		}
		known[ref.Name] = true
	}

	return m.Walk(func(path []string, node *Node) error {
		for _, step := range node.Pipeline {
			if !known[step] {
				return errors.Newf(errors.TypeConfig, "node %s: pipeline step %q is not initialized", strings.Join(path, "."), step)
			}
		}
		return nil
	})
}

// Model returns the initialized model bound to name
func (m *Manifest) Model(name string) (ModelRef, bool) {
	for _, ref := range m.Initialize.Models {
		if ref.Name == name {
			return ref, true
		}
	}
	return ModelRef{}, false
}

// Walk visits every node depth-first, children in name order
func (m *Manifest) Walk(fn func(path []string, node *Node) error) error {
	return walk(nil, m.Graph.Children, fn)
}

func walk(prefix []string, children map[string]*Node, fn func(path []string, node *Node) error) error {
	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := children[name]
		if node == nil {
			continue
		}
		path := append(append([]string(nil), prefix...), name)
		if err := fn(path, node); err != nil {
			return err
		}
		if err := walk(path, node.Children, fn); err != nil {
			return err
		}
	}
	return nil
}

// String returns a short description for logs
func (m *Manifest) String() string {
	return fmt.Sprintf("%s (%d models)", m.Name, len(m.Initialize.Models))
}
