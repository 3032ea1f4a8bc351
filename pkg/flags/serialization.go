package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// MarshalText serializes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindEnum, KindInt, KindBool, KindString:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unsupported flag kind: %d", int(k))
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(data []byte) error {
	parsed, err := ParseKind(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalYAML parses a kind name from a YAML scalar.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: flag kind must be a scalar", value.Line)
	}
	return k.UnmarshalText([]byte(value.Value))
}

// MarshalYAML writes the kind name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// Document is the on-disk form of a schema.
type Document struct {
	Namespace string       `json:"namespace" yaml:"namespace"`
	Flags     []Definition `json:"flags" yaml:"flags"`
}

// MarshalJSON serializes the registry as a Document.
func (r *Registry) MarshalJSON() ([]byte, error) {
	return json.Marshal(Document{Namespace: r.namespace, Flags: r.Definitions()})
}

// LoadYAML builds a registry from a YAML schema document.
// A missing namespace defaults to DefaultNamespace.
// Duplicate or malformed definitions are fatal.
func LoadYAML(r io.Reader) (*Registry, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode flag schema: %w", err)
	}

	ns := doc.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	reg := NewRegistry(ns)
	for i, def := range doc.Flags {
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("flag %d: %w", i, err)
		}
	}
	return reg, nil
}

// LoadFile reads a YAML schema from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flag schema: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// FileSource loads the schema from a YAML file once per call.
// It implements ports.SchemaSource.
type FileSource struct {
	Path string
}

// Load reads and parses the schema file.
func (s FileSource) Load(ctx context.Context) (*Registry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path)
}
