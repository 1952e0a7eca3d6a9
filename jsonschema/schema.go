// Package jsonschema renders shapes as draft-04 JSON Schema documents.
package jsonschema

import (
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Draft04 is the $schema identifier written at the root of every rendered document.
const Draft04 = "http://json-schema.org/draft-04/schema"

// Document is the subset of draft-04 used to describe inferred shapes. Schema is only
// set on the root.
type Document struct {
	Schema     string               `json:"$schema,omitempty" yaml:"$schema,omitempty"`
	Type       string               `json:"type,omitempty" yaml:"type,omitempty"`
	Properties map[string]*Document `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string             `json:"required,omitempty" yaml:"required,omitempty"`
	Items      *Document            `json:"items,omitempty" yaml:"items,omitempty"`
	AnyOf      []*Document          `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// Marshal encodes d as JSON. Property names come out sorted.
func Marshal(d *Document) ([]byte, error) {
	return j.Marshal(d)
}

func MarshalIndent(d *Document, indent string) ([]byte, error) {
	return j.MarshalIndent(d, "", indent)
}

func MarshalYAML(d *Document) ([]byte, error) {
	return yaml.Marshal(d)
}

func Unmarshal(b []byte) (*Document, error) {
	var d Document
	if err := j.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}
