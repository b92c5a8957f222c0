package prefabs

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrNoRoot = errors.New("prefabs: tree document has no root")

// NodeSpec is one node entry of a tree document. Config values may be
// literals or reference markers of the form {"$ref": "dot.path"}.
type NodeSpec struct {
	Type     string         `yaml:"type" json:"type"`
	Config   map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
	Children []NodeSpec     `yaml:"children,omitempty" json:"children,omitempty"`
	Child    *NodeSpec      `yaml:"child,omitempty" json:"child,omitempty"`
}

// TreeSpec is a parsed tree document.
type TreeSpec struct {
	ID   string    `yaml:"id,omitempty" json:"id,omitempty"`
	Root *NodeSpec `yaml:"root" json:"root"`
}

// ComponentSpec declares one capability plugin for an entity.
type ComponentSpec struct {
	Plugin string         `yaml:"plugin" json:"plugin"`
	Params map[string]any `yaml:"params,omitempty" json:"params,omitempty"`
}

// EntitySpec is an entity configuration document.
type EntitySpec struct {
	EntityID   string                    `yaml:"entityId" json:"entityId"`
	Persona    string                    `yaml:"persona,omitempty" json:"persona,omitempty"`
	Tree       string                    `yaml:"tree,omitempty" json:"tree,omitempty"`
	Trees      map[string]string         `yaml:"trees,omitempty" json:"trees,omitempty"`
	Components []ComponentSpec           `yaml:"components" json:"components"`
	Config     map[string]any            `yaml:"config,omitempty" json:"config,omitempty"`
	Profiles   map[string]map[string]any `yaml:"profiles,omitempty" json:"profiles,omitempty"`
}

// TreeDocument maps a tree key to its document id. Keys without an entry in
// Trees name the document directly.
func (s EntitySpec) TreeDocument(key string) string {
	if id, ok := s.Trees[key]; ok && id != "" {
		return id
	}
	return key
}

// ResolutionRoot returns the map that tree references are resolved against:
// the config block plus the profiles and entityId keys.
func (s EntitySpec) ResolutionRoot() map[string]any {
	root := make(map[string]any, len(s.Config)+2)
	for k, v := range s.Config {
		root[k] = v
	}
	if _, ok := root["profiles"]; !ok && s.Profiles != nil {
		profiles := make(map[string]any, len(s.Profiles))
		for k, v := range s.Profiles {
			profiles[k] = v
		}
		root["profiles"] = profiles
	}
	if _, ok := root["entityId"]; !ok {
		root["entityId"] = s.EntityID
	}
	return root
}

func ParseTree(data []byte) (TreeSpec, error) {
	var spec TreeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return TreeSpec{}, fmt.Errorf("prefabs: unmarshal tree: %w", err)
	}
	if spec.Root == nil {
		return TreeSpec{}, ErrNoRoot
	}
	return spec, nil
}

func ParseEntity(data []byte) (EntitySpec, error) {
	var spec EntitySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return EntitySpec{}, fmt.Errorf("prefabs: unmarshal entity: %w", err)
	}
	return spec, nil
}

// EncodeTree serializes a tree document. DecodeTree reads it back.
func EncodeTree(spec TreeSpec) ([]byte, error) {
	if spec.Root == nil {
		return nil, ErrNoRoot
	}
	return yaml.Marshal(spec)
}

func DecodeTree(data []byte) (TreeSpec, error) {
	return ParseTree(data)
}

// DecodeSpec converts a loosely typed params or profile block into T by
// re-marshalling it through yaml.
func DecodeSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
