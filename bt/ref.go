package bt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RefKey marks a config value as a reference: {"$ref": "dot.path"}.
const RefKey = "$ref"

const maxRefDepth = 16

var ErrUnresolvedRef = errors.New("bt: unresolved reference")

// RefError names the path segment a reference failed on.
type RefError struct {
	Path    string
	Segment string
	Reason  string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("bt: reference %q: segment %q: %s", e.Path, e.Segment, e.Reason)
}

func (e *RefError) Unwrap() error { return ErrUnresolvedRef }

// IsRef returns the path of a reference marker.
func IsRef(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	p, ok := m[RefKey].(string)
	return p, ok
}

// LookupPath walks a dot path through nested maps and lists. Numeric
// segments index lists.
func LookupPath(root map[string]any, path string) (any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &RefError{Path: path, Reason: "empty path"}
	}
	var cur any = root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, &RefError{Path: path, Segment: seg, Reason: "not found"}
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, &RefError{Path: path, Segment: seg, Reason: "list index is not a number"}
			}
			if i < 0 || i >= len(node) {
				return nil, &RefError{Path: path, Segment: seg, Reason: fmt.Sprintf("index out of range [0,%d)", len(node))}
			}
			cur = node[i]
		default:
			return nil, &RefError{Path: path, Segment: seg, Reason: fmt.Sprintf("cannot index %T", cur)}
		}
	}
	return cur, nil
}

// ResolveValue returns a deep copy of v with every reference marker
// replaced by the value it points at.
func ResolveValue(v any, root map[string]any) (any, error) {
	return resolveValue(v, root, 0)
}

func resolveValue(v any, root map[string]any, depth int) (any, error) {
	if path, ok := IsRef(v); ok {
		if depth >= maxRefDepth {
			return nil, &RefError{Path: path, Reason: "reference chain too deep"}
		}
		target, err := LookupPath(root, path)
		if err != nil {
			return nil, err
		}
		return resolveValue(target, root, depth+1)
	}
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			r, err := resolveValue(item, root, depth)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			r, err := resolveValue(item, root, depth)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

// ResolveSpec returns a deep copy of spec with every config reference
// resolved, depth-first.
func ResolveSpec(spec NodeSpec, root map[string]any) (NodeSpec, error) {
	out := NodeSpec{Type: spec.Type}
	if spec.Config != nil {
		cfg, err := ResolveValue(spec.Config, root)
		if err != nil {
			return NodeSpec{}, fmt.Errorf("bt: %s config: %w", spec.Type, err)
		}
		m, ok := cfg.(map[string]any)
		if !ok {
			path, _ := IsRef(spec.Config)
			return NodeSpec{}, fmt.Errorf("bt: %s config: %w", spec.Type, &RefError{
				Path:    path,
				Segment: path,
				Reason:  fmt.Sprintf("config must be a map, got %T", cfg),
			})
		}
		out.Config = m
	}
	if spec.Children != nil {
		out.Children = make([]NodeSpec, len(spec.Children))
		for i, c := range spec.Children {
			r, err := ResolveSpec(c, root)
			if err != nil {
				return NodeSpec{}, err
			}
			out.Children[i] = r
		}
	}
	if spec.Child != nil {
		r, err := ResolveSpec(*spec.Child, root)
		if err != nil {
			return NodeSpec{}, err
		}
		out.Child = &r
	}
	return out, nil
}
