package bt

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/milk9111/npcbrain/prefabs"
)

// Builder turns tree documents into node graphs for one agent.
type Builder struct {
	registry *Registry
	root     map[string]any
}

// NewBuilder binds a registry and the configuration root that references
// resolve against.
func NewBuilder(registry *Registry, root map[string]any) *Builder {
	if root == nil {
		root = map[string]any{}
	}
	return &Builder{registry: registry, root: root}
}

// Tree is one built document with the session that owns its actuator
// commands.
type Tree struct {
	Key     string
	Root    Node
	Session uuid.UUID
	// Spec is the resolved document the tree was built from.
	Spec Document
}

func (t *Tree) Tick(ctx *Context) Status {
	ctx.Session = t.Session
	return t.Root.Tick(ctx)
}

// Reset interrupts the tree.
func (t *Tree) Reset(ctx *Context) {
	ctx.Session = t.Session
	t.Root.Reset(ctx)
}

// Build resolves references on a copy of doc and constructs a fresh node
// graph with a new session id. Building a document twice shares nothing.
func (b *Builder) Build(doc Document) (*Tree, error) {
	if doc.Root == nil {
		return nil, fmt.Errorf("bt: build %q: %w", doc.ID, prefabs.ErrNoRoot)
	}
	resolved, err := ResolveSpec(*doc.Root, b.root)
	if err != nil {
		return nil, fmt.Errorf("bt: build %q: %w", doc.ID, err)
	}
	root, err := b.BuildNode(resolved)
	if err != nil {
		return nil, fmt.Errorf("bt: build %q: %w", doc.ID, err)
	}
	return &Tree{
		Key:     doc.ID,
		Root:    root,
		Session: uuid.New(),
		Spec:    Document{ID: doc.ID, Root: &resolved},
	}, nil
}

// BuildNode constructs an already resolved spec.
func (b *Builder) BuildNode(spec NodeSpec) (Node, error) {
	return b.build(spec, spec.Type)
}

// nodeError carries the path of the node that failed to build, e.g.
// "selector/1:sequence/0:move_to".
type nodeError struct {
	path string
	err  error
}

func (e *nodeError) Error() string { return fmt.Sprintf("%s: %v", e.path, e.err) }
func (e *nodeError) Unwrap() error { return e.err }

func wrapNode(path string, err error) error {
	var ne *nodeError
	if errors.As(err, &ne) {
		return err
	}
	return &nodeError{path: path, err: err}
}

func (b *Builder) build(spec NodeSpec, path string) (Node, error) {
	if spec.Type == "" {
		return nil, wrapNode(path, errors.New("node has no type"))
	}
	if spec.Child != nil && len(spec.Children) > 0 {
		return nil, wrapNode(path, errors.New("node declares both child and children"))
	}
	factory, ok := b.registry.Lookup(spec.Type)
	if !ok {
		return nil, wrapNode(path, fmt.Errorf("%w %q", ErrUnknownAlias, spec.Type))
	}

	index := 0
	child := func(c NodeSpec) (Node, error) {
		p := fmt.Sprintf("%s/%d:%s", path, index, c.Type)
		index++
		return b.build(c, p)
	}
	n, err := factory(spec, child)
	if err != nil {
		return nil, wrapNode(path, err)
	}
	if n == nil {
		return nil, wrapNode(path, errors.New("factory returned no node"))
	}
	if _, ok := n.(Exiter); ok {
		n = NewLifecycle(n)
	}
	return n, nil
}
