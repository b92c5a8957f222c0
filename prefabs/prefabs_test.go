package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDefaultLoaderReadsEmbeddedDocuments(t *testing.T) {
	l := NewFSLoader(DocumentsFS, "")

	entity, err := l.LoadEntity("grunt")
	require.NoError(t, err)
	assert.Equal(t, "grunt", entity.EntityID)
	assert.Equal(t, "patrol", entity.Tree)
	assert.Equal(t, "flee", entity.TreeDocument("flee"))
	assert.Equal(t, "unlisted", entity.TreeDocument("unlisted"))
	require.NotEmpty(t, entity.Components)
	assert.Contains(t, entity.Profiles, "movement")

	for _, id := range []string{"patrol", "flee", "guard"} {
		tree, err := l.LoadTree(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, tree.ID)
		require.NotNil(t, tree.Root)
	}

	ids, err := l.Entities()
	require.NoError(t, err)
	assert.Equal(t, []string{"grunt", "sentry"}, ids)
}

func TestLoaderOverrideDirWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "trees"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trees", "patrol.yaml"),
		[]byte("root:\n  type: succeed\n"), 0o644))

	l := NewFSLoader(DocumentsFS, dir)
	tree, err := l.LoadTree("patrol")
	require.NoError(t, err)
	assert.Equal(t, "succeed", tree.Root.Type)

	_, err = l.LoadTree("missing")
	require.Error(t, err)
}

func TestParseTreeRequiresRoot(t *testing.T) {
	_, err := ParseTree([]byte(`id: empty`))
	assert.True(t, errors.Is(err, ErrNoRoot))

	// JSON is accepted as well.
	tree, err := ParseTree([]byte(`{"root": {"type": "sequence", "children": [{"type": "succeed"}]}}`))
	require.NoError(t, err)
	require.Len(t, tree.Root.Children, 1)
	assert.Equal(t, "succeed", tree.Root.Children[0].Type)
}

func TestEncodeDecodeTree(t *testing.T) {
	in := TreeSpec{
		ID: "t",
		Root: &NodeSpec{
			Type:   "parallel",
			Config: map[string]any{"exit": "all_success"},
			Children: []NodeSpec{
				{Type: "wait", Config: map[string]any{"seconds": 1.5}},
				{Type: "inverter", Child: &NodeSpec{Type: "fail"}},
			},
		},
	}
	data, err := EncodeTree(in)
	require.NoError(t, err)
	out, err := DecodeTree(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = EncodeTree(TreeSpec{})
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestResolutionRoot(t *testing.T) {
	spec := EntitySpec{
		EntityID: "e1",
		Config:   map[string]any{"movement": map[string]any{"speed": 3}},
		Profiles: map[string]map[string]any{"timing": {"a": map[string]any{"wait": 1}}},
	}
	root := spec.ResolutionRoot()
	assert.Equal(t, "e1", root["entityId"])
	assert.Contains(t, root, "movement")
	assert.Contains(t, root, "profiles")

	// The entity's own config block is not modified.
	assert.NotContains(t, spec.Config, "entityId")
}

func TestDecodeSpec(t *testing.T) {
	type params struct {
		Speed float64 `yaml:"speed"`
		Name  string  `yaml:"name"`
	}
	got, err := DecodeSpec[params](map[string]any{"speed": 2, "name": "x"})
	require.NoError(t, err)
	assert.Equal(t, params{Speed: 2, Name: "x"}, got)

	got, err = DecodeSpec[params](nil)
	require.NoError(t, err)
	assert.Equal(t, params{}, got)
}

func TestDocumentID(t *testing.T) {
	id, tree := DocumentID(filepath.Join("prefabs", "trees", "flee.yaml"))
	assert.Equal(t, "flee", id)
	assert.True(t, tree)

	id, tree = DocumentID(filepath.Join("prefabs", "entities", "grunt.yml"))
	assert.Equal(t, "grunt", id)
	assert.False(t, tree)
}

func TestWatcherReportsDocumentChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "grunt.yaml")
	require.NoError(t, os.WriteFile(target, []byte("entityId: grunt\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	for range w.Events {
	}
}
