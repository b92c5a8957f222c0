package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed entities/*.yaml trees/*.yaml
var DocumentsFS embed.FS

const (
	entitiesDir = "entities"
	treesDir    = "trees"
)

var documentExts = []string{".yaml", ".yml", ".json"}

// Loader returns parsed documents by id.
type Loader interface {
	LoadTree(id string) (TreeSpec, error)
	LoadEntity(id string) (EntitySpec, error)
}

// FSLoader reads documents from an fs.FS. Files under the override
// directory on disk win over the filesystem copy.
type FSLoader struct {
	fsys     fs.FS
	override string
}

func NewFSLoader(fsys fs.FS, override string) *FSLoader {
	return &FSLoader{fsys: fsys, override: override}
}

// Default loads the embedded documents, overridden by ./prefabs on disk.
func Default() *FSLoader {
	return NewFSLoader(DocumentsFS, "prefabs")
}

// Dir loads documents only from a directory on disk.
func Dir(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir), "")
}

func (l *FSLoader) Load(name string) ([]byte, error) {
	clean := cleanDocumentPath(name)
	if l.override != "" {
		if data, err := os.ReadFile(filepath.Join(l.override, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	if l.fsys == nil {
		return nil, fmt.Errorf("prefabs: %s: %w", clean, fs.ErrNotExist)
	}
	return fs.ReadFile(l.fsys, clean)
}

func (l *FSLoader) LoadTree(id string) (TreeSpec, error) {
	name, data, err := l.find(treesDir, id)
	if err != nil {
		return TreeSpec{}, err
	}
	spec, err := ParseTree(data)
	if err != nil {
		return TreeSpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	if spec.ID == "" {
		spec.ID = id
	}
	return spec, nil
}

func (l *FSLoader) LoadEntity(id string) (EntitySpec, error) {
	name, data, err := l.find(entitiesDir, id)
	if err != nil {
		return EntitySpec{}, err
	}
	spec, err := ParseEntity(data)
	if err != nil {
		return EntitySpec{}, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	if spec.EntityID == "" {
		spec.EntityID = id
	}
	return spec, nil
}

// Entities lists the entity document ids visible to the loader.
func (l *FSLoader) Entities() ([]string, error) {
	seen := map[string]struct{}{}
	collect := func(fsys fs.FS) error {
		entries, err := fs.ReadDir(fsys, entitiesDir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if e.IsDir() || !isDocumentFile(e.Name()) {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = struct{}{}
		}
		return nil
	}
	if l.fsys != nil {
		if err := collect(l.fsys); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("prefabs: list entities: %w", err)
		}
	}
	if l.override != "" {
		_ = collect(os.DirFS(l.override))
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *FSLoader) find(dir, id string) (string, []byte, error) {
	if id == "" {
		return "", nil, fmt.Errorf("prefabs: empty %s id", strings.TrimSuffix(dir, "s"))
	}
	if ext := path.Ext(id); ext != "" && isDocumentFile(id) {
		name := path.Join(dir, id)
		data, err := l.Load(name)
		if err != nil {
			return "", nil, fmt.Errorf("prefabs: load %s: %w", name, err)
		}
		return name, data, nil
	}
	for _, ext := range documentExts {
		name := path.Join(dir, id+ext)
		if data, err := l.Load(name); err == nil {
			return name, data, nil
		}
	}
	return "", nil, fmt.Errorf("prefabs: load %s/%s: %w", dir, id, fs.ErrNotExist)
}

// LoadSpec reads and unmarshals any document through the loader.
func LoadSpec[T any](l *FSLoader, filename string) (T, error) {
	var zero T
	data, err := l.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func cleanDocumentPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		return after
	}
	return s
}

func isDocumentFile(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range documentExts {
		if ext == e {
			return true
		}
	}
	return false
}
