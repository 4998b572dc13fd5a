// Package tree builds catalogs from YAML tree definitions, including the
// embedded demo tree
package tree

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
	"github.com/bluesky/catalog-server-from-scratch/pkg/datasource"
)

//go:embed default.yaml
var defaultTree []byte

// ErrInvalidTree indicates a malformed tree definition
var ErrInvalidTree = errors.New("tree: invalid definition")

// Node is one entry of a tree definition. A node is either a collection
// (Entries) or an array leaf (Array); the root is always a collection.
type Node struct {
	Key      string         `yaml:"key"`
	Metadata map[string]any `yaml:"metadata"`
	Entries  []Node         `yaml:"entries"`
	Array    *ArraySpec     `yaml:"array"`
}

// ArraySpec describes a constant-filled array leaf
type ArraySpec struct {
	Shape  []int   `yaml:"shape"`
	Chunks [][]int `yaml:"chunks"`
	Fill   float64 `yaml:"fill"`
}

// Stats summarizes a built tree
type Stats struct {
	Collections int
	Arrays      int
}

// Parse decodes a tree definition
func Parse(data []byte) (*Node, error) {
	var root Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTree, err)
	}
	if root.Array != nil {
		return nil, fmt.Errorf("%w: root must be a collection", ErrInvalidTree)
	}
	return &root, nil
}

// Load reads and builds a tree definition from r. opts apply to every
// collection in the tree.
func Load(r io.Reader, opts ...catalog.Option) (*catalog.Catalog, Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to read tree: %w", err)
	}
	root, err := Parse(data)
	if err != nil {
		return nil, Stats{}, err
	}
	return Build(root, opts...)
}

// LoadFile builds the tree defined in the YAML file at path
func LoadFile(path string, opts ...catalog.Option) (*catalog.Catalog, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("failed to open tree file: %w", err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Default builds the embedded demo tree
func Default(opts ...catalog.Option) (*catalog.Catalog, Stats, error) {
	root, err := Parse(defaultTree)
	if err != nil {
		return nil, Stats{}, err
	}
	return Build(root, opts...)
}

// Build validates the whole definition, then builds it. Collections are
// built immediately; arrays are created each time they are looked up.
func Build(root *Node, opts ...catalog.Option) (*catalog.Catalog, Stats, error) {
	b := builder{opts: opts}
	c, err := b.collection(root, "")
	if err != nil {
		return nil, Stats{}, err
	}
	return c, b.stats, nil
}

type builder struct {
	opts  []catalog.Option
	stats Stats
}

func (b *builder) collection(n *Node, path string) (*catalog.Catalog, error) {
	if n.Array != nil {
		return nil, fmt.Errorf("%w: %q has both entries and an array", ErrInvalidTree, path)
	}
	b.stats.Collections++

	keys := make([]string, 0, len(n.Entries))
	children := make(map[string]catalog.Value, len(n.Entries))
	arrays := make(map[string]*Node, len(n.Entries))
	for i := range n.Entries {
		child := &n.Entries[i]
		if child.Key == "" {
			return nil, fmt.Errorf("%w: entry %d of %q has no key", ErrInvalidTree, i, path)
		}
		childPath := join(path, child.Key)
		if _, dup := children[child.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidTree, childPath)
		}
		if _, dup := arrays[child.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidTree, childPath)
		}
		keys = append(keys, child.Key)

		if child.Array != nil && len(child.Entries) == 0 {
			if err := datasource.ValidateLayout(child.Array.Shape, child.Array.Chunks); err != nil {
				return nil, fmt.Errorf("%s: %w", childPath, err)
			}
			arrays[child.Key] = child
			b.stats.Arrays++
			continue
		}
		sub, err := b.collection(child, childPath)
		if err != nil {
			return nil, err
		}
		children[child.Key] = sub
	}

	m := catalog.NewLazyMap(keys, func(key string) catalog.Value {
		if v, ok := children[key]; ok {
			return v
		}
		return newArray(arrays[key])
	})
	opts := append(slices.Clone(b.opts), catalog.WithMetadata(n.Metadata))
	return catalog.New(m, opts...), nil
}

// newArray builds a leaf whose layout was validated by builder.collection
func newArray(n *Node) *datasource.Array {
	opts := []datasource.ArrayOption{datasource.WithMetadata(n.Metadata)}
	if n.Array.Chunks != nil {
		opts = append(opts, datasource.WithChunks(n.Array.Chunks...))
	}
	a, err := datasource.Full(n.Array.Shape, n.Array.Fill, opts...)
	if err != nil {
		panic(fmt.Sprintf("tree: validated array %q failed to build: %v", n.Key, err))
	}
	return a
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "/" + key
}
