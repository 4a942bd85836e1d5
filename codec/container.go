package codec

import (
	"fmt"

	"github.com/speakeasy-api/yamlcodec/sequencedmap"
)

// ContainerBuilder accumulates the entries of one mapping into the container for an OutputShape.
type ContainerBuilder interface {
	// Set adds an entry. It returns ErrDuplicateKey if key was already set.
	Set(key, value any) error
	// Build returns the finished container.
	Build() any
}

// NewContainerBuilder returns a builder for shape sized for capacity entries.
func NewContainerBuilder(shape OutputShape, capacity int) ContainerBuilder {
	switch shape {
	case ShapeOrderedMap:
		return &orderedMapBuilder{m: sequencedmap.NewWithCapacity[any, any](capacity)}
	case ShapeUnorderedMap:
		return &unorderedMapBuilder{m: make(map[any]any, capacity)}
	default:
		return &recordBuilder{m: sequencedmap.NewWithCapacity[string, any](capacity)}
	}
}

type recordBuilder struct {
	m *sequencedmap.Map[string, any]
}

func (b *recordBuilder) Set(key, value any) error {
	name, ok := key.(string)
	if !ok {
		return ErrInvalidKey.Wrapf("record keys must be text, got %T", key)
	}
	if b.m.Has(name) {
		return ErrDuplicateKey.Wrapf("%q", name)
	}
	b.m.Set(name, value)
	return nil
}

func (b *recordBuilder) Build() any {
	return b.m
}

type orderedMapBuilder struct {
	m *sequencedmap.Map[any, any]
}

func (b *orderedMapBuilder) Set(key, value any) error {
	if b.m.Has(key) {
		return ErrDuplicateKey.Wrapf("%s", describeKey(key))
	}
	b.m.Set(key, value)
	return nil
}

func (b *orderedMapBuilder) Build() any {
	return b.m
}

type unorderedMapBuilder struct {
	m map[any]any
}

func (b *unorderedMapBuilder) Set(key, value any) error {
	if _, ok := b.m[key]; ok {
		return ErrDuplicateKey.Wrapf("%s", describeKey(key))
	}
	b.m[key] = value
	return nil
}

func (b *unorderedMapBuilder) Build() any {
	return b.m
}

func describeKey(key any) string {
	if s, ok := key.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v (%T)", key, key)
}
