package ripple

// Context is the snapshot delivered to every watcher of a change: the new
// value plus the metadata attached by the writer or by operators upstream.
type Context[T any] struct {
	Value    T
	Metadata Metadata
}

// NewContext creates a context carrying value and the given metadata fields.
func NewContext[T any](value T, fields ...Field) Context[T] {
	return Context[T]{Value: value, Metadata: Metadata{}.With(fields...)}
}

// With returns a copy of the context with additional metadata.
func (c Context[T]) With(fields ...Field) Context[T] {
	return Context[T]{Value: c.Value, Metadata: c.Metadata.With(fields...)}
}

// MapContext transforms the value of a context, keeping its metadata.
func MapContext[T, U any](c Context[T], f func(T) U) Context[U] {
	return Context[U]{Value: f(c.Value), Metadata: c.Metadata}
}

// Metadata is an immutable set of key/value hints travelling with a change,
// e.g. animation timing for UI consumers. The zero value is empty.
type Metadata struct {
	values map[string]any
}

// Field is a single metadata entry, created through Key.Field.
type Field struct {
	key   string
	value any
}

// With returns a copy of the metadata with the given fields set. Later fields
// override earlier ones with the same key.
func (m Metadata) With(fields ...Field) Metadata {
	if len(fields) == 0 {
		return m
	}
	values := make(map[string]any, len(m.values)+len(fields))
	for k, v := range m.values {
		values[k] = v
	}
	for _, f := range fields {
		values[f.key] = f.value
	}
	return Metadata{values: values}
}

// Len returns the number of entries.
func (m Metadata) Len() int {
	return len(m.values)
}

// IsEmpty reports whether the metadata carries no entries.
func (m Metadata) IsEmpty() bool {
	return len(m.values) == 0
}

// Lookup returns the raw value stored under name.
func (m Metadata) Lookup(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Key is a typed metadata key.
type Key[V any] struct {
	name string
}

// NewKey creates a typed metadata key.
func NewKey[V any](name string) Key[V] {
	return Key[V]{name: name}
}

// Name returns the key name.
func (k Key[V]) Name() string {
	return k.name
}

// Field creates a metadata field for this key.
func (k Key[V]) Field(value V) Field {
	return Field{key: k.name, value: value}
}

// From extracts the value for this key. The boolean is false when the key is
// absent or holds a value of another type.
func (k Key[V]) From(m Metadata) (V, bool) {
	raw, ok := m.values[k.name]
	if !ok {
		var zero V
		return zero, false
	}
	v, ok := raw.(V)
	return v, ok
}
