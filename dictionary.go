package ripple

import (
	"maps"
	"sync"
)

// Dictionary is a keyed store whose watchers follow a single key. A change to
// one key notifies only that key's watchers, with the key's new value or
// None after a deletion.
//
// Each key is backed by its own Binding, created on the first Set or
// Subscribe for that key, so per-key delivery follows the binding lock
// policy. Entries are kept after Delete so that existing watchers stay
// attached.
type Dictionary[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*Binding[Optional[V]]
}

// NewDictionary creates an empty dictionary.
func NewDictionary[K comparable, V any]() *Dictionary[K, V] {
	return &Dictionary[K, V]{entries: make(map[K]*Binding[Optional[V]])}
}

// entry returns the binding for key, creating it when create is set.
func (d *Dictionary[K, V]) entry(key K, create bool) *Binding[Optional[V]] {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.entries[key]
	if !ok && create {
		b = NewBinding(None[V]())
		d.entries[key] = b
	}
	return b
}

// Get returns the value for key, or None.
func (d *Dictionary[K, V]) Get(key K) Optional[V] {
	if b := d.entry(key, false); b != nil {
		return b.Get()
	}
	return None[V]()
}

// Set stores value under key and notifies the key's watchers.
func (d *Dictionary[K, V]) Set(key K, value V) {
	d.entry(key, true).Set(Some(value))
}

// Delete removes key's value and notifies its watchers with None. Deleting a
// key that holds no value does nothing.
func (d *Dictionary[K, V]) Delete(key K) {
	b := d.entry(key, false)
	if b == nil {
		return
	}
	b.reg.mu.Lock()
	if !b.value.IsSome() {
		b.reg.mu.Unlock()
		return
	}
	b.commitLocked(Context[Optional[V]]{Value: None[V]()})
}

// Subscribe registers fn for changes to key. The key need not exist yet.
func (d *Dictionary[K, V]) Subscribe(key K, fn func(Context[Optional[V]])) *Guard {
	return d.entry(key, true).Subscribe(fn)
}

// Watch exposes key as an observable optional value.
func (d *Dictionary[K, V]) Watch(key K) Observable[Optional[V]] {
	return d.entry(key, true)
}

// Len returns the number of keys holding a value.
func (d *Dictionary[K, V]) Len() int {
	return len(d.Keys())
}

// Keys returns the keys holding a value, in no particular order.
func (d *Dictionary[K, V]) Keys() []K {
	d.mu.Lock()
	bindings := maps.Clone(d.entries)
	d.mu.Unlock()

	keys := make([]K, 0, len(bindings))
	for k, b := range bindings {
		if b.Get().IsSome() {
			keys = append(keys, k)
		}
	}
	return keys
}
