package img2glyph

// OrderedMap is a map that remembers insertion order. It is not safe for
// concurrent mutation; once built it may be read from any goroutine.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates a new OrderedMap
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		keys:   make([]K, 0),
		values: make(map[K]V),
	}
}

// Set adds a key-value pair to the map. Existing keys keep their position.
func (om *OrderedMap[K, V]) Set(key K, value V) {
	if _, exists := om.values[key]; !exists {
		om.keys = append(om.keys, key)
	}
	om.values[key] = value
}

// Get retrieves a value from the map by key
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	val, exists := om.values[key]
	return val, exists
}

// Has reports whether key is present.
func (om *OrderedMap[K, V]) Has(key K) bool {
	_, exists := om.values[key]
	return exists
}

// Keys returns a slice of keys in the order they were inserted
func (om *OrderedMap[K, V]) Keys() []K {
	return append([]K{}, om.keys...)
}

// Len returns the number of elements in the map
func (om *OrderedMap[K, V]) Len() int {
	return len(om.keys)
}
