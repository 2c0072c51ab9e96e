package layout

// IDMap hands out small integer ids to distinct values in first-seen order.
type IDMap[T comparable] struct {
	ids    map[T]int
	values []T
}

// NewIDMap returns a map holding values, in order.
func NewIDMap[T comparable](values ...T) *IDMap[T] {
	m := &IDMap[T]{ids: make(map[T]int, len(values))}
	for _, v := range values {
		m.Add(v)
	}

	return m
}

// Add returns the id of v, assigning the next one if v is new.
func (m *IDMap[T]) Add(v T) int {
	if id, ok := m.ids[v]; ok {
		return id
	}

	id := len(m.values)
	m.ids[v] = id
	m.values = append(m.values, v)

	return id
}

// ID returns the id of v.
func (m *IDMap[T]) ID(v T) (int, bool) {
	id, ok := m.ids[v]

	return id, ok
}

// Value returns the value holding id.
func (m *IDMap[T]) Value(id int) (v T, ok bool) {
	if id < 0 || id >= len(m.values) {
		return v, false
	}

	return m.values[id], true
}

// Len returns the number of distinct values.
func (m *IDMap[T]) Len() int { return len(m.values) }

// Values returns the values in id order.
func (m *IDMap[T]) Values() []T {
	out := make([]T, len(m.values))
	copy(out, m.values)

	return out
}
