package ecs

// Handle addresses a record in a Store. A handle stays valid until its record is
// removed; the slot may then be reused under a new generation, so stale handles
// never alias a newer record.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero handle. Generations start at 1, so Nil never resolves.
var Nil = Handle{}

// IsNil reports whether h is the zero handle
func (h Handle) IsNil() bool {
	return h == Nil
}

// Store is a dense, contiguous collection of T addressed by generational handles
type Store[T any] struct {
	records     []T
	generations []uint32
	alive       []bool
	free        []uint32
	count       int
}

// NewStore creates a store with room for capacity records
func NewStore[T any](capacity int) *Store[T] {
	return &Store[T]{
		records:     make([]T, 0, capacity),
		generations: make([]uint32, 0, capacity),
		alive:       make([]bool, 0, capacity),
	}
}

// Insert stores v and returns its handle. Freed slots are reused in the order
// they were released.
func (s *Store[T]) Insert(v T) Handle {
	s.count++
	if n := len(s.free); n > 0 {
		idx := s.free[0]
		s.free = s.free[1:]
		s.records[idx] = v
		s.alive[idx] = true
		return Handle{Index: idx, Generation: s.generations[idx]}
	}

	idx := uint32(len(s.records))
	s.records = append(s.records, v)
	s.generations = append(s.generations, 1)
	s.alive = append(s.alive, true)
	return Handle{Index: idx, Generation: 1}
}

// Remove deletes the record behind h. It reports false for stale or nil handles.
func (s *Store[T]) Remove(h Handle) bool {
	if !s.Contains(h) {
		return false
	}
	var zero T
	s.records[h.Index] = zero
	s.alive[h.Index] = false
	s.generations[h.Index]++
	s.free = append(s.free, h.Index)
	s.count--
	return true
}

// Contains reports whether h refers to a live record
func (s *Store[T]) Contains(h Handle) bool {
	if h.IsNil() || int(h.Index) >= len(s.records) {
		return false
	}
	return s.alive[h.Index] && s.generations[h.Index] == h.Generation
}

// Get returns a pointer to the record behind h, or nil for stale handles.
// The pointer is invalidated by the next Insert.
func (s *Store[T]) Get(h Handle) *T {
	if !s.Contains(h) {
		return nil
	}
	return &s.records[h.Index]
}

// Len returns the number of live records
func (s *Store[T]) Len() int {
	return s.count
}

// Cap returns the number of slots, live or free
func (s *Store[T]) Cap() int {
	return len(s.records)
}

// At returns the slot at index i and whether it is live
func (s *Store[T]) At(i int) (Handle, *T, bool) {
	if i < 0 || i >= len(s.records) || !s.alive[i] {
		return Nil, nil, false
	}
	return Handle{Index: uint32(i), Generation: s.generations[i]}, &s.records[i], true
}

// Each calls fn for every live record in slot order
func (s *Store[T]) Each(fn func(h Handle, v *T)) {
	for i := range s.records {
		if !s.alive[i] {
			continue
		}
		fn(Handle{Index: uint32(i), Generation: s.generations[i]}, &s.records[i])
	}
}

// Handles returns the handles of all live records in slot order
func (s *Store[T]) Handles() []Handle {
	out := make([]Handle, 0, s.count)
	s.Each(func(h Handle, _ *T) {
		out = append(out, h)
	})
	return out
}

// Clear removes every record, invalidating all outstanding handles
func (s *Store[T]) Clear() {
	for i := range s.records {
		if s.alive[i] {
			s.Remove(Handle{Index: uint32(i), Generation: s.generations[i]})
		}
	}
}
