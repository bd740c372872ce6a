package set

// Set represents a collection of unique elements.
// It provides methods for adding and checking
// for the existence of elements.
type Set[T comparable] struct {
	items map[T]struct{}
}

// New creates and returns a new empty Set.
func New[T comparable]() *Set[T] {
	return &Set[T]{
		items: make(map[T]struct{}),
	}
}

// Add adds an item to the Set and reports whether it was not already present.
func (s *Set[T]) Add(item T) bool {
	if s.Contains(item) {
		return false
	}
	s.items[item] = struct{}{}
	return true
}

// Contains checks if the item exists in the Set.
// Returns true if the item exists, false otherwise.
func (s *Set[T]) Contains(item T) bool {
	_, exists := s.items[item]
	return exists
}

// Unique returns items with duplicates removed, keeping the first occurrence
// of each and the original order.
func Unique[T comparable](items []T) []T {
	seen := New[T]()
	result := make([]T, 0, len(items))
	for _, item := range items {
		if seen.Add(item) {
			result = append(result, item)
		}
	}
	return result
}
