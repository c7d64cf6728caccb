package action

// Set is an insertion-ordered collection of distinct actions. Menus render
// actions in the order items add them, so a map alone is not enough.
type Set struct {
	order []Kind
	seen  map[Kind]struct{}
}

// NewSet returns a set seeded with kinds.
func NewSet(kinds ...Kind) *Set {
	s := &Set{seen: map[Kind]struct{}{}}
	s.Add(kinds...)
	return s
}

// Add appends kinds that are not already present.
func (s *Set) Add(kinds ...Kind) {
	for _, k := range kinds {
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.order = append(s.order, k)
	}
}

// Prepend inserts kinds at the front, keeping their relative order.
func (s *Set) Prepend(kinds ...Kind) {
	front := make([]Kind, 0, len(kinds))
	for _, k := range kinds {
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		front = append(front, k)
	}
	s.order = append(front, s.order...)
}

// Remove drops k if present.
func (s *Set) Remove(k Kind) {
	if _, ok := s.seen[k]; !ok {
		return
	}
	delete(s.seen, k)
	for i, existing := range s.order {
		if existing == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Has reports whether k is present.
func (s *Set) Has(k Kind) bool {
	_, ok := s.seen[k]
	return ok
}

// Len returns the number of actions.
func (s *Set) Len() int { return len(s.order) }

// Slice returns a copy of the actions in insertion order.
func (s *Set) Slice() []Kind {
	out := make([]Kind, len(s.order))
	copy(out, s.order)
	return out
}
