package nodes

// ring is the arena a group's children live in. Each leaf records the ring it
// was last wired into and its index there; next and previous are derived from
// the index, so stale leaves can never reach into a newer build.
type ring struct {
	members []Leaf
}

// wire builds a ring over children in order and binds every child to it.
func wire(owner Group, children []Leaf) *ring {
	r := &ring{members: make([]Leaf, len(children))}
	copy(r.members, children)
	for i, child := range r.members {
		if child == nil {
			continue
		}
		b := child.base()
		b.ring = r
		b.index = i
		b.group = owner
	}
	return r
}

// unwire detaches leaves that are still bound to r.
func unwire(r *ring) {
	if r == nil {
		return
	}
	for _, child := range r.members {
		if child == nil {
			continue
		}
		b := child.base()
		if b.ring == r {
			b.ring = nil
			b.index = -1
		}
	}
}

func (r *ring) at(i int) Leaf {
	n := len(r.members)
	return r.members[((i%n)+n)%n]
}
