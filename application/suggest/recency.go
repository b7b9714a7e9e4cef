package suggest

// DefaultRecencyCapacity bounds how many recently shown quote ids are
// excluded from candidate generation.
const DefaultRecencyCapacity = 20

// Recency is a bounded set of quote ids excluded from candidate generation.
// Insertion order drives eviction: when full, the oldest id is dropped first.
type Recency struct {
	capacity int
	order    []string
	members  map[string]struct{}
}

// NewRecency creates a recency set with the given capacity. Non-positive
// capacities fall back to the default.
func NewRecency(capacity int) *Recency {
	if capacity <= 0 {
		capacity = DefaultRecencyCapacity
	}
	return &Recency{
		capacity: capacity,
		members:  make(map[string]struct{}),
	}
}

// Add records an id, evicting the oldest member at capacity. Re-adding an
// existing id is a no-op and does not refresh its position.
func (r *Recency) Add(id string) {
	if _, ok := r.members[id]; ok {
		return
	}
	if len(r.order) >= r.capacity {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.members, oldest)
	}
	r.order = append(r.order, id)
	r.members[id] = struct{}{}
}

// Contains reports membership.
func (r *Recency) Contains(id string) bool {
	_, ok := r.members[id]
	return ok
}

// Len reports the current member count.
func (r *Recency) Len() int {
	return len(r.order)
}
