package state

// MaxProcessedIDs bounds how many message ids are retained per user.
// Oldest entries are dropped first once the cap is exceeded.
const MaxProcessedIDs = 5000

// ProcessedSet is an insertion-ordered set of message identifiers with a
// fixed capacity. It is not safe for concurrent use; the fleet runner
// guarantees at most one cycle per user at a time.
type ProcessedSet struct {
	order []string
	seen  map[string]struct{}
	cap   int
}

// NewProcessedSet returns an empty set bounded to MaxProcessedIDs.
func NewProcessedSet() *ProcessedSet {
	return newProcessedSet(MaxProcessedIDs)
}

func newProcessedSet(cap int) *ProcessedSet {
	return &ProcessedSet{
		seen: make(map[string]struct{}),
		cap:  cap,
	}
}

// FromIDs builds a set from ids in order. Only the most recent entries
// are kept if ids exceeds the capacity.
func FromIDs(ids []string) *ProcessedSet {
	s := NewProcessedSet()
	s.Merge(ids)
	return s
}

// Contains reports whether id is in the set.
func (s *ProcessedSet) Contains(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Add inserts id, evicting the oldest entry if the set is full.
// Re-adding an existing id is a no-op and does not refresh its position.
func (s *ProcessedSet) Add(id string) {
	if id == "" || s.Contains(id) {
		return
	}
	s.order = append(s.order, id)
	s.seen[id] = struct{}{}
	if len(s.order) > s.cap {
		drop := len(s.order) - s.cap
		for _, old := range s.order[:drop] {
			delete(s.seen, old)
		}
		s.order = append(s.order[:0:0], s.order[drop:]...)
	}
}

// Merge adds every id in order.
func (s *ProcessedSet) Merge(ids []string) {
	for _, id := range ids {
		s.Add(id)
	}
}

// IDs returns the ids in insertion order, oldest first.
func (s *ProcessedSet) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of ids in the set.
func (s *ProcessedSet) Len() int {
	return len(s.order)
}
