package snapshot

// capsule carries per-request context across the host-store boundary, which
// threads nothing but an opaque numeric handle.
type capsule struct {
	slot     int
	callback Callback
}

// capsules is the registry of live capsules. A capsule is put on submit and
// taken exactly once on the completion path. A request the host never
// answers leaves its capsule in the registry for good; there is no timeout.
type capsules struct {
	next uint64
	live map[uint64]*capsule
}

func newCapsules() *capsules {
	return &capsules{live: make(map[uint64]*capsule)}
}

func (c *capsules) put(slot int, cb Callback) uint64 {
	c.next++
	c.live[c.next] = &capsule{slot: slot, callback: cb}
	return c.next
}

// take removes and returns the capsule for id, or nil if it was already
// taken.
func (c *capsules) take(id uint64) *capsule {
	cp := c.live[id]
	delete(c.live, id)
	return cp
}

func (c *capsules) len() int {
	return len(c.live)
}
