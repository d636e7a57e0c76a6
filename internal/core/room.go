package core

// member is one joined identity inside a room.
type member struct {
	name   string
	client *Client
}

// Room holds the per-song state: the cumulative reaction tally, the
// joined members keyed by member id, and the broadcast subscriber set.
// Rooms are only ever touched from the hub goroutine.
type Room struct {
	ID      string
	tally   map[string]uint64
	members map[string]member
	subs    map[*Client]struct{}
}

// NewRoom constructs an empty room for a song id.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		tally:   make(map[string]uint64),
		members: make(map[string]member),
		subs:    make(map[*Client]struct{}),
	}
}

// Subscribe adds a client to the broadcast group.
func (r *Room) Subscribe(c *Client) {
	r.subs[c] = struct{}{}
}

// Unsubscribe removes a client from the broadcast group. Returns true
// if the client was subscribed.
func (r *Room) Unsubscribe(c *Client) bool {
	if _, ok := r.subs[c]; !ok {
		return false
	}
	delete(r.subs, c)
	return true
}

// PutMember inserts or overwrites the membership entry for memberID.
// Last join wins. Returns the previously associated client when the
// entry pointed at a different connection, so the hub can unsubscribe
// the stale one.
func (r *Room) PutMember(memberID, name string, c *Client) (stale *Client) {
	if prev, ok := r.members[memberID]; ok && prev.client != c {
		stale = prev.client
	}
	r.members[memberID] = member{name: name, client: c}
	return stale
}

// RemoveMember deletes the membership entry if present. When owner is
// non-nil the entry is only removed if it still points at that client,
// which keeps a reconnected member alive when the old connection's
// disconnect fires late.
func (r *Room) RemoveMember(memberID string, owner *Client) bool {
	m, ok := r.members[memberID]
	if !ok {
		return false
	}
	if owner != nil && m.client != owner {
		return false
	}
	delete(r.members, memberID)
	return true
}

// React increments the tally for symbol, creating the entry at 1.
func (r *Room) React(symbol string) uint64 {
	r.tally[symbol]++
	return r.tally[symbol]
}

// TallySnapshot returns a copy of the reaction tally.
func (r *Room) TallySnapshot() map[string]uint64 {
	snapshot := make(map[string]uint64, len(r.tally))
	for symbol, count := range r.tally {
		snapshot[symbol] = count
	}
	return snapshot
}

// MemberCount returns the number of distinct joined member ids.
func (r *Room) MemberCount() int {
	return len(r.members)
}

// Empty reports whether the room has no members and no subscribers.
func (r *Room) Empty() bool {
	return len(r.members) == 0 && len(r.subs) == 0
}

// Broadcast queues an event for every subscriber except skip. Slow
// consumers are skipped rather than blocking the hub; the number of
// dropped deliveries is returned.
func (r *Room) Broadcast(event *Event, skip *Client) (dropped int) {
	for client := range r.subs {
		if client == skip {
			continue
		}
		select {
		case client.Events <- event:
		default:
			dropped++
		}
	}
	return dropped
}
