package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomSnapshot carries the full reaction tally and member count.
	// Unicast on join/query, broadcast after each reaction.
	EventRoomSnapshot EventKind = iota
	// EventUserJoined notifies existing members about a new member.
	EventUserJoined
	// EventUserLeft notifies remaining members about a departure.
	EventUserLeft
	// EventReaction is the ephemeral per-reaction burst. Fire-and-forget,
	// no ordering guarantee relative to EventRoomSnapshot.
	EventReaction
)

// Event is sent to clients to describe what happened in a room.
type Event struct {
	Kind        EventKind
	Room        string
	Member      string
	Name        string
	Message     string
	ActiveUsers int

	// Reactions is a copy of the tally, safe to read after the hub has
	// moved on. Set for EventRoomSnapshot only.
	Reactions map[string]uint64

	// Symbol, Timestamp (unix ms) and EventID are set for EventReaction.
	Symbol    string
	Timestamp int64
	EventID   string
}
