package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the client to a song room as a member.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom removes the client's membership from a room.
	CommandLeaveRoom
	// CommandReact increments a reaction tally and notifies the room.
	CommandReact
	// CommandQueryReactions asks for a snapshot of a room's tally.
	CommandQueryReactions
)

// Command represents an action requested by a client. Member and Name
// are caller-supplied identity; the coordinator does not verify them.
type Command struct {
	Kind   CommandKind
	Room   string
	Member string
	Name   string
	Symbol string
}
