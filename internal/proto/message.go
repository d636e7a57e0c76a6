package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinSong     = "join-song"
	InboundTypeAddReaction  = "add-reaction"
	InboundTypeSendEmoji    = "send-emoji" // legacy alias for add-reaction
	InboundTypeLeaveSong    = "leave-song"
	InboundTypeGetReactions = "get-reactions"

	OutboundTypeReactionUpdate = "reaction-update"
	OutboundTypeUserJoined     = "user-joined"
	OutboundTypeUserLeft       = "user-left"
	OutboundTypeEmojiReceived  = "emoji-received"
	OutboundTypeError          = "error"
)

// JoinSongData announces intent to join the room for a song.
type JoinSongData struct {
	SongID   string `json:"songId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// ReactionData carries one emoji reaction. Shared by add-reaction and
// its legacy send-emoji alias.
type ReactionData struct {
	Emoji    string `json:"emoji"`
	SongID   string `json:"songId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// LeaveSongData announces departure from a song room.
type LeaveSongData struct {
	SongID   string `json:"songId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// GetReactionsData requests a read-only snapshot of a room.
type GetReactionsData struct {
	SongID string `json:"songId"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ReactionUpdateData is the room aggregate: full tally plus member count.
// Sent as a snapshot to one connection or broadcast after a reaction.
type ReactionUpdateData struct {
	SongID      string            `json:"songId"`
	Reactions   map[string]uint64 `json:"reactions"`
	ActiveUsers int               `json:"activeUsers"`
}

// UserJoinedData notifies existing members that someone joined.
type UserJoinedData struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Message     string `json:"message"`
	ActiveUsers int    `json:"activeUsers"`
}

// UserLeftData notifies remaining members that someone left.
type UserLeftData struct {
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
	Message     string `json:"message"`
	ActiveUsers int    `json:"activeUsers"`
}

// EmojiReceivedData is the ephemeral per-reaction event used for
// transient visual effects; consumers must treat it as fire-and-forget.
type EmojiReceivedData struct {
	Emoji     string `json:"emoji"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
