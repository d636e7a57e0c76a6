package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Faseeh06/music-app-sub000/internal/metrics"
)

// session is the identity a connection announced at join time. It is
// the only per-connection state kept outside the room tables, read back
// on disconnect to run the implicit leave.
type session struct {
	room   string
	member string
	name   string
}

// inbound pairs a command with the client that sent it.
type inbound struct {
	client *Client
	cmd    *Command
}

// RoomStats is a read-only view of one room for the stats endpoint.
type RoomStats struct {
	ID        string `json:"id"`
	Members   int    `json:"members"`
	Symbols   int    `json:"symbols"`
	Reactions uint64 `json:"reactions"`
}

// Stats is a point-in-time view of the whole coordinator.
type Stats struct {
	Connections int         `json:"connections"`
	Rooms       []RoomStats `json:"rooms"`
}

// Hub is the room coordinator. A single goroutine (Run) owns the room
// table and the session table; every join, leave, reaction, query and
// disconnect is applied as one atomic step, so no client ever observes
// a partially-updated room and every member of a room sees tally
// updates in the same order.
type Hub struct {
	log        *zerolog.Logger
	metrics    *metrics.Set
	evictEmpty bool

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
	stats      chan chan Stats

	rooms    map[string]*Room
	sessions map[*Client]session
	conns    map[*Client]struct{}
}

// NewHub creates a coordinator. logger and m may be nil. When
// evictEmptyRooms is set, a room is dropped once its last subscriber is
// gone; otherwise tallies stick around for the process lifetime.
func NewHub(logger *zerolog.Logger, m *metrics.Set, evictEmptyRooms bool) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		log:        logger,
		metrics:    m,
		evictEmpty: evictEmptyRooms,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inbound),
		stats:      make(chan chan Stats),
		rooms:      make(map[string]*Room),
		sessions:   make(map[*Client]session),
		conns:      make(map[*Client]struct{}),
	}
}

// RegisterClient hands a new connection to the hub. The hub consumes
// the client's Commands channel until it is closed by the transport.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient reports a transport-level disconnect. If the client
// had joined a room this behaves exactly like an explicit leave.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Snapshot answers a stats query through the hub goroutine so it never
// races a mutation.
func (h *Hub) Snapshot(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case h.stats <- reply:
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Run processes events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.conns[c] = struct{}{}
			h.metrics.ConnOpened()
			h.log.Debug().Str("client_id", c.ID).Msg("client registered")
			go h.pump(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case in := <-h.inbound:
			h.handleCommand(in.client, in.cmd)
		case reply := <-h.stats:
			reply <- h.snapshotStats()
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the hub loop. Exits when the
// transport closes the Commands channel.
func (h *Hub) pump(c *Client) {
	for cmd := range c.Commands {
		h.inbound <- inbound{client: c, cmd: cmd}
	}
}

func (h *Hub) handleCommand(c *Client, cmd *Command) {
	if _, known := h.conns[c]; !known {
		// Command raced a disconnect; the room no longer holds this
		// client, so there is nothing useful to do.
		return
	}
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd.Room, cmd.Member, nil)
	case CommandReact:
		h.handleReact(c, cmd)
	case CommandQueryReactions:
		h.handleQuery(c, cmd.Room)
	default:
		h.log.Warn().Str("client_id", c.ID).Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if cmd.Room == "" || cmd.Member == "" || cmd.Name == "" {
		h.log.Debug().Str("client_id", c.ID).Msg("join with empty identity ignored")
		return
	}

	// A connection tracks one joined identity at a time; switching
	// songs implies leaving the previous room first.
	if s, ok := h.sessions[c]; ok {
		if s.room != cmd.Room {
			h.handleLeave(c, s.room, s.member, c)
		} else if s.member != cmd.Member {
			// Same connection re-announcing under a new identity.
			if room, ok := h.rooms[s.room]; ok {
				room.RemoveMember(s.member, c)
			}
		}
	}

	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
		h.metrics.RoomCreated()
		h.log.Info().Str("room", cmd.Room).Msg("room created")
	}

	// Last join wins. If the member was already present on another
	// connection (e.g. a tab refresh racing the old socket's close),
	// cut the stale connection off from further broadcasts.
	if stale := room.PutMember(cmd.Member, cmd.Name, c); stale != nil {
		room.Unsubscribe(stale)
		if s, ok := h.sessions[stale]; ok && s.room == cmd.Room && s.member == cmd.Member {
			delete(h.sessions, stale)
		}
		h.log.Debug().
			Str("room", cmd.Room).
			Str("member", cmd.Member).
			Str("stale_client_id", stale.ID).
			Msg("stale connection replaced on rejoin")
	}

	room.Subscribe(c)
	h.sessions[c] = session{room: cmd.Room, member: cmd.Member, name: cmd.Name}
	h.metrics.JoinProcessed()

	// Snapshot for the joiner only.
	h.unicast(c, &Event{
		Kind:        EventRoomSnapshot,
		Room:        room.ID,
		Reactions:   room.TallySnapshot(),
		ActiveUsers: room.MemberCount(),
	})

	// Everyone else learns about the new member.
	dropped := room.Broadcast(&Event{
		Kind:        EventUserJoined,
		Room:        room.ID,
		Member:      cmd.Member,
		Name:        cmd.Name,
		Message:     fmt.Sprintf("%s joined the practice room", cmd.Name),
		ActiveUsers: room.MemberCount(),
	}, c)
	h.metrics.EventsDropped(dropped)

	h.log.Info().
		Str("room", room.ID).
		Str("member", cmd.Member).
		Int("active_users", room.MemberCount()).
		Msg("member joined")
}

// handleLeave covers both explicit leave-song and the implicit leave on
// disconnect. owner is non-nil on the disconnect path so a late
// disconnect cannot remove a membership that was since re-established
// over a newer connection.
func (h *Hub) handleLeave(c *Client, roomID, memberID string, owner *Client) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	name := memberID
	if m, ok := room.members[memberID]; ok {
		name = m.name
	}

	room.Unsubscribe(c)
	room.RemoveMember(memberID, owner)
	if s, ok := h.sessions[c]; ok && s.room == roomID {
		delete(h.sessions, c)
	}

	dropped := room.Broadcast(&Event{
		Kind:        EventUserLeft,
		Room:        room.ID,
		Member:      memberID,
		Name:        name,
		Message:     fmt.Sprintf("%s left the practice room", name),
		ActiveUsers: room.MemberCount(),
	}, nil)
	h.metrics.EventsDropped(dropped)

	h.log.Info().
		Str("room", room.ID).
		Str("member", memberID).
		Int("active_users", room.MemberCount()).
		Msg("member left")

	h.maybeEvict(room)
}

func (h *Hub) handleReact(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		// Reacting to a room nobody ever joined is a no-op; creating
		// the room here would let unjoined traffic grow the table.
		h.log.Debug().Str("room", cmd.Room).Str("client_id", c.ID).Msg("reaction for unknown room dropped")
		return
	}

	room.React(cmd.Symbol)
	h.metrics.ReactionRecorded()

	// Aggregate first, then the ephemeral burst. Per-client queues are
	// FIFO so members that keep up see tallies in hub order.
	dropped := room.Broadcast(&Event{
		Kind:        EventRoomSnapshot,
		Room:        room.ID,
		Reactions:   room.TallySnapshot(),
		ActiveUsers: room.MemberCount(),
	}, nil)
	dropped += room.Broadcast(&Event{
		Kind:      EventReaction,
		Room:      room.ID,
		Member:    cmd.Member,
		Name:      cmd.Name,
		Symbol:    cmd.Symbol,
		Timestamp: time.Now().UnixMilli(),
		EventID:   uuid.NewString(),
	}, nil)
	h.metrics.EventsDropped(dropped)
}

func (h *Hub) handleQuery(c *Client, roomID string) {
	room, ok := h.rooms[roomID]
	if !ok {
		h.unicast(c, &Event{
			Kind:        EventRoomSnapshot,
			Room:        roomID,
			Reactions:   map[string]uint64{},
			ActiveUsers: 0,
		})
		return
	}
	h.unicast(c, &Event{
		Kind:        EventRoomSnapshot,
		Room:        room.ID,
		Reactions:   room.TallySnapshot(),
		ActiveUsers: room.MemberCount(),
	})
}

func (h *Hub) handleDisconnect(c *Client) {
	if _, known := h.conns[c]; !known {
		return
	}
	delete(h.conns, c)
	h.metrics.ConnClosed()

	if s, ok := h.sessions[c]; ok {
		h.handleLeave(c, s.room, s.member, c)
	}
	delete(h.sessions, c)
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

func (h *Hub) maybeEvict(room *Room) {
	if !h.evictEmpty || !room.Empty() {
		return
	}
	delete(h.rooms, room.ID)
	h.metrics.RoomEvicted()
	h.log.Info().Str("room", room.ID).Msg("empty room evicted")
}

func (h *Hub) unicast(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		h.metrics.EventsDropped(1)
	}
}

func (h *Hub) snapshotStats() Stats {
	s := Stats{
		Connections: len(h.conns),
		Rooms:       make([]RoomStats, 0, len(h.rooms)),
	}
	for id, room := range h.rooms {
		var total uint64
		for _, count := range room.tally {
			total += count
		}
		s.Rooms = append(s.Rooms, RoomStats{
			ID:        id,
			Members:   room.MemberCount(),
			Symbols:   len(room.tally),
			Reactions: total,
		})
	}
	sort.Slice(s.Rooms, func(i, j int) bool { return s.Rooms[i].ID < s.Rooms[j].ID })
	return s
}
