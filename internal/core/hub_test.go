package core

import (
	"context"
	"testing"
	"time"
)

func startHub(t *testing.T, evictEmptyRooms bool) *Hub {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	hub := NewHub(nil, nil, evictEmptyRooms)
	go hub.Run(ctx)
	return hub
}

func join(c *Client, room, member, name string) {
	c.Commands <- &Command{Kind: CommandJoinRoom, Room: room, Member: member, Name: name}
}

func react(c *Client, room, member, name, symbol string) {
	c.Commands <- &Command{Kind: CommandReact, Room: room, Member: member, Name: name, Symbol: symbol}
}

func TestJoinSnapshotAndMemberBroadcast(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-42", "u1", "Alice")
	snap := mustEvent(t, alice.Events, EventRoomSnapshot)
	if len(snap.Reactions) != 0 || snap.ActiveUsers != 1 {
		t.Fatalf("unexpected first join snapshot: %+v", snap)
	}

	join(bob, "song-42", "u2", "Bob")
	snap = mustEvent(t, bob.Events, EventRoomSnapshot)
	if snap.ActiveUsers != 2 {
		t.Fatalf("expected 2 active users in bob's snapshot, got %d", snap.ActiveUsers)
	}

	joined := mustEvent(t, alice.Events, EventUserJoined)
	if joined.Member != "u2" || joined.Name != "Bob" || joined.ActiveUsers != 2 {
		t.Fatalf("unexpected user joined event: %+v", joined)
	}
	if joined.Message == "" {
		t.Fatal("user joined event should carry a human-readable message")
	}
}

func TestReactionTallyBroadcast(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-42", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	join(bob, "song-42", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)

	react(bob, "song-42", "u2", "Bob", "🔥")

	for _, ch := range []<-chan *Event{alice.Events, bob.Events} {
		update := mustEvent(t, ch, EventRoomSnapshot)
		if update.Reactions["🔥"] != 1 || update.ActiveUsers != 2 {
			t.Fatalf("unexpected aggregate update: %+v", update)
		}
		burst := mustEvent(t, ch, EventReaction)
		if burst.Symbol != "🔥" || burst.Member != "u2" || burst.Name != "Bob" {
			t.Fatalf("unexpected reaction burst: %+v", burst)
		}
		if burst.EventID == "" || burst.Timestamp == 0 {
			t.Fatalf("reaction burst missing id or timestamp: %+v", burst)
		}
	}

	// Same symbol again increments by exactly one.
	react(bob, "song-42", "u2", "Bob", "🔥")
	update := mustEvent(t, bob.Events, EventRoomSnapshot)
	if update.Reactions["🔥"] != 2 {
		t.Fatalf("expected tally 2, got %d", update.Reactions["🔥"])
	}
}

func TestExplicitLeaveBroadcast(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-42", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	join(bob, "song-42", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)
	mustEvent(t, alice.Events, EventUserJoined)

	bob.Commands <- &Command{Kind: CommandLeaveRoom, Room: "song-42", Member: "u2"}

	left := mustEvent(t, alice.Events, EventUserLeft)
	if left.Member != "u2" || left.ActiveUsers != 1 {
		t.Fatalf("unexpected user left event: %+v", left)
	}
}

func TestDisconnectBehavesLikeLeave(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-42", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	join(bob, "song-42", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)
	mustEvent(t, alice.Events, EventUserJoined)

	react(alice, "song-42", "u1", "Alice", "🎵")
	mustEvent(t, alice.Events, EventRoomSnapshot)

	// Transport-level drop, no leave-song frame.
	hub.UnregisterClient(alice)

	left := mustEvent(t, bob.Events, EventUserLeft)
	if left.Member != "u1" || left.ActiveUsers != 1 {
		t.Fatalf("unexpected user left event on disconnect: %+v", left)
	}

	// The tally survives the departure.
	bob.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-42"}
	snap := mustEvent(t, bob.Events, EventRoomSnapshot)
	if snap.Reactions["🎵"] != 1 || snap.ActiveUsers != 1 {
		t.Fatalf("unexpected snapshot after disconnect: %+v", snap)
	}
}

func TestQueryWithoutJoining(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	watcher := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(watcher)

	join(alice, "song-42", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	react(alice, "song-42", "u1", "Alice", "🔥")
	mustEvent(t, alice.Events, EventRoomSnapshot)

	watcher.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-42"}
	snap := mustEvent(t, watcher.Events, EventRoomSnapshot)
	if snap.Reactions["🔥"] != 1 || snap.ActiveUsers != 1 {
		t.Fatalf("unexpected query snapshot: %+v", snap)
	}

	// Querying must not subscribe: later reactions stay invisible.
	react(alice, "song-42", "u1", "Alice", "🔥")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	mustNoEvent(t, watcher.Events)
}

func TestQueryUnknownRoom(t *testing.T) {
	hub := startHub(t, false)

	c := NewClient("c1", 0)
	hub.RegisterClient(c)

	c.Commands <- &Command{Kind: CommandQueryReactions, Room: "never-joined"}
	snap := mustEvent(t, c.Events, EventRoomSnapshot)
	if len(snap.Reactions) != 0 || snap.ActiveUsers != 0 {
		t.Fatalf("expected empty snapshot for unknown room, got %+v", snap)
	}
}

func TestReactUnknownRoomIsNoop(t *testing.T) {
	hub := startHub(t, false)

	c := NewClient("c1", 0)
	hub.RegisterClient(c)

	react(c, "ghost", "u1", "Alice", "🔥")
	mustNoEvent(t, c.Events)

	c.Commands <- &Command{Kind: CommandQueryReactions, Room: "ghost"}
	snap := mustEvent(t, c.Events, EventRoomSnapshot)
	if len(snap.Reactions) != 0 {
		t.Fatalf("reaction against unknown room must not create state, got %+v", snap)
	}
}

func TestRoomIsolation(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-a", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	join(bob, "song-b", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)

	react(alice, "song-a", "u1", "Alice", "🔥")
	mustEvent(t, alice.Events, EventRoomSnapshot)

	mustNoEvent(t, bob.Events)

	bob.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-b"}
	snap := mustEvent(t, bob.Events, EventRoomSnapshot)
	if len(snap.Reactions) != 0 {
		t.Fatalf("reaction leaked across rooms: %+v", snap)
	}
}

func TestRejoinReplacesStaleConnection(t *testing.T) {
	hub := startHub(t, false)

	first := NewClient("c1", 0)
	second := NewClient("c2", 0)
	hub.RegisterClient(first)
	hub.RegisterClient(second)

	join(first, "song-42", "u1", "Alice")
	mustEvent(t, first.Events, EventRoomSnapshot)

	// Same member id arrives over a new connection (tab refresh) before
	// the old socket's disconnect fires.
	join(second, "song-42", "u1", "Alice")
	snap := mustEvent(t, second.Events, EventRoomSnapshot)
	if snap.ActiveUsers != 1 {
		t.Fatalf("rejoin must not duplicate the member, got %d active users", snap.ActiveUsers)
	}

	// The stale connection is out of the broadcast group.
	react(second, "song-42", "u1", "Alice", "🔥")
	mustEvent(t, second.Events, EventRoomSnapshot)
	mustNoEvent(t, first.Events)

	// And its late disconnect must not remove the live membership.
	hub.UnregisterClient(first)
	second.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-42"}
	snap = mustEvent(t, second.Events, EventRoomSnapshot)
	if snap.ActiveUsers != 1 {
		t.Fatalf("late disconnect of stale connection evicted the member: %+v", snap)
	}
}

func TestJoinSwitchingRoomsLeavesPrevious(t *testing.T) {
	hub := startHub(t, false)

	alice := NewClient("c1", 0)
	bob := NewClient("c2", 0)
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "song-a", "u1", "Alice")
	mustEvent(t, alice.Events, EventRoomSnapshot)
	join(bob, "song-a", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)
	mustEvent(t, alice.Events, EventUserJoined)

	join(bob, "song-b", "u2", "Bob")
	mustEvent(t, bob.Events, EventRoomSnapshot)

	left := mustEvent(t, alice.Events, EventUserLeft)
	if left.Member != "u2" || left.ActiveUsers != 1 {
		t.Fatalf("switching rooms should leave the previous one: %+v", left)
	}
}

func TestEmptyRoomRetainedByDefault(t *testing.T) {
	hub := startHub(t, false)

	c := NewClient("c1", 0)
	hub.RegisterClient(c)

	join(c, "song-42", "u1", "Alice")
	mustEvent(t, c.Events, EventRoomSnapshot)
	react(c, "song-42", "u1", "Alice", "🔥")
	mustEvent(t, c.Events, EventRoomSnapshot)

	c.Commands <- &Command{Kind: CommandLeaveRoom, Room: "song-42", Member: "u1"}

	c.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-42"}
	snap := mustEvent(t, c.Events, EventRoomSnapshot)
	if snap.Reactions["🔥"] != 1 || snap.ActiveUsers != 0 {
		t.Fatalf("tally should stick for an empty room: %+v", snap)
	}
}

func TestEmptyRoomEvictedWhenEnabled(t *testing.T) {
	hub := startHub(t, true)

	c := NewClient("c1", 0)
	hub.RegisterClient(c)

	join(c, "song-42", "u1", "Alice")
	mustEvent(t, c.Events, EventRoomSnapshot)
	react(c, "song-42", "u1", "Alice", "🔥")
	mustEvent(t, c.Events, EventRoomSnapshot)

	c.Commands <- &Command{Kind: CommandLeaveRoom, Room: "song-42", Member: "u1"}

	c.Commands <- &Command{Kind: CommandQueryReactions, Room: "song-42"}
	snap := mustEvent(t, c.Events, EventRoomSnapshot)
	if len(snap.Reactions) != 0 || snap.ActiveUsers != 0 {
		t.Fatalf("room should be gone after its last member left: %+v", snap)
	}
}

func TestLeaveUnknownRoomTolerated(t *testing.T) {
	hub := startHub(t, false)

	c := NewClient("c1", 0)
	hub.RegisterClient(c)

	c.Commands <- &Command{Kind: CommandLeaveRoom, Room: "ghost", Member: "u1"}
	mustNoEvent(t, c.Events)
}
