package core

// Client is one live connection as seen by the coordinator. The
// transport owns the underlying socket; the hub only ever touches the
// two channels.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels. buffer sizes
// the outbound event queue; events are dropped rather than blocking the
// hub when the queue is full.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 32
	}
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, buffer),
	}
}
