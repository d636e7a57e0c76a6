package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Faseeh06/music-app-sub000/internal/core"
)

// StatsHandlers provides read-only HTTP handlers over the coordinator.
type StatsHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewStatsHandlers creates a new stats handlers instance.
func NewStatsHandlers(hub *core.Hub, logger *zerolog.Logger) *StatsHandlers {
	return &StatsHandlers{
		hub: hub,
		log: logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomListResponse is the /api/rooms payload.
type RoomListResponse struct {
	Connections int              `json:"connections"`
	Rooms       []core.RoomStats `json:"rooms"`
}

// ListRooms answers with a point-in-time view of rooms, member counts
// and tally sizes. The snapshot is taken by the hub itself, so it never
// observes a half-applied mutation.
// GET /api/rooms
func (h *StatsHandlers) ListRooms(c *gin.Context) {
	stats, err := h.hub.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to snapshot hub stats")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "coordinator unavailable"})
		return
	}

	c.JSON(http.StatusOK, RoomListResponse{
		Connections: stats.Connections,
		Rooms:       stats.Rooms,
	})
}
