package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Faseeh06/music-app-sub000/internal/config"
	"github.com/Faseeh06/music-app-sub000/internal/core"
	"github.com/Faseeh06/music-app-sub000/internal/metrics"
)

// NewServer builds the HTTP server: health and metrics probes, the
// read-only room stats API and the WebSocket endpoint.
func NewServer(hub *core.Hub, reg *prometheus.Registry, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(LoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", healthHandler)
	if reg != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(reg)))
	}

	stats := NewStatsHandlers(hub, logger)
	router.GET("/api/rooms", stats.ListRooms)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger, cfg.ClientBuffer, cfg.ReactionRateLimit)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
