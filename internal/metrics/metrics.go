package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "practiceroom"

// Set groups the coordinator's Prometheus collectors. A nil *Set is a
// valid no-op receiver so the hub can run without metrics in tests.
type Set struct {
	connections   prometheus.Gauge
	rooms         prometheus.Gauge
	joins         prometheus.Counter
	reactions     prometheus.Counter
	droppedEvents prometheus.Counter
}

// New registers the collector set on reg.
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	return &Set{
		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Currently open client connections.",
		}),
		rooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Rooms currently held in memory.",
		}),
		joins: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Join operations processed.",
		}),
		reactions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reactions_total",
			Help:      "Reactions recorded across all rooms.",
		}),
		droppedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events_total",
			Help:      "Broadcast events dropped because a client queue was full.",
		}),
	}
}

// Handler serves the registry at /metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (s *Set) ConnOpened() {
	if s != nil {
		s.connections.Inc()
	}
}

func (s *Set) ConnClosed() {
	if s != nil {
		s.connections.Dec()
	}
}

func (s *Set) RoomCreated() {
	if s != nil {
		s.rooms.Inc()
	}
}

func (s *Set) RoomEvicted() {
	if s != nil {
		s.rooms.Dec()
	}
}

func (s *Set) JoinProcessed() {
	if s != nil {
		s.joins.Inc()
	}
}

func (s *Set) ReactionRecorded() {
	if s != nil {
		s.reactions.Inc()
	}
}

func (s *Set) EventsDropped(n int) {
	if s != nil && n > 0 {
		s.droppedEvents.Add(float64(n))
	}
}
