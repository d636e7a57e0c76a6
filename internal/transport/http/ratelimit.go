package http

import "time"

// reactionLimiter is a fixed-window counter for one connection. It is
// only touched from that connection's read loop, so no locking.
type reactionLimiter struct {
	limit       int
	windowStart time.Time
	count       int
}

func newReactionLimiter(limit int) *reactionLimiter {
	return &reactionLimiter{limit: limit}
}

// allow reports whether one more reaction fits in the current
// one-minute window. A zero limit disables throttling.
func (l *reactionLimiter) allow(now time.Time) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.count = 0
	}
	l.count++
	return l.count <= l.limit
}
