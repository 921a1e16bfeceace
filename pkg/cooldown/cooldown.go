package cooldown

import (
	"time"

	"github.com/rigmend/rigmend/pkg/types"
)

// History is the view of past actions the limiter counts against.
// Implemented by pkg/actionlog.
type History interface {
	CountRemediations(nodeID string, since time.Time) int
}

// Limiter bounds how many remediations may be applied to one node within
// a trailing window. Informational actions (alerts, recovery notices,
// cooldown skips) are excluded by the history's counting semantics, so
// only real remediation attempts consume the budget.
type Limiter struct {
	history History
	now     func() time.Time
}

// NewLimiter creates a limiter backed by the given action history
func NewLimiter(history History) *Limiter {
	return &Limiter{history: history, now: time.Now}
}

// CanRemediate reports whether the node still has remediation budget left
// in the trailing window.
func (l *Limiter) CanRemediate(nodeID string, cfg types.Cooldown) bool {
	return l.Remaining(nodeID, cfg) > 0
}

// Remaining returns how many remediations the node may still receive in
// the current window. Never negative.
func (l *Limiter) Remaining(nodeID string, cfg types.Cooldown) int {
	since := l.now().Add(-cfg.Window())
	used := l.history.CountRemediations(nodeID, since)
	if used >= cfg.MaxPerHour {
		return 0
	}
	return cfg.MaxPerHour - used
}
