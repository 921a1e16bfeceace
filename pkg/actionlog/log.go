package actionlog

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rigmend/rigmend/pkg/types"
)

// Log is the append-only, capped record of everything the healer did.
// When the cap is reached the oldest entries are dropped first; entries are
// never removed from the middle of the list.
type Log struct {
	mu      sync.RWMutex
	entries []types.ActionEntry
	max     int
}

// NewLog creates a log capped at max entries
func NewLog(max int) *Log {
	return &Log{max: max}
}

// SetMax updates the cap, trimming oldest entries if the log already
// exceeds it.
func (l *Log) SetMax(max int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.max = max
	l.trim()
}

// Append records an entry, assigning an ID and timestamp when absent, and
// returns the stored entry.
func (l *Log) Append(entry types.ActionEntry) types.ActionEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.entries = append(l.entries, entry)
	l.trim()
	return entry
}

// trim drops oldest entries until the log fits the cap. Caller holds the lock.
func (l *Log) trim() {
	if l.max <= 0 || len(l.entries) <= l.max {
		return
	}
	excess := len(l.entries) - l.max
	l.entries = append(l.entries[:0:0], l.entries[excess:]...)
}

// Len returns the number of retained entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All returns a copy of every retained entry, oldest first
func (l *Log) All() []types.ActionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.ActionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns up to limit entries, newest first
func (l *Log) Recent(limit int) []types.ActionEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.entries)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]types.ActionEntry, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Load replaces the log contents, trimming to the cap. Used to restore the
// persisted log on startup.
func (l *Log) Load(entries []types.ActionEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries[:0:0], entries...)
	l.trim()
}

// CountRemediations counts non-informational entries for the node newer
// than since. Alerts, recovery notices, and cooldown skips are excluded:
// only actual remediation attempts count toward the cooldown limit.
func (l *Log) CountRemediations(nodeID string, since time.Time) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := 0
	for _, e := range l.entries {
		if e.NodeID != nodeID || e.Action.Informational() {
			continue
		}
		if e.Timestamp.After(since) {
			count++
		}
	}
	return count
}

// CountBySeverity tallies entries newer than since, grouped by severity
func (l *Log) CountBySeverity(since time.Time) map[types.Severity]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	counts := make(map[types.Severity]int)
	for _, e := range l.entries {
		if e.Timestamp.After(since) {
			counts[e.Severity]++
		}
	}
	return counts
}
