package actionlog

import (
	"fmt"
	"testing"
	"time"

	"github.com/rigmend/rigmend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	l := NewLog(10)
	stored := l.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart})

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Timestamp.IsZero())
	assert.Equal(t, 1, l.Len())
}

func TestFIFOCap(t *testing.T) {
	max := 5
	l := NewLog(max)

	for i := 0; i < max+1; i++ {
		l.Append(types.ActionEntry{
			NodeID: fmt.Sprintf("rig-%d", i),
			Action: types.ActionAlert,
		})
	}

	entries := l.All()
	require.Len(t, entries, max, "cap must hold exactly max entries")
	assert.Equal(t, "rig-1", entries[0].NodeID, "single oldest entry dropped first")
	assert.Equal(t, "rig-5", entries[max-1].NodeID)
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	l := NewLog(10)
	for i := 0; i < 4; i++ {
		l.Append(types.ActionEntry{NodeID: fmt.Sprintf("rig-%d", i), Action: types.ActionAlert})
	}

	recent := l.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "rig-3", recent[0].NodeID)
	assert.Equal(t, "rig-2", recent[1].NodeID)

	// Limit larger than the log returns everything
	assert.Len(t, l.Recent(100), 4)
	// Non-positive limit returns everything too
	assert.Len(t, l.Recent(0), 4)
}

func TestCountRemediationsExcludesInformational(t *testing.T) {
	l := NewLog(50)
	now := time.Now()

	for _, action := range []types.Action{
		types.ActionRestart,
		types.ActionClearRestart,
		types.ActionDeadProv,
		types.ActionAlert,     // informational
		types.ActionRecovered, // informational
		types.ActionSkipped,   // informational
	} {
		l.Append(types.ActionEntry{NodeID: "rig-1", Action: action, Timestamp: now})
	}
	// Another node's remediation must not count
	l.Append(types.ActionEntry{NodeID: "rig-2", Action: types.ActionRestart, Timestamp: now})

	assert.Equal(t, 3, l.CountRemediations("rig-1", now.Add(-time.Hour)))
}

func TestCountRemediationsWindow(t *testing.T) {
	l := NewLog(50)
	now := time.Now()

	l.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart, Timestamp: now.Add(-2 * time.Hour)})
	l.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart, Timestamp: now.Add(-30 * time.Minute)})

	assert.Equal(t, 1, l.CountRemediations("rig-1", now.Add(-time.Hour)),
		"entries outside the trailing window must not count")
}

func TestCountBySeverity(t *testing.T) {
	l := NewLog(50)
	now := time.Now()

	l.Append(types.ActionEntry{NodeID: "a", Severity: types.SeverityHigh, Action: types.ActionClearRestart, Timestamp: now})
	l.Append(types.ActionEntry{NodeID: "b", Severity: types.SeverityHigh, Action: types.ActionClearRestart, Timestamp: now})
	l.Append(types.ActionEntry{NodeID: "c", Severity: types.SeverityLow, Action: types.ActionAlert, Timestamp: now})
	l.Append(types.ActionEntry{NodeID: "d", Severity: types.SeverityLow, Action: types.ActionAlert, Timestamp: now.Add(-2 * time.Hour)})

	counts := l.CountBySeverity(now.Add(-time.Hour))
	assert.Equal(t, 2, counts[types.SeverityHigh])
	assert.Equal(t, 1, counts[types.SeverityLow])
}

func TestLoadTrimsToCap(t *testing.T) {
	l := NewLog(2)
	l.Load([]types.ActionEntry{
		{NodeID: "rig-0"},
		{NodeID: "rig-1"},
		{NodeID: "rig-2"},
	})

	entries := l.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "rig-1", entries[0].NodeID)
}

func TestSetMaxTrimsExisting(t *testing.T) {
	l := NewLog(10)
	for i := 0; i < 6; i++ {
		l.Append(types.ActionEntry{NodeID: fmt.Sprintf("rig-%d", i), Action: types.ActionAlert})
	}

	l.SetMax(3)
	entries := l.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "rig-3", entries[0].NodeID)
}
