package cooldown

import (
	"testing"
	"time"

	"github.com/rigmend/rigmend/pkg/actionlog"
	"github.com/rigmend/rigmend/pkg/types"
	"github.com/stretchr/testify/assert"
)

func testCooldown() types.Cooldown {
	return types.Cooldown{MaxPerHour: 3, WindowMs: time.Hour.Milliseconds()}
}

func TestCooldownEnforcement(t *testing.T) {
	log := actionlog.NewLog(100)
	limiter := NewLimiter(log)
	now := time.Now()
	cfg := testCooldown()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.CanRemediate("rig-1", cfg), "remediation %d should be allowed", i+1)
		log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart, Timestamp: now})
	}

	assert.False(t, limiter.CanRemediate("rig-1", cfg), "4th remediation within the window must be refused")
	assert.Equal(t, 0, limiter.Remaining("rig-1", cfg))

	// Other nodes are unaffected
	assert.True(t, limiter.CanRemediate("rig-2", cfg))
}

func TestAlertsDoNotConsumeBudget(t *testing.T) {
	log := actionlog.NewLog(100)
	limiter := NewLimiter(log)
	now := time.Now()
	cfg := testCooldown()

	for i := 0; i < 5; i++ {
		log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionAlert, Timestamp: now})
	}
	log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRecovered, Timestamp: now})
	log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionSkipped, Timestamp: now})

	assert.True(t, limiter.CanRemediate("rig-1", cfg))
	assert.Equal(t, 3, limiter.Remaining("rig-1", cfg))
}

func TestWindowExpiry(t *testing.T) {
	log := actionlog.NewLog(100)
	limiter := NewLimiter(log)
	now := time.Now()
	cfg := testCooldown()

	// Three old remediations outside the window, one recent
	for i := 0; i < 3; i++ {
		log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart, Timestamp: now.Add(-2 * time.Hour)})
	}
	log.Append(types.ActionEntry{NodeID: "rig-1", Action: types.ActionRestart, Timestamp: now.Add(-10 * time.Minute)})

	assert.True(t, limiter.CanRemediate("rig-1", cfg))
	assert.Equal(t, 2, limiter.Remaining("rig-1", cfg))
}
