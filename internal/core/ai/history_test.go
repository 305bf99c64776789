package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryKeepsNewest(t *testing.T) {
	h := NewHistory(2)
	h.Record(Transition{At: time.Second, From: ModeWaypoint, To: ModeAttack})
	h.Record(Transition{At: 2 * time.Second, From: ModeAttack, To: ModeSeekPowerup})
	h.Record(Transition{At: 3 * time.Second, From: ModeSeekPowerup, To: ModeAttack})

	got := h.Transitions()
	require.Len(t, got, 2)
	assert.Equal(t, 2*time.Second, got[0].At)
	assert.Equal(t, 3*time.Second, got[1].At)

	h.Reset()
	assert.Zero(t, h.Len())
}

func TestHistoryZeroCapacity(t *testing.T) {
	h := NewHistory(0)
	h.Record(Transition{To: ModeAttack})
	assert.Zero(t, h.Len())
}

func TestHistoryRoundTrip(t *testing.T) {
	src := NewHistory(8)
	for i := 1; i <= 4; i++ {
		src.Record(Transition{At: time.Duration(i) * time.Second, From: ModeWaypoint, To: ModeAttack})
	}
	b, err := src.Serialize()
	require.NoError(t, err)

	dst := NewHistory(3)
	require.NoError(t, dst.Deserialize(b))
	got := dst.Transitions()
	require.Len(t, got, 3)
	assert.Equal(t, 2*time.Second, got[0].At)
	assert.Equal(t, ModeAttack, got[2].To)

	assert.Error(t, dst.Deserialize([]byte("not gob")))
}

func TestControllerRecordsModeChanges(t *testing.T) {
	c := NewController(1, DefaultConfig(), nil, 0)
	c.SetMode(ModeAttack, time.Second)
	c.Reset(2 * time.Second)

	got := c.History().Transitions()
	require.Len(t, got, 2)
	assert.Equal(t, Transition{At: time.Second, From: ModeWaypoint, To: ModeAttack}, got[0])
	assert.Equal(t, Transition{At: 2 * time.Second, From: ModeAttack, To: ModeWaypoint}, got[1])
}
