package link

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerExpiry(t *testing.T) {
	tm := timer{}
	assert.False(t, tm.Expired())
	tm.Arm(20 * time.Millisecond)
	assert.False(t, tm.Expired())
	time.Sleep(30 * time.Millisecond)
	assert.True(t, tm.Expired())
	// expiry latches and is counted once per arming
	assert.True(t, tm.Expired())
	assert.EqualValues(t, 1, tm.Expiries())
}

func TestTimerCancel(t *testing.T) {
	tm := timer{}
	tm.Arm(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	tm.Cancel()
	assert.False(t, tm.Expired())
	assert.EqualValues(t, 0, tm.Expiries())
}

func TestTimerRearm(t *testing.T) {
	tm := timer{}
	tm.Arm(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	assert.True(t, tm.Expired())
	tm.Arm(time.Hour)
	assert.False(t, tm.Expired())
	assert.EqualValues(t, 1, tm.Expiries())
}
