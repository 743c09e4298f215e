package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestGateConfirmSingleUse(t *testing.T) {
	gate := NewGate(time.Minute, nil)

	req := gate.Request(ActionClearHistory)
	assert.NotEmpty(t, req.Token)
	assert.Contains(t, req.Prompt, "clear all browsing history")

	require.NoError(t, gate.Confirm(ActionClearHistory, req.Token))
	assert.ErrorIs(t, gate.Confirm(ActionClearHistory, req.Token), ErrInvalidToken)
}

func TestGateRejectsWrongActionAndUnknownToken(t *testing.T) {
	gate := NewGate(time.Minute, nil)

	req := gate.Request(ActionClearHistory)
	assert.ErrorIs(t, gate.Confirm(ActionClearAll, req.Token), ErrInvalidToken)
	assert.ErrorIs(t, gate.Confirm(ActionClearHistory, "nope"), ErrInvalidToken)

	// A mismatched action does not burn the token.
	assert.NoError(t, gate.Confirm(ActionClearHistory, req.Token))
}

func TestGateExpiryAndSweep(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	gate := NewGate(time.Minute, clock.now)

	expired := gate.Request(ActionClearAll)
	clock.t = clock.t.Add(30 * time.Second)
	live := gate.Request(ActionClearAll)
	clock.t = clock.t.Add(45 * time.Second)

	assert.ErrorIs(t, gate.Confirm(ActionClearAll, expired.Token), ErrInvalidToken)

	gate.Request(ActionClearHistory)
	clock.t = clock.t.Add(20 * time.Second)
	assert.Equal(t, 1, gate.Sweep())
	assert.Equal(t, 1, gate.Pending())

	assert.ErrorIs(t, gate.Confirm(ActionClearAll, live.Token), ErrInvalidToken)
}
