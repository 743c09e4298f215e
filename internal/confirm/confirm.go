// Package confirm implements the two-step gate in front of destructive operations.
//
// A caller first requests a token for an action, shows the user a yes/no
// prompt, and only then presents the token back. Tokens are single use and
// expire after a TTL.
package confirm

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a confirmation token stays valid.
const DefaultTTL = 2 * time.Minute

// Actions guarded by the gate.
const (
	ActionClearHistory = "clear-history"
	ActionClearAll     = "clear-all"
)

// ErrInvalidToken is returned for unknown, expired, reused or mismatched tokens.
var ErrInvalidToken = errors.New("invalid or expired confirmation token")

// Request is a pending confirmation handed back to the UI.
type Request struct {
	Token     string    `json:"token"`
	Action    string    `json:"action"`
	Prompt    string    `json:"prompt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var prompts = map[string]string{
	ActionClearHistory: "Are you sure you want to clear all browsing history?",
	ActionClearAll:     "Are you sure you want to clear all data? This will reset all settings and remove all history and bookmarks.",
}

// Gate holds pending confirmation tokens.
type Gate struct {
	mu      sync.Mutex
	pending map[string]Request
	ttl     time.Duration
	now     func() time.Time
}

// NewGate creates a gate. ttl <= 0 uses DefaultTTL; now == nil uses time.Now.
func NewGate(ttl time.Duration, now func() time.Time) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{
		pending: make(map[string]Request),
		ttl:     ttl,
		now:     now,
	}
}

// Prompt returns the question shown before action runs.
func Prompt(action string) string {
	return prompts[action]
}

// Request issues a new token for action.
func (g *Gate) Request(action string) Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	req := Request{
		Token:     uuid.NewString(),
		Action:    action,
		Prompt:    prompts[action],
		ExpiresAt: g.now().Add(g.ttl),
	}
	g.pending[req.Token] = req
	return req
}

// Confirm consumes token. It fails if the token was issued for another action,
// has expired, or was already used.
func (g *Gate) Confirm(action, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	req, ok := g.pending[token]
	if !ok {
		return ErrInvalidToken
	}
	if req.Action != action {
		return ErrInvalidToken
	}
	delete(g.pending, token)

	if !g.now().Before(req.ExpiresAt) {
		return ErrInvalidToken
	}
	return nil
}

// Sweep drops expired tokens and returns how many were removed.
func (g *Gate) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for token, req := range g.pending {
		if !now.Before(req.ExpiresAt) {
			delete(g.pending, token)
			removed++
		}
	}
	return removed
}

// Pending returns the number of outstanding tokens.
func (g *Gate) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.pending)
}
