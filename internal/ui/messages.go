package ui

import (
	"time"

	"github.com/skycast-app/skycast/internal/store"
)

// StateMsg carries a fresh store state into the model. Every intent
// command finishes by emitting one.
type StateMsg struct {
	State store.State
}

// LocateFailedMsg reports a failed geolocation attempt.
type LocateFailedMsg struct {
	Err error
}

// TickMsg drives the staleness footer and the auto-refresh policy.
type TickMsg time.Time
