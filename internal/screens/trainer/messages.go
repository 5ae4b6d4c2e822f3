package trainer

import (
	"time"

	"github.com/abhisek/crosstrainer/internal/store"
)

// timerTickMsg redraws the running inspection clock.
type timerTickMsg time.Time

// sessionStartedMsg carries the session attempts are recorded under.
type sessionStartedMsg struct {
	Session *store.Session
	Err     error
}

// attemptSavedMsg confirms an attempt was persisted.
type attemptSavedMsg struct {
	Attempt *store.Attempt
	Err     error
}
