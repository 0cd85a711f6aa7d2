package tracker

import "errors"

var (
	// ErrSessionActive is returned when starting while a timer already runs.
	ErrSessionActive = errors.New("a session is already active")
	// ErrNoActiveSession is returned when stopping with no timer running.
	ErrNoActiveSession = errors.New("no active session")
	// ErrSessionTooShort is returned when a stopped session is discarded
	// for being under MinSessionDuration.
	ErrSessionTooShort = errors.New("session shorter than one minute was discarded")
	// ErrActivityNotFound is returned for unknown activity ids.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrRewardNotFound is returned for unknown reward ids.
	ErrRewardNotFound = errors.New("reward not found")
	// ErrLogNotFound is returned for unknown log ids.
	ErrLogNotFound = errors.New("log not found")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
)
