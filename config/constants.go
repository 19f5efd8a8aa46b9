package config

import "time"

// Upload and Job Constants
const (
	// DefaultMaxInputBytes caps each uploaded file (100 MB).
	DefaultMaxInputBytes = 100 << 20

	// DefaultJobTimeout bounds one engine run.
	DefaultJobTimeout = 5 * time.Minute

	// ProbeTimeout bounds one introspection call.
	ProbeTimeout = 15 * time.Second

	// SweepMaxAge is how old a leftover job workspace must be before the
	// janitor removes it.
	SweepMaxAge = time.Hour
)

// Session and Rate Limit Constants
const (
	// DefaultSessionTTL is how long a login session stays valid.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultRateLimitPerMinute caps processing requests per client.
	DefaultRateLimitPerMinute = 30

	// SessionCookie is the session cookie name.
	SessionCookie = "clipchat_session"
)
