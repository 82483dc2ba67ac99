// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserCreated()
	IncUserDeleted()
	IncSignup()
	IncLogin(status string) // status: "success" or "failed"
	IncLogout()

	// Journal metrics
	IncDreamLogCreated()
	IncDreamLogUpdated()
	IncDreamLogDeleted()
	IncTagCreated()
	IncDreamTagCreated()
	IncDreamTagDeleted()

	// Auth endpoints rejected by the rate limiter
	IncRateLimited()

	ObservePasswordHashDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
