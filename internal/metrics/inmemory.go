package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated      uint64
	UsersDeleted      uint64
	Signups           uint64
	LoginsSucceeded   uint64
	LoginsFailed      uint64
	Logouts           uint64
	DreamLogsCreated  uint64
	DreamLogsUpdated  uint64
	DreamLogsDeleted  uint64
	TagsCreated       uint64
	DreamTagsCreated  uint64
	DreamTagsDeleted  uint64
	RateLimited       uint64
	HashDurationCount uint64
	HashDurationNs    int64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics endpoint.
type InMemoryRecorder struct {
	usersCreated      atomic.Uint64
	usersDeleted      atomic.Uint64
	signups           atomic.Uint64
	loginsSucceeded   atomic.Uint64
	loginsFailed      atomic.Uint64
	logouts           atomic.Uint64
	dreamLogsCreated  atomic.Uint64
	dreamLogsUpdated  atomic.Uint64
	dreamLogsDeleted  atomic.Uint64
	tagsCreated       atomic.Uint64
	dreamTagsCreated  atomic.Uint64
	dreamTagsDeleted  atomic.Uint64
	rateLimited       atomic.Uint64
	hashDurationCount atomic.Uint64
	hashDurationNs    atomic.Int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:      m.usersCreated.Load(),
		UsersDeleted:      m.usersDeleted.Load(),
		Signups:           m.signups.Load(),
		LoginsSucceeded:   m.loginsSucceeded.Load(),
		LoginsFailed:      m.loginsFailed.Load(),
		Logouts:           m.logouts.Load(),
		DreamLogsCreated:  m.dreamLogsCreated.Load(),
		DreamLogsUpdated:  m.dreamLogsUpdated.Load(),
		DreamLogsDeleted:  m.dreamLogsDeleted.Load(),
		TagsCreated:       m.tagsCreated.Load(),
		DreamTagsCreated:  m.dreamTagsCreated.Load(),
		DreamTagsDeleted:  m.dreamTagsDeleted.Load(),
		RateLimited:       m.rateLimited.Load(),
		HashDurationCount: m.hashDurationCount.Load(),
		HashDurationNs:    m.hashDurationNs.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() { m.usersCreated.Add(1) }

// IncUserDeleted increments the user deleted counter.
func (m *InMemoryRecorder) IncUserDeleted() { m.usersDeleted.Add(1) }

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() { m.signups.Add(1) }

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		m.loginsSucceeded.Add(1)
		return
	}
	m.loginsFailed.Add(1)
}

// IncLogout increments the logout counter.
func (m *InMemoryRecorder) IncLogout() { m.logouts.Add(1) }

func (m *InMemoryRecorder) IncDreamLogCreated() { m.dreamLogsCreated.Add(1) }
func (m *InMemoryRecorder) IncDreamLogUpdated() { m.dreamLogsUpdated.Add(1) }
func (m *InMemoryRecorder) IncDreamLogDeleted() { m.dreamLogsDeleted.Add(1) }
func (m *InMemoryRecorder) IncTagCreated() { m.tagsCreated.Add(1) }
func (m *InMemoryRecorder) IncDreamTagCreated() { m.dreamTagsCreated.Add(1) }
func (m *InMemoryRecorder) IncDreamTagDeleted() { m.dreamTagsDeleted.Add(1) }

// IncRateLimited increments the rejected-by-rate-limit counter.
func (m *InMemoryRecorder) IncRateLimited() { m.rateLimited.Add(1) }

// ObservePasswordHashDuration records the time spent hashing or verifying a password.
func (m *InMemoryRecorder) ObservePasswordHashDuration(duration time.Duration) {
	m.hashDurationCount.Add(1)
	m.hashDurationNs.Add(duration.Nanoseconds())
}
