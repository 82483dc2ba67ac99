package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncUserCreated() {}
func (n *NoopRecorder) IncUserDeleted() {}
func (n *NoopRecorder) IncSignup() {}
func (n *NoopRecorder) IncLogin(string) {}
func (n *NoopRecorder) IncLogout() {}
func (n *NoopRecorder) IncRateLimited() {}
func (n *NoopRecorder) IncTagCreated() {}

func (n *NoopRecorder) IncDreamLogCreated() {}
func (n *NoopRecorder) IncDreamLogUpdated() {}
func (n *NoopRecorder) IncDreamLogDeleted() {}
func (n *NoopRecorder) IncDreamTagCreated() {}
func (n *NoopRecorder) IncDreamTagDeleted() {}

func (n *NoopRecorder) ObservePasswordHashDuration(time.Duration) {}
