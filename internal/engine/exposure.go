package engine

import (
	"sync"
	"time"
)

// Exposure is a revealed wallet secret with a bounded lifetime. The
// expiry callback runs exactly once, either when the lifetime elapses
// or when the caller dismisses the exposure early.
type Exposure struct {
	Secret    string
	ExpiresAt time.Time

	timer *time.Timer
	once  sync.Once
	done  func()
}

func newExposure(secret string, lifetime time.Duration, onDone func()) *Exposure {
	x := &Exposure{
		Secret:    secret,
		ExpiresAt: time.Now().Add(lifetime),
		done:      onDone,
	}
	x.timer = time.AfterFunc(lifetime, x.fire)
	return x
}

// Dismiss ends the exposure now, cancelling the pending expiry.
func (x *Exposure) Dismiss() {
	x.timer.Stop()
	x.fire()
}

func (x *Exposure) fire() {
	x.once.Do(func() {
		x.Secret = ""
		if x.done != nil {
			x.done()
		}
	})
}
