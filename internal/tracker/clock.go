package tracker

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Clock abstracts time.Now and time.AfterFunc so the midnight-refresh
// schedule can be driven by a fake in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (rt realTimer) Stop() bool { return rt.t.Stop() }

// NewClock returns a Clock backed by the system clock.
func NewClock() Clock { return realClock{} }
