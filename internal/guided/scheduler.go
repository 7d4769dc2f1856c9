package guided

import "time"

// CancelFunc cancels a pending scheduler callback. Safe to call more than
// once and after the callback has fired.
type CancelFunc func()

// Scheduler arms one-shot callbacks. The session keeps at most one armed
// callback at a time and cancels it on every phase change, pause and
// teardown; a scheduler implementation only needs plain one-shot semantics.
type Scheduler interface {
	After(d time.Duration, fn func()) CancelFunc
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// TimerScheduler returns a Scheduler backed by time.AfterFunc.
func TimerScheduler() Scheduler { return timerScheduler{} }
