package guided

import "time"

// Clock abstracts wall-clock time so session tests can run on a virtual
// timeline. Elapsed-time math always goes through this.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }
