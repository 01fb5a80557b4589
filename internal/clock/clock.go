// Package clock provides the monotonic time source the gossip engine
// reads failure timeouts against. It exists so tests can advance time
// deterministically instead of racing a wall clock.
package clock

import "time"

// Clock is a minimal monotonic time provider. Every value it returns is
// only meaningfully comparable by subtraction against another value it
// produced.
type Clock interface {
	Now() time.Time
}

// System is the default Clock, backed by the platform monotonic clock
// via time.Now().
type System struct{}

func (System) Now() time.Time { return time.Now() }
