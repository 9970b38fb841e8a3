package util

import "time"

// Clock provides the current time as Unix nanoseconds.
type Clock interface {
	CurrentUnixNano() int64
}

type wallClock struct{}

// NewClock returns a Clock backed by the system wall clock.
func NewClock() Clock {
	return wallClock{}
}

func (wallClock) CurrentUnixNano() int64 {
	return time.Now().UnixNano()
}
