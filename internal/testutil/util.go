package testutil

import (
	"time"
)

type TestClock struct {
	CurrentTime int64
}

func NewTestClock(currentTime int64) *TestClock {
	return &TestClock{CurrentTime: currentTime}
}

func (t *TestClock) CurrentUnixNano() int64 {
	return t.CurrentTime
}

func (t *TestClock) SetTime(currentTime int64) {
	t.CurrentTime = currentTime
}

func (t *TestClock) Advance(d time.Duration) {
	t.CurrentTime += d.Nanoseconds()
}

func (t *TestClock) Time() time.Time {
	return time.Unix(0, t.CurrentTime)
}

func Timed(fn func()) time.Duration {
	startTime := time.Now()
	fn()
	return time.Now().Sub(startTime)
}

func MillisToNanos(millis int) int64 {
	return (time.Duration(millis) * time.Millisecond).Nanoseconds()
}
