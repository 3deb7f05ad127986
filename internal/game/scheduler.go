package game

import "time"

// Timer is a cancellable callback registered with a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs callbacks on the goroutine that owns engine state.
// AfterFunc and Post callbacks run on that goroutine; Go runs work off it.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Post(fn func())
	Go(fn func())
}

// Emitter delivers an event to a single connection.
type Emitter interface {
	Send(connID, event string, payload any)
}

type Random interface {
	IntN(n int) int
	Float64() float64
}
