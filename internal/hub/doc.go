// Package hub implements the alert broadcast hub using the actor pattern.
//
// A single goroutine owns the observer set and processes commands from a
// channel (no mutexes). Each observer gets a dedicated write goroutine with
// a bounded send buffer; an observer that cannot keep up is evicted instead
// of stalling the fan-out.
package hub
