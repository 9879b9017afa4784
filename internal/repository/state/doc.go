// Package state persists what the gateway last did with its instrument, so
// that a restarted gateway reports the same last command and actor.
package state
