package instrument

import "time"

// Actor identifies who sent a command through the gateway.
type Actor struct {
	// Hostname is the machine name the command came from.
	Hostname string
	// Username is the system user who sent the command.
	Username string
}

// Clone returns a deep copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String renders the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return ""
	}

	return a.Username + "@" + a.Hostname
}

// State is what the gateway last did with its instrument.
type State struct {
	// Timestamp is when the last command was sent.
	Timestamp time.Time
	// LastActor is who sent the last command.
	LastActor *Actor
	// ResourceID is the VISA resource the gateway serves.
	ResourceID string
	// Identity is the parsed *IDN? of the instrument.
	Identity Identity
	// LastCommand is the last message written or queried.
	LastCommand string
}

// Clone returns a copy of the state to avoid leaking internal references.
func (s *State) Clone() *State {
	return &State{
		Timestamp:   s.Timestamp,
		LastActor:   s.LastActor.Clone(),
		ResourceID:  s.ResourceID,
		Identity:    s.Identity,
		LastCommand: s.LastCommand,
	}
}
