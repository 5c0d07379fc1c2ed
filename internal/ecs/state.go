package ecs

// State is a named user-owned datum shared across systems.
type State struct {
	Name        Name
	Description string

	// Systems lists the systems that reference this state in a
	// StateUse. Populated by the resolver.
	Systems []Name
}
