package ecs

// ComponentID uniquely identifies a Component within one Ecs instance.
// Ids are assigned monotonically in authored order, scoped per root Ecs
// rather than via a process-global counter.
type ComponentID uint64

// Component is a leaf data declaration: a named field attachable to
// entities. Mutated once by the resolver (Archetypes/Systems), then
// immutable.
type Component struct {
	ID          ComponentID
	Name        Name
	Description string

	// Archetypes lists the archetypes containing this component.
	// Populated by the resolver.
	Archetypes []Name
	// Systems lists the systems that read or write this component.
	// Populated by the resolver.
	Systems []Name
}
