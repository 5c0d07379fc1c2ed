package ecs

import "github.com/sunsided/ecsgen/internal/scheduler"

// SystemID uniquely identifies a System within one Ecs instance.
type SystemID uint64

// StateUse records how a system uses a named user state.
type StateUse struct {
	State  Name
	Writes bool
}

// IterationStream describes one stream a system's iteration plan walks:
// a component (or the entity id stream), in read or write mode.
type IterationStream struct {
	// FieldName is the plural field name of the stream (e.g.
	// "velocities"), or "entities" for the entity id stream.
	FieldName string
	// BindingName is the singular binding name used when destructuring
	// one element of the stream (e.g. "velocity", or "entity").
	BindingName string
	Access      scheduler.Access
}

// IterationPlan is the structured shape of how a system traverses its
// per-archetype storage. Streams is ordered outermost first: the entity
// stream (if any), then the inputs, then the outputs, each group in
// authored order; the innermost stream is the last output.
// Rendering this into target-language syntax is the emitter's job; the
// shape here is the resolver's contract.
type IterationPlan struct {
	Streams []IterationStream
}

// System is a unit of work: a stateless function over per-archetype
// component streams.
type System struct {
	ID          SystemID
	Name        Name
	Description string

	Phase Name

	Inputs  []Name
	Outputs []Name
	Lookup  []Name

	NeedsEntities   bool
	NeedsContext    bool
	EmitsCommands   bool
	HasPreflight    bool
	HasPostflight   bool

	States []StateUse

	// RunAfter is the set of system names this system must run after.
	RunAfter []Name

	// Dependencies is derived: one entry per input (Read), output
	// (Write), FrameContext (Read, if NeedsContext), and state use
	// (Read/Write per StateUse.Writes). Populated by the resolver.
	Dependencies []scheduler.Dependency

	// AffectedArchetypes is the sorted-by-id list of archetypes whose
	// component set is a superset of Inputs ∪ Outputs. Populated by
	// the resolver.
	AffectedArchetypes []Name
	// AffectedArchetypeIDs mirrors AffectedArchetypes, ascending.
	AffectedArchetypeIDs []ArchetypeID

	// Iteration is the resolved iteration plan. Populated by the
	// resolver.
	Iteration IterationPlan
}

// requiredComponents returns the union of Inputs and Outputs keyed by
// TypeName, used for archetype-superset checks.
func (s *System) requiredComponents() map[string]bool {
	set := make(map[string]bool, len(s.Inputs)+len(s.Outputs))
	for _, c := range s.Inputs {
		set[c.TypeName] = true
	}
	for _, c := range s.Outputs {
		set[c.TypeName] = true
	}
	return set
}
