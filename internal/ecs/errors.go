package ecs

import "fmt"

// Kind identifies the category of a static generation failure.
type Kind int

const (
	DuplicateComponentDefinition Kind = iota
	MissingComponentInArchetype
	DuplicateComponentInArchetype
	MissingComponentInSystem
	DuplicateComponentInSystem
	DuplicateArchetype
	NoMatchingArchetypeForSystem
	PromotionToSelf
	MissingPhase
	WorldWithoutArchetypes
	MissingArchetypeInWorld
	MissingSystemDependency
	SystemDependsOnItself
	MissingStateInSystem
	StateDefinedMultipleTimes
	CycleDetectedBetweenSystems
	CycleDetectedInSystemRunOrder
	TemplateError
	InvalidFixedTiming
)

// Error is the single tagged error type covering all static failures
// in the generation pipeline. Context fields are populated per Kind.
type Error struct {
	Kind  Kind
	A, B  string
	Inner error
}

func (e *Error) Unwrap() error { return e.Inner }

func (e *Error) Error() string {
	switch e.Kind {
	case DuplicateComponentDefinition:
		return fmt.Sprintf("Component '%s' is defined more than once.", e.A)
	case MissingComponentInArchetype:
		return fmt.Sprintf("Component '%s' in archetype '%s' is not defined in the ECS components.", e.A, e.B)
	case DuplicateComponentInArchetype:
		return fmt.Sprintf("Component '%s' in archetype '%s' is referenced more than once.", e.A, e.B)
	case MissingComponentInSystem:
		return fmt.Sprintf("Component '%s' in system '%s' is not defined in the ECS components.", e.A, e.B)
	case DuplicateComponentInSystem:
		return fmt.Sprintf("Component '%s' in system '%s' is referenced more than once.", e.A, e.B)
	case DuplicateArchetype:
		return fmt.Sprintf("Duplicate archetype '%s' and '%s'", e.A, e.B)
	case NoMatchingArchetypeForSystem:
		return fmt.Sprintf("System %s requires components not covered by any archetype.", e.A)
	case PromotionToSelf:
		return fmt.Sprintf("Promotion of archetype '%s' to itself is not allowed.", e.A)
	case MissingPhase:
		return fmt.Sprintf("System %s uses undefined phase '%s'.", e.B, e.A)
	case WorldWithoutArchetypes:
		return fmt.Sprintf("World '%s' does not reference any archetypes.", e.A)
	case MissingArchetypeInWorld:
		return fmt.Sprintf("Archetype '%s' referenced by world '%s' does not exist.", e.A, e.B)
	case MissingSystemDependency:
		return fmt.Sprintf("System '%s' has run_after dependency on undefined system '%s'.", e.B, e.A)
	case SystemDependsOnItself:
		return fmt.Sprintf("System '%s' cannot run_after itself.", e.A)
	case MissingStateInSystem:
		return fmt.Sprintf("State '%s' used by system '%s' is not defined.", e.A, e.B)
	case StateDefinedMultipleTimes:
		return fmt.Sprintf("State '%s' is defined more than once.", e.A)
	case CycleDetectedBetweenSystems:
		return fmt.Sprintf("Cycle detected between systems '%s' and '%s'.", e.A, e.B)
	case CycleDetectedInSystemRunOrder:
		return "Cycle detected in system run order."
	case TemplateError:
		if e.Inner != nil {
			return fmt.Sprintf("Failed to process template: %s", e.Inner.Error())
		}
		return "Failed to process template."
	case InvalidFixedTiming:
		return fmt.Sprintf("Invalid fixed timing: %s", e.A)
	default:
		return "unknown ecs error"
	}
}

func errDuplicateComponentDefinition(name string) error {
	return &Error{Kind: DuplicateComponentDefinition, A: name}
}

func errMissingComponentInArchetype(component, archetype string) error {
	return &Error{Kind: MissingComponentInArchetype, A: component, B: archetype}
}

func errDuplicateComponentInArchetype(component, archetype string) error {
	return &Error{Kind: DuplicateComponentInArchetype, A: component, B: archetype}
}

func errMissingComponentInSystem(component, system string) error {
	return &Error{Kind: MissingComponentInSystem, A: component, B: system}
}

func errDuplicateComponentInSystem(component, system string) error {
	return &Error{Kind: DuplicateComponentInSystem, A: component, B: system}
}

func errDuplicateArchetype(a, b string) error {
	return &Error{Kind: DuplicateArchetype, A: a, B: b}
}

func errNoMatchingArchetypeForSystem(system string) error {
	return &Error{Kind: NoMatchingArchetypeForSystem, A: system}
}

func errPromotionToSelf(archetype string) error {
	return &Error{Kind: PromotionToSelf, A: archetype}
}

func errMissingPhase(phase, system string) error {
	return &Error{Kind: MissingPhase, A: phase, B: system}
}

func errWorldWithoutArchetypes(world string) error {
	return &Error{Kind: WorldWithoutArchetypes, A: world}
}

func errMissingArchetypeInWorld(archetype, world string) error {
	return &Error{Kind: MissingArchetypeInWorld, A: archetype, B: world}
}

func errMissingSystemDependency(predecessor, system string) error {
	return &Error{Kind: MissingSystemDependency, A: predecessor, B: system}
}

func errSystemDependsOnItself(system string) error {
	return &Error{Kind: SystemDependsOnItself, A: system}
}

func errMissingStateInSystem(state, system string) error {
	return &Error{Kind: MissingStateInSystem, A: state, B: system}
}

func errStateDefinedMultipleTimes(name string) error {
	return &Error{Kind: StateDefinedMultipleTimes, A: name}
}

// NewCycleBetweenSystems and NewCycleInRunOrder turn the scheduler
// package's CycleError into this package's Error (see
// translateScheduleError in resolve.go).

// NewCycleBetweenSystems builds a CycleDetectedBetweenSystems error.
func NewCycleBetweenSystems(a, b string) error {
	return &Error{Kind: CycleDetectedBetweenSystems, A: a, B: b}
}

// NewCycleInRunOrder builds a CycleDetectedInSystemRunOrder error.
func NewCycleInRunOrder() error {
	return &Error{Kind: CycleDetectedInSystemRunOrder}
}

func errInvalidFixedTiming(raw string) error {
	return &Error{Kind: InvalidFixedTiming, A: raw}
}

// NewTemplateError wraps a template-engine failure, built by the
// emitter (which depends on this package for the Error type, not the
// other unexported constructors).
func NewTemplateError(inner error) error {
	return &Error{Kind: TemplateError, Inner: inner}
}
