package ecs

import (
	"sort"
	"strings"
)

// Ecs is the root aggregate: it exclusively owns every component,
// archetype, system, phase, state, and world. All cross-entity
// references are by name until Finish resolves them to ids.
type Ecs struct {
	Components []*Component
	Archetypes []*Archetype
	Systems    []*System
	Phases     []*Phase
	States     []*State
	Worlds     []*World

	// AnyPhaseFixed is true iff at least one phase uses fixed timing.
	// Populated by Finish.
	AnyPhaseFixed bool

	// ScheduledSystems holds the root-level layered schedule per phase
	// name, computed over every system in the Ecs (not filtered to a
	// world). Populated by Finish.
	ScheduledSystems map[string][]Layer

	nextComponentID ComponentID
	nextArchetypeID ArchetypeID
	nextSystemID    SystemID
	nextWorldID     WorldID
}

// NewEcs creates an empty root.
func NewEcs() *Ecs {
	return &Ecs{
		nextComponentID: 1,
		nextArchetypeID: 1,
		nextSystemID:    1,
		nextWorldID:     1,
	}
}

// Name canonicalization helpers. Suffixing is applied here rather than
// by the manifest loader so every caller gets identical canonicalization
// regardless of source format.

func ComponentRef(s string) Name { return NewName(s, "Component") }
func ArchetypeRef(s string) Name { return NewName(s, "Archetype") }
func SystemRef(s string) Name    { return NewName(s, "System") }
func PhaseRef(s string) Name     { return NewName(s, "Phase") }
func WorldRef(s string) Name     { return NewName(s, "World") }
func StateRef(s string) Name     { return NewName(s, "") }

// AddComponent registers a new component in authored order, assigning
// it the next monotonic id.
func (e *Ecs) AddComponent(name, description string) *Component {
	c := &Component{ID: e.nextComponentID, Name: ComponentRef(name), Description: description}
	e.nextComponentID++
	e.Components = append(e.Components, c)
	return c
}

// AddArchetype registers a new archetype. components and promotions
// are raw authored names; they are canonicalized here.
func (e *Ecs) AddArchetype(name, description string, components, promotions []string) *Archetype {
	a := &Archetype{
		ID:          e.nextArchetypeID,
		Name:        ArchetypeRef(name),
		Description: description,
	}
	for _, c := range components {
		a.Components = append(a.Components, ComponentRef(c))
	}
	for _, p := range promotions {
		a.Promotions = append(a.Promotions, ArchetypeRef(p))
	}
	e.nextArchetypeID++
	e.Archetypes = append(e.Archetypes, a)
	return a
}

// AddPhase registers a new phase. fixedSpec is the raw authored fixed
// timing string (see parseFixedTiming); an invalid spec yields an
// error here rather than deferring it to Finish, since InvalidFixedTiming
// is a static failure, not a resolution-time one.
func (e *Ecs) AddPhase(name, description, fixedSpec string, manual, onRequest bool) (*Phase, error) {
	timing, err := parseFixedTiming(fixedSpec)
	if err != nil {
		return nil, err
	}
	p := &Phase{
		Name:        PhaseRef(name),
		Description: description,
		Manual:      manual,
		OnRequest:   onRequest,
		FixedInput:  timing,
	}
	e.Phases = append(e.Phases, p)
	return p, nil
}

// SystemSpec carries the raw authored fields for a new system; grouped
// into a struct since AddSystem otherwise has an unwieldy parameter
// list.
type SystemSpec struct {
	Name          string
	Description   string
	Phase         string
	Inputs        []string
	Outputs       []string
	Lookup        []string
	RunAfter      []string
	States        []StateUseSpec
	NeedsEntities bool
	NeedsContext  bool
	EmitsCommands bool
	HasPreflight  bool
	HasPostflight bool
}

// StateUseSpec is the raw authored form of a StateUse.
type StateUseSpec struct {
	Use    string
	Writes bool
}

// AddSystem registers a new system.
func (e *Ecs) AddSystem(spec SystemSpec) *System {
	s := &System{
		ID:            e.nextSystemID,
		Name:          SystemRef(spec.Name),
		Description:   spec.Description,
		Phase:         PhaseRef(spec.Phase),
		NeedsEntities: spec.NeedsEntities,
		NeedsContext:  spec.NeedsContext,
		EmitsCommands: spec.EmitsCommands,
		HasPreflight:  spec.HasPreflight,
		HasPostflight: spec.HasPostflight,
	}
	for _, c := range spec.Inputs {
		s.Inputs = append(s.Inputs, ComponentRef(c))
	}
	for _, c := range spec.Outputs {
		s.Outputs = append(s.Outputs, ComponentRef(c))
	}
	for _, c := range spec.Lookup {
		s.Lookup = append(s.Lookup, ComponentRef(c))
	}
	for _, r := range spec.RunAfter {
		s.RunAfter = append(s.RunAfter, SystemRef(r))
	}
	for _, u := range spec.States {
		s.States = append(s.States, StateUse{State: StateRef(u.Use), Writes: u.Writes})
	}
	e.nextSystemID++
	e.Systems = append(e.Systems, s)
	return s
}

// AddState registers a new state.
func (e *Ecs) AddState(name, description string) *State {
	s := &State{Name: StateRef(name), Description: description}
	e.States = append(e.States, s)
	return s
}

// AddWorld registers a new world.
func (e *Ecs) AddWorld(name, description string, archetypes []string) *World {
	w := &World{
		ID:          e.nextWorldID,
		Name:        WorldRef(name),
		Description: description,
	}
	for _, a := range archetypes {
		w.ArchetypeRefs = append(w.ArchetypeRefs, ArchetypeRef(a))
	}
	e.nextWorldID++
	e.Worlds = append(e.Worlds, w)
	return w
}

// --- Name-based lookups, used by the validator and resolver. ---

func (e *Ecs) findComponent(n Name) *Component {
	for _, c := range e.Components {
		if c.Name.Equal(n) {
			return c
		}
	}
	return nil
}

func (e *Ecs) findArchetype(n Name) *Archetype {
	for _, a := range e.Archetypes {
		if a.Name.Equal(n) {
			return a
		}
	}
	return nil
}

func (e *Ecs) findSystem(n Name) *System {
	for _, s := range e.Systems {
		if s.Name.Equal(n) {
			return s
		}
	}
	return nil
}

func (e *Ecs) findPhase(n Name) *Phase {
	for _, p := range e.Phases {
		if p.Name.Equal(n) {
			return p
		}
	}
	return nil
}

func (e *Ecs) findState(n Name) *State {
	for _, s := range e.States {
		if s.Name.Equal(n) {
			return s
		}
	}
	return nil
}

// Validate runs the fixed-order structural checks, returning the
// first failure.
func (e *Ecs) Validate() error {
	if err := e.checkDuplicateComponents(); err != nil {
		return err
	}
	if err := e.checkComponentConsistency(); err != nil {
		return err
	}
	if err := e.checkStateUniqueness(); err != nil {
		return err
	}
	if err := e.checkArchetypeDistinctness(); err != nil {
		return err
	}
	if err := e.checkNoSelfPromotion(); err != nil {
		return err
	}
	if err := e.checkWorldConsistency(); err != nil {
		return err
	}
	if err := e.checkSystemConsistency(); err != nil {
		return err
	}
	return nil
}

// 1. Duplicate component definition.
func (e *Ecs) checkDuplicateComponents() error {
	seen := make(map[string]bool, len(e.Components))
	for _, c := range e.Components {
		if seen[c.Name.TypeName] {
			return errDuplicateComponentDefinition(c.Name.TypeNameRaw)
		}
		seen[c.Name.TypeName] = true
	}
	return nil
}

// 2. Component consistency: every component ref exists; no component
// referenced twice within one archetype or one system's inputs+outputs.
func (e *Ecs) checkComponentConsistency() error {
	for _, a := range e.Archetypes {
		seen := make(map[string]bool, len(a.Components))
		for _, ref := range a.Components {
			if seen[ref.TypeName] {
				return errDuplicateComponentInArchetype(ref.TypeNameRaw, a.Name.TypeNameRaw)
			}
			seen[ref.TypeName] = true
			if e.findComponent(ref) == nil {
				return errMissingComponentInArchetype(ref.TypeNameRaw, a.Name.TypeNameRaw)
			}
		}
	}

	for _, s := range e.Systems {
		seen := make(map[string]bool, len(s.Inputs)+len(s.Outputs))
		all := make([]Name, 0, len(s.Inputs)+len(s.Outputs))
		all = append(all, s.Inputs...)
		all = append(all, s.Outputs...)
		for _, ref := range all {
			if seen[ref.TypeName] {
				return errDuplicateComponentInSystem(ref.TypeNameRaw, s.Name.TypeNameRaw)
			}
			seen[ref.TypeName] = true
			if e.findComponent(ref) == nil {
				return errMissingComponentInSystem(ref.TypeNameRaw, s.Name.TypeNameRaw)
			}
		}
	}
	return nil
}

// 3. State uniqueness.
func (e *Ecs) checkStateUniqueness() error {
	seen := make(map[string]bool, len(e.States))
	for _, s := range e.States {
		if seen[s.Name.TypeName] {
			return errStateDefinedMultipleTimes(s.Name.TypeNameRaw)
		}
		seen[s.Name.TypeName] = true
	}
	return nil
}

// 4. Archetype distinctness: no two archetypes share the same
// component set (case-insensitive, order-insensitive).
func (e *Ecs) checkArchetypeDistinctness() error {
	seen := make(map[string]string, len(e.Archetypes))
	for _, a := range e.Archetypes {
		key := archetypeSetKey(a.Components)
		if other, ok := seen[key]; ok {
			return errDuplicateArchetype(a.Name.TypeNameRaw, other)
		}
		seen[key] = a.Name.TypeNameRaw
	}
	return nil
}

func archetypeSetKey(components []Name) string {
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = strings.ToLower(c.TypeName)
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// 5. No self-promotion.
func (e *Ecs) checkNoSelfPromotion() error {
	for _, a := range e.Archetypes {
		for _, target := range a.Promotions {
			if target.Equal(a.Name) {
				return errPromotionToSelf(a.Name.TypeNameRaw)
			}
		}
	}
	return nil
}

// 6. World consistency: every world references at least one
// archetype, and each referenced archetype exists.
func (e *Ecs) checkWorldConsistency() error {
	for _, w := range e.Worlds {
		if len(w.ArchetypeRefs) == 0 {
			return errWorldWithoutArchetypes(w.Name.TypeNameRaw)
		}
		for _, ref := range w.ArchetypeRefs {
			if e.findArchetype(ref) == nil {
				return errMissingArchetypeInWorld(ref.TypeNameRaw, w.Name.TypeNameRaw)
			}
		}
	}
	return nil
}

// 7. System consistency: run_after targets exist and aren't self;
// state uses name existing states; phase exists; at least one
// archetype covers inputs ∪ outputs.
func (e *Ecs) checkSystemConsistency() error {
	for _, s := range e.Systems {
		for _, pred := range s.RunAfter {
			if pred.Equal(s.Name) {
				return errSystemDependsOnItself(s.Name.TypeNameRaw)
			}
			if e.findSystem(pred) == nil {
				return errMissingSystemDependency(pred.TypeNameRaw, s.Name.TypeNameRaw)
			}
		}

		for _, use := range s.States {
			if e.findState(use.State) == nil {
				return errMissingStateInSystem(use.State.TypeNameRaw, s.Name.TypeNameRaw)
			}
		}

		if e.findPhase(s.Phase) == nil {
			return errMissingPhase(s.Phase.TypeNameRaw, s.Name.TypeNameRaw)
		}

		required := s.requiredComponents()
		covered := false
		for _, a := range e.Archetypes {
			if a.isSupersetOf(required) {
				covered = true
				break
			}
		}
		if !covered {
			return errNoMatchingArchetypeForSystem(s.Name.TypeNameRaw)
		}
	}
	return nil
}
