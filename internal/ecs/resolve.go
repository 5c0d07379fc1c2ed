package ecs

import (
	"sort"

	"github.com/sunsided/ecsgen/internal/scheduler"
)

// Finish runs the resolver: it must be called after Validate succeeds,
// and fills every derived field on every entity. Order matters:
// archetypes, then systems, then states, then phases, then the
// root-level schedule, then each world.
func (e *Ecs) Finish() error {
	for _, a := range e.Archetypes {
		a.finish(e.Archetypes, e.Components)
	}

	for _, s := range e.Systems {
		s.finish(e.Archetypes)
	}

	e.finishComponentCrossRefs()

	for _, st := range e.States {
		st.finish(e.Systems)
	}

	anyFixed := false
	for _, p := range e.Phases {
		p.finish()
		if p.Fixed {
			anyFixed = true
		}
	}
	e.AnyPhaseFixed = anyFixed

	rootSchedule, err := e.schedulePhases(e.Systems)
	if err != nil {
		return err
	}
	e.ScheduledSystems = rootSchedule

	for _, w := range e.Worlds {
		if err := e.finishWorld(w); err != nil {
			return err
		}
	}

	return nil
}

func (e *Ecs) schedulePhases(systems []*System) (map[string][]Layer, error) {
	byPhase := make(map[string][]*System)
	for _, s := range systems {
		byPhase[s.Phase.TypeName] = append(byPhase[s.Phase.TypeName], s)
	}

	result := make(map[string][]Layer, len(e.Phases))
	for _, p := range e.Phases {
		group := byPhase[p.Name.TypeName]
		layers, err := scheduleGroup(group)
		if err != nil {
			return nil, err
		}
		result[p.Name.TypeName] = layers
	}
	return result, nil
}

func scheduleGroup(systems []*System) ([]Layer, error) {
	input := make([]scheduler.System, len(systems))
	for i, s := range systems {
		runAfter := make([]string, len(s.RunAfter))
		for j, r := range s.RunAfter {
			runAfter[j] = r.TypeName
		}
		input[i] = scheduler.System{
			ID:           scheduler.ID(s.ID),
			Name:         s.Name.TypeName,
			RunAfter:     runAfter,
			Dependencies: s.Dependencies,
		}
	}

	layers, err := scheduler.Schedule(input)
	if err != nil {
		return nil, translateScheduleError(err, systems)
	}

	out := make([]Layer, len(layers))
	for i, l := range layers {
		layer := make(Layer, len(l))
		for j, id := range l {
			layer[j] = SystemID(id)
		}
		out[i] = layer
	}
	return out, nil
}

func translateScheduleError(err error, systems []*System) error {
	cycleErr, ok := err.(*scheduler.CycleError)
	if !ok {
		return err
	}
	if cycleErr.Between {
		return NewCycleBetweenSystems(rawNameFor(systems, cycleErr.A), rawNameFor(systems, cycleErr.B))
	}
	return NewCycleInRunOrder()
}

// rawNameFor maps a canonical system TypeName back to its authored raw
// name for error messages, matching original_source's use of
// type_name_raw in cycle diagnostics.
func rawNameFor(systems []*System, typeName string) string {
	for _, s := range systems {
		if s.Name.TypeName == typeName {
			return s.Name.TypeNameRaw
		}
	}
	return typeName
}

// finish computes the ascending component id list, count, and promotion
// plans for an archetype.
func (a *Archetype) finish(archetypes []*Archetype, components []*Component) {
	ids := make([]ComponentID, 0, len(a.Components))
	for _, ref := range a.Components {
		for _, c := range components {
			if c.Name.Equal(ref) {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	a.ComponentIDs = ids
	a.Count = len(ids)

	a.PromotionPlans = a.PromotionPlans[:0]
	for _, targetRef := range a.Promotions {
		var target *Archetype
		for _, candidate := range archetypes {
			if candidate.Name.Equal(targetRef) {
				target = candidate
				break
			}
		}
		if target == nil {
			continue // validated already; defensive no-op
		}

		var toPass []Name
		for _, c := range a.Components {
			if target.hasComponent(c) {
				toPass = append(toPass, c)
			}
		}

		var toAdd []Name
		for _, c := range target.Components {
			if !a.hasComponent(c) {
				toAdd = append(toAdd, c)
			}
		}

		a.PromotionPlans = append(a.PromotionPlans, PromotionPlan{
			Target:           target.Name,
			ComponentsToPass: toPass,
			ComponentsToAdd:  toAdd,
		})
	}
}

// finish computes dependencies, affected archetypes, and the iteration
// plan for a system.
func (s *System) finish(archetypes []*Archetype) {
	s.finishDependencies()

	type idName struct {
		id   ArchetypeID
		name Name
	}
	var matches []idName
	required := s.requiredComponents()
	for _, a := range archetypes {
		if a.isSupersetOf(required) {
			matches = append(matches, idName{a.ID, a.Name})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].id < matches[j].id })

	s.AffectedArchetypeIDs = make([]ArchetypeID, len(matches))
	s.AffectedArchetypes = make([]Name, len(matches))
	for i, m := range matches {
		s.AffectedArchetypeIDs[i] = m.id
		s.AffectedArchetypes[i] = m.name
	}

	s.Iteration = s.buildIterationPlan()
}

func (s *System) finishDependencies() {
	s.Dependencies = s.Dependencies[:0]
	for _, c := range s.Inputs {
		s.Dependencies = append(s.Dependencies, scheduler.Dependency{
			Resource: scheduler.Resource{Kind: scheduler.ComponentResource, Name: c.TypeName},
			Access:   scheduler.Read,
		})
	}
	for _, c := range s.Outputs {
		s.Dependencies = append(s.Dependencies, scheduler.Dependency{
			Resource: scheduler.Resource{Kind: scheduler.ComponentResource, Name: c.TypeName},
			Access:   scheduler.Write,
		})
	}
	if s.NeedsContext {
		s.Dependencies = append(s.Dependencies, scheduler.Dependency{
			Resource: scheduler.Resource{Kind: scheduler.FrameContextResource},
			Access:   scheduler.Read,
		})
	}
	for _, u := range s.States {
		access := scheduler.Read
		if u.Writes {
			access = scheduler.Write
		}
		s.Dependencies = append(s.Dependencies, scheduler.Dependency{
			Resource: scheduler.Resource{Kind: scheduler.UserStateResource, Name: u.State.TypeName},
			Access:   access,
		})
	}
}

// buildIterationPlan computes the structured iteration shape: a single
// stream when there's exactly one participating stream, else a
// right-fold with outputs before inputs (each group right to left),
// entities outermost.
func (s *System) buildIterationPlan() IterationPlan {
	n := len(s.Inputs) + len(s.Outputs)
	if s.NeedsEntities {
		n++
	}

	if n == 1 {
		if s.NeedsEntities {
			return IterationPlan{Streams: []IterationStream{
				{FieldName: "entities", BindingName: "entity", Access: scheduler.Read},
			}}
		}
		if len(s.Outputs) == 1 {
			out := s.Outputs[0]
			return IterationPlan{Streams: []IterationStream{
				{FieldName: out.FieldNamePlural, BindingName: out.FieldName, Access: scheduler.Write},
			}}
		}
		if len(s.Inputs) == 1 {
			in := s.Inputs[0]
			return IterationPlan{Streams: []IterationStream{
				{FieldName: in.FieldNamePlural, BindingName: in.FieldName, Access: scheduler.Read},
			}}
		}
		return IterationPlan{}
	}

	// Right-fold: outputs right-to-left, then inputs right-to-left,
	// then entities outermost. Streams is built innermost-first then
	// reversed so index 0 is outermost.
	var streams []IterationStream
	for i := len(s.Outputs) - 1; i >= 0; i-- {
		out := s.Outputs[i]
		streams = append(streams, IterationStream{FieldName: out.FieldNamePlural, BindingName: out.FieldName, Access: scheduler.Write})
	}
	for i := len(s.Inputs) - 1; i >= 0; i-- {
		in := s.Inputs[i]
		streams = append(streams, IterationStream{FieldName: in.FieldNamePlural, BindingName: in.FieldName, Access: scheduler.Read})
	}
	if s.NeedsEntities {
		streams = append(streams, IterationStream{FieldName: "entities", BindingName: "entity", Access: scheduler.Read})
	}

	// Reverse so entities (if present) lead, then inputs, then outputs —
	// i.e. outermost-first.
	for i, j := 0, len(streams)-1; i < j; i, j = i+1, j-1 {
		streams[i], streams[j] = streams[j], streams[i]
	}

	return IterationPlan{Streams: streams}
}

// finish collects the systems that reference this state.
func (st *State) finish(systems []*System) {
	st.Systems = st.Systems[:0]
	for _, s := range systems {
		for _, use := range s.States {
			if use.State.Equal(st.Name) {
				st.Systems = append(st.Systems, s.Name)
				break
			}
		}
	}
}

func (e *Ecs) finishComponentCrossRefs() {
	for _, c := range e.Components {
		c.Archetypes = c.Archetypes[:0]
		c.Systems = c.Systems[:0]
	}
	for _, a := range e.Archetypes {
		for _, ref := range a.Components {
			if c := e.findComponent(ref); c != nil {
				c.Archetypes = append(c.Archetypes, a.Name)
			}
		}
	}
	for _, s := range e.Systems {
		touched := make(map[string]bool)
		for _, ref := range append(append([]Name{}, s.Inputs...), s.Outputs...) {
			if touched[ref.TypeName] {
				continue
			}
			touched[ref.TypeName] = true
			if c := e.findComponent(ref); c != nil {
				c.Systems = append(c.Systems, s.Name)
			}
		}
	}
}

// finishWorld populates a world's concrete archetypes, touching
// systems (uniqued by name, first occurrence kept), referenced
// states, and per-phase schedule.
func (e *Ecs) finishWorld(w *World) error {
	usedSystems := make(map[string]bool)
	usedStates := make(map[string]bool)

	seenArchetypes := make(map[string]bool)
	for _, ref := range w.ArchetypeRefs {
		a := e.findArchetype(ref)
		if a == nil || seenArchetypes[a.Name.TypeName] {
			continue
		}
		seenArchetypes[a.Name.TypeName] = true

		w.Archetypes = append(w.Archetypes, a.Name)

		for _, s := range e.Systems {
			touches := false
			for _, id := range s.AffectedArchetypeIDs {
				if id == a.ID {
					touches = true
					break
				}
			}
			if !touches {
				continue
			}
			if !usedSystems[s.Name.TypeName] {
				usedSystems[s.Name.TypeName] = true
				w.Systems = append(w.Systems, s.Name)
			}

			for _, use := range s.States {
				if usedStates[use.State.TypeName] {
					continue
				}
				usedStates[use.State.TypeName] = true
				w.States = append(w.States, use.State)
			}
		}
	}

	var worldSystems []*System
	for _, name := range w.Systems {
		if s := e.findSystem(name); s != nil {
			worldSystems = append(worldSystems, s)
		}
	}

	schedule, err := e.schedulePhases(worldSystems)
	if err != nil {
		return err
	}
	w.ScheduledSystems = schedule
	return nil
}
