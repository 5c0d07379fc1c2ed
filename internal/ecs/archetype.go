package ecs

// ArchetypeID uniquely identifies an Archetype within one Ecs instance.
type ArchetypeID uint64

// PromotionPlan describes migrating an entity from one archetype into
// a larger target archetype: the components carried over (authored
// source order) and the components newly added (target order).
type PromotionPlan struct {
	Target            Name
	ComponentsToPass  []Name
	ComponentsToAdd   []Name
}

// Archetype is a set of components co-stored for entities sharing it.
type Archetype struct {
	ID          ArchetypeID
	Name        Name
	Description string

	// Components is the ordered list of component references, in
	// authored order.
	Components []Name
	// Promotions lists the names of archetypes this one may be
	// promoted into, as authored.
	Promotions []Name

	// ComponentIDs is the sorted ascending list of component ids.
	// Populated by the resolver.
	ComponentIDs []ComponentID
	// Count is len(ComponentIDs). Populated by the resolver.
	Count int
	// PromotionPlans holds one plan per entry in Promotions, in the
	// same order. Populated by the resolver.
	PromotionPlans []PromotionPlan
}

// hasComponent reports whether the archetype lists component c.
func (a *Archetype) hasComponent(c Name) bool {
	for _, existing := range a.Components {
		if existing.Equal(c) {
			return true
		}
	}
	return false
}

// componentSet returns the archetype's components as a name set, keyed
// by canonical TypeName, for superset/equality checks.
func (a *Archetype) componentSet() map[string]bool {
	set := make(map[string]bool, len(a.Components))
	for _, c := range a.Components {
		set[c.TypeName] = true
	}
	return set
}

// isSupersetOf reports whether a's component set is a superset of
// required (keyed by TypeName).
func (a *Archetype) isSupersetOf(required map[string]bool) bool {
	set := a.componentSet()
	for name := range required {
		if !set[name] {
			return false
		}
	}
	return true
}
