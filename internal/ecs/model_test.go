package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPhase(t *testing.T, e *Ecs, name string) *Phase {
	t.Helper()
	p, err := e.AddPhase(name, "", "", false, false)
	require.NoError(t, err)
	return p
}

func simpleValidEcs(t *testing.T) *Ecs {
	t.Helper()
	e := NewEcs()
	e.AddComponent("Position", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	e.AddSystem(SystemSpec{
		Name:    "Move",
		Phase:   "Update",
		Outputs: []string{"Position"},
	})
	return e
}

func TestValidate_SimpleEcsPasses(t *testing.T) {
	e := simpleValidEcs(t)
	assert.NoError(t, e.Validate())
}

func TestValidate_DuplicateComponentDefinition(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	e.AddComponent("PositionComponent", "") // canonicalizes to the same TypeName
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, DuplicateComponentDefinition, ecsErr.Kind)
}

func TestValidate_MissingComponentInArchetype(t *testing.T) {
	e := NewEcs()
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingComponentInArchetype, ecsErr.Kind)
}

func TestValidate_DuplicateComponentInArchetype(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position", "Position"}, nil)
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, DuplicateComponentInArchetype, ecsErr.Kind)
}

func TestValidate_MissingComponentInSystem(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	e.AddSystem(SystemSpec{Name: "Move", Phase: "Update", Inputs: []string{"Velocity"}})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingComponentInSystem, ecsErr.Kind)
}

func TestValidate_DuplicateComponentInSystem(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	e.AddSystem(SystemSpec{Name: "Move", Phase: "Update", Inputs: []string{"Position"}, Outputs: []string{"Position"}})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, DuplicateComponentInSystem, ecsErr.Kind)
}

func TestValidate_NoMatchingArchetypeForSystem(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	e.AddComponent("Velocity", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	e.AddSystem(SystemSpec{Name: "Integrate", Phase: "Update", Inputs: []string{"Velocity"}, Outputs: []string{"Position"}})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, NoMatchingArchetypeForSystem, ecsErr.Kind)
}

func TestValidate_DuplicateArchetype(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	e.AddComponent("Velocity", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position", "Velocity"}, nil)
	e.AddArchetype("AlsoMoving", "", []string{"Velocity", "Position"}, nil)
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, DuplicateArchetype, ecsErr.Kind)
}

func TestValidate_PromotionToSelf(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	mustPhase(t, e, "Update")
	e.AddArchetype("Moving", "", []string{"Position"}, []string{"Moving"})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, PromotionToSelf, ecsErr.Kind)
}

func TestValidate_WorldWithoutArchetypes(t *testing.T) {
	e := NewEcs()
	e.AddWorld("Level", "", nil)
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, WorldWithoutArchetypes, ecsErr.Kind)
}

func TestValidate_MissingArchetypeInWorld(t *testing.T) {
	e := NewEcs()
	e.AddWorld("Level", "", []string{"Ghost"})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingArchetypeInWorld, ecsErr.Kind)
}

func TestValidate_SystemDependsOnItself(t *testing.T) {
	e := simpleValidEcs(t)
	e.Systems[0].RunAfter = []Name{SystemRef("Move")}
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, SystemDependsOnItself, ecsErr.Kind)
}

func TestValidate_MissingSystemDependency(t *testing.T) {
	e := simpleValidEcs(t)
	e.Systems[0].RunAfter = []Name{SystemRef("Ghost")}
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingSystemDependency, ecsErr.Kind)
}

func TestValidate_MissingStateInSystem(t *testing.T) {
	e := simpleValidEcs(t)
	e.Systems[0].States = []StateUse{{State: StateRef("Ghost")}}
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingStateInSystem, ecsErr.Kind)
}

func TestValidate_MissingPhase(t *testing.T) {
	e := NewEcs()
	e.AddComponent("Position", "")
	e.AddArchetype("Moving", "", []string{"Position"}, nil)
	e.AddSystem(SystemSpec{Name: "Move", Phase: "Ghost", Outputs: []string{"Position"}})
	err := e.Validate()
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, MissingPhase, ecsErr.Kind)
}

func TestAddPhase_InvalidFixedTiming(t *testing.T) {
	e := NewEcs()
	_, err := e.AddPhase("Physics", "", "not-a-timing", false, false)
	require.Error(t, err)
	var ecsErr *Error
	require.ErrorAs(t, err, &ecsErr)
	assert.Equal(t, InvalidFixedTiming, ecsErr.Kind)
}

func TestAddPhase_FixedTimingVariants(t *testing.T) {
	e := NewEcs()
	p, err := e.AddPhase("Physics", "", "true", false, false)
	require.NoError(t, err)
	assert.Equal(t, FixedTimingDefault60Hz, p.FixedInput.Kind)

	p, err = e.AddPhase("Render", "", "30Hz", false, false)
	require.NoError(t, err)
	assert.Equal(t, FixedTimingHertz, p.FixedInput.Kind)
	assert.InDelta(t, 30.0, p.FixedInput.Value, 0.001)

	p, err = e.AddPhase("Tick", "", "0.5s", false, false)
	require.NoError(t, err)
	assert.Equal(t, FixedTimingSeconds, p.FixedInput.Kind)
	assert.InDelta(t, 0.5, p.FixedInput.Value, 0.001)
}
