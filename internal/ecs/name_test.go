package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewName_Velocity(t *testing.T) {
	n := NewName("Velocity", "Component")
	assert.Equal(t, "VelocityComponent", n.TypeName)
	assert.Equal(t, "Velocity", n.TypeNameRaw)
	assert.Equal(t, "velocity", n.FieldName)
	assert.Equal(t, "velocities", n.FieldNamePlural)
}

func TestNewName_AcronymNotSpecialCased(t *testing.T) {
	n := NewName("HTTPServer", "")
	assert.Equal(t, "HTTPServer", n.TypeName)
	assert.Equal(t, "HTTPServer", n.TypeNameRaw)
	assert.Equal(t, "h_t_t_p_server", n.FieldName)
	assert.Equal(t, "h_t_t_p_servers", n.FieldNamePlural)
}

func TestNewName_AlreadySuffixed(t *testing.T) {
	n := NewName("VelocityComponent", "Component")
	assert.Equal(t, "VelocityComponent", n.TypeName)
}

func TestNewName_BoxPluralizes(t *testing.T) {
	n := NewName("Box", "Component")
	assert.Equal(t, "boxes", n.FieldNamePlural)
}

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"velocity":  "velocities",
		"component": "components",
		"box":       "boxes",
		"brush":     "brushes",
		"boss":      "bosses",
		"fox":       "foxes",
		"door":      "doors",
		"stars":     "stars",
	}
	for input, want := range cases {
		assert.Equal(t, want, pluralize(input), input)
	}
}

func TestPluralize_IdempotentOnPluralS(t *testing.T) {
	assert.Equal(t, "stars", pluralize(pluralize("stars")))
}

func TestPascalToSnake(t *testing.T) {
	cases := map[string]string{
		"PascalCase":  "pascal_case",
		"SnakeCase":   "snake_case",
		"HTTPServer":  "h_t_t_p_server",
		"":            "",
		"lowercase":   "lowercase",
		"Mixed123Case": "mixed123_case",
	}
	for input, want := range cases {
		assert.Equal(t, want, pascalToSnake(input), input)
	}
}

func TestName_EqualityByTypeNameOnly(t *testing.T) {
	a := NewName("Velocity", "Component")
	b := Name{TypeName: "VelocityComponent", TypeNameRaw: "different-raw", FieldName: "whatever"}
	assert.True(t, a.Equal(b))
}
