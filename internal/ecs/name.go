// Package ecs implements the in-memory manifest model, validator, and
// resolver for the Archetype ECS code generator.
package ecs

import "strings"

// Name is the canonicalized quadruple derived from a user-supplied
// identifier. Equality and hashing use TypeName only.
type Name struct {
	// TypeName is the canonical identifier, suffixed if it didn't
	// already carry the expected suffix (e.g. "Velocity" -> "VelocityComponent").
	TypeName string
	// TypeNameRaw is the identifier exactly as the user wrote it.
	TypeNameRaw string
	// FieldName is the snake_case rendering of TypeNameRaw.
	FieldName string
	// FieldNamePlural is the pluralized FieldName.
	FieldNamePlural string
}

// NewName canonicalizes s for the given suffix ("Component", "Archetype",
// "System", "Phase", "World", or "" for unsuffixed names like states).
func NewName(s string, suffix string) Name {
	field := pascalToSnake(s)
	return Name{
		TypeName:        adjustSuffix(s, suffix),
		TypeNameRaw:     s,
		FieldName:       field,
		FieldNamePlural: pluralize(field),
	}
}

func adjustSuffix(s, suffix string) string {
	if suffix == "" || strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}

// Equal compares two Names by TypeName only; the other fields are
// derived presentation, not identity.
func (n Name) Equal(other Name) bool {
	return n.TypeName == other.TypeName
}

// String renders the canonical type name.
func (n Name) String() string {
	return n.TypeName
}

// pascalToSnake inserts an underscore before every uppercase character
// and lowercases it, then drops any leading underscore. Deliberately
// does not special-case acronyms: "HTTPServer" -> "h_t_t_p_server".
func pascalToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimLeft(b.String(), "_")
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	default:
		return false
	}
}

// pluralize applies the manifest's naming convention for plural field
// names. It is idempotent on strings that already end in "s" (and are
// not "ss").
func pluralize(field string) string {
	if field == "" {
		return field
	}

	if strings.HasSuffix(field, "y") {
		if len(field) >= 2 && !isVowel(field[len(field)-2]) {
			return field[:len(field)-1] + "ies"
		}
		return field + "s"
	}

	for _, suf := range []string{"ch", "sh", "x", "z", "ss"} {
		if strings.HasSuffix(field, suf) {
			return field + "es"
		}
	}

	if strings.HasSuffix(field, "s") {
		// Already plural (not "ss", handled above).
		return field
	}

	return field + "s"
}
