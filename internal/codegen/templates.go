package codegen

import "strings"

// pascalToSnakeForTemplates is a template-filter-local convenience,
// deliberately separate from internal/ecs's canonicalizer: the
// canonicalizer runs once at resolve time and its output is already
// stored on every Name, while this filter exists purely so a template
// can reformat an arbitrary raw string (e.g. a description) inline.
func pascalToSnakeForTemplates(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// builtinTemplates holds the four named artifact templates. They
// render Go source for a generated ECS runtime: one declaration per
// component, storage/promotion routines per archetype, dispatch
// wrappers per system, and a world container with its per-phase
// schedule.
var builtinTemplates = map[string]string{
	ArtifactComponents: componentsTemplate,
	ArtifactArchetypes: archetypesTemplate,
	ArtifactSystems:    systemsTemplate,
	ArtifactWorld:      worldTemplate,
}

const componentsTemplate = `// Code generated by ecsgen. DO NOT EDIT.

package ecsgenerated

{{range .Components -}}
// {{.Name.TypeName}}{{if .Description}} - {{.Description}}{{end}}
type {{.Name.TypeName}} struct {
	// TODO: fields are authored by hand in a partial type or a sibling file;
	// the generator only owns identity and bookkeeping.
}

const {{.Name.TypeName}}ID ComponentID = {{.ID}}

{{end -}}
`

const archetypesTemplate = `// Code generated by ecsgen. DO NOT EDIT.

package ecsgenerated

{{range $a := .Archetypes -}}
// {{$a.Name.TypeName}}{{if $a.Description}} - {{$a.Description}}{{end}}
type {{$a.Name.TypeName}} struct {
	id ArchetypeID
{{range $a.Components -}}
	{{.FieldNamePlural}} []{{.TypeName}}
{{end -}}
}

func (a *{{$a.Name.TypeName}}) ComponentIDs() []ComponentID {
	return []ComponentID{ {{range $i, $id := $a.ComponentIDs}}{{if $i}}, {{end}}{{$id}}{{end}} }
}

{{range $p := $a.PromotionPlans}}
// PromoteTo{{$p.Target.TypeName}} migrates an entity from {{$a.Name.TypeName}} into {{$p.Target.TypeName}},
// carrying over {{length $p.ComponentsToPass}} shared component(s) and zero-valuing {{length $p.ComponentsToAdd}} new one(s).
func (a *{{$a.Name.TypeName}}) PromoteTo{{$p.Target.TypeName}}() *{{$p.Target.TypeName}} {
	target := &{{$p.Target.TypeName}}{}
{{range $p.ComponentsToPass}}	target.{{.FieldNamePlural}} = append(target.{{.FieldNamePlural}}, a.{{.FieldNamePlural}}...)
{{end -}}
	return target
}
{{end}}
{{end -}}
`

const systemsTemplate = `// Code generated by ecsgen. DO NOT EDIT.

package ecsgenerated

{{range .Systems -}}
// {{.Name.TypeName}}{{if .Description}} - {{.Description}}{{end}}
type {{.Name.TypeName}} struct{}

// Run dispatches {{.Name.TypeName}} over its affected archetypes.
func (s *{{.Name.TypeName}}) Run({{if .NeedsContext}}ctx *FrameContext{{end}}) {
{{range .Iteration.Streams -}}
	// stream: {{.FieldName}} ({{if eq .Access 1}}write{{else}}read{{end}}) as {{.BindingName}}
{{end -}}
}

{{end -}}
`

const worldTemplate = `// Code generated by ecsgen. DO NOT EDIT.

package ecsgenerated

{{range $w := .Worlds -}}
// {{$w.Name.TypeName}}{{if $w.Description}} - {{$w.Description}}{{end}}
type {{$w.Name.TypeName}} struct {
	id ID
}

{{range $phase, $layers := $w.ScheduledSystems}}
// Tick{{$phase}} runs {{$w.Name.TypeName}}'s {{$phase}} phase, one layer at a time.
func (w *{{$w.Name.TypeName}}) Tick{{$phase}}() {
{{range $layers}}	// layer: {{range $i, $id := .}}{{if $i}}, {{end}}system #{{$id}}{{end}}
{{end -}}
}
{{end}}
{{end -}}
`
