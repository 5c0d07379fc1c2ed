// Package codegen renders a finished *ecs.Ecs into the four generated
// source artifacts using text/template, the way the rest of the
// ecosystem's build-time generators do: named templates plus a small
// filter registry.
package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/sunsided/ecsgen/internal/ecs"
)

// Artifact names, also used as the ".gen" filename stem.
const (
	ArtifactComponents = "components"
	ArtifactArchetypes = "archetypes"
	ArtifactSystems    = "systems"
	ArtifactWorld      = "world"
)

var artifactOrder = []string{ArtifactComponents, ArtifactArchetypes, ArtifactSystems, ArtifactWorld}

// Artifacts holds the rendered contents of all four named templates,
// keyed by artifact name.
type Artifacts map[string]string

// WriteTo writes every artifact to dir under "<name>.gen.<ext>",
// creating dir if needed. Writes happen one at a time (not atomically
// across the whole set); a failure partway through leaves previously
// written files in place rather than promising all-or-nothing across
// files.
func (a Artifacts) WriteTo(dir, ext string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	for _, name := range artifactOrder {
		content, ok := a[name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s.gen.%s", name, ext))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// Emitter turns a finished Ecs into the four named artifacts.
type Emitter interface {
	Emit(e *ecs.Ecs) (Artifacts, error)
}

// TemplateEmitter is the text/template-backed Emitter. NewTemplateEmitter
// compiles its named templates once, with the filter registry
// (snake_case, length) mixed in.
type TemplateEmitter struct {
	tmpl *template.Template
}

// NewTemplateEmitter compiles the built-in templates. extra, if
// non-nil, overrides or adds named templates — callers embedding
// ecsgen in a larger build can swap in project-specific bodies without
// forking the package.
func NewTemplateEmitter(extra map[string]string) (*TemplateEmitter, error) {
	funcs := template.FuncMap{
		"snake_case": snakeCase,
		"length":     length,
	}

	root := template.New("root").Funcs(funcs)
	bodies := make(map[string]string, len(builtinTemplates)+len(extra))
	for name, body := range builtinTemplates {
		bodies[name] = body
	}
	for name, body := range extra {
		bodies[name] = body
	}

	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := root.New(name).Parse(bodies[name]); err != nil {
			return nil, templateErr(name, err)
		}
	}

	return &TemplateEmitter{tmpl: root}, nil
}

// Emit renders all four artifacts against e.
func (te *TemplateEmitter) Emit(e *ecs.Ecs) (Artifacts, error) {
	out := make(Artifacts, len(artifactOrder))
	for _, name := range artifactOrder {
		var buf bytes.Buffer
		if err := te.tmpl.ExecuteTemplate(&buf, name, e); err != nil {
			return nil, templateErr(name, err)
		}
		out[name] = buf.String()
	}
	return out, nil
}

func templateErr(name string, err error) error {
	return ecs.NewTemplateError(fmt.Errorf("%s: %w", name, err))
}

// snake_case and length are the two template filters; the resolver
// already canonicalizes field names, so snake_case here is a
// convenience for any raw authored string a template needs to reformat
// rather than the canonicalizer's own pascalToSnake.
func snakeCase(s string) string {
	return pascalToSnakeForTemplates(s)
}

func length(v any) int {
	switch val := v.(type) {
	case []ecs.Name:
		return len(val)
	case []*ecs.Component:
		return len(val)
	case []*ecs.Archetype:
		return len(val)
	case []*ecs.System:
		return len(val)
	case []ecs.ComponentID:
		return len(val)
	case []ecs.IterationStream:
		return len(val)
	case string:
		return len(val)
	default:
		return 0
	}
}
