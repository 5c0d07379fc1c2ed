// Package manifest loads the YAML document describing an Ecs and
// replays it into internal/ecs builder calls in authored order, so
// that id assignment matches the order the user wrote the manifest in.
package manifest

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sunsided/ecsgen/internal/ecs"
)

// Document is the raw deserialized shape of a manifest file. Field
// order here has no bearing on construction order — only the order of
// entries within each list matters (see Build).
type Document struct {
	Components []ComponentDoc `yaml:"components"`
	Archetypes []ArchetypeDoc `yaml:"archetypes"`
	Phases     []PhaseDoc     `yaml:"phases"`
	Systems    []SystemDoc    `yaml:"systems"`
	States     []StateDoc     `yaml:"states"`
	Worlds     []WorldDoc     `yaml:"worlds"`
}

type ComponentDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type ArchetypeDoc struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Components  []string `yaml:"components"`
	Promotions  []string `yaml:"promotions"`
}

type PhaseDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Fixed       string `yaml:"fixed"`
	Manual      bool   `yaml:"manual"`
	OnRequest   bool   `yaml:"on_request"`

	// States is accepted for manifest-format compatibility with
	// phase-level state declarations, but has no corresponding model
	// field — only System attaches StateUse. It is parsed and
	// otherwise ignored.
	States []StateUseDoc `yaml:"states"`
}

type StateUseDoc struct {
	Use   string `yaml:"use"`
	Write bool   `yaml:"write"`
}

type SystemDoc struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Phase       string        `yaml:"phase"`
	Inputs      []string      `yaml:"inputs"`
	Outputs     []string      `yaml:"outputs"`
	RunAfter    []string      `yaml:"run_after"`
	Entities    bool          `yaml:"entities"`
	Commands    bool          `yaml:"commands"`
	Context     bool          `yaml:"context"`
	States      []StateUseDoc `yaml:"states"`
	Lookup      []string      `yaml:"lookup"`
	Preflight   bool          `yaml:"preflight"`
	Postflight  bool          `yaml:"postflight"`
}

type StateDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type WorldDoc struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Archetypes  []string `yaml:"archetypes"`
}

// Load parses a YAML manifest from r and builds an *ecs.Ecs from it,
// in authored order. The returned Ecs has not been validated or
// finished — callers must call Validate then Finish.
func Load(r io.Reader) (*ecs.Ecs, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return Build(&doc)
}

// Build replays a parsed Document into a fresh *ecs.Ecs, preserving
// authored order within each list so ids are assigned deterministically.
func Build(doc *Document) (*ecs.Ecs, error) {
	e := ecs.NewEcs()

	for _, c := range doc.Components {
		e.AddComponent(c.Name, c.Description)
	}

	for _, a := range doc.Archetypes {
		e.AddArchetype(a.Name, a.Description, a.Components, a.Promotions)
	}

	for _, p := range doc.Phases {
		if _, err := e.AddPhase(p.Name, p.Description, p.Fixed, p.Manual, p.OnRequest); err != nil {
			return nil, fmt.Errorf("phase %q: %w", p.Name, err)
		}
	}

	for _, s := range doc.Systems {
		e.AddSystem(ecs.SystemSpec{
			Name:          s.Name,
			Description:   s.Description,
			Phase:         s.Phase,
			Inputs:        s.Inputs,
			Outputs:       s.Outputs,
			Lookup:        s.Lookup,
			RunAfter:      s.RunAfter,
			States:        stateUseSpecs(s.States),
			NeedsEntities: s.Entities,
			NeedsContext:  s.Context,
			EmitsCommands: s.Commands,
			HasPreflight:  s.Preflight,
			HasPostflight: s.Postflight,
		})
	}

	for _, st := range doc.States {
		e.AddState(st.Name, st.Description)
	}

	for _, w := range doc.Worlds {
		e.AddWorld(w.Name, w.Description, w.Archetypes)
	}

	return e, nil
}

func stateUseSpecs(docs []StateUseDoc) []ecs.StateUseSpec {
	if len(docs) == 0 {
		return nil
	}
	specs := make([]ecs.StateUseSpec, len(docs))
	for i, d := range docs {
		specs[i] = ecs.StateUseSpec{Use: d.Use, Writes: d.Write}
	}
	return specs
}
