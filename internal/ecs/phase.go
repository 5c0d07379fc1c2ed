package ecs

import (
	"strconv"
	"strings"
)

// FixedTimingKind is the closed set of ways a phase's fixed-timing
// spec can be authored.
type FixedTimingKind int

const (
	FixedTimingNone FixedTimingKind = iota
	FixedTimingDefault60Hz
	FixedTimingHertz
	FixedTimingSeconds
)

// FixedTiming is the raw, parsed timing spec authored on a phase.
type FixedTiming struct {
	Kind  FixedTimingKind
	Value float32 // meaningful for FixedTimingHertz/FixedTimingSeconds
}

// parseFixedTiming accepts "true" (60 Hz), "<N>Hz", "<N>s"|"<N>sec"|
// "<N>secs"|"<N>seconds", or "" (none); case-insensitive.
func parseFixedTiming(raw string) (FixedTiming, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return FixedTiming{Kind: FixedTimingNone}, nil
	case s == "true":
		return FixedTiming{Kind: FixedTimingDefault60Hz}, nil
	}

	for _, suffix := range []string{"hz"} {
		if n, ok := strings.CutSuffix(s, suffix); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(n), 32)
			if err != nil {
				return FixedTiming{}, errInvalidFixedTiming(raw)
			}
			return FixedTiming{Kind: FixedTimingHertz, Value: float32(v)}, nil
		}
	}

	for _, suffix := range []string{"seconds", "secs", "sec", "s"} {
		if n, ok := strings.CutSuffix(s, suffix); ok {
			v, err := strconv.ParseFloat(strings.TrimSpace(n), 32)
			if err != nil {
				return FixedTiming{}, errInvalidFixedTiming(raw)
			}
			return FixedTiming{Kind: FixedTimingSeconds, Value: float32(v)}, nil
		}
	}

	return FixedTiming{}, errInvalidFixedTiming(raw)
}

// Phase is a scheduling epoch grouping systems that tick together.
type Phase struct {
	Name        Name
	Description string
	Manual      bool
	OnRequest   bool

	// FixedInput is the raw authored timing spec.
	FixedInput FixedTiming

	// Derived fields, populated by the resolver.
	Fixed      bool
	FixedSecs  float32
	FixedHertz float32
}

// finish translates FixedInput into the derived Fixed/FixedSecs/FixedHertz
// triple.
func (p *Phase) finish() {
	switch p.FixedInput.Kind {
	case FixedTimingNone:
	case FixedTimingDefault60Hz:
		p.Fixed = true
		p.FixedHertz = 60.0
		p.FixedSecs = 1.0 / 60.0
	case FixedTimingHertz:
		p.Fixed = true
		p.FixedHertz = p.FixedInput.Value
		p.FixedSecs = 1.0 / p.FixedInput.Value
	case FixedTimingSeconds:
		p.Fixed = true
		p.FixedSecs = p.FixedInput.Value
		p.FixedHertz = 1.0 / p.FixedInput.Value
	}
}
