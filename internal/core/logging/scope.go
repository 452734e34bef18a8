package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type scopeKey struct{}

// Scope names what a command is working on. Empty fields are omitted from
// log events.
type Scope struct {
	Target    string // structure file
	Chain     string
	Accession string
}

// WithScope returns ctx carrying s merged over any scope already present.
// Empty fields of s keep the outer value.
func WithScope(ctx context.Context, s Scope) context.Context {
	outer := ScopeFrom(ctx)
	if s.Target == "" {
		s.Target = outer.Target
	}
	if s.Chain == "" {
		s.Chain = outer.Chain
	}
	if s.Accession == "" {
		s.Accession = outer.Accession
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope carried by ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

// ContextHook copies the scope of an event's context into its fields. Events
// must be given a context with Ctx for the hook to see it.
type ContextHook struct{}

func (ContextHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	s := ScopeFrom(e.GetCtx())
	if s.Target != "" {
		e.Str("target", s.Target)
	}
	if s.Chain != "" {
		e.Str("chain", s.Chain)
	}
	if s.Accession != "" {
		e.Str("accession", s.Accession)
	}
}
