// Package logging holds the zerolog conventions shared by every package:
// per-component child loggers and request scope carried on a context.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ComponentKey is the field naming the package that logged an event.
const ComponentKey = "cmp"

// Component returns a child of the global logger tagged with name. Do not
// keep the result in a package-level var: the global logger is replaced in
// the root command's Before hook.
func Component(name string) zerolog.Logger {
	return log.Logger.With().Str(ComponentKey, name).Logger()
}
