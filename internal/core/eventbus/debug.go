package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger logs every publish and subscription at debug level
// and subscriber panics at error level.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.Observe(ObserverFuncs{
		OnPublish: func(event Event, payload any) {
			e := logger.Debug().Str("event", string(event))
			switch p := payload.(type) {
			case SelectionChangedPayload:
				e = e.Int("size", p.Selection.Len())
			case CanonicalLoadedPayload:
				e = e.Str("accession", p.Accession).Bool("mapped", p.Range != nil)
			case CanonicalFailedPayload:
				e = e.Str("accession", p.Accession).AnErr("cause", p.Err)
			case ModeChangedPayload:
				e = e.Stringer("mode", p.Mode)
			}
			e.Msg("event fired")
		},
		OnSubscribe: func(event Event) {
			logger.Debug().Str("event", string(event)).Msg("subscriber registered")
		},
		OnPanic: func(event Event, _ any, recovered any) {
			logger.Error().
				Str("event", string(event)).
				Str("panic", fmt.Sprint(recovered)).
				Msg("subscriber panicked")
		},
	})
}
