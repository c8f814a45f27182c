package domain

import (
	"context"
	"time"
)

// SignalEvent describes a step in the life of one configuration entry.
type SignalEvent struct {
	Timestamp   time.Time
	Signal      string
	Personality Personality
	Decision    Decision      // set on skip
	Duration    time.Duration // initiate to completion, set on measurement done
	Capture     CaptureResult // set on capture done
	Err         error         // set on dispose when disposal failed
}

// Hooks defines callbacks for dispatcher observability. Nil fields are ignored.
type Hooks struct {
	OnSignalStart     func(context.Context, *SignalEvent)
	OnSignalSkipped   func(context.Context, *SignalEvent)
	OnMeasurementDone func(context.Context, *SignalEvent)
	OnCaptureDone     func(context.Context, *SignalEvent)
	OnSignalDisposed  func(context.Context, *SignalEvent)
}

// ChainHooks returns hooks that call each of the given hooks in order.
func ChainHooks(hooks ...Hooks) Hooks {
	chain := func(pick func(Hooks) func(context.Context, *SignalEvent)) func(context.Context, *SignalEvent) {
		var fns []func(context.Context, *SignalEvent)
		for _, h := range hooks {
			if fn := pick(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(ctx context.Context, e *SignalEvent) {
			for _, fn := range fns {
				fn(ctx, e)
			}
		}
	}
	return Hooks{
		OnSignalStart:     chain(func(h Hooks) func(context.Context, *SignalEvent) { return h.OnSignalStart }),
		OnSignalSkipped:   chain(func(h Hooks) func(context.Context, *SignalEvent) { return h.OnSignalSkipped }),
		OnMeasurementDone: chain(func(h Hooks) func(context.Context, *SignalEvent) { return h.OnMeasurementDone }),
		OnCaptureDone:     chain(func(h Hooks) func(context.Context, *SignalEvent) { return h.OnCaptureDone }),
		OnSignalDisposed:  chain(func(h Hooks) func(context.Context, *SignalEvent) { return h.OnSignalDisposed }),
	}
}
