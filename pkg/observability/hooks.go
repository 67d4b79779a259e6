package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/pkg/domain"
)

// Combine fans every event out to each set of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDataReady: func(ctx context.Context, e *domain.PageEvent) {
			for _, h := range hooks {
				if h.OnDataReady != nil {
					h.OnDataReady(ctx, e)
				}
			}
		},
		OnRoundTrip: func(ctx context.Context, e *domain.RoundTripEvent) {
			for _, h := range hooks {
				if h.OnRoundTrip != nil {
					h.OnRoundTrip(ctx, e)
				}
			}
		},
		OnRedirect: func(ctx context.Context, e *domain.NavigationEvent) {
			for _, h := range hooks {
				if h.OnRedirect != nil {
					h.OnRedirect(ctx, e)
				}
			}
		},
		OnDropped: func(ctx context.Context, e *domain.PageEvent) {
			for _, h := range hooks {
				if h.OnDropped != nil {
					h.OnDropped(ctx, e)
				}
			}
		},
	}
}

// LoggingHooks logs every lifecycle event at debug level, dropped triggers at info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	if logger == nil {
		logger = logging.NewNop()
	}
	return domain.LifecycleHooks{
		OnDataReady: func(ctx context.Context, e *domain.PageEvent) {
			logger.DebugContext(ctx, "data ready", logging.Page(e.Page))
		},
		OnRoundTrip: func(ctx context.Context, e *domain.RoundTripEvent) {
			attrs := []any{logging.Page(e.Page), logging.Trigger(e.Trigger), slog.Duration("duration", e.Duration)}
			if e.Err != nil {
				attrs = append(attrs, logging.Err(e.Err))
			}
			logger.DebugContext(ctx, "round trip", attrs...)
		},
		OnRedirect: func(ctx context.Context, e *domain.NavigationEvent) {
			logger.DebugContext(ctx, "redirect", logging.Page(e.Page), logging.Destination(e.Destination))
		},
		OnDropped: func(ctx context.Context, e *domain.PageEvent) {
			logger.InfoContext(ctx, "trigger dropped", logging.Page(e.Page), logging.Trigger(e.Trigger))
		},
	}
}
