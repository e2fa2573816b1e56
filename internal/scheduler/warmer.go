package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type tokenFetcher interface {
	Token(ctx context.Context) (string, error)
}

// TokenWarmer asks the token cache for a token on a cron schedule so the
// exchange happens off the request path. The cache itself decides whether
// a network call is needed.
type TokenWarmer struct {
	tokens   tokenFetcher
	spec     string
	schedule cron.Schedule
	logger   *slog.Logger
}

// NewTokenWarmer accepts standard five-field cron specs and descriptors
// such as "@every 50m".
func NewTokenWarmer(tokens tokenFetcher, spec string, logger *slog.Logger) (*TokenWarmer, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse warmup schedule %q: %w", spec, err)
	}
	return &TokenWarmer{
		tokens:   tokens,
		spec:     spec,
		schedule: schedule,
		logger:   logger.With("component", "token_warmer"),
	}, nil
}

// Start warms once immediately, then on every scheduled tick until ctx is done.
func (w *TokenWarmer) Start(ctx context.Context) {
	w.logger.InfoContext(ctx, "token warmer started", "schedule", w.spec)
	w.warm(ctx)

	for {
		timer := time.NewTimer(time.Until(w.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.InfoContext(ctx, "token warmer shut down")
			return
		case <-timer.C:
			w.warm(ctx)
		}
	}
}

func (w *TokenWarmer) warm(ctx context.Context) {
	if _, err := w.tokens.Token(ctx); err != nil {
		w.logger.WarnContext(ctx, "token warmup failed", "error", err)
		return
	}
	w.logger.DebugContext(ctx, "token warm")
}
