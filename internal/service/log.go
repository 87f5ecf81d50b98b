package service

import (
	"context"

	"github.com/rs/zerolog"
)

// logFor prefers the request-scoped logger carried by ctx, which already has
// the request id attached, and falls back to the component logger.
func logFor(ctx context.Context, fallback *zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return fallback
}
