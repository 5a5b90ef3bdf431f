package concept

import (
	"context"

	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/model/design"
)

// fallbackGenerator tries primary first and switches to fallback on error.
type fallbackGenerator struct {
	primary  Generator
	fallback Generator
	logger   *zap.Logger
}

// WithFallback chains primary and fallback. A nil primary yields fallback as is.
func WithFallback(primary, fallback Generator, logger *zap.Logger) Generator {
	if primary == nil {
		return fallback
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallbackGenerator{primary: primary, fallback: fallback, logger: logger}
}

func (g *fallbackGenerator) Generate(ctx context.Context, req Request) ([]design.Concept, error) {
	concepts, err := g.primary.Generate(ctx, req)
	if err == nil && len(concepts) > 0 {
		return concepts, nil
	}
	if err != nil {
		g.logger.Warn("primary concept generator failed, using fallback", zap.Error(err))
	} else {
		g.logger.Warn("primary concept generator returned no concepts, using fallback")
	}
	return g.fallback.Generate(ctx, req)
}
