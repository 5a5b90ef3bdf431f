package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/doyeonstory/backend/internal/config"
	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/service/concept"
)

// invoker is the part of a compiled chain the service needs.
type invoker interface {
	Invoke(ctx context.Context, input map[string]any, opts ...compose.Option) (*schema.Message, error)
}

// ConceptService asks a chat model for design concepts.
type ConceptService struct {
	chain   invoker
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ concept.Generator = (*ConceptService)(nil)

// NewConceptService compiles the prompt chain against the configured ark model.
func NewConceptService(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (*ConceptService, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{brief}"),
		schema.MessagesPlaceholder("attachments", true),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile concept chain: %w", err)
	}

	return newConceptService(runnable, cfg.Timeout, logger), nil
}

func newConceptService(chain invoker, timeout time.Duration, logger *zap.Logger) *ConceptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("ai")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "concept-model",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &ConceptService{
		chain:   chain,
		timeout: timeout,
		breaker: breaker,
		logger:  logger,
	}
}

// Generate implements concept.Generator.
func (s *ConceptService) Generate(ctx context.Context, req concept.Request) ([]design.Concept, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	input := map[string]any{
		"system":      designerPrompt,
		"brief":       buildBrief(req),
		"attachments": attachments(req.Photo),
	}

	started := time.Now()
	out, err := s.breaker.Execute(func() (any, error) {
		msg, err := s.chain.Invoke(ctx, input)
		if err != nil {
			return nil, err
		}
		concepts, err := parseConcepts(msg.Content)
		if err != nil {
			return nil, err
		}
		return concepts, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("concept model unavailable: %w", err)
		}
		return nil, fmt.Errorf("failed to run concept chain: %w", err)
	}

	concepts := out.([]design.Concept)
	s.logger.Info("generated concepts",
		zap.Int("count", len(concepts)),
		zap.Bool("photo", req.Photo != nil),
		zap.Duration("elapsed", time.Since(started)),
	)
	return concepts, nil
}
