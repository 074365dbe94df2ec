package utils

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/providers/contracts"
	"github.com/maty-millien/pushit/providers/models"
	"github.com/zeebo/xxh3"
	"go.uber.org/zap"
)

// GenerationResult is one generated commit message.
type GenerationResult struct {
	// Message is the sanitized subject line.
	Message string
	// Raw is the text as streamed by the provider.
	Raw string
	// Repeated is set when an earlier generation of this session produced the same message.
	Repeated bool
}

// CommitMessageGenerator generates commit messages using AI
type CommitMessageGenerator struct {
	aiProvider contracts.IChatAIProvider
	timeout    time.Duration
	logger     *zap.Logger
	seen       map[uint64]struct{}
}

// NewCommitMessageGenerator creates a new commit message generator. A
// positive timeout bounds each generation request.
func NewCommitMessageGenerator(aiProvider contracts.IChatAIProvider, timeout time.Duration, logger *zap.Logger) *CommitMessageGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommitMessageGenerator{
		aiProvider: aiProvider,
		timeout:    timeout,
		logger:     logger,
		seen:       make(map[uint64]struct{}),
	}
}

// GenerateCommitMessage streams a completion for prompt and sanitizes it.
func (g *CommitMessageGenerator) GenerateCommitMessage(ctx context.Context, prompt string) (GenerationResult, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	var messageBuilder strings.Builder
	var streamErr error
	for response := range g.aiProvider.ChatCompletionRequest(ctx, prompt) {
		if response.Err != nil && streamErr == nil {
			streamErr = response.Err
		}
		messageBuilder.WriteString(response.Content)
	}

	if streamErr != nil {
		if errors.Is(streamErr, context.DeadlineExceeded) {
			return GenerationResult{}, errors.Wrapf(streamErr, "generation timed out after %s", g.timeout)
		}
		return GenerationResult{}, errors.Wrap(streamErr, "failed to generate commit message")
	}

	raw := messageBuilder.String()
	message := SanitizeCommitMessage(raw)
	if message == "" {
		return GenerationResult{}, models.ErrEmptyGeneration
	}

	fingerprint := xxh3.HashString(message)
	_, repeated := g.seen[fingerprint]
	g.seen[fingerprint] = struct{}{}

	g.logger.Debug("commit message generated",
		zap.String("raw", raw),
		zap.String("message", message),
		zap.Uint64("prompt_hash", xxh3.HashString(prompt)),
		zap.Bool("conventional", IsConventional(message)),
		zap.Bool("repeated", repeated),
		zap.Duration("elapsed", time.Since(start)),
	)

	return GenerationResult{Message: message, Raw: raw, Repeated: repeated}, nil
}
