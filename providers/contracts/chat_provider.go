package contracts

import (
	"context"

	"github.com/maty-millien/pushit/providers/models"
)

// IChatAIProvider streams a chat completion for a single user prompt. The
// returned channel is closed when the stream ends; an error is delivered as
// the final StreamResponse.
type IChatAIProvider interface {
	ChatCompletionRequest(ctx context.Context, prompt string) <-chan models.StreamResponse
}
