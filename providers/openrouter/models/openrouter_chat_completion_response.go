package models

import (
	provider_models "github.com/maty-millien/pushit/providers/models"
)

// OpenRouterChatCompletionChunk is the payload of one "data:" frame.
type OpenRouterChatCompletionChunk struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []Choice               `json:"choices"`
	Usage   *provider_models.Usage `json:"usage,omitempty"`
	Error   *StreamingError        `json:"error,omitempty"`
}

// Choice is one streamed choice.
type Choice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta carries the incremental content of a choice.
type Delta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// StreamingError is an error object sent in place of a chunk.
type StreamingError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}
