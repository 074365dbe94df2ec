package openrouter

import (
	"encoding/json"
	"strings"

	"github.com/maty-millien/pushit/providers/models"
	openrouter_models "github.com/maty-millien/pushit/providers/openrouter/models"
)

// FrameKind tags what a decoded SSE line carries.
type FrameKind int

const (
	// FrameSkip covers comments, blank lines, malformed JSON and chunks without content.
	FrameSkip FrameKind = iota
	FrameContent
	FrameUsage
	FrameError
	FrameDone
)

const (
	dataPrefix   = "data:"
	doneSentinel = "[DONE]"
)

// Frame is one decoded SSE line. Usage may accompany a content frame.
type Frame struct {
	Kind    FrameKind
	Content string
	Usage   *models.Usage
	Message string
}

// DecodeFrame classifies a single line of an SSE stream.
func DecodeFrame(line string) Frame {
	line = strings.TrimRight(line, "\r\n")
	payload, ok := strings.CutPrefix(line, dataPrefix)
	if !ok {
		return Frame{Kind: FrameSkip}
	}
	payload = strings.TrimPrefix(payload, " ")
	if payload == doneSentinel {
		return Frame{Kind: FrameDone}
	}

	var chunk openrouter_models.OpenRouterChatCompletionChunk
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return Frame{Kind: FrameSkip}
	}

	if chunk.Error != nil {
		return Frame{Kind: FrameError, Message: chunk.Error.Message}
	}
	if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
		return Frame{Kind: FrameContent, Content: chunk.Choices[0].Delta.Content, Usage: chunk.Usage}
	}
	if chunk.Usage != nil {
		return Frame{Kind: FrameUsage, Usage: chunk.Usage}
	}
	return Frame{Kind: FrameSkip}
}
