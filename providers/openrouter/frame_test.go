package openrouter

import (
	"testing"

	"github.com/maty-millien/pushit/providers/models"
	"github.com/stretchr/testify/assert"
)

func TestDecodeFrame(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Frame
	}{
		{
			name: "content",
			line: `data: {"choices":[{"delta":{"content":"feat"}}]}` + "\n",
			want: Frame{Kind: FrameContent, Content: "feat"},
		},
		{
			name: "no space after prefix",
			line: `data:{"choices":[{"delta":{"content":"x"}}]}`,
			want: Frame{Kind: FrameContent, Content: "x"},
		},
		{
			name: "usage",
			line: `data: {"choices":[{"delta":{"content":""}}],"usage":{"prompt_tokens":120,"completion_tokens":9,"total_tokens":129,"cost":0.00004}}`,
			want: Frame{Kind: FrameUsage, Usage: &models.Usage{PromptTokens: 120, CompletionTokens: 9, TotalTokens: 129, Cost: 0.00004}},
		},
		{
			name: "error object",
			line: `data: {"error":{"message":"upstream overloaded","code":502}}`,
			want: Frame{Kind: FrameError, Message: "upstream overloaded"},
		},
		{name: "done", line: "data: [DONE]\r\n", want: Frame{Kind: FrameDone}},
		{name: "comment", line: ": OPENROUTER PROCESSING", want: Frame{Kind: FrameSkip}},
		{name: "blank", line: "\n", want: Frame{Kind: FrameSkip}},
		{name: "event line", line: "event: message", want: Frame{Kind: FrameSkip}},
		{name: "malformed json", line: `data: {"choices":[{"delta":`, want: Frame{Kind: FrameSkip}},
		{name: "role only", line: `data: {"choices":[{"delta":{"role":"assistant"}}]}`, want: Frame{Kind: FrameSkip}},
		{name: "no choices", line: `data: {"id":"gen-1","choices":[]}`, want: Frame{Kind: FrameSkip}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeFrame(tt.line))
		})
	}
}
