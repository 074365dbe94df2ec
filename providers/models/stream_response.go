package models

// StreamResponse is one message on a provider's response channel.
type StreamResponse struct {
	Content string
	Done    bool
	Err     error
}

// Usage is the token accounting reported at the end of a stream.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	Cost             float64 `json:"cost"`
}
