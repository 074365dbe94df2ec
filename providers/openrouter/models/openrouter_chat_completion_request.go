package models

// OpenRouterChatCompletionRequest is the body of a streamed chat completion.
type OpenRouterChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []Message     `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Reasoning   Reasoning     `json:"reasoning"`
	Usage       UsageRequest  `json:"usage"`
	Provider    *ProviderPref `json:"provider,omitempty"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reasoning controls reasoning tokens on models that support them.
type Reasoning struct {
	Exclude bool   `json:"exclude"`
	Effort  string `json:"effort,omitempty"`
}

// UsageRequest asks for token accounting in the final frame.
type UsageRequest struct {
	Include bool `json:"include"`
}

// ProviderPref routes the request among upstream providers.
type ProviderPref struct {
	Sort string `json:"sort,omitempty"`
}
