package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/maty-millien/pushit/providers/contracts"
	"github.com/maty-millien/pushit/providers/models"
	openrouter_models "github.com/maty-millien/pushit/providers/openrouter/models"
	contracts2 "github.com/maty-millien/pushit/token_management/contracts"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"
	referer        = "https://github.com/maty-millien/pushit"
	title          = "pushit"
)

// OpenRouterConfig implements IChatAIProvider for OpenRouter and other
// OpenAI-compatible chat completion endpoints.
type OpenRouterConfig struct {
	BaseURL         string
	ApiKey          string
	Model           string
	Temperature     *float32
	MaxTokens       int
	// ProviderSort orders upstream providers ("latency", "price", "throughput").
	// Empty leaves routing to OpenRouter.
	ProviderSort    string
	HTTPClient      *http.Client
	TokenManagement contracts2.ITokenManagement
	Logger          *zap.Logger
}

// NewOpenRouterChatProvider initializes a new OpenRouter provider.
func NewOpenRouterChatProvider(config *OpenRouterConfig) contracts.IChatAIProvider {
	provider := *config
	if provider.BaseURL == "" {
		provider.BaseURL = defaultBaseURL
	}
	if provider.HTTPClient == nil {
		// the generation timeout comes from the request context
		provider.HTTPClient = &http.Client{}
	}
	if provider.Logger == nil {
		provider.Logger = zap.NewNop()
	}
	return &provider
}

// ChatCompletionRequest streams the completion of prompt. Callers must drain
// the channel until it is closed.
func (p *OpenRouterConfig) ChatCompletionRequest(ctx context.Context, prompt string) <-chan models.StreamResponse {
	responseChan := make(chan models.StreamResponse)

	go func() {
		defer close(responseChan)

		resp, err := p.do(ctx, prompt)
		if err != nil {
			responseChan <- models.StreamResponse{Err: err}
			return
		}
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				frame := DecodeFrame(line)
				if frame.Usage != nil && p.TokenManagement != nil {
					p.TokenManagement.UsedTokens(frame.Usage.PromptTokens, frame.Usage.CompletionTokens, frame.Usage.Cost)
				}

				switch frame.Kind {
				case FrameContent:
					responseChan <- models.StreamResponse{Content: frame.Content}
				case FrameError:
					responseChan <- models.StreamResponse{Err: errors.Wrapf(models.ErrStreamFailed, "%s", frame.Message)}
					return
				case FrameDone:
					responseChan <- models.StreamResponse{Done: true}
					return
				case FrameUsage:
					p.Logger.Debug("usage reported",
						zap.Int("prompt_tokens", frame.Usage.PromptTokens),
						zap.Int("completion_tokens", frame.Usage.CompletionTokens),
						zap.Float64("cost", frame.Usage.Cost),
					)
				}
			}

			if err != nil {
				if err == io.EOF {
					responseChan <- models.StreamResponse{Done: true}
					return
				}
				if ctx.Err() != nil {
					responseChan <- models.StreamResponse{Err: errors.Wrap(ctx.Err(), "request canceled")}
					return
				}
				responseChan <- models.StreamResponse{Err: errors.Wrap(err, "error reading stream")}
				return
			}
		}
	}()

	return responseChan
}

// do sends the request and returns a response whose body is ready to stream.
// On error the body is already closed.
func (p *OpenRouterConfig) do(ctx context.Context, prompt string) (*http.Response, error) {
	reqBody := openrouter_models.OpenRouterChatCompletionRequest{
		Model:       p.Model,
		Messages:    []openrouter_models.Message{{Role: "user", Content: prompt}},
		Stream:      true,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
		Reasoning:   openrouter_models.Reasoning{Exclude: true, Effort: "none"},
		Usage:       openrouter_models.UsageRequest{Include: true},
	}
	if p.ProviderSort != "" {
		reqBody.Provider = &openrouter_models.ProviderPref{Sort: p.ProviderSort}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "error marshalling request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "error creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", title)
	req.Header.Set("Accept", "text/event-stream")

	p.Logger.Debug("sending generation request",
		zap.String("url", p.BaseURL),
		zap.String("model", p.Model),
		zap.Int("prompt_bytes", len(prompt)),
	)

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "request canceled")
		}
		return nil, errors.Wrap(err, "error sending request")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, &models.APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, models.ErrNoResponseBody
	}
	return resp, nil
}
