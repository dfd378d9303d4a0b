// File: internal/services/ai/openrouter_provider.go
package ai

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// OpenRouterProvider speaks the OpenAI-compatible completions protocol
// against the OpenRouter gateway. A lightweight client is assembled per call
// because the bearer credential differs between requests.
type OpenRouterProvider struct {
	config     *Config
	httpClient *http.Client
}

func NewOpenRouterProvider(config *Config) *OpenRouterProvider {
	if config == nil {
		config = DefaultConfig()
	}
	return &OpenRouterProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &attributionTransport{
				base:    http.DefaultTransport,
				referer: config.SiteURL,
				title:   config.SiteTitle,
			},
		},
	}
}

// attributionTransport adds the OpenRouter attribution headers to every
// outbound request.
type attributionTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

func (p *OpenRouterProvider) client(apiKey string) *openai.Client {
	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = p.config.BaseURL
	clientConfig.HTTPClient = p.httpClient
	return openai.NewClientWithConfig(clientConfig)
}

// CreateChatCompletion makes a single upstream attempt and returns the
// assistant's reply text. Upstream statuses are preserved in the returned
// *AIError for pass-through; the credential value never leaves this package.
func (p *OpenRouterProvider) CreateChatCompletion(ctx context.Context, apiKey, model string, messages []Turn) (string, error) {
	if apiKey == "" {
		return "", NewConfigError("no API key provided")
	}

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := p.client(apiKey).CreateChatCompletion(ctx, request)
	if err != nil {
		return "", normalizeUpstreamError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", NewUpstreamError("completion", http.StatusBadGateway, "empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}

// normalizeUpstreamError maps gateway failures onto the error taxonomy:
// non-2xx responses keep their status, everything else is a network error.
func normalizeUpstreamError(err error) *AIError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = "upstream gateway error"
		}
		return NewUpstreamError("completion", apiErr.HTTPStatusCode, msg)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewUpstreamError("completion", reqErr.HTTPStatusCode, "upstream gateway rejected the request")
	}

	return NewNetworkError("completion", "failed to reach upstream gateway", err)
}
