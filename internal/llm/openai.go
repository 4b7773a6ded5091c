// Package llm implements advice providers backed by a language model or by
// fixed spending rules.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"expensewise/internal/advice"
	"expensewise/internal/core"
)

// chatCompleter is the part of the go-openai client the advisor uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty uses the OpenAI endpoint
	Model   string
	Timeout time.Duration
}

// OpenAIAdvisor asks an OpenAI-compatible chat endpoint for advice.
type OpenAIAdvisor struct {
	client  chatCompleter
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewOpenAIAdvisor(cfg OpenAIConfig, logger *slog.Logger) *OpenAIAdvisor {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return newOpenAIAdvisor(openai.NewClientWithConfig(oc), cfg.Model, cfg.Timeout, logger)
}

func newOpenAIAdvisor(client chatCompleter, model string, timeout time.Duration, logger *slog.Logger) *OpenAIAdvisor {
	if logger == nil {
		logger = slog.Default()
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIAdvisor{client: client, model: model, timeout: timeout, logger: logger}
}

func (a *OpenAIAdvisor) Recommend(ctx context.Context, req core.AdviceRequest) (core.Advice, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return core.Advice{}, err
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return core.Advice{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return core.Advice{}, advice.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	a.logger.DebugContext(ctx, "Advice model response",
		"model", resp.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return parseAdvice(content)
}

// parseAdvice decodes the model's JSON answer. Code fences are tolerated.
func parseAdvice(content string) (core.Advice, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return core.Advice{}, advice.ErrEmptyResponse
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var out core.Advice
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return core.Advice{}, fmt.Errorf("%w: %v", core.ErrMalformedAdvice, err)
	}
	if err := out.Validate(); err != nil {
		return core.Advice{}, err
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out, nil
}
