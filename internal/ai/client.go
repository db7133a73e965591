package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const defaultTimeout = 20 * time.Second

// Client talks to an OpenAI-compatible chat endpoint and satisfies Oracle.
// Replies are requested in JSON object mode; both adapters parse JSON.
type Client struct {
	llm     llms.Model
	timeout time.Duration
}

// NewClient builds an oracle client for one model. baseURL may be empty for
// the default endpoint.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
		openai.WithResponseFormat(&openai.ResponseFormat{Type: "json_object"}),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("oracle client: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{llm: llm, timeout: timeout}, nil
}

// Complete sends one system+user exchange and wraps the reply in an Envelope.
func (c *Client) Complete(ctx context.Context, system, user string) (Envelope, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(system)}},
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(user)}},
	}
	resp, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return Envelope{}, fmt.Errorf("oracle call: %w", err)
	}

	var env Envelope
	if len(resp.Choices) > 0 {
		env.OutputText = resp.Choices[0].Content
		for _, choice := range resp.Choices {
			env.Fragments = append(env.Fragments, choice.Content)
		}
	}
	if raw, err := json.Marshal(resp); err == nil {
		env.Raw = raw
	}
	return env, nil
}
