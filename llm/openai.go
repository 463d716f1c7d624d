package llm

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
)

// Message is one chat turn. Role is "system", "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// Client sends a full conversation and returns the assistant's text.
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// OpenAIClient calls the chat completion API.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: DefaultTemperature,
	}
}

// NewOpenAIClientWithConfig is used to point the client at a compatible
// endpoint through openai.ClientConfig.BaseURL.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) *OpenAIClient {
	c := NewOpenAIClient("", model)
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	if c.client == nil {
		return "", errors.New("openai client not initialized")
	}

	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
