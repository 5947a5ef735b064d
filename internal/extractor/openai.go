package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const azureAPIVersion = "2024-02-15-preview"

// OpenAIConfig selects between Azure OpenAI and plain OpenAI credentials.
type OpenAIConfig struct {
	APIKey          string
	Model           string
	AzureEndpoint   string
	AzureDeployment string
}

// OpenAIClient implements Client against the OpenAI chat completion API. It
// is constructed explicitly and owned by the caller; there is no process-wide
// instance.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a client from config. Azure credentials take
// precedence when fully specified.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	switch {
	case cfg.APIKey != "" && cfg.AzureEndpoint != "" && cfg.AzureDeployment != "":
		azure := openai.DefaultAzureConfig(cfg.APIKey, cfg.AzureEndpoint)
		azure.APIVersion = azureAPIVersion
		return &OpenAIClient{
			client: openai.NewClientWithConfig(azure),
			model:  cfg.AzureDeployment,
		}, nil
	case cfg.APIKey != "":
		model := cfg.Model
		if model == "" {
			model = openai.GPT4TurboPreview
		}
		return &OpenAIClient{
			client: openai.NewClient(cfg.APIKey),
			model:  model,
		}, nil
	default:
		return nil, errors.New("no OpenAI or Azure OpenAI credentials configured")
	}
}

// Complete sends one chat completion request and returns the raw response
// text.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature:      0.7,
		MaxTokens:        500,
		TopP:             0.9,
		FrequencyPenalty: 0.1,
		PresencePenalty:  0.1,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
