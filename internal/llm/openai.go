package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when the config names none.
	DefaultModel = "gpt-4o-mini"
)

// ErrMissingAPIKey is returned when no API key can be found for a hosted
// provider.
var ErrMissingAPIKey = errors.New("missing API key: set OPENAI_API_KEY or api_key_env in the config")

// OpenAIClient implements the Client interface against the OpenAI API or any
// endpoint speaking the same protocol.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient creates a client for a hosted OpenAI-compatible endpoint.
// apiKeyEnv names the environment variable holding the key; empty falls back
// to OPENAI_API_KEY.
func NewOpenAIClient(model, baseURL, apiKeyEnv string) (*OpenAIClient, error) {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if apiKeyEnv == "" {
		apiKeyEnv = "OPENAI_API_KEY"
	}

	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &OpenAIClient{client: client, model: model}, nil
}

// Chat sends messages to the model and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: toOpenAIMessages(messages),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into result.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}

	jsonContent := ExtractJSON(content)
	if err := json.Unmarshal([]byte(jsonContent), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}

	return nil
}

// toOpenAIMessages converts chat messages to the SDK's union params.
// Unknown roles degrade to user messages.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case "user":
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case "assistant":
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		}
	}
	return openaiMessages
}
