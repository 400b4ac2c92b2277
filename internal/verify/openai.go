package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIJudge implements Judge on the OpenAI Chat Completions API
type OpenAIJudge struct {
	client *openai.Client
	config Config
}

// NewOpenAIJudge creates a new OpenAI judge
func NewOpenAIJudge(config Config) (*OpenAIJudge, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIJudge{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (j *OpenAIJudge) Name() string {
	return "openai"
}

// Judge asks the model for a misinformation estimate on the statement and
// parses the strict two-field JSON response.
func (j *OpenAIJudge) Judge(ctx context.Context, statement string) (Judgment, error) {
	model := j.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := j.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 256
	}

	timeout := time.Duration(j.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a fact-checking assistant. You may reason from " +
					"general knowledge and web search results when available. You " +
					"answer only with the requested JSON object.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(statement),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := j.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Judgment{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Judgment{}, fmt.Errorf("no response from OpenAI")
	}

	return parseJudgment(resp.Choices[0].Message.Content)
}

// parseJudgment decodes the strict two-field response. Anything that does not
// decode into both numeric fields is an error; the caller treats it as an
// inconclusive judgment.
func parseJudgment(content string) (Judgment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Judgment{}, fmt.Errorf("empty judgment response")
	}

	// Models occasionally wrap JSON in a fenced block despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw struct {
		MisinformationAmount *float64 `json:"misinformation_amount"`
		Certainty            *float64 `json:"certainty"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Judgment{}, fmt.Errorf("parse judgment: %w", err)
	}
	if raw.MisinformationAmount == nil || raw.Certainty == nil {
		return Judgment{}, fmt.Errorf("judgment response missing required fields")
	}

	return Judgment{
		MisinformationAmount: clamp01(*raw.MisinformationAmount),
		Certainty:            clamp01(*raw.Certainty),
	}, nil
}
