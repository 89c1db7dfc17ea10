package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultModel = "gpt-4o-mini"

const extractionSystemPrompt = `You are a medical lab report parser. Given raw
lab report text, respond with a single JSON object of the shape
{"markers": [{"name", "value", "unit", "normalMin", "normalMax", "status",
"category"}], "recommendations": [{"type", "title", "description",
"priority", "relatedMarker", "actionItems"}]}.
"status" is one of low, normal, high. "type" is one of supplement, dietary,
physical. "priority" is one of high, medium, low. Respond with JSON only.`

const interactionSystemPrompt = `You are a drug interaction checker. Given a
JSON object with "medications" and "supplements" arrays of {"id", "name"}
pairs, respond with a JSON object {"interactions": [{"medicationId",
"supplementId", "severity", "description", "recommendation"}]} listing every
clinically relevant medication-supplement conflict. "severity" is one of
mild, moderate, severe. Respond with JSON only.`

// OpenAIConfig holds settings for the OpenAI-backed client.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIClient implements Extractor and InteractionChecker against an
// OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient builds a client from the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &OpenAIClient{client: openai.NewClient(opts...), model: model}, nil
}

// ExtractLabData sends raw lab text to the model and parses the structured
// extraction from its reply.
func (c *OpenAIClient) ExtractLabData(ctx context.Context, rawText string) (Extraction, error) {
	content, err := c.complete(ctx, extractionSystemPrompt, rawText)
	if err != nil {
		return Extraction{}, fmt.Errorf("extract lab data: %w", err)
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(content), &extraction); err != nil {
		return Extraction{}, fmt.Errorf("parse extraction response: %w", err)
	}
	for i := range extraction.Markers {
		extraction.Markers[i].Status = strings.ToLower(strings.TrimSpace(extraction.Markers[i].Status))
	}
	for i := range extraction.Recommendations {
		extraction.Recommendations[i].Type = strings.ToLower(strings.TrimSpace(extraction.Recommendations[i].Type))
		extraction.Recommendations[i].Priority = strings.ToLower(strings.TrimSpace(extraction.Recommendations[i].Priority))
	}
	return extraction, nil
}

// CheckInteractions sends the active pill lists to the model and parses the
// flagged conflicts from its reply.
func (c *OpenAIClient) CheckInteractions(ctx context.Context, medications, supplements []Pill) ([]Finding, error) {
	payload, err := json.Marshal(map[string][]Pill{
		"medications": medications,
		"supplements": supplements,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal interaction request: %w", err)
	}

	content, err := c.complete(ctx, interactionSystemPrompt, string(payload))
	if err != nil {
		return nil, fmt.Errorf("check interactions: %w", err)
	}

	var parsed struct {
		Interactions []Finding `json:"interactions"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse interaction response: %w", err)
	}
	for i := range parsed.Interactions {
		parsed.Interactions[i].Severity = strings.ToLower(strings.TrimSpace(parsed.Interactions[i].Severity))
	}
	return parsed.Interactions, nil
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return stripCodeFence(resp.Choices[0].Message.Content), nil
}

// stripCodeFence unwraps a reply the model wrapped in a markdown code block.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
