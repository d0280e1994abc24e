package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/daystar/grant-hub/internal/models"
)

const defaultModel = openai.GPT4oMini

// completionClient is the slice of the OpenAI client the classifier uses.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the settings for the classification client. BaseURL may
// point at any OpenAI-compatible endpoint.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Classifier enriches grants with structured metadata using a chat
// completion model. It implements filter.Enricher.
type Classifier struct {
	client completionClient
	model  string
}

// NewClassifier builds a classifier from config. The API key is required.
func NewClassifier(cfg Config) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Classifier{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Classify sends one grant's title and snippet to the model and parses the
// structured metadata out of the response.
func (c *Classifier) Classify(ctx context.Context, g models.Grant) (*models.GrantMetadata, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert grant analyst at a university research office. You classify funding opportunities and respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(g),
			},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("classification returned no choices")
	}

	meta, err := parseMetadata(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}
	return meta, nil
}

func buildPrompt(g models.Grant) string {
	return fmt.Sprintf(`Classify the following funding opportunity into JSON.

Title: %s
Description: %s
Funder: %s

Instructions:
1. research_domain: the primary academic domain (e.g. "Health Sciences", "Engineering", "Education").
2. subdomains: 1-3 narrower fields within that domain.
3. funding_type: one of "research", "fellowship", "scholarship", "infrastructure", "training", "other".
4. academic_level: who can apply (e.g. "faculty", "postdoc", "graduate", "undergraduate", "any").
5. eligible_entities: kinds of organizations or individuals eligible.
6. geographic_scope: where applicants must be based (e.g. "global", "africa", "kenya", "usa").
7. funding_amount: the amount as text if stated, else null.
8. has_deadline: true if the text states an application deadline.
9. is_research_grant: true if this funds research rather than news or services.
10. confidence_score: your confidence in this classification, 0.0 to 1.0.

JSON Schema:
{
	"research_domain": "string",
	"subdomains": ["string"],
	"funding_type": "string",
	"academic_level": "string",
	"eligible_entities": ["string"],
	"geographic_scope": "string",
	"funding_amount": "string or null",
	"has_deadline": boolean,
	"is_research_grant": boolean,
	"confidence_score": number
}

Respond ONLY with the JSON object.`, g.Title, g.Snippet, g.Organization)
}
