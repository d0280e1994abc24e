package ai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daystar/grant-hub/internal/models"
)

type stubCompletions struct {
	gotReq  openai.ChatCompletionRequest
	content string
	err     error
}

func (s *stubCompletions) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

const sampleClassification = `{
	"research_domain": "Health Sciences",
	"subdomains": ["Epidemiology", "Public Health"],
	"funding_type": "research",
	"academic_level": "faculty",
	"eligible_entities": ["universities"],
	"geographic_scope": "africa",
	"funding_amount": "$50,000",
	"has_deadline": true,
	"is_research_grant": true,
	"confidence_score": 0.92
}`

func TestClassify(t *testing.T) {
	stub := &stubCompletions{content: sampleClassification}
	c := &Classifier{client: stub, model: defaultModel}

	meta, err := c.Classify(context.Background(), models.Grant{
		Title:        "Malaria Surveillance Research Grant",
		Snippet:      "Funding for epidemiological field studies.",
		Organization: "Global Health Fund",
	})
	require.NoError(t, err)
	require.NotNil(t, meta)

	assert.Equal(t, "Health Sciences", meta.ResearchDomain)
	assert.Equal(t, []string{"Epidemiology", "Public Health"}, meta.Subdomains)
	assert.Equal(t, "research", meta.FundingType)
	assert.True(t, meta.IsResearchGrant)
	assert.InDelta(t, 0.92, meta.ConfidenceScore, 0.0001)

	// Prompt carries the grant's own fields.
	require.Len(t, stub.gotReq.Messages, 2)
	assert.Contains(t, stub.gotReq.Messages[1].Content, "Malaria Surveillance Research Grant")
	assert.Contains(t, stub.gotReq.Messages[1].Content, "Global Health Fund")
	require.NotNil(t, stub.gotReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, stub.gotReq.ResponseFormat.Type)
}

func TestClassifyRequestError(t *testing.T) {
	stub := &stubCompletions{err: errors.New("upstream unavailable")}
	c := &Classifier{client: stub, model: defaultModel}

	_, err := c.Classify(context.Background(), models.Grant{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
}

func TestClassifyMalformedResponse(t *testing.T) {
	stub := &stubCompletions{content: "I cannot classify this grant."}
	c := &Classifier{client: stub, model: defaultModel}

	_, err := c.Classify(context.Background(), models.Grant{Title: "x"})
	require.Error(t, err)
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain object", input: sampleClassification},
		{name: "markdown fenced", input: "```json\n" + sampleClassification + "\n```"},
		{name: "surrounded by prose", input: "Here is the classification:\n" + sampleClassification + "\nLet me know if you need more."},
		{name: "no JSON at all", input: "no structured data here", wantErr: true},
		{name: "unbalanced object", input: `{"research_domain": "Health`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := parseMetadata(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Health Sciences", meta.ResearchDomain)
		})
	}
}

func TestNewClassifierRequiresKey(t *testing.T) {
	_, err := NewClassifier(Config{})
	require.Error(t, err)

	c, err := NewClassifier(Config{APIKey: "k", BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, defaultModel, c.model)
}
