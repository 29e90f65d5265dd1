package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Veraticus/muster/internal/common"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key is required", common.ErrMissingConfig)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = geminiBaseURL
	}

	return &geminiClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  newHTTPClient(cfg.Timeout),
	}, nil
}

type geminiPart struct {
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
	Text       string            `json:"text,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// Generate sends an extraction request to Gemini with a JSON response schema.
func (c *geminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	parts := make([]geminiPart, 0, 1+len(prompt.Images))
	parts = append(parts, geminiPart{Text: prompt.User})
	for _, img := range prompt.Images {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MIMEType: img.MIMEType,
			Data:     img.Data,
		}})
	}

	generationConfig := map[string]any{
		"responseMimeType": "application/json",
		"responseSchema":   responseSchema(true, false),
	}
	if c.temperature > 0 {
		generationConfig["temperature"] = c.temperature
	}
	if c.maxTokens > 0 {
		generationConfig["maxOutputTokens"] = c.maxTokens
	}

	requestBody := map[string]any{
		"systemInstruction": geminiContent{Parts: []geminiPart{{Text: prompt.System}}},
		"contents":          []geminiContent{{Role: "user", Parts: parts}},
		"generationConfig":  generationConfig,
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	var response geminiResponse
	err := postJSON(ctx, c.httpClient, url, map[string]string{"x-goog-api-key": c.apiKey}, requestBody, &response)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini blocked the prompt: %s", response.PromptFeedback.BlockReason)
	}
	if len(response.Candidates) == 0 {
		return "", nil
	}

	var out strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	return out.String(), nil
}
