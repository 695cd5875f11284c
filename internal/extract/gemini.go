package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/schema"
)

// ErrMissingAPIKey is returned when no Gemini API key is configured.
var ErrMissingAPIKey = errors.New("missing Gemini API key")

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 30 * time.Second
)

const promptTemplate = `You are an engineering project data entry assistant.
Analyze the following unstructured text and extract data into a JSON object matching the provided schema.

The text contains information about an engineering project.
Map the text content to the closest matching field based on the field description (label).

Text to parse:
"""
%s
"""

If a field is not found in the text, leave it null or empty.
For numbers, strip units (like km, m, m^2) and return just the number.
For dates, return in YYYY-MM-DD format if possible.`

// GeminiClient calls the generateContent endpoint directly over HTTP.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ Extractor = (*GeminiClient)(nil)

// GeminiOption customizes a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithModel overrides the default model.
func WithModel(model string) GeminiOption {
	return func(c *GeminiClient) { c.model = model }
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(url string) GeminiOption {
	return func(c *GeminiClient) { c.baseURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) { c.client = client }
}

// NewGeminiClient creates a client. The API key may be empty; Extract then
// fails with ErrMissingAPIKey.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the generateContent request/response.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   *responseSchema `json:"responseSchema,omitempty"`
}

type responseSchema struct {
	Type             string                    `json:"type"`
	Properties       map[string]schemaProperty `json:"properties,omitempty"`
	PropertyOrdering []string                  `json:"propertyOrdering,omitempty"`
}

type schemaProperty struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends the text and a registry-derived response schema to Gemini
// and parses the JSON reply into a field mapping.
func (c *GeminiClient) Extract(ctx context.Context, text string, columns []schema.Column) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	ctx, span := otel.Tracer("engitrack/extract").Start(ctx, "gemini.extract")
	defer span.End()
	span.SetAttributes(
		attribute.String("model", c.model),
		attribute.Int("columns", len(columns)),
	)

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, text)}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   buildSchema(columns),
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		log.ErrorErr(log.CatExtract, "extraction request failed", err)
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		err := fmt.Errorf("extraction API error %d: %s", parsed.Error.Code, parsed.Error.Message)
		span.RecordError(err)
		span.SetStatus(codes.Error, "api error")
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API returned status %d", resp.StatusCode)
	}

	reply := candidateText(parsed)
	if reply == "" {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(reply), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse extracted fields: %w", err)
	}

	log.Info(log.CatExtract, "fields extracted", "count", len(fields))
	return fields, nil
}

// buildSchema maps number columns to NUMBER and everything else to STRING,
// with column labels as descriptions so the model can match free text.
func buildSchema(columns []schema.Column) *responseSchema {
	s := &responseSchema{
		Type:       "OBJECT",
		Properties: make(map[string]schemaProperty, len(columns)),
	}
	for _, col := range columns {
		typ := "STRING"
		if col.Type == schema.TypeNumber {
			typ = "NUMBER"
		}
		s.Properties[col.Key] = schemaProperty{Type: typ, Description: col.Label}
		s.PropertyOrdering = append(s.PropertyOrdering, col.Key)
	}
	return s
}

func candidateText(r generateResponse) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
