package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"resume-builder/internal/llm"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

// Client implements llm.Client on Google Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client for apiKey.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete generates text for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}
	return extractText(resp)
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", llm.ErrEmptyResponse
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", llm.ErrEmptyResponse
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

// classify maps provider failures onto llm sentinels. The SDK surfaces errors
// as googleapi.Error, gRPC status, or plain text depending on transport.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			return fmt.Errorf("gemini: %w: %v", llm.ErrRateLimited, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("gemini: %w: %v", llm.ErrProviderAuth, err)
		}
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.ResourceExhausted:
			return fmt.Errorf("gemini: %w: %v", llm.ErrRateLimited, err)
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("gemini: %w: %v", llm.ErrProviderAuth, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "quota"), strings.Contains(msg, "Too Many Requests"):
		return fmt.Errorf("gemini: %w: %v", llm.ErrRateLimited, err)
	case strings.Contains(msg, "API key"), strings.Contains(msg, "401"):
		return fmt.Errorf("gemini: %w: %v", llm.ErrProviderAuth, err)
	}
	return fmt.Errorf("gemini: %w", err)
}

var _ llm.Client = (*Client)(nil)
