// Package openai talks to an OpenAI-compatible vision chat completion
// endpoint. The response is free text with no guaranteed schema; structured
// fields are recovered downstream by the field extractor.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/scansafe/scansafe/internal/core/domain"
)

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func New(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// HasCredential reports whether the client can authenticate at all. Callers
// fail fast on a missing key instead of burning a retry budget.
func (c *Client) HasCredential() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imageContent struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// DescribeProduct sends the fixed analysis instruction plus the image
// reference and returns the model's raw text answer.
func (c *Client) DescribeProduct(ctx context.Context, imgURL string) (string, error) {
	if !c.HasCredential() {
		return "", domain.WrapError(domain.ErrMissingCredential, "describe product", errors.New("vision api key is not configured"))
	}

	request := map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: []imageContent{
				{Type: "text", Text: userInstruction},
				{Type: "image_url", ImageURL: &imageURL{URL: imgURL}},
			}},
		},
		"max_tokens": 800,
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, "/v1/chat/completions", request, &response, "describe"); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", errors.New("vision response contained no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
