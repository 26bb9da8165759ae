// Package ai generates cooking tips and ingredient lists through the
// Anthropic messages API. Everything here is best-effort: callers treat a
// failure the same as an empty answer.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"simmr/internal/models"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-haiku-4-5-20251001"

	tipSystemPrompt = "You are a world-class chef with Michelin-star experience. " +
		"Given a dish, provide one concise, surprising pro tip (max 2 sentences) that would genuinely elevate the dish. " +
		"Be specific and practical, not generic. Don't start with 'Pro tip:' or similar prefixes."

	ingredientsSystemPrompt = "You are a professional recipe developer. " +
		"Given a dish name and a number of servings, respond with only a JSON array of ingredients, " +
		`each an object with "name", "quantity" and "unit" string fields. No prose, no markdown fences.`
)

// Generator produces cooking tips and ingredient lists for a dish.
type Generator interface {
	CookingTip(ctx context.Context, title, description string) (string, error)
	Ingredients(ctx context.Context, dishName string, servings int) ([]models.Ingredient, error)
}

// Client calls the Anthropic messages API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a Client, or nil when no API key is configured.
// A nil *Client is a valid Generator that always declines.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: apiURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// CookingTip returns one short pro tip for the dish, or "" when unavailable.
func (c *Client) CookingTip(ctx context.Context, title, description string) (string, error) {
	if c == nil {
		return "", nil
	}

	prompt := "Dish: " + title
	if description != "" {
		prompt += "\nContext: " + description
	}

	text, err := c.complete(ctx, tipSystemPrompt, prompt, 150)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// Ingredients returns a generated ingredient list for the dish.
func (c *Client) Ingredients(ctx context.Context, dishName string, servings int) ([]models.Ingredient, error) {
	if c == nil {
		return nil, fmt.Errorf("ai generator not configured")
	}

	prompt := fmt.Sprintf("Dish: %s\nServings: %d", dishName, servings)
	text, err := c.complete(ctx, ingredientsSystemPrompt, prompt, 1024)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the JSON in a code fence despite instructions.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var ingredients []models.Ingredient
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &ingredients); err != nil {
		return nil, fmt.Errorf("unparseable ingredient response: %w", err)
	}
	return ingredients, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("anthropic API returned %d: %s", resp.StatusCode, string(b))
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text block in response")
}
