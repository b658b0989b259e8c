package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// LLMClient generates grounded answers from retrieved context through an
// OpenAI-compatible chat completions endpoint.
type LLMClient struct {
	apiURL string
	model  string
	client *http.Client
}

func NewLLMClient(apiURL, model string) *LLMClient {
	return &LLMClient{
		apiURL: apiURL,
		model:  model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

const answerSystemPrompt = "You are a concise health and fitness assistant. " +
	"Answer the user's question in two or three sentences using only the provided context. " +
	"If the context does not contain the answer, say you don't know."

// GenerateAnswer produces a short answer to query grounded in context.
func (c *LLMClient) GenerateAnswer(ctx context.Context, query, contextText string) (string, error) {
	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": answerSystemPrompt},
			{"role": "user", "content": fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, query)},
		},
		"temperature": 0.2,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LLM returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
