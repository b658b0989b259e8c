package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Predictor calls the model-serving endpoint that classifies a feature
// vector into a plan category.
type Predictor struct {
	apiURL string
	client *http.Client
}

func NewPredictor(apiURL string) *Predictor {
	return &Predictor{
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Predict sends the named feature vector for the given model and returns
// the predicted plan category.
func (p *Predictor) Predict(ctx context.Context, model string, columns []string, values []float64) (string, error) {
	reqBody := map[string]interface{}{
		"model":   model,
		"columns": columns,
		"values":  values,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("predictor API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Prediction string `json:"prediction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Prediction == "" {
		return "", fmt.Errorf("predictor returned empty prediction")
	}
	return result.Prediction, nil
}
