package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"flightclaim/backend/internal/config"
)

const hfBaseURL = "https://router.huggingface.co/hf-inference/models"

// HuggingFaceEmbedder calls the Inference API feature-extraction pipeline.
type HuggingFaceEmbedder struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewHuggingFaceEmbedder(apiKey, model string) *HuggingFaceEmbedder {
	return &HuggingFaceEmbedder{
		apiKey:     apiKey,
		model:      model,
		baseURL:    hfBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// WithBaseURL overrides the inference endpoint root.
func (e *HuggingFaceEmbedder) WithBaseURL(u string) *HuggingFaceEmbedder {
	e.baseURL = strings.TrimRight(u, "/")
	return e
}

func (e *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]interface{}{
		"inputs":  text,
		"options": map[string]bool{"wait_for_model": true},
	})
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/%s/pipeline/feature-extraction", e.baseURL, e.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface returned status: %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	vec, err := decodeFeatures(raw)
	if err != nil {
		return nil, err
	}
	if len(vec) != config.EmbeddingDimensions {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(vec), config.EmbeddingDimensions)
	}
	return vec, nil
}

// decodeFeatures accepts a sentence vector, a token matrix, or a batch of one token matrix,
// mean-pooling token vectors.
func decodeFeatures(raw json.RawMessage) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err == nil {
		return vec, nil
	}
	var tokens [][]float32
	if err := json.Unmarshal(raw, &tokens); err == nil {
		return meanPool(tokens), nil
	}
	var batch [][][]float32
	if err := json.Unmarshal(raw, &batch); err == nil && len(batch) > 0 {
		return meanPool(batch[0]), nil
	}
	return nil, fmt.Errorf("unexpected feature-extraction payload")
}

func meanPool(tokens [][]float32) []float32 {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]float32, len(tokens[0]))
	for _, t := range tokens {
		for i := range out {
			if i < len(t) {
				out[i] += t[i]
			}
		}
	}
	n := float32(len(tokens))
	for i := range out {
		out[i] /= n
	}
	return out
}
