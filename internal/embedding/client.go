package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	DefaultEndpoint       = "http://127.0.0.1:8844/embed"
	DefaultModelName      = "all-MiniLM-L6-v2"
	DefaultMaxLength      = 512
	DefaultRequestTimeout = 45 * time.Second
)

// Encoder maps text to fixed-dimensional embedding vectors. Implementations
// must be safe for concurrent use; the process holds exactly one encoder and
// shares it across requests.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float64, error)
	EncodeBatch(ctx context.Context, texts []string) ([][]float64, error)
}

type Options struct {
	Endpoint       string
	ModelName      string
	MaxLength      int
	RequestTimeout time.Duration
	HTTPClient     *http.Client
}

// Client talks to a sentence-embedding HTTP service. It accepts both the
// bare {"texts": [...]} protocol and the OpenAI-style {"input": [...]}
// protocol, selected by the endpoint path.
type Client struct {
	opts Options
}

type embedRequest struct {
	Texts     []string `json:"texts,omitempty"`
	Input     []string `json:"input,omitempty"`
	Model     string   `json:"model,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Data       []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func NewClient(opts Options) *Client {
	normalized := opts
	if strings.TrimSpace(normalized.Endpoint) == "" {
		normalized.Endpoint = DefaultEndpoint
	}
	normalized.Endpoint = normalizeEndpoint(normalized.Endpoint)
	if strings.TrimSpace(normalized.ModelName) == "" {
		normalized.ModelName = DefaultModelName
	}
	if normalized.MaxLength <= 0 {
		normalized.MaxLength = DefaultMaxLength
	}
	if normalized.RequestTimeout <= 0 {
		normalized.RequestTimeout = DefaultRequestTimeout
	}
	if normalized.HTTPClient == nil {
		normalized.HTTPClient = http.DefaultClient
	}
	return &Client{opts: normalized}
}

func (c *Client) Encode(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EncodeBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *Client) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if c == nil {
		return nil, fmt.Errorf("embedding client is not initialized")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	payload := embedRequest{
		Texts:     texts,
		MaxLength: c.opts.MaxLength,
	}
	if parsed, err := url.Parse(c.opts.Endpoint); err == nil && strings.HasSuffix(parsed.Path, "/v1/embeddings") {
		payload = embedRequest{
			Input: texts,
			Model: c.opts.ModelName,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	vectors := parsed.Embeddings
	if len(vectors) == 0 && len(parsed.Data) > 0 {
		sort.Slice(parsed.Data, func(i, j int) bool {
			return parsed.Data[i].Index < parsed.Data[j].Index
		})
		vectors = make([][]float64, 0, len(parsed.Data))
		for _, row := range parsed.Data {
			vectors = append(vectors, row.Embedding)
		}
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding response count mismatch: requested=%d returned=%d", len(texts), len(vectors))
	}
	for i, vector := range vectors {
		if err := validateVector(vector); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
	}

	return vectors, nil
}

func validateVector(values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("vector is empty")
	}
	for i, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("vector has non-finite value at index %d", i)
		}
	}
	return nil
}

func normalizeEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultEndpoint
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = "/embed"
	}
	return parsed.String()
}
