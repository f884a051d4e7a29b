package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEncodeBatchTextsProtocol(t *testing.T) {
	t.Parallel()

	var captured embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float64{{1, 0}, {0, 1}},
		})
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/embed"})
	vectors, err := client.EncodeBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vectors))
	}
	if len(captured.Texts) != 2 || len(captured.Input) != 0 {
		t.Fatalf("expected texts payload, got texts=%d input=%d", len(captured.Texts), len(captured.Input))
	}
}

func TestEncodeBatchOpenAIProtocol(t *testing.T) {
	t.Parallel()

	var captured embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		// Out-of-order data rows must be reordered by index.
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0, 1}},
				{"index": 0, "embedding": []float64{1, 0}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/v1/embeddings"})
	vectors, err := client.EncodeBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(captured.Input) != 2 {
		t.Fatalf("expected input payload, got input=%d", len(captured.Input))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Fatalf("vectors not reordered by index: %v", vectors)
	}
}

func TestEncodeBatchCountMismatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float64{{1, 0}},
		})
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/embed"})
	if _, err := client.EncodeBatch(context.Background(), []string{"alpha", "beta"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEncodeBatchServiceError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Options{Endpoint: server.URL + "/embed"})
	if _, err := client.EncodeBatch(context.Background(), []string{"alpha"}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestEncodeBatchEmptyInput(t *testing.T) {
	t.Parallel()

	client := NewClient(Options{Endpoint: "http://127.0.0.1:1/embed"})
	vectors, err := client.EncodeBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil vectors for empty input, got %v", vectors)
	}
}

func TestNormalizeEndpointAddsPath(t *testing.T) {
	t.Parallel()

	if got := normalizeEndpoint("http://localhost:9000"); got != "http://localhost:9000/embed" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
	if got := normalizeEndpoint("http://localhost:9000/v1/embeddings"); got != "http://localhost:9000/v1/embeddings" {
		t.Fatalf("unexpected endpoint: %q", got)
	}
}
