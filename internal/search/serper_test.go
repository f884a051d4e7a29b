package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(zerolog.Nop(), Options{
		APIKey:   "test-key",
		Endpoint: server.URL,
		RPS:      1000,
		Burst:    1000,
	})
}

func TestLookupReturnsFirstOrganicHit(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		fmt.Fprint(w, `{"organic":[
			{"link":"https://example.com/a","snippet":"first snippet","position":1},
			{"link":"https://example.com/b","snippet":"second snippet","position":2}
		]}`)
	})

	result := client.Lookup(context.Background(), "cats are mammals")
	if result.Sentence != "cats are mammals" {
		t.Fatalf("unexpected sentence: %q", result.Sentence)
	}
	if result.URL == nil || *result.URL != "https://example.com/a" {
		t.Fatalf("unexpected url: %v", result.URL)
	}
	if result.Snippet == nil || *result.Snippet != "first snippet" {
		t.Fatalf("unexpected snippet: %v", result.Snippet)
	}
}

func TestLookupEmptyOrganic(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organic":[]}`)
	})

	result := client.Lookup(context.Background(), "query")
	if result.URL != nil || result.Snippet != nil {
		t.Fatalf("expected nil url and snippet, got %+v", result)
	}
}

func TestLookupServerErrorDegrades(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	result := client.Lookup(context.Background(), "query")
	if result.URL != nil || result.Snippet != nil {
		t.Fatalf("expected degraded result on 429, got %+v", result)
	}
}

func TestLookupMalformedJSONDegrades(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organic": [`)
	})

	result := client.Lookup(context.Background(), "query")
	if result.URL != nil || result.Snippet != nil {
		t.Fatalf("expected degraded result on malformed JSON, got %+v", result)
	}
}

func TestLookupSchemaInvalidDegrades(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"organic":"not-an-array"}`)
	})

	result := client.Lookup(context.Background(), "query")
	if result.URL != nil || result.Snippet != nil {
		t.Fatalf("expected degraded result on schema violation, got %+v", result)
	}
}

func TestValidateResponseRejectsTrailingContent(t *testing.T) {
	t.Parallel()

	if _, err := ValidateResponse([]byte(`{"organic":[]} trailing`)); err == nil {
		t.Fatal("expected error for trailing content")
	}
}

func TestLookupAllPreservesOrder(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body serperQuery
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode query: %v", err)
		}
		fmt.Fprintf(w, `{"organic":[{"link":"https://example.com/%s","snippet":"about %s"}]}`, body.Q, body.Q)
	})

	queries := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	results, attempted := client.LookupAll(context.Background(), queries)
	if attempted != len(queries) {
		t.Fatalf("expected %d attempts, got %d", len(queries), attempted)
	}
	if len(results) != len(queries) {
		t.Fatalf("expected %d results, got %d", len(queries), len(results))
	}
	for i, query := range queries {
		if results[i].Sentence != query {
			t.Fatalf("result %d out of order: got %q want %q", i, results[i].Sentence, query)
		}
		if results[i].Snippet == nil || *results[i].Snippet != "about "+query {
			t.Fatalf("result %d has wrong snippet: %v", i, results[i].Snippet)
		}
	}
}
