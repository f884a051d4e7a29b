package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"horse.fit/verity/internal/pipeline"
	"horse.fit/verity/internal/scoring"
)

type fakeScanner struct {
	report *pipeline.Report
	err    error
}

func (f *fakeScanner) Scan(_ context.Context, _ io.ReaderAt, _ int64) (*pipeline.Report, error) {
	return f.report, f.err
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func performScan(t *testing.T, scanner Scanner, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	server := NewServer(scanner, zerolog.Nop(), Options{})
	e := server.newEcho()

	req := httptest.NewRequest(http.MethodPost, "/plagiarism-detection/", body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestScanRejectsMissingFile(t *testing.T) {
	t.Parallel()

	rec := performScan(t, &fakeScanner{}, nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload["error"] != "No file uploaded." {
		t.Fatalf("unexpected error message: %q", payload["error"])
	}
}

func TestScanRejectsWrongFieldName(t *testing.T) {
	t.Parallel()

	body, contentType := multipartUpload(t, "document", "doc.pdf", []byte("%PDF-1.4"))
	rec := performScan(t, &fakeScanner{}, body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong multipart field, got %d", rec.Code)
	}
}

func TestScanInsufficientData(t *testing.T) {
	t.Parallel()

	scanner := &fakeScanner{err: fmt.Errorf("aggregate document: %w", scoring.ErrInsufficientData)}
	body, contentType := multipartUpload(t, "file", "doc.pdf", []byte("%PDF-1.4"))
	rec := performScan(t, scanner, body, contentType)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestScanBadDocument(t *testing.T) {
	t.Parallel()

	scanner := &fakeScanner{err: fmt.Errorf("%w: truncated xref", pipeline.ErrBadDocument)}
	body, contentType := multipartUpload(t, "file", "doc.pdf", []byte("not a pdf"))
	rec := performScan(t, scanner, body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unreadable pdf, got %d", rec.Code)
	}
}

func TestScanSuccess(t *testing.T) {
	t.Parallel()

	scanner := &fakeScanner{report: &pipeline.Report{
		TotalSourcesFound: 2,
		PlagiarismResults: []pipeline.ParagraphReport{},
	}}
	body, contentType := multipartUpload(t, "file", "doc.pdf", []byte("%PDF-1.4"))
	rec := performScan(t, scanner, body, contentType)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if _, ok := payload["overal"]; !ok {
		t.Fatal("response missing overal field")
	}
	if got, ok := payload["total_sources_found"].(float64); !ok || got != 2 {
		t.Fatalf("unexpected total_sources_found: %v", payload["total_sources_found"])
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server := NewServer(&fakeScanner{}, zerolog.Nop(), Options{})
	e := server.newEcho()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
