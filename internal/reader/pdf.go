package reader

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Metadata carries the document-information fields of a PDF. Absent
// entries fall back to the placeholder strings clients already expect.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
}

// Document is the extracted form of an uploaded PDF: the full cleaned
// text, its sentences, its paragraphs (HTML-escaped, in document order)
// and the information dictionary.
type Document struct {
	Sentences  []string
	FullText   string
	Paragraphs []string
	Metadata   Metadata
}

// Extract pulls text and metadata out of a PDF payload. Pages that fail
// text extraction are skipped; a document with no extractable text at
// all is an error.
func Extract(r io.ReaderAt, size int64) (Document, error) {
	pdfReader, err := pdf.NewReader(r, size)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	total := pdfReader.NumPage()
	for i := 1; i <= total; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return Document{}, fmt.Errorf("no extractable text found in pdf")
	}

	text := CleanText(b.String())
	paragraphs := SplitParagraphs(text)
	escaped := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		escaped = append(escaped, EscapeHTML(paragraph))
	}

	return Document{
		Sentences:  SplitSentences(text),
		FullText:   text,
		Paragraphs: escaped,
		Metadata:   metadataFrom(pdfReader),
	}, nil
}

func metadataFrom(r *pdf.Reader) Metadata {
	meta := Metadata{
		Title:    "Unknown",
		Author:   "Unknown",
		Subject:  "None",
		Keywords: "None",
	}

	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return meta
	}
	if v := strings.TrimSpace(info.Key("Title").RawString()); v != "" {
		meta.Title = v
	}
	if v := strings.TrimSpace(info.Key("Author").RawString()); v != "" {
		meta.Author = v
	}
	if v := strings.TrimSpace(info.Key("Subject").RawString()); v != "" {
		meta.Subject = v
	}
	if v := strings.TrimSpace(info.Key("Keywords").RawString()); v != "" {
		meta.Keywords = v
	}
	return meta
}
