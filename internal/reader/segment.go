package reader

import (
	"regexp"
	"strings"
	"unicode"
)

const sentencesPerFallbackParagraph = 3

var (
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
	horizontalSpaces = regexp.MustCompile(`[ \t\r\f]+`)
	multiNewline     = regexp.MustCompile(`\n{3,}`)

	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// Common abbreviations that end with a period but not a sentence.
var abbreviations = map[string]struct{}{
	"mr.": {}, "mrs.": {}, "ms.": {}, "dr.": {}, "prof.": {},
	"sr.": {}, "jr.": {}, "st.": {}, "no.": {}, "fig.": {},
	"etc.": {}, "e.g.": {}, "i.e.": {}, "vs.": {}, "cf.": {},
	"approx.": {}, "dept.": {}, "est.": {}, "inc.": {},
}

// CleanText collapses horizontal whitespace runs, strips the BOM and
// control noise, and normalizes blank-line runs to a single paragraph
// break.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\ufeff", "")
	text = horizontalSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// SplitParagraphs splits on blank lines. Extracted PDF text often has no
// blank-line structure at all; in that case sentences are grouped in
// threes so downstream scoring still works on paragraph-sized units.
func SplitParagraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		flattened := strings.Join(strings.Fields(part), " ")
		if flattened != "" {
			paragraphs = append(paragraphs, flattened)
		}
	}
	if len(paragraphs) > 1 {
		return paragraphs
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return paragraphs
	}
	grouped := make([]string, 0, (len(sentences)+sentencesPerFallbackParagraph-1)/sentencesPerFallbackParagraph)
	for i := 0; i < len(sentences); i += sentencesPerFallbackParagraph {
		end := min(i+sentencesPerFallbackParagraph, len(sentences))
		grouped = append(grouped, strings.Join(sentences[i:end], " "))
	}
	return grouped
}

// SplitSentences breaks text on sentence terminators. A period only ends
// a sentence when followed by whitespace and an upper-case or numeric
// start, and when the word carrying it is not a known abbreviation or a
// single-letter initial.
func SplitSentences(text string) []string {
	flattened := strings.Join(strings.Fields(text), " ")
	if flattened == "" {
		return nil
	}

	runes := []rune(flattened)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		end := i
		for end+1 < len(runes) && isClosing(runes[end+1]) {
			end++
		}
		if end+1 >= len(runes) {
			break
		}
		if runes[end+1] != ' ' {
			i = end
			continue
		}
		next := end + 2
		if next >= len(runes) {
			break
		}
		if !unicode.IsUpper(runes[next]) && !unicode.IsDigit(runes[next]) && runes[next] != '"' {
			i = end
			continue
		}
		if r == '.' && endsWithAbbreviation(runes[start:end+1]) {
			i = end
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : end+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = next
		i = next - 1
	}

	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// EscapeHTML escapes the five characters clients render unescaped.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '”', '’':
		return true
	}
	return false
}

func endsWithAbbreviation(segment []rune) bool {
	text := strings.TrimRight(string(segment), `"')]`)
	idx := strings.LastIndexByte(text, ' ')
	word := text
	if idx >= 0 {
		word = text[idx+1:]
	}
	word = strings.ToLower(word)
	if _, ok := abbreviations[word]; ok {
		return true
	}
	// Single-letter initials such as "J." in "J. Smith".
	wordRunes := []rune(word)
	return len(wordRunes) == 2 && unicode.IsLetter(wordRunes[0]) && wordRunes[1] == '.'
}
