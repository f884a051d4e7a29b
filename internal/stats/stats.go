package stats

import (
	"strings"

	"horse.fit/verity/internal/langdetect"
)

// Statistics summarizes the extracted document text. The counting rules
// are independent of plagiarism scoring and are merged into the response
// unchanged.
type Statistics struct {
	Words      int    `json:"words"`
	Characters int    `json:"characters"`
	Syllables  int    `json:"syllables"`
	Paragraphs int    `json:"paragraphs"`
	Language   string `json:"language,omitempty"`
}

// Calculate counts words, characters and syllables over the full text
// and detects the dominant language.
func Calculate(text string, paragraphs []string) Statistics {
	words := strings.Fields(text)

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	return Statistics{
		Words:      len(words),
		Characters: len([]rune(text)),
		Syllables:  syllables,
		Paragraphs: len(paragraphs),
		Language:   langdetect.DetectISO6391(text),
	}
}

// countSyllables estimates syllables by counting vowel groups, with a
// discount for a silent trailing "e". Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	if word == "" {
		return 1
	}

	const vowels = "aeiouy"
	count := 0
	previousVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !previousVowel {
			count++
		}
		previousVowel = isVowel
	}
	if strings.HasSuffix(word, "e") {
		count--
	}
	if count < 1 {
		return 1
	}
	return count
}
