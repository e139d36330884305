package service

import (
	"regexp"
	"strings"
)

// SentenceTokenizer is the external tokenization collaborator.
type SentenceTokenizer interface {
	Sentences(text string) []string
}

// minSentenceChars drops fragments too short to be meaningful
// highlights.
const minSentenceChars = 15

// Latin and CJK/Arabic sentence terminators followed by whitespace or
// end of text.
var sentenceBoundaryRe = regexp.MustCompile(`[.!?。！？؟]+(\s+|$)`)

// RegexTokenizer splits text into sentences on terminal punctuation.
// It is deliberately simple; documents without terminal punctuation
// degenerate to a single sentence, which the sub-section analyzer
// expects.
type RegexTokenizer struct{}

func NewRegexTokenizer() *RegexTokenizer {
	return &RegexTokenizer{}
}

func (t *RegexTokenizer) Sentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	last := 0
	for _, loc := range sentenceBoundaryRe.FindAllStringIndex(text, -1) {
		sentence := strings.TrimSpace(text[last:loc[1]])
		if len([]rune(sentence)) >= minSentenceChars {
			sentences = append(sentences, sentence)
		}
		last = loc[1]
	}
	if tail := strings.TrimSpace(text[last:]); len([]rune(tail)) >= minSentenceChars {
		sentences = append(sentences, tail)
	}

	// No terminal punctuation at all: treat the whole text as one
	// sentence rather than returning nothing.
	if len(sentences) == 0 {
		return []string{text}
	}
	return sentences
}
