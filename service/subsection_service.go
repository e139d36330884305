package service

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/tieubaoca/docinsight-be/types"
)

// SubsectionService performs sentence-level relevance scoring inside
// already top-ranked sections. Scores decide which sentences are
// selected; the original sentence order decides how they are presented.
type SubsectionService struct {
	embedder  EmbeddingService
	tokenizer SentenceTokenizer
	cfg       types.AnalysisConfig
}

func NewSubsectionService(embedder EmbeddingService, tokenizer SentenceTokenizer, cfg types.AnalysisConfig) *SubsectionService {
	return &SubsectionService{
		embedder:  embedder,
		tokenizer: tokenizer,
		cfg:       cfg,
	}
}

// AnalyzeTop extracts refined highlights from the first MaxTopSections
// ranked sections. Per-section failures degrade to a leading-text
// fallback instead of propagating.
func (s *SubsectionService) AnalyzeTop(ctx context.Context, ranked []types.RankedSection, query *types.PersonaQuery) []types.SentenceHighlight {
	limit := s.cfg.MaxTopSections
	if limit > len(ranked) {
		limit = len(ranked)
	}

	var highlights []types.SentenceHighlight
	for _, rs := range ranked[:limit] {
		hs, err := s.analyzeSection(ctx, rs.Section, query)
		if err != nil {
			log.Printf("Warning: sub-section analysis failed for %q: %v", rs.Section.Title, err)
			if fallback := s.fallbackHighlight(rs.Section); fallback != nil {
				highlights = append(highlights, *fallback)
			}
			continue
		}
		highlights = append(highlights, hs...)
	}
	return highlights
}

func (s *SubsectionService) analyzeSection(ctx context.Context, section types.Section, query *types.PersonaQuery) ([]types.SentenceHighlight, error) {
	sentences := s.tokenizer.Sentences(section.BodyText)
	if len(sentences) == 0 {
		if section.BodyText == "" {
			return nil, nil
		}
		// Degenerate split: treat the whole body as one sentence.
		sentences = []string{section.BodyText}
	}
	if len(sentences) > s.cfg.MaxSentencesPerSection {
		sentences = sentences[:s.cfg.MaxSentencesPerSection]
	}

	vectors, err := s.embedder.EmbedTexts(ctx, sentences)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(sentences) {
		return nil, types.ErrEmbeddingUnavailable
	}

	similarities := make([]float64, len(sentences))
	for i, vec := range vectors {
		similarities[i] = CosineSimilarity(vec, query.Embedding)
	}

	selected := s.selectSentences(similarities)

	highlights := make([]types.SentenceHighlight, 0, len(selected))
	// Emit in original order for readability; selection already
	// happened by score.
	for i, sentence := range sentences {
		if !selected[i] {
			continue
		}
		highlights = append(highlights, types.SentenceHighlight{
			Sentence:   truncateRunes(sentence, s.cfg.HighlightChars),
			Similarity: similarities[i],
			Document:   section.Document,
			Page:       section.Page,
		})
	}
	return highlights, nil
}

// selectSentences marks the top sentences by similarity, bounded by
// MaxHighlightsPerSection. A floor derived from the fourth-best score
// filters noise but at least two sentences always survive when
// available.
func (s *SubsectionService) selectSentences(similarities []float64) []bool {
	order := make([]int, len(similarities))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return similarities[order[a]] > similarities[order[b]]
	})

	anchor := 3
	if anchor > len(order)-1 {
		anchor = len(order) - 1
	}
	floor := math.Max(0.02, math.Min(0.15, similarities[order[anchor]]))

	selected := make([]bool, len(similarities))
	taken := 0
	for _, idx := range order {
		if taken >= s.cfg.MaxHighlightsPerSection {
			break
		}
		if similarities[idx] >= floor || taken < 2 {
			selected[idx] = true
			taken++
		}
	}
	return selected
}

func (s *SubsectionService) fallbackHighlight(section types.Section) *types.SentenceHighlight {
	if section.BodyText == "" {
		return nil
	}
	return &types.SentenceHighlight{
		Sentence: truncateRunes(section.BodyText, s.cfg.HighlightChars),
		Document: section.Document,
		Page:     section.Page,
	}
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
