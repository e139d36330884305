package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/tieubaoca/docinsight-be/types"
)

// personaJobDelimiter joins persona and job into the combined query
// text. It is a fixed constant so identical inputs always produce the
// identical query string.
const personaJobDelimiter = " "

// relaxStep is how much the adaptive cutoff drops per relaxation round.
const relaxStep = 0.05

// RankingService scores sections against the persona query and applies
// the adaptive selection policy. All similarities in one run are
// computed against the same query embedding, so ranks are globally
// comparable across documents.
type RankingService struct {
	embedder EmbeddingService
	cfg      types.AnalysisConfig
}

func NewRankingService(embedder EmbeddingService, cfg types.AnalysisConfig) *RankingService {
	return &RankingService{
		embedder: embedder,
		cfg:      cfg,
	}
}

// BuildPersonaQuery merges the persona and job descriptions into one
// context string, persona first, and embeds it once. The returned query
// is immutable for the rest of the run.
func (s *RankingService) BuildPersonaQuery(ctx context.Context, persona, job string) (*types.PersonaQuery, error) {
	combined := fmt.Sprintf("%s%s%s", strings.TrimSpace(persona), personaJobDelimiter, strings.TrimSpace(job))
	vectors, err := s.embedder.EmbedTexts(ctx, []string{combined})
	if err != nil {
		return nil, fmt.Errorf("embed persona query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed persona query: %w", types.ErrEmbeddingUnavailable)
	}
	return &types.PersonaQuery{
		PersonaText:  persona,
		JobText:      job,
		CombinedText: combined,
		Embedding:    vectors[0],
	}, nil
}

// RankSections embeds every section (heading plus truncated body),
// scores it against the query, and returns the adaptively selected
// sections ordered by descending similarity with dense 1-based ranks.
// Sections whose embedding fails are kept at similarity 0 rather than
// failing the collection.
func (s *RankingService) RankSections(ctx context.Context, sections []types.Section, query *types.PersonaQuery) ([]types.RankedSection, error) {
	if len(sections) == 0 {
		return nil, nil
	}

	texts := make([]string, len(sections))
	for i, sec := range sections {
		texts[i] = s.sectionEmbedText(sec)
	}

	similarities := make([]float64, len(sections))
	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		// Embedding failure is not fatal for the collection; the
		// affected sections simply rank at 0.
		log.Printf("Warning: section embedding failed, ranking with zero similarity: %v", err)
	} else {
		for i, vec := range vectors {
			similarities[i] = CosineSimilarity(vec, query.Embedding)
		}
	}

	order := make([]int, len(sections))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps original document order on ties, which makes
	// the ranking deterministic for identical inputs.
	sort.SliceStable(order, func(a, b int) bool {
		return similarities[order[a]] > similarities[order[b]]
	})

	sortedScores := make([]float64, len(order))
	for i, idx := range order {
		sortedScores[i] = similarities[idx]
	}
	cutoff := s.adaptiveCutoff(sortedScores)

	limit := s.cfg.MaxSections
	if need := s.cfg.MinSections; limit < need {
		// The output floor wins over the cap.
		limit = need
	}
	if limit > len(order) {
		limit = len(order)
	}

	ranked := make([]types.RankedSection, 0, limit)
	for i := 0; i < limit; i++ {
		idx := order[i]
		if similarities[idx] < cutoff {
			break
		}
		ranked = append(ranked, types.RankedSection{
			Section:        sections[idx],
			Similarity:     similarities[idx],
			ImportanceRank: len(ranked) + 1,
		})
	}
	return ranked, nil
}

// adaptiveCutoff starts at the top-decile score and relaxes in fixed
// steps until at least min(MinSections, total) scores clear it. The
// loop is a monotonically relaxing search, so the output size floor
// holds regardless of collection size or topic diversity.
func (s *RankingService) adaptiveCutoff(sortedScores []float64) float64 {
	if len(sortedScores) == 0 {
		return 0
	}

	need := s.cfg.MinSections
	if need > len(sortedScores) {
		need = len(sortedScores)
	}

	decile := len(sortedScores) / 10
	if decile >= len(sortedScores) {
		decile = len(sortedScores) - 1
	}
	cutoff := sortedScores[decile]

	minScore := sortedScores[len(sortedScores)-1]
	for countAtLeast(sortedScores, cutoff) < need && cutoff > minScore {
		cutoff -= relaxStep
	}
	if countAtLeast(sortedScores, cutoff) < need {
		cutoff = minScore
	}
	return cutoff
}

func countAtLeast(sortedScores []float64, cutoff float64) int {
	n := 0
	for _, score := range sortedScores {
		if score >= cutoff {
			n++
		}
	}
	return n
}

func (s *RankingService) sectionEmbedText(sec types.Section) string {
	body := sec.BodyText
	if runes := []rune(body); len(runes) > s.cfg.SectionEmbedChars {
		body = string(runes[:s.cfg.SectionEmbedChars])
	}
	return strings.TrimSpace(sec.Title + " " + body)
}

// CosineSimilarity returns dot(a,b)/(|a||b|), or 0 when either vector
// has zero norm or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
