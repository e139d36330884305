package service

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tieubaoca/docinsight-be/types"
)

// topPageRegion is the distance (in points) from the page top inside
// which a span earns the position bonus.
const topPageRegion = 150.0

var (
	pureNumberingRe   = regexp.MustCompile(`^[\d\s\.\-_]+$`)
	purePunctuationRe = regexp.MustCompile(`^[^\p{L}\p{N}\s]+$`)
)

// HeadingService fuses font-relative size, style, multilingual pattern
// matches and page position into a heading-likelihood score and a
// provisional level per span. All weights are configuration, tuned
// relative to each other rather than learned.
type HeadingService struct {
	lang     *LanguageService
	detector LanguageDetector
	weights  types.HeadingWeights
	floor    float64
}

func NewHeadingService(lang *LanguageService, detector LanguageDetector, cfg types.AnalysisConfig) *HeadingService {
	return &HeadingService{
		lang:     lang,
		detector: detector,
		weights:  cfg.Weights,
		floor:    cfg.HeadingScoreFloor,
	}
}

// IsCandidate rejects spans that can never be headings: too short, too
// long, pure numbering, pure punctuation. Non-Latin scripts are kept
// liberally because casing heuristics do not apply to them.
func (s *HeadingService) IsCandidate(span types.TextSpan) bool {
	text := strings.TrimSpace(span.Text)
	n := len([]rune(text))
	if n < 2 || n > 200 {
		return false
	}
	if pureNumberingRe.MatchString(text) || purePunctuationRe.MatchString(text) {
		return false
	}
	if ScriptOf(text) != "latin" {
		return true
	}
	// Plain lowercase Latin prose is body text unless it carries a
	// known heading keyword.
	if text == strings.ToLower(text) {
		lang := span.Language
		if lang == "" {
			lang = s.detector.DetectLanguage(text)
		}
		return s.lang.Match(lang, text).Keyword
	}
	return true
}

// Score computes the composite heading likelihood of a span against the
// document font statistics.
func (s *HeadingService) Score(span types.TextSpan, stats types.FontStatistics, tier int) float64 {
	text := strings.TrimSpace(span.Text)
	w := s.weights

	score := w.FontTier * float64(6-tier)
	if !stats.Degenerate() {
		z := stats.ZScore(span.FontSize)
		score += w.FontZ * math.Min(math.Max(z, 0), 3)
	}

	if span.Bold {
		score += w.Bold
	}
	if span.Italic {
		score += w.Italic
	}

	lang := span.Language
	if lang == "" {
		lang = s.detector.DetectLanguage(text)
	}
	match := s.lang.Match(lang, text)
	if match.Numbering {
		score += w.Numbering
	}
	if match.Keyword {
		score += w.Keyword
	}
	if match.Uppercase {
		score += w.Uppercase
	}

	n := len([]rune(text))
	switch {
	case n >= 3 && n <= 100:
		score += w.Length
	case n > 150:
		score -= 1.5 * w.Length
	}

	if span.YPosition >= 0 && span.YPosition <= topPageRegion {
		score += w.Position
	}

	if sc := ScriptOf(text); sc != "latin" && sc != "unknown" {
		score += w.Script
	}

	return score
}

// ClassifySpans scores every span and returns the heading candidates in
// document order. The effective score floor is dynamic: the 70th
// percentile of candidate scores, never below the configured floor, so
// heading-dense and heading-sparse documents both yield usable sets.
func (s *HeadingService) ClassifySpans(spans []types.TextSpan, stats types.FontStatistics) []types.HeadingCandidate {
	type scored struct {
		idx   int
		score float64
		tier  int
	}
	var candidates []scored
	for i, span := range spans {
		if !s.IsCandidate(span) {
			continue
		}
		tier := fontTier(stats, span.FontSize)
		candidates = append(candidates, scored{
			idx:   i,
			score: s.Score(span, stats, tier),
			tier:  tier,
		})
	}
	if len(candidates) == 0 {
		return nil
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		scores[i] = c.score
	}
	threshold := math.Max(s.floor, percentileOf(scores, 70))

	var result []types.HeadingCandidate
	for _, c := range candidates {
		if c.score < threshold {
			continue
		}
		span := spans[c.idx]
		if span.Language == "" {
			span.Language = s.detector.DetectLanguage(span.Text)
		}
		result = append(result, types.HeadingCandidate{
			Span:      span,
			SpanIndex: c.idx,
			Score:     c.score,
			Level:     s.assignLevel(span.Text, c.score, c.tier),
		})
	}
	return result
}

// assignLevel picks H1-H4 for a candidate. A decimal numbering prefix
// is authoritative ("2.1.3" is depth 3); otherwise the font tier is
// capped by score bands, ties breaking toward the shallower level.
func (s *HeadingService) assignLevel(text string, score float64, tier int) types.HeadingLevel {
	if depth := s.lang.NumberingDepth(text); depth > 0 {
		if depth > int(types.MaxHeadingLevel) {
			depth = int(types.MaxHeadingLevel)
		}
		return types.HeadingLevel(depth)
	}

	ceiling := 4
	switch {
	case score >= 60:
		ceiling = 1
	case score >= 50:
		ceiling = 2
	case score >= 40:
		ceiling = 3
	}
	level := tier
	if ceiling < level {
		level = ceiling
	}
	if level > int(types.MaxHeadingLevel) {
		level = int(types.MaxHeadingLevel)
	}
	if level < 1 {
		level = 1
	}
	return types.HeadingLevel(level)
}

// fontTier mirrors FontStatsService.Tier without needing the service
// instance around.
func fontTier(stats types.FontStatistics, size float64) int {
	return (&FontStatsService{}).Tier(stats, size)
}

// percentileOf returns the p-th percentile (nearest-rank) of values.
func percentileOf(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	rank := int(math.Ceil(p / 100 * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
