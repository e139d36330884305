package service

import (
	"math"
	"sort"

	"github.com/tieubaoca/docinsight-be/types"
)

// FontStatsService derives the per-document font size distribution
// that every size-relative heading signal is measured against.
// Absolute thresholds do not carry across documents, so the snapshot
// is recomputed from scratch for every file.
type FontStatsService struct{}

func NewFontStatsService() *FontStatsService {
	return &FontStatsService{}
}

// Compute weights every font size by the character count of its span so
// that body text dominates the baseline and headings stand out as
// outliers. Zero-variance documents come back with StdDev 0; callers
// fall back to percentile tiers in that case.
func (s *FontStatsService) Compute(spans []types.TextSpan) types.FontStatistics {
	var stats types.FontStatistics
	if len(spans) == 0 {
		return stats
	}

	type sizeWeight struct {
		size   float64
		weight float64
	}
	weighted := make([]sizeWeight, 0, len(spans))
	var totalWeight, sum float64
	for _, span := range spans {
		w := float64(span.CharCount())
		if w == 0 {
			continue
		}
		weighted = append(weighted, sizeWeight{size: span.FontSize, weight: w})
		totalWeight += w
		sum += span.FontSize * w
	}
	if totalWeight == 0 {
		return stats
	}

	stats.Mean = sum / totalWeight

	var variance float64
	for _, sw := range weighted {
		d := sw.size - stats.Mean
		variance += sw.weight * d * d
	}
	stats.StdDev = math.Sqrt(variance / totalWeight)
	// Avoid a noise-level spread masquerading as variance.
	if stats.StdDev < 1e-9 {
		stats.StdDev = 0
	}

	sort.Slice(weighted, func(i, j int) bool { return weighted[i].size < weighted[j].size })
	cumulative := make([]float64, len(weighted))
	var running float64
	for i, sw := range weighted {
		running += sw.weight
		cumulative[i] = running
	}

	percentile := func(p float64) float64 {
		target := p / 100 * totalWeight
		idx := sort.SearchFloat64s(cumulative, target)
		if idx >= len(weighted) {
			idx = len(weighted) - 1
		}
		return weighted[idx].size
	}

	stats.P25 = percentile(25)
	stats.Median = percentile(50)
	stats.P75 = percentile(75)
	stats.P90 = percentile(90)
	stats.P95 = percentile(95)
	return stats
}

// Tier maps a font size onto the document-relative size hierarchy:
// 1 is the largest heading tier, 5 is body text. The breakpoints are
// percentile-based so the mapping survives documents with unusual base
// font sizes.
func (s *FontStatsService) Tier(stats types.FontStatistics, size float64) int {
	switch {
	case stats.P95 > stats.Median+2 && size >= stats.P95:
		return 1
	case stats.P90 > stats.Median+1 && size >= stats.P90:
		return 2
	case stats.P75 > stats.Median && size >= stats.P75:
		return 3
	case size > stats.Median+0.5:
		return 4
	}
	return 5
}
