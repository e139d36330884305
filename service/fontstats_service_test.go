package service

import (
	"math"
	"strings"
	"testing"

	"github.com/tieubaoca/docinsight-be/types"
)

func TestCompute_BodyTextDominatesBaseline(t *testing.T) {
	spans := []types.TextSpan{
		{Text: strings.Repeat("a", 90), FontSize: 11},
		{Text: strings.Repeat("b", 10), FontSize: 24},
	}

	stats := NewFontStatsService().Compute(spans)

	wantMean := (90*11.0 + 10*24.0) / 100
	if math.Abs(stats.Mean-wantMean) > 1e-9 {
		t.Errorf("expected mean %.2f, got %.2f", wantMean, stats.Mean)
	}
	if stats.Median != 11 {
		t.Errorf("expected median 11, got %.2f", stats.Median)
	}
	if stats.P95 != 24 {
		t.Errorf("expected P95 24, got %.2f", stats.P95)
	}
	if stats.StdDev <= 0 {
		t.Errorf("expected positive stddev, got %.4f", stats.StdDev)
	}
}

func TestCompute_UniformSizesAreDegenerate(t *testing.T) {
	spans := []types.TextSpan{
		{Text: "one span of text", FontSize: 12},
		{Text: "another span of text", FontSize: 12},
	}

	stats := NewFontStatsService().Compute(spans)

	if !stats.Degenerate() {
		t.Errorf("expected degenerate stats for uniform sizes, got stddev %.6f", stats.StdDev)
	}
	if stats.ZScore(24) != 0 {
		t.Errorf("expected z-score 0 on degenerate stats, got %.2f", stats.ZScore(24))
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	stats := NewFontStatsService().Compute(nil)
	if stats.Mean != 0 || stats.Median != 0 {
		t.Errorf("expected zero stats for empty input, got %+v", stats)
	}
}

func TestTier_PercentileBreakpoints(t *testing.T) {
	stats := types.FontStatistics{
		Median: 11,
		P75:    12,
		P90:    18,
		P95:    24,
	}
	svc := NewFontStatsService()

	tests := []struct {
		name string
		size float64
		want int
	}{
		{"largest sizes are tier 1", 24, 1},
		{"ninetieth percentile is tier 2", 18, 2},
		{"seventy-fifth percentile is tier 3", 12, 3},
		{"slightly above median is tier 4", 11.6, 4},
		{"body size is tier 5", 11, 5},
	}
	for _, tt := range tests {
		if got := svc.Tier(stats, tt.size); got != tt.want {
			t.Errorf("%s: size %.1f: expected tier %d, got %d", tt.name, tt.size, tt.want, got)
		}
	}
}
