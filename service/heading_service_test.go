package service

import (
	"testing"

	"github.com/tieubaoca/docinsight-be/types"
)

func newTestHeadingService() *HeadingService {
	lang := NewLanguageService()
	return NewHeadingService(lang, lang, testAnalysisConfig())
}

func TestIsCandidate_Filters(t *testing.T) {
	svc := newTestHeadingService()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"normal heading", "Chapter 1 Overview", true},
		{"single character", "A", false},
		{"pure numbering", "1.2.3", false},
		{"pure punctuation", "----", false},
		{"lowercase prose", "the committee met on tuesday afternoon", false},
		{"lowercase with heading keyword", "table of contents", true},
		{"cjk text kept liberally", "第一章", true},
	}
	for _, tt := range tests {
		span := types.TextSpan{Text: tt.text}
		if got := svc.IsCandidate(span); got != tt.want {
			t.Errorf("%s: IsCandidate(%q) = %v, want %v", tt.name, tt.text, got, tt.want)
		}
	}
}

func TestClassifySpans_ChapterHierarchy(t *testing.T) {
	svc := newTestHeadingService()
	stats := types.FontStatistics{
		Mean:   11,
		StdDev: 3,
		P25:    11,
		Median: 11,
		P75:    12,
		P90:    18,
		P95:    24,
	}

	spans := []types.TextSpan{
		{Text: "Chapter 1", FontSize: 24, Bold: true, Page: 1, YPosition: 72},
		{Text: "1.1 Overview of the Business", FontSize: 18, Page: 1, YPosition: 200},
	}
	// Weak candidates widen the score distribution so the dynamic
	// threshold settles near the configured floor.
	for i := 0; i < 7; i++ {
		spans = append(spans, types.TextSpan{Text: "Quarterly Update Notes", FontSize: 11, Page: 2, YPosition: 400})
	}

	candidates := svc.ClassifySpans(spans, stats)

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates above threshold, got %d", len(candidates))
	}
	if candidates[0].Span.Text != "Chapter 1" || candidates[0].Level != types.LevelH1 {
		t.Errorf("expected Chapter 1 as H1, got %q level %v", candidates[0].Span.Text, candidates[0].Level)
	}
	if candidates[1].Span.Text != "1.1 Overview of the Business" || candidates[1].Level != types.LevelH2 {
		t.Errorf("expected numbered heading as H2, got %q level %v", candidates[1].Span.Text, candidates[1].Level)
	}
	if candidates[0].Score <= candidates[1].Score {
		t.Errorf("expected chapter to outscore subsection: %.1f vs %.1f", candidates[0].Score, candidates[1].Score)
	}
}

func TestScore_BoldAndPositionBonuses(t *testing.T) {
	svc := newTestHeadingService()
	stats := types.FontStatistics{Mean: 11, StdDev: 3, Median: 11, P75: 12, P90: 18, P95: 24}

	plain := types.TextSpan{Text: "Findings Overview", FontSize: 11, YPosition: 400}
	bold := plain
	bold.Bold = true
	top := plain
	top.YPosition = 100

	base := svc.Score(plain, stats, 5)
	if got := svc.Score(bold, stats, 5); got-base != svc.weights.Bold {
		t.Errorf("expected bold bonus %.1f, got %.1f", svc.weights.Bold, got-base)
	}
	if got := svc.Score(top, stats, 5); got-base != svc.weights.Position {
		t.Errorf("expected position bonus %.1f, got %.1f", svc.weights.Position, got-base)
	}
}

func TestAssignLevel_NumberingDepthIsAuthoritative(t *testing.T) {
	svc := newTestHeadingService()

	tests := []struct {
		text  string
		score float64
		tier  int
		want  types.HeadingLevel
	}{
		{"2.1.3 Deep Subsection", 95, 1, types.LevelH3},
		{"1.2.3.4.5 Too Deep", 95, 1, types.LevelH4},
		{"Strong Unnumbered Heading", 65, 3, types.LevelH1},
		{"Middling Heading", 45, 2, types.LevelH2},
		{"Weak Heading", 32, 5, types.LevelH4},
	}
	for _, tt := range tests {
		if got := svc.assignLevel(tt.text, tt.score, tt.tier); got != tt.want {
			t.Errorf("assignLevel(%q, %.0f, %d) = %v, want %v", tt.text, tt.score, tt.tier, got, tt.want)
		}
	}
}
