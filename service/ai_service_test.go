package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tieubaoca/docinsight-be/types"
)

// fakeEmbedder maps texts onto a tiny keyword space so similarity
// ordering is predictable without a real model.
type fakeEmbedder struct {
	fail bool
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if f.fail {
		return nil, errors.New("embedder down")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		lower := strings.ToLower(t)
		out[i] = []float32{
			float32(strings.Count(lower, "revenue")),
			float32(strings.Count(lower, "recipe")),
			1,
		}
	}
	return out, nil
}

func testAnalysisConfig() types.AnalysisConfig {
	return types.AnalysisConfig{
		MinSections:             5,
		MaxSections:             15,
		MaxTopSections:          5,
		MaxHighlightsPerSection: 5,
		HeadingScoreFloor:       30,
		DedupRecurrenceFraction: 0.05,
		Workers:                 4,
		SectionEmbedChars:       800,
		HighlightChars:          350,
		MaxSentencesPerSection:  40,
		Weights: types.HeadingWeights{
			FontTier:  8,
			FontZ:     4,
			Bold:      15,
			Italic:    5,
			Numbering: 20,
			Keyword:   10,
			Length:    10,
			Uppercase: 5,
			Position:  5,
			Script:    10,
		},
	}
}
