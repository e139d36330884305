package service

import (
	"context"

	"github.com/tieubaoca/docinsight-be/types"
)

// EmbeddingService is the external embedding collaborator: it maps
// texts to fixed-length dense vectors, deterministically for identical
// input. Implementations should accept many texts per call; the
// pipeline always batches to amortize model overhead.
type EmbeddingService interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// SpanExtractor is the PDF extraction collaborator: it yields, per
// document, the ordered span sequence the engine works on.
type SpanExtractor interface {
	ExtractSpans(path string) ([]types.TextSpan, int, error)
}
