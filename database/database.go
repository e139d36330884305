package database

import (
	"context"
)

// SectionRecord is a section as persisted in the vector store, flat
// enough to round-trip through GraphQL results.
type SectionRecord struct {
	ID        string  `json:"id"`
	RunID     string  `json:"run_id"`
	Document  string  `json:"document"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Page      int     `json:"page"`
	Level     string  `json:"level"`
	CreatedAt int64   `json:"created_at"`
	Distance  float32 `json:"distance,omitempty"`
}

// VectorDatabase defines the section persistence and similarity search
// operations the engine needs.
type VectorDatabase interface {
	BatchInsertSections(ctx context.Context, sections []SectionRecord, embeddings [][]float32) error
	SearchSimilar(ctx context.Context, vector []float32, runID string, limit int) ([]SectionRecord, error)
	DeleteRunSections(ctx context.Context, runID string) error
	ReInit() error
}
