package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/tieubaoca/docinsight-be/database"
	"github.com/tieubaoca/docinsight-be/service"
	"github.com/tieubaoca/docinsight-be/types"
)

// recordingRunRepo refuses dead contexts the way a real driver would.
type recordingRunRepo struct {
	updated *types.AnalysisRun
}

func (r *recordingRunRepo) CreateRun(ctx context.Context, run *types.AnalysisRun) error {
	return ctx.Err()
}

func (r *recordingRunRepo) GetRun(ctx context.Context, id string) (*types.AnalysisRun, error) {
	return nil, errors.New("not found")
}

func (r *recordingRunRepo) ListRuns(ctx context.Context, status []string, createdFrom int64, limit, offset int) ([]*types.AnalysisRun, error) {
	return nil, ctx.Err()
}

func (r *recordingRunRepo) UpdateRun(ctx context.Context, run *types.AnalysisRun) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.updated = run
	return nil
}

func (r *recordingRunRepo) DeleteRun(ctx context.Context, id string) error {
	return ctx.Err()
}

type recordingVectorDB struct {
	inserted []database.SectionRecord
}

func (v *recordingVectorDB) BatchInsertSections(ctx context.Context, sections []database.SectionRecord, embeddings [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.inserted = append(v.inserted, sections...)
	return nil
}

func (v *recordingVectorDB) SearchSimilar(ctx context.Context, vector []float32, runID string, limit int) ([]database.SectionRecord, error) {
	return nil, ctx.Err()
}

func (v *recordingVectorDB) DeleteRunSections(ctx context.Context, runID string) error {
	return ctx.Err()
}

func (v *recordingVectorDB) ReInit() error { return nil }

type staticEmbedder struct{}

func (staticEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1}
	}
	return out, nil
}

func TestFinishRun_PersistsPartialResultAfterDeadline(t *testing.T) {
	repo := &recordingRunRepo{}
	vectorDB := &recordingVectorDB{}
	h := NewAnalyzeHandler(nil, staticEmbedder{}, nil, repo, vectorDB, types.AnalysisConfig{SectionEmbedChars: 800})

	run := &types.AnalysisRun{ID: "run-1", Status: types.RunStatusRunning}
	result := &service.AnalysisResult{
		Output: &types.CollectionOutput{},
		Ranked: []types.RankedSection{
			{
				Section:        types.Section{Document: "a.pdf", Title: "Overview", BodyText: "revenue grew", Page: 1},
				ImportanceRank: 1,
			},
		},
	}

	h.finishRun(run, result, context.DeadlineExceeded)

	if repo.updated == nil {
		t.Fatalf("expected the run update to reach the repository")
	}
	if repo.updated.Status != types.RunStatusPartial {
		t.Errorf("expected partial status, got %q", repo.updated.Status)
	}
	if repo.updated.Output == nil {
		t.Errorf("expected the partial output to be persisted")
	}
	if repo.updated.CompletedAt == 0 {
		t.Errorf("expected a completion timestamp")
	}
	if len(vectorDB.inserted) != 1 || vectorDB.inserted[0].RunID != "run-1" {
		t.Errorf("expected the ranked section to be stored, got %+v", vectorDB.inserted)
	}
}

func TestFinishRun_FailedRunStillRecorded(t *testing.T) {
	repo := &recordingRunRepo{}
	h := NewAnalyzeHandler(nil, staticEmbedder{}, nil, repo, nil, types.AnalysisConfig{})

	run := &types.AnalysisRun{ID: "run-2", Status: types.RunStatusRunning}
	h.finishRun(run, nil, errors.New("embedder down"))

	if repo.updated == nil || repo.updated.Status != types.RunStatusFailed {
		t.Fatalf("expected a failed run record, got %+v", repo.updated)
	}
}
