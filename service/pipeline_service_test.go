package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/tieubaoca/docinsight-be/types"
)

// fakeExtractor serves canned spans per path.
type fakeExtractor struct {
	spans map[string][]types.TextSpan
	pages map[string]int
}

func (f *fakeExtractor) ExtractSpans(path string) ([]types.TextSpan, int, error) {
	spans, ok := f.spans[path]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", path, types.ErrNoTextSpans)
	}
	return spans, f.pages[path], nil
}

func reportSpans() []types.TextSpan {
	return []types.TextSpan{
		{Text: "Chapter 1 Results", FontSize: 24, Bold: true, Page: 1, YPosition: 70},
		{Text: strings.Repeat("revenue grew strongly across all segments this year. ", 6), FontSize: 11, Page: 1, YPosition: 200},
		{Text: "Chapter 2 Methods", FontSize: 24, Bold: true, Page: 2, YPosition: 70},
		{Text: "revenue was measured with the standard accounting procedure. the numbers were audited externally.", FontSize: 11, Page: 2, YPosition: 200},
	}
}

func newTestPipeline(extractor SpanExtractor) *PipelineService {
	return NewPipelineService(extractor, &fakeEmbedder{}, nil, testAnalysisConfig())
}

func TestExtractOutline_EndToEnd(t *testing.T) {
	extractor := &fakeExtractor{
		spans: map[string][]types.TextSpan{"report.pdf": reportSpans()},
		pages: map[string]int{"report.pdf": 2},
	}
	pipeline := newTestPipeline(extractor)

	outline, err := pipeline.ExtractOutline("report.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outline.Title != "Chapter 1 Results" {
		t.Errorf("expected first heading as title, got %q", outline.Title)
	}
	if len(outline.Nodes) != 1 || outline.Nodes[0].Title != "Chapter 2 Methods" {
		t.Fatalf("expected Chapter 2 Methods in outline, got %+v", outline.Nodes)
	}
	if outline.Nodes[0].LevelTag != "H1" {
		t.Errorf("expected H1 tag, got %q", outline.Nodes[0].LevelTag)
	}
}

func TestExtractOutline_EmptyDocument(t *testing.T) {
	pipeline := newTestPipeline(&fakeExtractor{})

	_, err := pipeline.ExtractOutline("missing.pdf")
	if err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestAnalyzeCollection_IsolatesBrokenDocuments(t *testing.T) {
	extractor := &fakeExtractor{
		spans: map[string][]types.TextSpan{"good.pdf": reportSpans()},
		pages: map[string]int{"good.pdf": 2},
	}
	pipeline := newTestPipeline(extractor)

	docs := []DocumentRef{
		{Name: "good.pdf", Path: "good.pdf"},
		{Name: "broken.pdf", Path: "broken.pdf"},
	}
	result, err := pipeline.AnalyzeCollection(context.Background(), docs, "Investment Analyst", "analyze revenue trends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := result.Output

	if got := output.Metadata.InputDocuments; len(got) != 2 || got[0] != "good.pdf" || got[1] != "broken.pdf" {
		t.Errorf("expected input documents echoed in order, got %v", got)
	}
	if output.Metadata.Persona != "Investment Analyst" || output.Metadata.JobToBeDone != "analyze revenue trends" {
		t.Errorf("unexpected metadata: %+v", output.Metadata)
	}
	if output.Metadata.Timestamp == "" {
		t.Errorf("expected a run timestamp")
	}

	if len(output.Documents) != 2 {
		t.Fatalf("expected a report per document, got %d", len(output.Documents))
	}
	if output.Documents[0].Error != "" || output.Documents[0].Outline == nil {
		t.Errorf("expected good.pdf to succeed, got %+v", output.Documents[0])
	}
	if output.Documents[1].Error == "" {
		t.Errorf("expected broken.pdf to carry its error, got %+v", output.Documents[1])
	}

	if len(output.ExtractedSections) == 0 {
		t.Fatalf("expected ranked sections from the good document")
	}
	if output.ExtractedSections[0].Document != "good.pdf" {
		t.Errorf("unexpected section source: %+v", output.ExtractedSections[0])
	}
	if output.ExtractedSections[0].ImportanceRank != 1 {
		t.Errorf("expected dense ranks starting at 1, got %d", output.ExtractedSections[0].ImportanceRank)
	}
	if len(output.SubSectionAnalysis) == 0 {
		t.Errorf("expected refined passages for the top sections")
	}
}

func TestAnalyzeCollection_AllDocumentsBroken(t *testing.T) {
	pipeline := newTestPipeline(&fakeExtractor{})

	docs := []DocumentRef{{Name: "a.pdf", Path: "a.pdf"}, {Name: "b.pdf", Path: "b.pdf"}}
	result, err := pipeline.AnalyzeCollection(context.Background(), docs, "Analyst", "review revenue")
	if err != nil {
		t.Fatalf("per-document failures must not abort the run: %v", err)
	}

	output := result.Output
	if len(output.ExtractedSections) != 0 {
		t.Errorf("expected no sections, got %d", len(output.ExtractedSections))
	}
	for i, report := range output.Documents {
		if report.Error == "" {
			t.Errorf("document %d: expected an error report", i)
		}
	}
}

type recordingNotifier struct {
	mu       sync.Mutex
	statuses []types.ProcessingDocumentStatus
}

func (n *recordingNotifier) Notify(status types.ProcessingDocumentStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
}

func TestAnalyzeCollection_ReportsProgressCounts(t *testing.T) {
	extractor := &fakeExtractor{
		spans: map[string][]types.TextSpan{"good.pdf": reportSpans()},
		pages: map[string]int{"good.pdf": 2},
	}
	notifier := &recordingNotifier{}
	pipeline := NewPipelineService(extractor, &fakeEmbedder{}, notifier, testAnalysisConfig())

	docs := []DocumentRef{
		{Name: "good.pdf", Path: "good.pdf"},
		{Name: "broken.pdf", Path: "broken.pdf"},
	}
	if _, err := pipeline.AnalyzeCollection(context.Background(), docs, "Analyst", "review revenue"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stages := make(map[string]bool)
	sawComplete := false
	for _, status := range notifier.statuses {
		stages[status.Stage] = true
		if status.TotalDocuments != 2 {
			t.Errorf("expected total of 2 documents, got %+v", status)
		}
		if status.ProcessedDocuments == 2 && status.Progress != 1.0 {
			t.Errorf("expected full progress with all documents processed, got %+v", status)
		}
		if status.ProcessedDocuments == 2 {
			sawComplete = true
		}
	}
	if !stages["extracted"] || !stages["failed"] {
		t.Errorf("expected both terminal stages, got %v", stages)
	}
	if !sawComplete {
		t.Errorf("expected a status counting all processed documents, got %+v", notifier.statuses)
	}
}

func TestIsDocumentError(t *testing.T) {
	if !IsDocumentError(fmt.Errorf("a.pdf: %w", types.ErrNoTextSpans)) {
		t.Errorf("expected wrapped no-spans errors to be per-document")
	}
	if IsDocumentError(errors.New("mongo unreachable")) {
		t.Errorf("expected unrelated errors to stay fatal")
	}
}

func TestAnalyzeCollection_PersonaEmbeddingFailureIsFatal(t *testing.T) {
	pipeline := NewPipelineService(&fakeExtractor{}, &fakeEmbedder{fail: true}, nil, testAnalysisConfig())

	_, err := pipeline.AnalyzeCollection(context.Background(), []DocumentRef{{Name: "a.pdf", Path: "a.pdf"}}, "Analyst", "review")
	if err == nil {
		t.Fatalf("expected error when the persona query cannot be embedded")
	}
}
