package service

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tieubaoca/docinsight-be/types"
)

const (
	minFallbackSections   = 3
	minFallbackHighlights = 5
)

// ProgressNotifier receives per-document processing updates. A hub
// forwarding them over websockets is one implementation; NopNotifier
// serves the CLI.
type ProgressNotifier interface {
	Notify(status types.ProcessingDocumentStatus)
}

type NopNotifier struct{}

func (NopNotifier) Notify(types.ProcessingDocumentStatus) {}

// DocumentRef names one input PDF and where to read it from.
type DocumentRef struct {
	Name string
	Path string
}

// PipelineService wires span extraction, structure inference and
// persona ranking into the two end-to-end operations the engine
// offers: single-document outline extraction and collection analysis.
type PipelineService struct {
	extractor  SpanExtractor
	fontStats  *FontStatsService
	headings   *HeadingService
	outlines   *OutlineService
	sections   *SectionService
	ranking    *RankingService
	subsection *SubsectionService
	notifier   ProgressNotifier
	cfg        types.AnalysisConfig
}

func NewPipelineService(extractor SpanExtractor, embedder EmbeddingService, notifier ProgressNotifier, cfg types.AnalysisConfig) *PipelineService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	lang := NewLanguageService()
	return &PipelineService{
		extractor:  extractor,
		fontStats:  NewFontStatsService(),
		headings:   NewHeadingService(lang, lang, cfg),
		outlines:   NewOutlineService(cfg),
		sections:   NewSectionService(),
		ranking:    NewRankingService(embedder, cfg),
		subsection: NewSubsectionService(embedder, NewRegexTokenizer(), cfg),
		notifier:   notifier,
		cfg:        cfg,
	}
}

type documentResult struct {
	outline  types.Outline
	sections []types.Section
	pages    int
}

// AnalysisResult pairs the serialized run output with the ranked
// sections it was built from, so callers can persist section bodies.
type AnalysisResult struct {
	Output *types.CollectionOutput
	Ranked []types.RankedSection
}

// ExtractOutline infers the title and heading hierarchy of a single
// document.
func (s *PipelineService) ExtractOutline(path string) (types.Outline, error) {
	result, err := s.processDocument(path, path)
	if err != nil {
		return types.Outline{}, err
	}
	return result.outline, nil
}

func (s *PipelineService) processDocument(name, path string) (*documentResult, error) {
	spans, pages, err := s.extractor.ExtractSpans(path)
	if err != nil {
		return nil, err
	}

	stats := s.fontStats.Compute(spans)
	candidates := s.headings.ClassifySpans(spans, stats)
	outline := s.outlines.BuildOutline(candidates, stats, pages)
	sections := s.sections.Segment(name, spans, outline)

	return &documentResult{
		outline:  outline,
		sections: sections,
		pages:    pages,
	}, nil
}

// AnalyzeCollection processes every document concurrently, ranks the
// merged sections against the persona query and refines the top ones
// to sentence level. One broken document never aborts the run; its
// error lands in that document's report instead.
func (s *PipelineService) AnalyzeCollection(ctx context.Context, docs []DocumentRef, persona, job string) (*AnalysisResult, error) {
	query, err := s.ranking.BuildPersonaQuery(ctx, persona, job)
	if err != nil {
		return nil, err
	}

	results := make([]*documentResult, len(docs))
	reports := make([]types.DocumentReport, len(docs))

	var processed atomic.Int64
	progress := func(doc string, stage, message string) types.ProcessingDocumentStatus {
		done := int(processed.Load())
		return types.ProcessingDocumentStatus{
			Document:           doc,
			Stage:              stage,
			Message:            message,
			Progress:           float64(done) / float64(len(docs)),
			ProcessedDocuments: done,
			TotalDocuments:     len(docs),
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i] = types.DocumentReport{Document: doc.Name, Error: err.Error()}
				return nil
			}
			s.notifier.Notify(progress(doc.Name, "extracting", ""))
			result, err := s.processDocument(doc.Name, doc.Path)
			if err != nil {
				log.Printf("Warning: skipping document %s: %v", doc.Name, err)
				reports[i] = types.DocumentReport{Document: doc.Name, Error: err.Error()}
				processed.Add(1)
				s.notifier.Notify(progress(doc.Name, "failed", err.Error()))
				return nil
			}
			results[i] = result
			reports[i] = types.DocumentReport{
				Document: doc.Name,
				Outline:  &result.outline,
				Sections: len(result.sections),
			}
			processed.Add(1)
			s.notifier.Notify(progress(doc.Name, "extracted", ""))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge sequentially so section order follows the input document
	// order, keeping runs reproducible.
	var allSections []types.Section
	for _, result := range results {
		if result == nil {
			continue
		}
		allSections = append(allSections, result.sections...)
	}

	ranked, err := s.ranking.RankSections(ctx, allSections, query)
	if err != nil {
		return nil, err
	}
	ranked = s.padSections(ranked, allSections)

	highlights := s.subsection.AnalyzeTop(ctx, ranked, query)
	highlights = s.padHighlights(highlights, ranked)

	output := &types.CollectionOutput{
		Metadata: types.CollectionMetadata{
			InputDocuments: documentNames(docs),
			Persona:        persona,
			JobToBeDone:    job,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		},
		ExtractedSections:  make([]types.ExtractedSection, 0, len(ranked)),
		SubSectionAnalysis: make([]types.RefinedText, 0, len(highlights)),
		Documents:          reports,
	}
	for _, rs := range ranked {
		output.ExtractedSections = append(output.ExtractedSections, types.ExtractedSection{
			Document:       rs.Section.Document,
			Page:           rs.Section.Page,
			SectionTitle:   rs.Section.Title,
			ImportanceRank: rs.ImportanceRank,
			Similarity:     rs.Similarity,
		})
	}
	for _, h := range highlights {
		output.SubSectionAnalysis = append(output.SubSectionAnalysis, types.RefinedText{
			Document:    h.Document,
			Page:        h.Page,
			RefinedText: h.Sentence,
		})
	}

	result := &AnalysisResult{Output: output, Ranked: ranked}
	if err := ctx.Err(); err != nil {
		// Deadline hit mid-run: hand back what finished.
		return result, err
	}
	return result, nil
}

// padSections tops up sparse ranking results with leading sections so
// downstream consumers always have material to work with.
func (s *PipelineService) padSections(ranked []types.RankedSection, all []types.Section) []types.RankedSection {
	want := minFallbackSections
	if want > len(all) {
		want = len(all)
	}
	if len(ranked) >= want {
		return ranked
	}
	seen := make(map[string]bool, len(ranked))
	for _, rs := range ranked {
		seen[rs.Section.Document+"\x1f"+rs.Section.Title] = true
	}
	for _, sec := range all {
		if len(ranked) >= want {
			break
		}
		key := sec.Document + "\x1f" + sec.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, types.RankedSection{
			Section:        sec,
			ImportanceRank: len(ranked) + 1,
		})
	}
	return ranked
}

func (s *PipelineService) padHighlights(highlights []types.SentenceHighlight, ranked []types.RankedSection) []types.SentenceHighlight {
	want := minFallbackHighlights
	if want > len(ranked) {
		want = len(ranked)
	}
	if len(highlights) >= want {
		return highlights
	}
	for _, rs := range ranked {
		if len(highlights) >= want {
			break
		}
		if rs.Section.BodyText == "" {
			continue
		}
		highlights = append(highlights, types.SentenceHighlight{
			Sentence: truncateRunes(rs.Section.BodyText, s.cfg.HighlightChars),
			Document: rs.Section.Document,
			Page:     rs.Section.Page,
		})
	}
	return highlights
}

func documentNames(docs []DocumentRef) []string {
	names := make([]string, len(docs))
	for i, doc := range docs {
		names[i] = doc.Name
	}
	return names
}

// IsDocumentError reports whether err is a per-document condition that
// should be isolated rather than failing the whole run.
func IsDocumentError(err error) bool {
	return errors.Is(err, types.ErrNoTextSpans)
}
