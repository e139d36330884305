package service

import (
	"sort"
	"strings"

	"github.com/tieubaoca/docinsight-be/types"
)

// OutlineService turns scored heading candidates into a clean,
// level-consistent outline: it reconciles nesting, collapses running
// headers/footers and extracts the document title. The emitted node
// sequence is flat and level-tagged; parent/child structure is
// reconstructible by scanning backward for the nearest shallower level.
type OutlineService struct {
	dedupRecurrenceFraction float64
}

func NewOutlineService(cfg types.AnalysisConfig) *OutlineService {
	return &OutlineService{
		dedupRecurrenceFraction: cfg.DedupRecurrenceFraction,
	}
}

// BuildOutline consumes candidates in document order plus the document
// font statistics (for the title size threshold) and the page count
// (for the dedup recurrence fraction).
func (s *OutlineService) BuildOutline(candidates []types.HeadingCandidate, stats types.FontStatistics, totalPages int) types.Outline {
	ordered := make([]types.HeadingCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Page != ordered[j].Span.Page {
			return ordered[i].Span.Page < ordered[j].Span.Page
		}
		return ordered[i].Span.YPosition < ordered[j].Span.YPosition
	})

	title := s.extractTitle(ordered, stats)

	nodes := make([]types.OutlineNode, 0, len(ordered))
	titleSkipped := false
	for _, c := range ordered {
		text := strings.TrimSpace(c.Span.Text)
		// The title itself is not part of the outline.
		if !titleSkipped && strings.EqualFold(text, title) {
			titleSkipped = true
			continue
		}
		nodes = append(nodes, types.OutlineNode{
			Title:     text,
			Level:     c.Level,
			LevelTag:  c.Level.String(),
			Page:      c.Span.Page,
			Language:  c.Span.Language,
			SpanIndex: c.SpanIndex,
		})
	}

	nodes = s.DedupNodes(nodes, totalPages)
	nodes = reconcileNesting(nodes)

	return types.Outline{Title: title, Nodes: nodes}
}

// reconcileNesting enforces monotonic nesting: a node may only go one
// level deeper than the deepest valid ancestor so far. Offenders are
// demoted to ancestor depth+1, never promoted and never dropped.
func reconcileNesting(nodes []types.OutlineNode) []types.OutlineNode {
	out := make([]types.OutlineNode, 0, len(nodes))
	prev := types.LevelNone
	for _, node := range nodes {
		if node.Level > prev+1 {
			node.Level = prev + 1
			node.LevelTag = node.Level.String()
		}
		prev = node.Level
		out = append(out, node)
	}
	return out
}

// DedupNodes collapses headings with identical normalized text that
// recur on more than the configured fraction of pages. Such headings
// are running headers/footers; only the first occurrence survives.
// Headings recurring below the fraction stay as distinct real nodes.
// The pass is idempotent.
func (s *OutlineService) DedupNodes(nodes []types.OutlineNode, totalPages int) []types.OutlineNode {
	if totalPages <= 0 || len(nodes) == 0 {
		return nodes
	}

	pagesByTitle := make(map[string]map[int]struct{})
	for _, node := range nodes {
		key := node.NormalizedTitle()
		if pagesByTitle[key] == nil {
			pagesByTitle[key] = make(map[int]struct{})
		}
		pagesByTitle[key][node.Page] = struct{}{}
	}

	recurring := make(map[string]bool)
	for key, pages := range pagesByTitle {
		if len(pages) > 1 && float64(len(pages))/float64(totalPages) > s.dedupRecurrenceFraction {
			recurring[key] = true
		}
	}

	seen := make(map[string]bool)
	out := make([]types.OutlineNode, 0, len(nodes))
	for _, node := range nodes {
		key := node.NormalizedTitle()
		if recurring[key] {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, node)
	}
	return out
}

// extractTitle picks the document title: the highest-scoring candidate
// on the first page that precedes the first H1 and exceeds the
// title-specific size threshold (the 90th font percentile). Failing
// that, the first H1 text; failing that, "Untitled".
func (s *OutlineService) extractTitle(ordered []types.HeadingCandidate, stats types.FontStatistics) string {
	firstH1 := -1
	for i, c := range ordered {
		if c.Level == types.LevelH1 {
			firstH1 = i
			break
		}
	}

	bestScore := 0.0
	bestTitle := ""
	for i, c := range ordered {
		if firstH1 >= 0 && i >= firstH1 {
			break
		}
		if c.Span.Page != 1 {
			continue
		}
		if c.Span.FontSize < stats.P90 {
			continue
		}
		if c.Score > bestScore {
			bestScore = c.Score
			bestTitle = strings.TrimSpace(c.Span.Text)
		}
	}
	if bestTitle != "" {
		return bestTitle
	}

	if firstH1 >= 0 {
		return strings.TrimSpace(ordered[firstH1].Span.Text)
	}
	return "Untitled"
}
