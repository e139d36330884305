package service

import (
	"strings"

	"github.com/tieubaoca/docinsight-be/types"
)

// SectionService groups the spans between consecutive headings into
// sections. A section owns the body text from its heading up to the
// next heading of equal-or-higher level, so a parent section includes
// the prose of its subsections.
type SectionService struct{}

func NewSectionService() *SectionService {
	return &SectionService{}
}

// Segment produces one section per outline node. Heading spans
// themselves are never part of any body text.
func (s *SectionService) Segment(document string, spans []types.TextSpan, outline types.Outline) []types.Section {
	if len(outline.Nodes) == 0 {
		return nil
	}

	headingSpan := make(map[int]bool, len(outline.Nodes))
	for _, node := range outline.Nodes {
		headingSpan[node.SpanIndex] = true
	}

	sections := make([]types.Section, 0, len(outline.Nodes))
	for i, node := range outline.Nodes {
		end := len(spans)
		for j := i + 1; j < len(outline.Nodes); j++ {
			if outline.Nodes[j].Level <= node.Level {
				end = outline.Nodes[j].SpanIndex
				break
			}
		}

		var body strings.Builder
		for idx := node.SpanIndex + 1; idx < end; idx++ {
			if headingSpan[idx] {
				continue
			}
			text := strings.TrimSpace(spans[idx].Text)
			if text == "" {
				continue
			}
			if body.Len() > 0 {
				body.WriteString(" ")
			}
			body.WriteString(text)
		}

		sections = append(sections, types.Section{
			Document: document,
			Title:    node.Title,
			Level:    node.Level,
			BodyText: body.String(),
			Page:     node.Page,
		})
	}
	return sections
}
