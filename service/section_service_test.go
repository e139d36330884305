package service

import (
	"testing"

	"github.com/tieubaoca/docinsight-be/types"
)

func TestSegment_ParentOwnsChildProse(t *testing.T) {
	spans := []types.TextSpan{
		{Text: "Overview", Page: 1},
		{Text: "high level summary of the year", Page: 1},
		{Text: "Details", Page: 1},
		{Text: "specific numbers and breakdowns", Page: 2},
		{Text: "Next Steps", Page: 2},
		{Text: "plans for the coming year", Page: 2},
	}
	outline := types.Outline{
		Title: "Report",
		Nodes: []types.OutlineNode{
			{Title: "Overview", Level: types.LevelH1, Page: 1, SpanIndex: 0},
			{Title: "Details", Level: types.LevelH2, Page: 1, SpanIndex: 2},
			{Title: "Next Steps", Level: types.LevelH1, Page: 2, SpanIndex: 4},
		},
	}

	sections := NewSectionService().Segment("report.pdf", spans, outline)

	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}

	// The H1 runs until the next equal-or-higher heading, so it owns
	// the prose of its H2 child but not the heading lines themselves.
	if got := sections[0].BodyText; got != "high level summary of the year specific numbers and breakdowns" {
		t.Errorf("unexpected Overview body: %q", got)
	}
	if got := sections[1].BodyText; got != "specific numbers and breakdowns" {
		t.Errorf("unexpected Details body: %q", got)
	}
	if got := sections[2].BodyText; got != "plans for the coming year" {
		t.Errorf("unexpected Next Steps body: %q", got)
	}

	if sections[0].Document != "report.pdf" || sections[0].Page != 1 {
		t.Errorf("unexpected section metadata: %+v", sections[0])
	}
}

func TestSegment_EmptyOutline(t *testing.T) {
	spans := []types.TextSpan{{Text: "stray text"}}
	sections := NewSectionService().Segment("doc.pdf", spans, types.Outline{})
	if sections != nil {
		t.Errorf("expected no sections without outline nodes, got %d", len(sections))
	}
}

func TestSegment_TrailingHeadingHasEmptyBody(t *testing.T) {
	spans := []types.TextSpan{
		{Text: "Only Heading"},
	}
	outline := types.Outline{
		Nodes: []types.OutlineNode{
			{Title: "Only Heading", Level: types.LevelH1, SpanIndex: 0},
		},
	}

	sections := NewSectionService().Segment("doc.pdf", spans, outline)

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].BodyText != "" {
		t.Errorf("expected empty body, got %q", sections[0].BodyText)
	}
}
