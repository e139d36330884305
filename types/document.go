package types

import "strings"

// HeadingLevel is the depth of a heading in the document hierarchy,
// H1 being the shallowest.
type HeadingLevel int

const (
	LevelNone HeadingLevel = 0
	LevelH1   HeadingLevel = 1
	LevelH2   HeadingLevel = 2
	LevelH3   HeadingLevel = 3
	LevelH4   HeadingLevel = 4
)

// MaxHeadingLevel caps how deep the outline goes. Anything deeper is
// clamped during level assignment.
const MaxHeadingLevel = LevelH4

func (l HeadingLevel) String() string {
	switch l {
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelH4:
		return "H4"
	}
	return "None"
}

// TextSpan is a contiguous run of text sharing font, style and position
// metadata as produced by the PDF extraction layer. Spans arrive ordered
// by (page, y-position) and are never mutated downstream.
type TextSpan struct {
	Text      string  `json:"text"`
	FontSize  float64 `json:"font_size"`
	Bold      bool    `json:"bold"`
	Italic    bool    `json:"italic"`
	Page      int     `json:"page"`
	YPosition float64 `json:"y_position"` // distance from the top of the page
	XPosition float64 `json:"x_position"`
	Language  string  `json:"language,omitempty"`
}

// CharCount returns the number of runes in the span text.
func (s TextSpan) CharCount() int {
	return len([]rune(s.Text))
}

// FontStatistics is the per-document font size distribution. It is
// computed once per document and never shared across documents because
// font scales differ per file.
type FontStatistics struct {
	Mean   float64
	StdDev float64
	P25    float64
	Median float64
	P75    float64
	P90    float64
	P95    float64
}

// Degenerate reports whether the document has zero font size variance,
// in which case size-relative scoring falls back to percentile tiers.
func (f FontStatistics) Degenerate() bool {
	return f.StdDev == 0
}

// ZScore returns how many standard deviations a font size sits above
// the document mean, 0 for degenerate statistics.
func (f FontStatistics) ZScore(size float64) float64 {
	if f.StdDev == 0 {
		return 0
	}
	return (size - f.Mean) / f.StdDev
}

// HeadingCandidate is a span that cleared the heading score floor. The
// level is provisional until the outline builder reconciles nesting
// across the whole document.
type HeadingCandidate struct {
	Span      TextSpan
	SpanIndex int // index into the document span sequence
	Score     float64
	Level     HeadingLevel
}

// OutlineNode is one entry of the flat, level-tagged outline sequence.
// The tree is reconstructible by scanning backward for the nearest
// shallower level; no parent pointers are kept.
type OutlineNode struct {
	Title    string       `json:"text"`
	Level    HeadingLevel `json:"-"`
	LevelTag string       `json:"level"`
	Page     int          `json:"page"`
	Language string       `json:"language,omitempty"`

	// SpanIndex locates the heading span inside the document so the
	// section segmenter can attribute body text. Not serialized.
	SpanIndex int `json:"-"`
}

// NormalizedTitle is the case- and whitespace-insensitive form used for
// running header/footer deduplication.
func (n OutlineNode) NormalizedTitle() string {
	return strings.Join(strings.Fields(strings.ToLower(n.Title)), " ")
}

// Outline is the structural result for a single document.
type Outline struct {
	Title string        `json:"title"`
	Nodes []OutlineNode `json:"outline"`
}

// Section owns the body text between its heading and the next heading
// of equal-or-higher level.
type Section struct {
	Document string       `json:"document"`
	Title    string       `json:"section_title"`
	Level    HeadingLevel `json:"-"`
	BodyText string       `json:"-"`
	Page     int          `json:"page"`
}
