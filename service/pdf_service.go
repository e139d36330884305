package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/tieubaoca/docinsight-be/types"
)

const defaultPageHeight = 792 // US Letter, points

// PDFService extracts styled text spans from PDF files. Consecutive
// fragments on the same line with identical font metadata are merged
// into one span so heading heuristics see whole lines, not glyph runs.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// ExtractSpans reads every page of the PDF at path and returns the
// merged text spans plus the total page count. YPosition is measured
// from the top of the page.
func (s *PDFService) ExtractSpans(path string) ([]types.TextSpan, int, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	var spans []types.TextSpan
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		spans = append(spans, s.pageSpans(page, i)...)
	}

	if len(spans) == 0 {
		return nil, numPages, fmt.Errorf("%s: %w", path, types.ErrNoTextSpans)
	}
	return spans, numPages, nil
}

func (s *PDFService) pageSpans(page pdflib.Page, pageNum int) []types.TextSpan {
	height := pageHeight(page)
	texts := page.Content().Text
	if len(texts) == 0 {
		return nil
	}

	// Reading order: top of page first, then left to right.
	sort.SliceStable(texts, func(a, b int) bool {
		if texts[a].Y != texts[b].Y {
			return texts[a].Y > texts[b].Y
		}
		return texts[a].X < texts[b].X
	})

	var spans []types.TextSpan
	var cur *types.TextSpan
	var curY float64
	var builder strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = cleanText(builder.String())
		if cur.Text != "" {
			spans = append(spans, *cur)
		}
		cur = nil
		builder.Reset()
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		sameLine := cur != nil &&
			curY == t.Y &&
			cur.FontSize == t.FontSize &&
			cur.Bold == isBoldFont(t.Font) &&
			cur.Italic == isItalicFont(t.Font)
		if sameLine {
			builder.WriteString(t.S)
			continue
		}
		flush()
		curY = t.Y
		cur = &types.TextSpan{
			FontSize:  t.FontSize,
			Bold:      isBoldFont(t.Font),
			Italic:    isItalicFont(t.Font),
			Page:      pageNum,
			YPosition: height - t.Y,
			XPosition: t.X,
		}
		builder.WriteString(t.S)
	}
	flush()

	return spans
}

// pageHeight reads the MediaBox top coordinate, defaulting to US
// Letter when the entry is absent or malformed.
func pageHeight(page pdflib.Page) float64 {
	mediaBox := page.V.Key("MediaBox")
	if mediaBox.IsNull() || mediaBox.Len() < 4 {
		return defaultPageHeight
	}
	height := mediaBox.Index(3).Float64()
	if height <= 0 {
		return defaultPageHeight
	}
	return height
}

func isBoldFont(font string) bool {
	return strings.Contains(font, "Bold") || strings.Contains(font, "bold")
}

func isItalicFont(font string) bool {
	return strings.Contains(font, "Italic") || strings.Contains(font, "Oblique")
}

// cleanText collapses runs of whitespace and strips control characters
// PDF extraction tends to leave behind.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := false
	for _, r := range text {
		switch {
		case r == 0 || r == unicode.ReplacementChar:
			continue
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
