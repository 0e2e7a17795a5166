package export

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/amityadav/searchagg/internal/search"
	"github.com/go-pdf/fpdf"
)

const (
	PDFFilename    = "search_results.pdf"
	PDFContentType = "application/pdf"

	// pdfSnippetLimit caps the snippet printed per result
	pdfSnippetLimit = 250

	pageMargin   = 100.0
	bottomMargin = 100.0
)

// Title is the heading of every exported document
const Title = "Search Results"

// WritePDF renders results onto Letter pages. Coordinates are tracked from
// the bottom of the page and flipped when drawing.
func WritePDF(w io.Writer, results []search.Result) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, height := pdf.GetPageSize()
	text := func(y float64, s string) {
		pdf.Text(pageMargin, height-y, tr(s))
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	text(height-50, Title)

	y := height - 100
	for _, r := range results {
		if y < bottomMargin {
			pdf.AddPage()
			y = height - 50
		}

		pdf.SetFont("Helvetica", "B", 12)
		text(y, r.Title)
		y -= 20

		pdf.SetFont("Helvetica", "", 10)
		text(y, "Source: "+string(r.Source))
		y -= 15
		text(y, "URL: "+r.URL)
		y -= 15

		// Snippet lines advance independently of the block cursor.
		pdf.SetFont("Helvetica", "", 9)
		lineY := y
		for _, line := range strings.Split(capSnippet(r.Snippet), "\n") {
			text(lineY, line)
			lineY -= 9 * 1.2
		}
		y -= 60
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func capSnippet(snippet string) string {
	if utf8.RuneCountInString(snippet) > pdfSnippetLimit {
		return string([]rune(snippet)[:pdfSnippetLimit]) + "..."
	}
	return snippet
}
