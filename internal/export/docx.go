package export

import (
	"fmt"
	"io"

	"github.com/amityadav/searchagg/internal/search"
	"github.com/gomutex/godocx"
)

const (
	DOCXFilename    = "search_results.docx"
	DOCXContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// WriteDOCX renders results as a document with one level-1 section per result
func WriteDOCX(w io.Writer, results []search.Result) error {
	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	if _, err := document.AddHeading(Title, 0); err != nil {
		return fmt.Errorf("failed to add title: %w", err)
	}

	for _, r := range results {
		if _, err := document.AddHeading(r.Title, 1); err != nil {
			return fmt.Errorf("failed to add heading for %s: %w", r.URL, err)
		}
		document.AddParagraph("Source: " + string(r.Source))
		document.AddParagraph("URL: " + r.URL)
		document.AddParagraph(r.Snippet)
		document.AddParagraph("")
	}

	if err := document.Write(w); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
