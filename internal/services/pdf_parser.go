package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(data []byte) (string, error)
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

// ExtractText returns the plain text of every page. Whitespace inside a page
// collapses to single spaces and pages are separated by a blank line. A
// document without any text yields "" and no error.
func (p *pdfParserService) ExtractText(data []byte) (text string, err error) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	totalPage := r.NumPage()
	pages := make([]string, 0, totalPage)

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", pageIndex, err)
		}
		pages = append(pages, pageText)
	}

	return JoinPages(pages), nil
}

// JoinPages normalizes each page and joins them with a blank line.
func JoinPages(pages []string) string {
	var textBuilder strings.Builder
	for _, page := range pages {
		textBuilder.WriteString(CollapseWhitespace(page))
		textBuilder.WriteString("\n\n")
	}
	return strings.TrimSpace(textBuilder.String())
}

// CollapseWhitespace replaces every whitespace run with a single space.
// Leading and trailing runs are kept as one space.
func CollapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
