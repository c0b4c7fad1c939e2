// Package rag implements the document question-answering pipeline:
// page extraction, chunking, embedding, similarity retrieval and the
// grounded conversational responder.
package rag

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPages returns the text of each page of the PDF at path, in page
// order. Text fragments sharing a vertical offset are joined on one line;
// a change in vertical offset starts a new line, so layout-driven line
// breaks survive extraction.
func ExtractPages(path string) ([]string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ExtractPages: open %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("ExtractPages: page %d: %w", i, err)
		}

		var sb strings.Builder
		for r, row := range rows {
			if r > 0 {
				sb.WriteString("\n")
			}
			for _, fragment := range row.Content {
				sb.WriteString(fragment.S)
				sb.WriteString(" ")
			}
		}
		pages = append(pages, strings.TrimSpace(sb.String()))
	}
	return pages, nil
}
