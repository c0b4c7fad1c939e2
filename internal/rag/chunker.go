package rag

import (
	"strings"

	"github.com/dvloznov/finance-copilot/internal/domain"
)

// Default chunking geometry: windows of 800 whitespace-delimited words
// advancing by 600, so consecutive chunks share 200 words.
const (
	DefaultChunkWords   = 800
	DefaultOverlapWords = 200
)

// Chunker splits page text into overlapping word-windows.
type Chunker struct {
	window  int
	overlap int
}

// NewChunker creates a chunker; non-positive or inconsistent parameters
// fall back to the defaults. The stride (window - overlap) must stay
// strictly positive, so an overlap that does not fit the window degenerates
// to non-overlapping chunks.
func NewChunker(window, overlap int) *Chunker {
	if window <= 0 {
		window = DefaultChunkWords
	}
	if overlap < 0 {
		overlap = DefaultOverlapWords
	}
	if overlap >= window {
		overlap = 0
	}
	return &Chunker{window: window, overlap: overlap}
}

// ChunkPage splits one page's text into word-windows tagged with the page
// number. Chunk i covers words [i*stride, i*stride+window). Empty page
// text yields no chunks.
func (c *Chunker) ChunkPage(text string, pageNumber int) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	stride := c.window - c.overlap
	var chunks []domain.Chunk
	for i := 0; i < len(words); i += stride {
		end := i + c.window
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Content:    strings.Join(words[i:end], " "),
			PageNumber: pageNumber,
		})
	}
	return chunks
}

// ChunkPages chunks every page of a document, numbering pages from 1.
func (c *Chunker) ChunkPages(pages []string) []domain.Chunk {
	var chunks []domain.Chunk
	for i, text := range pages {
		chunks = append(chunks, c.ChunkPage(text, i+1)...)
	}
	return chunks
}
