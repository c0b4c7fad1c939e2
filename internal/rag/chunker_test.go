package rag

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func words(n, offset int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", offset+i)
	}
	return out
}

func TestChunkPageBoundaries(t *testing.T) {
	// 1000 words with window 800 / overlap 200 must yield exactly two
	// chunks: words 0-799 and words 600-999.
	text := strings.Join(words(1000, 0), " ")
	chunker := NewChunker(800, 200)

	chunks := chunker.ChunkPage(text, 3)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	first := strings.Fields(chunks[0].Content)
	second := strings.Fields(chunks[1].Content)

	if len(first) != 800 || first[0] != "w0" || first[799] != "w799" {
		t.Errorf("first chunk covers %s..%s (%d words), want w0..w799", first[0], first[len(first)-1], len(first))
	}
	if len(second) != 400 || second[0] != "w600" || second[399] != "w999" {
		t.Errorf("second chunk covers %s..%s (%d words), want w600..w999", second[0], second[len(second)-1], len(second))
	}
	for _, c := range chunks {
		if c.PageNumber != 3 {
			t.Errorf("chunk tagged with page %d, want 3", c.PageNumber)
		}
	}
}

func TestChunkPageDeterministic(t *testing.T) {
	text := strings.Join(words(1500, 0), " ")
	chunker := NewChunker(800, 200)

	a := chunker.ChunkPage(text, 1)
	b := chunker.ChunkPage(text, 1)
	if !reflect.DeepEqual(a, b) {
		t.Error("chunking the same text twice produced different results")
	}
}

func TestChunkPageEmpty(t *testing.T) {
	chunker := NewChunker(800, 200)
	if got := chunker.ChunkPage("", 1); got != nil {
		t.Errorf("empty page yielded %d chunks, want 0", len(got))
	}
	if got := chunker.ChunkPage("   \n\t ", 1); got != nil {
		t.Errorf("whitespace-only page yielded %d chunks, want 0", len(got))
	}
}

func TestChunkPageSmallerThanWindow(t *testing.T) {
	chunker := NewChunker(800, 200)
	chunks := chunker.ChunkPage("just a few words", 7)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Content != "just a few words" {
		t.Errorf("chunk content = %q", chunks[0].Content)
	}
}

func TestChunkPagesNumbersFromOne(t *testing.T) {
	chunker := NewChunker(800, 200)
	chunks := chunker.ChunkPages([]string{"page one text", "", "page three text"})
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 (empty page yields none)", len(chunks))
	}
	if chunks[0].PageNumber != 1 || chunks[1].PageNumber != 3 {
		t.Errorf("page tags = %d, %d; want 1, 3", chunks[0].PageNumber, chunks[1].PageNumber)
	}
}

func TestNewChunkerDefaults(t *testing.T) {
	c := NewChunker(0, -1)
	if c.window != DefaultChunkWords || c.overlap != DefaultOverlapWords {
		t.Errorf("defaults not applied: window=%d overlap=%d", c.window, c.overlap)
	}
	// Overlap >= window would make the stride non-positive.
	c = NewChunker(100, 100)
	if c.overlap >= c.window {
		t.Errorf("overlap %d not clamped below window %d", c.overlap, c.window)
	}
}

func TestNewChunkerOverlapEqualWindow(t *testing.T) {
	// A stride of zero or less would make ChunkPage loop out of bounds.
	c := NewChunker(100, 100)

	chunks := c.ChunkPage("one two three", 1)
	if len(chunks) != 1 || chunks[0].Content != "one two three" {
		t.Fatalf("got %d chunks, want 1 covering the whole page", len(chunks))
	}

	// With the overlap clamped to zero the windows must tile exactly.
	chunks = c.ChunkPage(strings.Join(words(250, 0), " "), 1)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, want := range []string{"w0", "w100", "w200"} {
		if first := strings.Fields(chunks[i].Content)[0]; first != want {
			t.Errorf("chunk %d starts at %s, want %s", i, first, want)
		}
	}
}
