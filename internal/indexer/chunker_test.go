package indexer

import (
	"strings"
	"testing"
)

func makeSentences(n int) []string {
	sentences := make([]string, n)
	for i := range sentences {
		// ~30 runes per sentence, ~8 estimated tokens
		sentences[i] = "This is test sentence number x."
	}
	return sentences
}

func TestSplitSentences(t *testing.T) {
	text := "First sentence. Second one! Is this third? Yes."
	got := splitSentences(text)
	want := []string{"First sentence.", "Second one!", "Is this third?", "Yes."}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesBlankLines(t *testing.T) {
	text := "A paragraph without terminal punctuation\n\nAnother fragment"
	got := splitSentences(text)
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(got), got)
	}
}

func TestSplitSentencesEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n\n"} {
		if got := splitSentences(input); len(got) != 0 {
			t.Errorf("splitSentences(%q) = %v, want empty", input, got)
		}
	}
}

func TestSplitSentencesTrailingQuote(t *testing.T) {
	got := splitSentences(`He said "stop." Then left.`)
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(got), got)
	}
}

// Non-overlap regions of consecutive spans must reconstruct the original
// sentence sequence exactly.
func TestAccumulateReconstruction(t *testing.T) {
	chunker := &SentenceChunker{MinTokens: 20, MaxTokens: 40}
	sentences := makeSentences(25)

	spans := chunker.accumulate(sentences)
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}

	var rebuilt []string
	prevEnd := 0
	for _, span := range spans {
		if span.start > prevEnd {
			t.Fatalf("gap in coverage: span starts at %d, previous ended at %d", span.start, prevEnd)
		}
		rebuilt = append(rebuilt, sentences[prevEnd:span.end]...)
		prevEnd = span.end
	}
	if prevEnd != len(sentences) {
		t.Fatalf("coverage ends at %d, want %d", prevEnd, len(sentences))
	}
	if len(rebuilt) != len(sentences) {
		t.Fatalf("rebuilt %d sentences, want %d", len(rebuilt), len(sentences))
	}
}

// Spans after the first must re-include the tail of the previous span.
func TestAccumulateOverlap(t *testing.T) {
	// MaxTokens chosen so the ~15% overlap budget fits at least one sentence.
	chunker := &SentenceChunker{MinTokens: 20, MaxTokens: 70}
	spans := chunker.accumulate(makeSentences(30))
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].start >= spans[i-1].end {
			t.Errorf("span %d starts at %d, previous ends at %d: no overlap", i, spans[i].start, spans[i-1].end)
		}
		if spans[i].start <= spans[i-1].start {
			t.Errorf("span %d does not advance past span %d", i, i-1)
		}
	}
}

func TestChunkSourceRespectsMaxTokens(t *testing.T) {
	chunker := &SentenceChunker{MinTokens: 20, MaxTokens: 60}
	src := ContentSource{
		URL:     "https://example.com/services",
		Title:   "Services",
		Content: strings.Join(makeSentences(40), " "),
	}

	chunks := chunker.ChunkSource(src)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if chunk.Tokens > chunker.MaxTokens {
			t.Errorf("chunk %d has %d tokens, max %d", i, chunk.Tokens, chunker.MaxTokens)
		}
	}
}

func TestChunkSourceEmptySectionProducesNoChunks(t *testing.T) {
	chunker := NewSentenceChunker()
	src := ContentSource{
		URL:   "https://example.com/a",
		Title: "A",
		Sections: []Section{
			{Title: "Empty", Content: "   "},
			{Title: "Full", Content: "One real sentence here."},
		},
	}

	chunks := chunker.ChunkSource(src)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Section != "Full" {
		t.Errorf("chunk section = %q, want Full", chunks[0].Section)
	}
}

func TestChunkSourceSectionHeaderPrefix(t *testing.T) {
	chunker := NewSentenceChunker()
	src := ContentSource{
		URL:   "https://example.com/pricing",
		Title: "Pricing",
		Sections: []Section{
			{Title: "Chatbot plans", Content: "Plans start at $99 per month."},
		},
	}

	chunks := chunker.ChunkSource(src)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[0].Content, "Chatbot plans\n\n") {
		t.Errorf("chunk content should be prefixed with its section header, got %q", chunks[0].Content)
	}
}

func TestChunkSourceUnsectionedContent(t *testing.T) {
	chunker := NewSentenceChunker()
	src := ContentSource{
		URL:     "https://example.com/about",
		Title:   "About",
		Content: "We build automation tools. We have done so for a decade.",
	}

	chunks := chunker.ChunkSource(src)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Section != "" {
		t.Errorf("section = %q, want empty", chunks[0].Section)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"abcd", 1},
		{"abcde", 2},
		{strings.Repeat("x", 400), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.input); got != tt.want {
			t.Errorf("EstimateTokens(%d runes) = %d, want %d", len(tt.input), got, tt.want)
		}
	}
}
