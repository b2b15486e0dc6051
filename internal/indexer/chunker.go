package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMinChunkTokens is the floor before a chunk may be closed.
	DefaultMinChunkTokens = 120
	// DefaultMaxChunkTokens is the estimated token ceiling per chunk.
	DefaultMaxChunkTokens = 600
	// overlapRatio is the share of a chunk's tokens re-included at the start
	// of the next chunk, taken as whole trailing sentences.
	overlapRatio = 0.15
)

// SentenceChunker splits content sources into token-bounded, overlapping
// passages, one section at a time.
type SentenceChunker struct {
	MinTokens int
	MaxTokens int
}

// NewSentenceChunker creates a chunker with the default token bounds.
func NewSentenceChunker() *SentenceChunker {
	return &SentenceChunker{
		MinTokens: DefaultMinChunkTokens,
		MaxTokens: DefaultMaxChunkTokens,
	}
}

// EstimateTokens estimates the token count of text as runes / 4, rounded up.
// A cheap heuristic, not a tokenizer: chunks only need to be roughly
// comparable to each other, not exact.
func EstimateTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	if runes == 0 {
		return 0
	}
	return (runes + 3) / 4
}

// ChunkSource splits a content source into chunks. Sources with explicit
// sections are chunked per section; otherwise markdown headings are used to
// derive sections, and failing that the whole content is one section.
func (c *SentenceChunker) ChunkSource(src ContentSource) []DocumentChunk {
	sections := src.Sections
	if len(sections) == 0 {
		sections = ExtractSections(src.Content)
	}
	if len(sections) == 0 {
		sections = []Section{{Content: src.Content}}
	}

	var chunks []DocumentChunk
	for _, section := range sections {
		chunks = append(chunks, c.chunkSection(src, section)...)
	}
	return chunks
}

// chunkSection greedily accumulates sentences into chunks.
// A section with zero sentences produces zero chunks.
func (c *SentenceChunker) chunkSection(src ContentSource, section Section) []DocumentChunk {
	sentences := splitSentences(section.Content)
	if len(sentences) == 0 {
		return nil
	}

	spans := c.accumulate(sentences)

	chunks := make([]DocumentChunk, 0, len(spans))
	for _, span := range spans {
		body := strings.Join(sentences[span.start:span.end], " ")
		content := body
		if section.Title != "" {
			content = section.Title + "\n\n" + body
		}
		chunks = append(chunks, DocumentChunk{
			URL:     src.URL,
			Title:   src.Title,
			Section: section.Title,
			Content: content,
			Tokens:  EstimateTokens(content),
		})
	}
	return chunks
}

// chunkSpan is a half-open range over the section's sentence slice.
// Consecutive spans overlap: each span after the first starts before the
// previous span's end by the overlap sentences.
type chunkSpan struct {
	start, end int
}

// accumulate builds sentence spans: grow a span until adding the next
// sentence would exceed MaxTokens and the span has reached MinTokens, then
// close it and start the next span from the previous span's tail.
func (c *SentenceChunker) accumulate(sentences []string) []chunkSpan {
	tokens := make([]int, len(sentences))
	for i, s := range sentences {
		tokens[i] = EstimateTokens(s)
	}

	var spans []chunkSpan
	start := 0
	curTokens := 0
	for i := 0; i < len(sentences); i++ {
		if i > start && curTokens+tokens[i] > c.MaxTokens && curTokens >= c.MinTokens {
			spans = append(spans, chunkSpan{start: start, end: i})
			start = i - c.overlapCount(tokens[start:i])
			curTokens = 0
			for j := start; j < i; j++ {
				curTokens += tokens[j]
			}
		}
		curTokens += tokens[i]
	}
	spans = append(spans, chunkSpan{start: start, end: len(sentences)})
	return spans
}

// overlapCount returns how many trailing sentences of the closed span fit
// within the overlap token budget. Whole sentences only.
func (c *SentenceChunker) overlapCount(spanTokens []int) int {
	total := 0
	for _, t := range spanTokens {
		total += t
	}
	budget := int(float64(total) * overlapRatio)

	count := 0
	used := 0
	for i := len(spanTokens) - 1; i >= 0; i-- {
		if used+spanTokens[i] > budget {
			break
		}
		used += spanTokens[i]
		count++
	}
	// Never overlap the whole span, or accumulation would not advance.
	if count >= len(spanTokens) {
		count = len(spanTokens) - 1
	}
	return count
}

// splitSentences splits text into sentences on terminal punctuation and
// blank lines. Whitespace-only fragments are dropped.
func splitSentences(text string) []string {
	var sentences []string
	var builder strings.Builder

	flush := func() {
		s := strings.TrimSpace(builder.String())
		builder.Reset()
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		// Blank line ends the current sentence.
		if r == '\n' {
			if i+1 < len(runes) && runes[i+1] == '\n' {
				flush()
				continue
			}
			builder.WriteRune(' ')
			continue
		}

		builder.WriteRune(r)

		if isSentenceTerminator(r) {
			// Consume any run of closing punctuation (e.g. `?!`, `.")`).
			for i+1 < len(runes) && (isSentenceTerminator(runes[i+1]) || runes[i+1] == '"' || runes[i+1] == ')') {
				i++
				builder.WriteRune(runes[i])
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
