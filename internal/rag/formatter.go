package rag

import (
	"fmt"
	"strings"
)

// estimateTokens approximates token count as one token per four runes,
// matching the estimate used when chunks were sized at index time.
func estimateTokens(text string) int {
	return (len([]rune(text)) + 3) / 4
}

// BuildContext renders the ranked chunks into the context block handed to
// answer generation. Chunks are taken in rank order until the token budget
// is spent; a chunk that would overflow the budget is dropped along with
// everything after it.
func BuildContext(chunks []RankedChunk, maxTokens int) string {
	var b strings.Builder
	used := 0
	for _, chunk := range chunks {
		doc := chunk.Document
		label := doc.Title
		if doc.Section != "" {
			label += " - " + doc.Section
		}
		entry := fmt.Sprintf("Source: %s (%s)\n%s\n\n", label, doc.URL, doc.Content)

		cost := estimateTokens(entry)
		if used+cost > maxTokens {
			break
		}
		b.WriteString(entry)
		used += cost
	}
	return strings.TrimRight(b.String(), "\n")
}

// CitationURLs returns the source URLs behind the ranked chunks, deduplicated
// and in rank order.
func CitationURLs(chunks []RankedChunk) []string {
	urls := make([]string, 0, len(chunks))
	seen := make(map[string]bool)
	for _, chunk := range chunks {
		url := chunk.Document.URL
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}
