package indexer

// Section is a titled region of a content source.
type Section struct {
	Title   string
	Content string
}

// ContentSource is one extracted page of site content to be indexed.
// Extraction/crawling happens upstream; sources arrive here as text.
type ContentSource struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	Sections []Section `json:"sections,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// DocumentChunk is a token-bounded passage produced by the chunker.
type DocumentChunk struct {
	URL     string
	Title   string
	Section string // Section header the chunk came from, empty if unsectioned
	Content string
	Tokens  int // Estimated token count (runes / 4)
}
