package storage

import "time"

// SiteDocument is a persisted content chunk with its provenance.
type SiteDocument struct {
	ID        string    // UUID (same as the vector store point ID)
	URL       string    // Source page URL
	Title     string    // Source page title
	Section   string    // Section header the chunk came from, empty if unsectioned
	Content   string    // Chunk text content
	Tags      []string  // Optional labels, stored as JSON
	UpdatedAt time.Time
}

// SiteEmbedding records that a document has been embedded and with what shape.
// The vector itself lives in the vector store; this row enforces the
// one-embedding-per-document invariant and the dimension check at write time.
type SiteEmbedding struct {
	ID         string // UUID
	DocumentID string
	Dimension  int
	Metadata   map[string]any
	CreatedAt  time.Time
}
