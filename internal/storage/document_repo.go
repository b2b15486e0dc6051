package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks siteassist/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"siteassist/internal/service"
)

// KeywordDefaultSimilarity is the similarity assigned to keyword search hits.
// Lexical matches have no cosine score, so they enter the candidate pool at a
// fixed mid-range value. Heuristic, not calibrated against vector scores.
const KeywordDefaultSimilarity = 0.5

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Insert inserts a document. The document ID must be set before calling.
	Insert(ctx context.Context, doc *SiteDocument) error
	// InsertEmbedding records the embedding row for a document.
	// Fails if the dimension does not match the configured model's dimension.
	InsertEmbedding(ctx context.Context, emb *SiteEmbedding) error
	// GetByID gets a document by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*SiteDocument, error)
	// ListIDsByURL returns all document IDs for a source URL.
	ListIDsByURL(ctx context.Context, url string) ([]string, error)
	// DeleteByURL deletes all documents for a source URL.
	// Used on reindex to replace a page's chunks wholesale.
	DeleteByURL(ctx context.Context, url string) error
	// KeywordSearch runs a lexical search against document content.
	KeywordSearch(ctx context.Context, query string, limit int) ([]SiteDocument, error)
	// KeywordSearchAvailable reports whether the lexical index exists.
	KeywordSearchAvailable() bool
}

// DocumentRepo provides methods for document operations backed by SQLite.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db           *sql.DB
	ftsAvailable bool
	expectedDim  int
}

// NewDocumentRepo creates a new DocumentRepo.
// ftsAvailable indicates whether the FTS5 keyword index was created;
// expectedDim is the embedding dimension enforced on InsertEmbedding.
func NewDocumentRepo(db *sql.DB, ftsAvailable bool, expectedDim int) *DocumentRepo {
	return &DocumentRepo{db: db, ftsAvailable: ftsAvailable, expectedDim: expectedDim}
}

// Insert inserts a document row.
func (r *DocumentRepo) Insert(ctx context.Context, doc *SiteDocument) error {
	var tags any
	if len(doc.Tags) > 0 {
		encoded, err := json.Marshal(doc.Tags)
		if err != nil {
			return fmt.Errorf("failed to encode tags: %w", err)
		}
		tags = string(encoded)
	}

	var section any
	if doc.Section != "" {
		section = doc.Section
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, url, title, section, content, tags) VALUES (?, ?, ?, ?, ?, ?)",
		doc.ID, doc.URL, doc.Title, section, doc.Content, tags,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// InsertEmbedding records the embedding row for a document.
// The UNIQUE constraint on document_id enforces one embedding per document.
func (r *DocumentRepo) InsertEmbedding(ctx context.Context, emb *SiteEmbedding) error {
	if emb.Dimension != r.expectedDim {
		return fmt.Errorf("embedding for document %s has dimension %d, expected %d",
			emb.DocumentID, emb.Dimension, r.expectedDim)
	}

	var metadata any
	if len(emb.Metadata) > 0 {
		encoded, err := json.Marshal(emb.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode embedding metadata: %w", err)
		}
		metadata = string(encoded)
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO embeddings (id, document_id, dimension, metadata) VALUES (?, ?, ?, ?)",
		emb.ID, emb.DocumentID, emb.Dimension, metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert embedding: %w", err)
	}
	return nil
}

// GetByID gets a document by its ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*SiteDocument, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, url, title, section, content, tags, updated_at FROM documents WHERE id = ?",
		id,
	)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// ListIDsByURL returns all document IDs for a source URL.
// Returns an empty slice if none exist (not an error).
func (r *DocumentRepo) ListIDsByURL(ctx context.Context, url string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM documents WHERE url = ?", url)
	if err != nil {
		return nil, fmt.Errorf("failed to query document IDs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan document ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// DeleteByURL deletes all documents for a source URL.
func (r *DocumentRepo) DeleteByURL(ctx context.Context, url string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE url = ?", url)
	if err != nil {
		return fmt.Errorf("failed to delete documents by url: %w", err)
	}
	return nil
}

// KeywordSearchAvailable reports whether the FTS5 index exists.
func (r *DocumentRepo) KeywordSearchAvailable() bool {
	return r.ftsAvailable
}

// KeywordSearch runs a full-text search against the FTS5 index.
// The raw query is reduced to alphanumeric terms joined with OR so that
// user punctuation cannot break the MATCH syntax.
func (r *DocumentRepo) KeywordSearch(ctx context.Context, query string, limit int) ([]SiteDocument, error) {
	if !r.ftsAvailable {
		return nil, fmt.Errorf("%w: keyword search index unavailable", service.ErrProvider)
	}

	match := buildMatchExpression(query)
	if match == "" {
		return []SiteDocument{}, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT d.id, d.url, d.title, d.section, d.content, d.tags, d.updated_at
		 FROM documents_fts f
		 JOIN documents d ON d.rowid = f.rowid
		 WHERE documents_fts MATCH ?
		 ORDER BY bm25(documents_fts)
		 LIMIT ?`,
		match, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: keyword search failed: %v", service.ErrProvider, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []SiteDocument
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// buildMatchExpression turns free text into a safe FTS5 MATCH expression.
func buildMatchExpression(query string) string {
	var builder strings.Builder
	builder.Grow(len(query))
	for _, r := range query {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}

	terms := strings.Fields(builder.String())
	if len(terms) == 0 {
		return ""
	}
	for i, term := range terms {
		terms[i] = `"` + term + `"`
	}
	return strings.Join(terms, " OR ")
}

// scanner abstracts sql.Row and sql.Rows for scanDocument.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*SiteDocument, error) {
	var doc SiteDocument
	var section sql.NullString
	var tags sql.NullString

	if err := s.Scan(&doc.ID, &doc.URL, &doc.Title, &section, &doc.Content, &tags, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	if section.Valid {
		doc.Section = section.String
	}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &doc.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}

	return &doc, nil
}
