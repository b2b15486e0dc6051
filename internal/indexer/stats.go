package indexer

// ChunkerVersion identifies the chunker implementation.
// Update when chunking logic changes enough to warrant a reindex.
const ChunkerVersion = "v1.0"

// IndexStats summarizes an indexing run.
type IndexStats struct {
	// SourcesProcessed is the total number of content sources handled.
	SourcesProcessed int `json:"sources_processed"`
	// SourcesSkipped is the number of sources that produced zero chunks.
	SourcesSkipped int `json:"sources_skipped"`
	// SourcesFailed is the number of sources whose indexing errored.
	SourcesFailed int `json:"sources_failed"`
	// ChunksIndexed is the number of chunks stored and embedded.
	ChunksIndexed int `json:"chunks_indexed"`
	// TokenStats summarizes estimated token counts across indexed chunks.
	TokenStats ChunkTokenStats `json:"chunk_token_stats"`
	// ChunkerVersion is the version of the chunker used.
	ChunkerVersion string `json:"chunker_version"`
}

// ChunkTokenStats summarizes estimated token counts per chunk.
type ChunkTokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
}

func computeTokenStats(chunks []DocumentChunk) ChunkTokenStats {
	if len(chunks) == 0 {
		return ChunkTokenStats{}
	}

	stats := ChunkTokenStats{Min: chunks[0].Tokens, Max: chunks[0].Tokens}
	total := 0
	for _, chunk := range chunks {
		if chunk.Tokens < stats.Min {
			stats.Min = chunk.Tokens
		}
		if chunk.Tokens > stats.Max {
			stats.Max = chunk.Tokens
		}
		total += chunk.Tokens
	}
	stats.Mean = float64(total) / float64(len(chunks))
	return stats
}
