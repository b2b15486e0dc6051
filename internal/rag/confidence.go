package rag

// veryHighRerankScore admits a single outstanding chunk even when the
// overall pool is thin.
const veryHighRerankScore = 90

// GateConfig holds the confidence gate thresholds.
type GateConfig struct {
	// RerankThreshold is the minimum best rerank score (0-100).
	RerankThreshold float64
	// MinChunks is the minimum number of selected chunks.
	MinChunks int
	// SimilarityThreshold is the minimum best similarity, used only when no
	// chunk carries a rerank score.
	SimilarityThreshold float64
}

// HighConfidence decides whether the selected chunks are good enough to
// answer from, or whether the caller should return a clarifying fallback.
//
// With rerank scores present: the best score must clear RerankThreshold and
// the pool must hold at least MinChunks, except that one chunk scoring at or
// above veryHighRerankScore passes on its own. Without rerank scores the gate
// falls back to raw similarity.
func HighConfidence(chunks []RankedChunk, cfg GateConfig) bool {
	if len(chunks) == 0 {
		return false
	}

	bestRerank, haveRerank := 0.0, false
	bestSimilarity := 0.0
	for _, chunk := range chunks {
		if chunk.RerankScore != nil {
			haveRerank = true
			if *chunk.RerankScore > bestRerank {
				bestRerank = *chunk.RerankScore
			}
		}
		if chunk.Similarity > bestSimilarity {
			bestSimilarity = chunk.Similarity
		}
	}

	if haveRerank {
		if bestRerank >= veryHighRerankScore {
			return true
		}
		return bestRerank >= cfg.RerankThreshold && len(chunks) >= cfg.MinChunks
	}
	return bestSimilarity >= cfg.SimilarityThreshold
}
