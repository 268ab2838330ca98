package retriever

import "paperchat/internal/index"

// scoredChunk pairs a candidate chunk with its query relevance.
type scoredChunk struct {
	chunk index.Chunk
	score float64
}

// mmrSelect greedily picks up to k chunks maximizing
//
//	lambda*relevance - (1-lambda)*maxSimilarityToSelected
//
// where the penalty term is the candidate's highest cosine similarity to any
// already-selected chunk (0 while nothing is selected). The penalty is
// recomputed on every iteration because the selected set grows; ties go to
// the earliest candidate in the remaining pool. The O(k*n) rescan is fine at
// this index's scale.
func mmrSelect(scored []scoredChunk, k int, lambda float64) []scoredChunk {
	if k <= 0 || len(scored) == 0 {
		return nil
	}
	if k > len(scored) {
		k = len(scored)
	}

	remaining := make([]scoredChunk, len(scored))
	copy(remaining, scored)
	selected := make([]scoredChunk, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestValue := 0.0

		for i, candidate := range remaining {
			maxSim := 0.0
			for _, chosen := range selected {
				if sim := Cosine(candidate.chunk.Embedding, chosen.chunk.Embedding); sim > maxSim {
					maxSim = sim
				}
			}
			value := lambda*candidate.score - (1-lambda)*maxSim
			if bestIdx == -1 || value > bestValue {
				bestIdx = i
				bestValue = value
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}
