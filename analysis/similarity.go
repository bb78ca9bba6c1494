package analysis

import (
	"context"
	"sort"

	"github.com/docsieve/docsieve/core"
	"github.com/docsieve/docsieve/storage"
)

// Matrix holds pairwise similarity scores between indexed documents.
// Scores[i][j] is the cosine similarity between Sources[i] and Sources[j].
type Matrix struct {
	Sources []string
	Scores  [][]float32
}

// Score returns the similarity between two sources, 0 if either is unknown.
func (m *Matrix) Score(a, b string) float32 {
	ia, ib := -1, -1
	for i, source := range m.Sources {
		if source == a {
			ia = i
		}
		if source == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0
	}
	return m.Scores[ia][ib]
}

// SimilarityMatrix compares every indexed document against every other by
// averaging each document's stored chunk vectors and taking pairwise cosine
// similarity. Documents indexed without vectors are skipped.
func SimilarityMatrix(ctx context.Context, repo storage.ChunkRepository) (*Matrix, error) {
	if repo == nil {
		return nil, ErrChunkRepositoryRequired
	}

	records, err := repo.GetAllChunks(ctx)
	if err != nil {
		return nil, err
	}

	means := meanVectorsBySource(records)

	sources := make([]string, 0, len(means))
	for source := range means {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	scores := make([][]float32, len(sources))
	for i := range sources {
		scores[i] = make([]float32, len(sources))
		for j := range sources {
			if i == j {
				scores[i][j] = 1.0
				continue
			}
			scores[i][j] = core.CosineSimilarity(means[sources[i]], means[sources[j]])
		}
	}

	return &Matrix{Sources: sources, Scores: scores}, nil
}

// meanVectorsBySource averages chunk vectors per document. Chunks without a
// vector do not contribute; a document whose chunks all lack vectors is
// dropped entirely.
func meanVectorsBySource(records []*core.ChunkRecord) map[string][]float32 {
	sums := make(map[string][]float32)
	counts := make(map[string]int)

	for _, record := range records {
		if len(record.Vector) == 0 {
			continue
		}

		sum, ok := sums[record.Source]
		if !ok {
			sum = make([]float32, len(record.Vector))
			sums[record.Source] = sum
		}
		if len(sum) != len(record.Vector) {
			continue
		}
		for i, v := range record.Vector {
			sum[i] += v
		}
		counts[record.Source]++
	}

	for source, sum := range sums {
		n := float32(counts[source])
		for i := range sum {
			sum[i] /= n
		}
	}

	return sums
}
