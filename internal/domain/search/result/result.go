package result

import "github.com/vitacart/prodex/internal/domain/product"

// Hit is a single search hit. Score is the raw engine value: the ranker
// score in lexical mode, the cosine similarity in vector mode. Similarity
// is populated by Normalize and is meaningful only within one candidate set.
type Hit struct {
	product    product.Product
	score      float64
	similarity float64
	normalized bool
}

// New creates a hit. The product's embedding is stripped so that vectors
// never travel past the index layer.
func New(p product.Product, score float64) Hit {
	return Hit{product: p.WithoutEmbedding(), score: score}
}

// Product returns the product projection.
func (h *Hit) Product() product.Product { return h.product }

// Score returns the raw engine score.
func (h *Hit) Score() float64 { return h.score }

// Similarity returns the min-max normalized similarity.
func (h *Hit) Similarity() float64 { return h.similarity }

// Normalized reports whether Similarity has been computed.
func (h *Hit) Normalized() bool { return h.normalized }

// Normalize min-max normalizes raw scores into [0,1] within the candidate
// set, preserving order. When all scores are equal, a positive score maps
// to 1.0 and a non-positive one to 0.0.
func Normalize(hits []Hit) []Hit {
	if len(hits) == 0 {
		return hits
	}

	minScore, maxScore := hits[0].score, hits[0].score
	for _, h := range hits[1:] {
		if h.score < minScore {
			minScore = h.score
		}
		if h.score > maxScore {
			maxScore = h.score
		}
	}

	out := make([]Hit, len(hits))
	for i, h := range hits {
		if maxScore == minScore {
			if h.score > 0 {
				h.similarity = 1.0
			} else {
				h.similarity = 0.0
			}
		} else {
			h.similarity = (h.score - minScore) / (maxScore - minScore)
		}
		h.normalized = true
		out[i] = h
	}
	return out
}

// Threshold keeps hits whose normalized similarity is at least min,
// preserving order. Hits must have been normalized first.
func Threshold(hits []Hit, min float64) []Hit {
	if min <= 0 {
		return hits
	}
	out := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.similarity >= min {
			out = append(out, h)
		}
	}
	return out
}

// Top returns at most n leading hits.
func Top(hits []Hit, n int) []Hit {
	if n < 0 || n >= len(hits) {
		return hits
	}
	return hits[:n]
}
