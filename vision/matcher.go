package vision

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

const (
	// DefaultTopK caps the number of returned candidates.
	DefaultTopK = 5
	// DefaultThreshold is the inclusive similarity bound for a confident match.
	DefaultThreshold = 0.70
	// DefaultExtractionTimeout bounds a single extraction so a pathological
	// input cannot hang a request.
	DefaultExtractionTimeout = 5 * time.Second
)

const (
	MessageEmptyCatalog = "No products found. Add some products first."
	MessageSuggested    = "Suggested (based on similarity)"
	MessageNoMatch      = "Product not found. Search manually."
)

// Candidate is one ranked product suggestion.
type Candidate struct {
	ProductID         int32
	ProductUID        string
	Similarity        float64
	MatchedImageIndex int
}

// MatchResult is the outcome of one match request. An empty catalog or a
// sub-threshold best score are normal results, not errors; manual selection
// is the designed fallback in a barcode-less shop.
type MatchResult struct {
	Matches  []Candidate
	HasMatch bool
	Message  string
}

// FeatureSource lists the indexed features of one business. The candidate set
// is constructed only from this business-scoped read, so a candidate can
// never belong to another business.
type FeatureSource interface {
	ListImageFeatures(ctx context.Context, find *store.FindImageFeature) ([]*store.ImageFeatureRef, error)
}

// Matcher ranks catalog products by visual similarity to a query photo.
// It mutates no shared state, so concurrent Match calls are safe; extraction
// is CPU-bound and runs under a bounded worker pool.
type Matcher struct {
	source  FeatureSource
	scorer  Scorer
	workers *semaphore.Weighted
	timeout time.Duration
}

func NewMatcher(source FeatureSource, workers int64, timeout time.Duration) *Matcher {
	if workers <= 0 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = DefaultExtractionTimeout
	}
	return &Matcher{
		source:  source,
		scorer:  NewScorer(),
		workers: semaphore.NewWeighted(workers),
		timeout: timeout,
	}
}

// Match extracts features from the query image and scores them against every
// indexed image of the business. Scores are aggregated per product keeping
// the maximum across that product's images, sorted descending with ties
// broken by product recency then product ID, filtered by the threshold and
// capped at K. Linear in the number of indexed images.
func (m *Matcher) Match(ctx context.Context, businessID int32, imageData []byte) (*MatchResult, error) {
	query, err := m.extract(ctx, imageData)
	if err != nil {
		return nil, err
	}

	refs, err := m.source.ListImageFeatures(ctx, &store.FindImageFeature{BusinessID: businessID})
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return &MatchResult{Matches: []Candidate{}, Message: MessageEmptyCatalog}, nil
	}

	// Best single photo wins; a product is not penalized for having a
	// dissimilar secondary photo.
	best := make(map[int32]*Candidate)
	createdTs := make(map[int32]int64)
	for _, ref := range refs {
		score := m.scorer.Score(query, &Feature{
			PHash:     uint64(ref.PHash),
			Histogram: ref.Histogram,
		})
		candidate, ok := best[ref.ProductID]
		if !ok {
			best[ref.ProductID] = &Candidate{
				ProductID:         ref.ProductID,
				ProductUID:        ref.ProductUID,
				Similarity:        score,
				MatchedImageIndex: ref.ImageIndex,
			}
			createdTs[ref.ProductID] = ref.ProductCreatedTs
			continue
		}
		if score > candidate.Similarity {
			candidate.Similarity = score
			candidate.MatchedImageIndex = ref.ImageIndex
		}
	}

	ranked := make([]Candidate, 0, len(best))
	for _, candidate := range best {
		ranked = append(ranked, *candidate)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Similarity != ranked[j].Similarity {
			return ranked[i].Similarity > ranked[j].Similarity
		}
		if createdTs[ranked[i].ProductID] != createdTs[ranked[j].ProductID] {
			return createdTs[ranked[i].ProductID] > createdTs[ranked[j].ProductID]
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})

	matches := make([]Candidate, 0, DefaultTopK)
	for _, candidate := range ranked {
		if candidate.Similarity < DefaultThreshold {
			break
		}
		matches = append(matches, candidate)
		if len(matches) == DefaultTopK {
			break
		}
	}

	result := &MatchResult{Matches: matches, HasMatch: len(matches) > 0}
	if result.HasMatch {
		result.Message = MessageSuggested
	} else {
		result.Message = MessageNoMatch
	}
	slog.Debug("image match completed",
		slog.Int("business", int(businessID)),
		slog.Int("indexed", len(refs)),
		slog.Int("matches", len(matches)))
	return result, nil
}

// extract runs feature extraction under the worker pool with a bounded
// timeout. A timeout while queued or mid-decode surfaces as
// ErrExtractionTimeout; the request is a client error, never retried.
func (m *Matcher) extract(ctx context.Context, imageData []byte) (*Feature, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.workers.Acquire(ctx, 1); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrExtractionTimeout
		}
		return nil, err
	}

	type extraction struct {
		feature *Feature
		err     error
	}
	done := make(chan extraction, 1)
	go func() {
		defer m.workers.Release(1)
		feature, err := Extract(imageData)
		done <- extraction{feature, err}
	}()

	select {
	case res := <-done:
		return res.feature, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrExtractionTimeout
		}
		return nil, ctx.Err()
	}
}
