package vision

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/semaphore"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

// FeatureStore persists the per-product feature index.
type FeatureStore interface {
	UpsertImageFeature(ctx context.Context, upsert *store.ImageFeature) (*store.ImageFeature, error)
	DeleteImageFeature(ctx context.Context, delete *store.DeleteImageFeature) error
}

// Indexer keeps the feature index in sync with the product catalog. It is
// driven by catalog write events and never runs inline with a match request.
type Indexer struct {
	store   FeatureStore
	workers *semaphore.Weighted
}

func NewIndexer(featureStore FeatureStore, workers int64) *Indexer {
	if workers <= 0 {
		workers = 1
	}
	return &Indexer{
		store:   featureStore,
		workers: semaphore.NewWeighted(workers),
	}
}

// OnProductImagesChanged rebuilds the product's features from its current
// image set. Stale entries from removed images are dropped first. An image
// that fails to decode is skipped with a warning; it stays unsearchable but
// does not block the rest of the set.
func (idx *Indexer) OnProductImagesChanged(ctx context.Context, productID int32, images []string) error {
	if err := idx.RemoveFeature(ctx, productID, nil); err != nil {
		return err
	}
	for i, payload := range images {
		data, err := DecodeImagePayload(payload)
		if err != nil {
			slog.Warn("skipping unindexable product image",
				slog.Int("product", int(productID)),
				slog.Int("index", i),
				slog.Any("err", err))
			continue
		}
		if err := idx.UpsertFeature(ctx, productID, i, data); err != nil {
			slog.Warn("skipping unindexable product image",
				slog.Int("product", int(productID)),
				slog.Int("index", i),
				slog.Any("err", err))
		}
	}
	return nil
}

// UpsertFeature computes and persists the feature for one image. Idempotent:
// recomputing on identical bytes stores an identical value.
func (idx *Indexer) UpsertFeature(ctx context.Context, productID int32, imageIndex int, imageData []byte) error {
	feature, err := idx.extract(ctx, imageData)
	if err != nil {
		return err
	}
	if _, err := idx.store.UpsertImageFeature(ctx, &store.ImageFeature{
		ProductID:  productID,
		ImageIndex: imageIndex,
		PHash:      int64(feature.PHash),
		Histogram:  feature.Histogram,
	}); err != nil {
		return fmt.Errorf("failed to upsert image feature: %w", err)
	}
	return nil
}

// RemoveFeature drops one image's feature, or all of the product's features
// when imageIndex is nil.
func (idx *Indexer) RemoveFeature(ctx context.Context, productID int32, imageIndex *int) error {
	return idx.store.DeleteImageFeature(ctx, &store.DeleteImageFeature{
		ProductID:  productID,
		ImageIndex: imageIndex,
	})
}

func (idx *Indexer) extract(ctx context.Context, imageData []byte) (*Feature, error) {
	if err := idx.workers.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer idx.workers.Release(1)
	return Extract(imageData)
}
