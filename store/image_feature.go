package store

import (
	"context"
)

// ImageFeature is the persisted visual signature of one product photo,
// keyed by (productID, imageIndex). Recomputed only when the photo changes.
type ImageFeature struct {
	ID         int32
	ProductID  int32
	ImageIndex int
	// PHash is the 64-bit perceptual hash, bit-cast to int64 for storage.
	PHash int64
	// Histogram is the normalized 24-bin color histogram (8 bins x RGB),
	// stored as a little-endian float32 blob.
	Histogram []float32
	CreatedTs int64
	UpdatedTs int64
}

// DeleteImageFeature removes one image's feature, or all of a product's
// features when ImageIndex is nil.
type DeleteImageFeature struct {
	ProductID  int32
	ImageIndex *int
}

type FindImageFeature struct {
	BusinessID int32
	ProductID  *int32
}

// ImageFeatureRef is a feature joined with the catalog fields the matcher
// needs. It is only ever produced by a business-scoped listing, so a ref can
// never cross tenants.
type ImageFeatureRef struct {
	ProductID        int32
	ProductUID       string
	BusinessID       int32
	ImageIndex       int
	PHash            int64
	Histogram        []float32
	ProductCreatedTs int64
}

func (s *Store) UpsertImageFeature(ctx context.Context, upsert *ImageFeature) (*ImageFeature, error) {
	return s.driver.UpsertImageFeature(ctx, upsert)
}

func (s *Store) DeleteImageFeature(ctx context.Context, delete *DeleteImageFeature) error {
	return s.driver.DeleteImageFeature(ctx, delete)
}

// ListImageFeatures returns the feature index for one business. Archived
// products are excluded by the drivers; images without a computed feature are
// simply absent (not yet searchable).
func (s *Store) ListImageFeatures(ctx context.Context, find *FindImageFeature) ([]*ImageFeatureRef, error) {
	return s.driver.ListImageFeatures(ctx, find)
}
