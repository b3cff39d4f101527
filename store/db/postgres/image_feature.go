package postgres

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

// histogramDim is the fixed dimension of a stored color histogram (8 bins x RGB).
const histogramDim = 24

func histogramToBytes(vec []float32) ([]byte, error) {
	if len(vec) != histogramDim {
		return nil, fmt.Errorf("invalid histogram dimension: got %d, want %d", len(vec), histogramDim)
	}
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf, nil
}

func bytesToHistogram(buf []byte) ([]float32, error) {
	if len(buf) != histogramDim*4 {
		return nil, fmt.Errorf("invalid histogram blob size: %d", len(buf))
	}
	vec := make([]float32, histogramDim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return vec, nil
}

func (db *DB) UpsertImageFeature(ctx context.Context, upsert *store.ImageFeature) (*store.ImageFeature, error) {
	blob, err := histogramToBytes(upsert.Histogram)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO product_image_feature (product_id, image_index, phash, histogram)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, image_index) DO UPDATE SET
			phash = EXCLUDED.phash,
			histogram = EXCLUDED.histogram,
			updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		RETURNING id, created_ts, updated_ts
	`
	feature := *upsert
	if err := db.db.QueryRowContext(ctx, query,
		upsert.ProductID,
		upsert.ImageIndex,
		upsert.PHash,
		blob,
	).Scan(&feature.ID, &feature.CreatedTs, &feature.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert image feature: %w", err)
	}
	return &feature, nil
}

func (db *DB) DeleteImageFeature(ctx context.Context, delete *store.DeleteImageFeature) error {
	query := "DELETE FROM product_image_feature WHERE product_id = $1"
	args := []interface{}{delete.ProductID}
	if delete.ImageIndex != nil {
		query += " AND image_index = $2"
		args = append(args, *delete.ImageIndex)
	}
	if _, err := db.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete image feature: %w", err)
	}
	return nil
}

// ListImageFeatures returns the feature index for one business joined with the
// catalog fields the matcher ranks on. Archived products are filtered here.
func (db *DB) ListImageFeatures(ctx context.Context, find *store.FindImageFeature) ([]*store.ImageFeatureRef, error) {
	query := `
		SELECT
			feature.product_id,
			product.uid,
			product.business_id,
			feature.image_index,
			feature.phash,
			feature.histogram,
			product.created_ts
		FROM product_image_feature feature
		JOIN product ON product.id = feature.product_id
		WHERE product.business_id = $1 AND product.row_status = $2
	`
	args := []interface{}{find.BusinessID, store.Normal}
	if find.ProductID != nil {
		query += " AND feature.product_id = $3"
		args = append(args, *find.ProductID)
	}
	query += " ORDER BY feature.product_id, feature.image_index"

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list image features: %w", err)
	}
	defer rows.Close()

	var list []*store.ImageFeatureRef
	for rows.Next() {
		var ref store.ImageFeatureRef
		var blob []byte
		if err := rows.Scan(
			&ref.ProductID,
			&ref.ProductUID,
			&ref.BusinessID,
			&ref.ImageIndex,
			&ref.PHash,
			&blob,
			&ref.ProductCreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan image feature: %w", err)
		}
		histogram, err := bytesToHistogram(blob)
		if err != nil {
			return nil, err
		}
		ref.Histogram = histogram
		list = append(list, &ref)
	}
	return list, rows.Err()
}
