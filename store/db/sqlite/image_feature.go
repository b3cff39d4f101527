package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

// histogramDim is the fixed dimension of a stored color histogram (8 bins x RGB).
const histogramDim = 24

// histogramToBlob converts a histogram to a little-endian float32 blob.
func histogramToBlob(vec []float32) ([]byte, error) {
	if len(vec) != histogramDim {
		return nil, errors.Errorf("invalid histogram dimension: got %d, want %d", len(vec), histogramDim)
	}
	buf := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(v))
	}
	return buf, nil
}

// blobToHistogram converts a stored blob back to a histogram.
func blobToHistogram(buf []byte) ([]float32, error) {
	if len(buf) != histogramDim*4 {
		return nil, errors.Errorf("invalid histogram blob size: %d", len(buf))
	}
	vec := make([]float32, histogramDim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
	}
	return vec, nil
}

func (d *DB) UpsertImageFeature(ctx context.Context, upsert *store.ImageFeature) (*store.ImageFeature, error) {
	blob, err := histogramToBlob(upsert.Histogram)
	if err != nil {
		return nil, err
	}

	stmt := `
		INSERT INTO product_image_feature (product_id, image_index, phash, histogram, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (product_id, image_index) DO UPDATE SET
			phash = excluded.phash,
			histogram = excluded.histogram,
			updated_ts = excluded.updated_ts
		RETURNING id, created_ts, updated_ts
	`
	now := time.Now().Unix()
	feature := *upsert
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.ProductID,
		upsert.ImageIndex,
		upsert.PHash,
		blob,
		now,
		now,
	).Scan(&feature.ID, &feature.CreatedTs, &feature.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert image feature")
	}
	return &feature, nil
}

func (d *DB) DeleteImageFeature(ctx context.Context, delete *store.DeleteImageFeature) error {
	where, args := []string{"product_id = ?"}, []any{delete.ProductID}
	if delete.ImageIndex != nil {
		where, args = append(where, "image_index = ?"), append(args, *delete.ImageIndex)
	}
	if _, err := d.db.ExecContext(ctx,
		"DELETE FROM product_image_feature WHERE "+strings.Join(where, " AND "), args...,
	); err != nil {
		return errors.Wrap(err, "failed to delete image feature")
	}
	return nil
}

// ListImageFeatures returns the feature index for one business, joined with
// the catalog fields the matcher ranks on. Archived products are filtered in
// the query so the caller can never see them.
func (d *DB) ListImageFeatures(ctx context.Context, find *store.FindImageFeature) ([]*store.ImageFeatureRef, error) {
	where, args := []string{"product.business_id = ?", "product.row_status = ?"}, []any{find.BusinessID, store.Normal}
	if find.ProductID != nil {
		where, args = append(where, "feature.product_id = ?"), append(args, *find.ProductID)
	}

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
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY feature.product_id, feature.image_index
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list image features")
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
			return nil, errors.Wrap(err, "failed to scan image feature")
		}
		histogram, err := blobToHistogram(blob)
		if err != nil {
			return nil, err
		}
		ref.Histogram = histogram
		list = append(list, &ref)
	}
	return list, rows.Err()
}
