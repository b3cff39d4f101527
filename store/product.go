package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/util"
)

// Row status values for soft deletion.
const (
	Normal   = "NORMAL"
	Archived = "ARCHIVED"
)

type Product struct {
	ID         int32
	UID        string
	BusinessID int32
	Name       string
	Price      float64
	Stock      int
	Category   string
	Size       string
	Color      string
	// Images are base64-encoded photos in catalog order. The index of an
	// image in this slice is its stable imageIndex for feature records.
	Images    []string
	RowStatus string
	CreatedTs int64
	UpdatedTs int64
}

type FindProduct struct {
	ID         *int32
	UID        *string
	BusinessID *int32
	RowStatus  *string
	Limit      *int
	Offset     *int
}

type UpdateProduct struct {
	ID         int32
	BusinessID int32
	Name       *string
	Price      *float64
	Stock      *int
	Category   *string
	Size       *string
	Color      *string
	// Images, when set, replaces the whole image list.
	Images    *[]string
	RowStatus *string
}

type DeleteProduct struct {
	ID         int32
	BusinessID int32
}

func (s *Store) CreateProduct(ctx context.Context, create *Product) (*Product, error) {
	if create.UID == "" {
		create.UID = util.GenUID()
	}
	if create.RowStatus == "" {
		create.RowStatus = Normal
	}
	return s.driver.CreateProduct(ctx, create)
}

func (s *Store) ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error) {
	if find.RowStatus == nil {
		normal := Normal
		find.RowStatus = &normal
	}
	return s.driver.ListProducts(ctx, find)
}

func (s *Store) GetProduct(ctx context.Context, find *FindProduct) (*Product, error) {
	products, err := s.ListProducts(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	if len(products) == 0 {
		return nil, nil
	}
	return products[0], nil
}

func (s *Store) UpdateProduct(ctx context.Context, update *UpdateProduct) (*Product, error) {
	return s.driver.UpdateProduct(ctx, update)
}

// DeleteProduct archives the product and drops its feature index entries.
// The image rows are kept so an archived product can still be displayed in
// historical sales.
func (s *Store) DeleteProduct(ctx context.Context, delete *DeleteProduct) error {
	if err := s.driver.DeleteProduct(ctx, delete); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}
	return s.driver.DeleteImageFeature(ctx, &DeleteImageFeature{ProductID: delete.ID})
}

// AdjustProductStock applies a stock delta (negative on sale, positive on
// return) to a product within the given business. A product under another
// business is left untouched.
func (s *Store) AdjustProductStock(ctx context.Context, productID, businessID int32, delta int) error {
	return s.driver.AdjustProductStock(ctx, productID, businessID, delta)
}
