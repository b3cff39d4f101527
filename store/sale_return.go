package store

import (
	"context"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/util"
)

type SaleReturnItem struct {
	ID          int32
	ReturnID    int32
	ProductID   int32
	ProductName string
	Quantity    int
	Price       float64
}

// SaleReturn records returned items against an earlier sale. Stock is
// restored by the service layer when the return is created.
type SaleReturn struct {
	ID         int32
	UID        string
	BusinessID int32
	SaleID     int32
	Items      []SaleReturnItem
	Total      float64
	Reason     string
	CreatedTs  int64
}

type FindSaleReturn struct {
	ID         *int32
	BusinessID *int32
	SaleID     *int32
}

func (s *Store) CreateSaleReturn(ctx context.Context, create *SaleReturn) (*SaleReturn, error) {
	if create.UID == "" {
		create.UID = util.GenUID()
	}
	return s.driver.CreateSaleReturn(ctx, create)
}

func (s *Store) ListSaleReturns(ctx context.Context, find *FindSaleReturn) ([]*SaleReturn, error) {
	return s.driver.ListSaleReturns(ctx, find)
}
