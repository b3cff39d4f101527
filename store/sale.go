package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/util"
)

// Payment methods accepted at checkout.
const (
	PaymentCash   = "cash"
	PaymentUPI    = "upi"
	PaymentCredit = "credit"
)

type SaleItem struct {
	ID          int32
	SaleID      int32
	ProductID   int32
	ProductUID  string
	ProductName string
	Quantity    int
	Price       float64
	Image       string
}

type Sale struct {
	ID            int32
	UID           string
	BusinessID    int32
	Items         []SaleItem
	Total         float64
	PaymentMethod string
	// CustomerPhone is required for credit sales so the shop can follow up.
	CustomerPhone string
	// Date is the local sale day in YYYY-MM-DD, used for daily reports.
	Date      string
	CreatedTs int64
}

type FindSale struct {
	ID         *int32
	UID        *string
	BusinessID *int32
	Date       *string
	Limit      *int
	Offset     *int
}

func (s *Store) CreateSale(ctx context.Context, create *Sale) (*Sale, error) {
	if create.UID == "" {
		create.UID = util.GenUID()
	}
	return s.driver.CreateSale(ctx, create)
}

func (s *Store) ListSales(ctx context.Context, find *FindSale) ([]*Sale, error) {
	return s.driver.ListSales(ctx, find)
}

func (s *Store) GetSale(ctx context.Context, find *FindSale) (*Sale, error) {
	sales, err := s.driver.ListSales(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sales")
	}
	if len(sales) == 0 {
		return nil, nil
	}
	return sales[0], nil
}
