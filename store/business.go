package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/util"
)

// Business is an isolated shop. Every catalog row, sale and setting belongs to
// exactly one business, and all reads are scoped by its ID.
type Business struct {
	ID        int32
	UID       string
	Name      string
	CreatedTs int64
	UpdatedTs int64
}

type FindBusiness struct {
	ID  *int32
	UID *string
}

func (s *Store) CreateBusiness(ctx context.Context, create *Business) (*Business, error) {
	if create.UID == "" {
		create.UID = util.GenUID()
	}
	return s.driver.CreateBusiness(ctx, create)
}

func (s *Store) GetBusiness(ctx context.Context, find *FindBusiness) (*Business, error) {
	businesses, err := s.driver.ListBusinesses(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list businesses")
	}
	if len(businesses) == 0 {
		return nil, nil
	}
	return businesses[0], nil
}
