package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ShopSetting holds the per-business onboarding configuration.
type ShopSetting struct {
	ID             int32
	BusinessID     int32
	ShopName       string
	OwnerName      string
	UpiID          string
	SetupCompleted bool
	CreatedTs      int64
	UpdatedTs      int64
}

type FindShopSetting struct {
	ID         *int32
	BusinessID *int32
}

type UpdateShopSetting struct {
	ID         int32
	BusinessID int32
	ShopName   *string
	OwnerName  *string
	UpiID      *string
}

func settingCacheKey(businessID int32) string {
	return fmt.Sprintf("setting-%d", businessID)
}

func (s *Store) UpsertShopSetting(ctx context.Context, upsert *ShopSetting) (*ShopSetting, error) {
	setting, err := s.driver.UpsertShopSetting(ctx, upsert)
	if err != nil {
		return nil, err
	}
	s.settingCache.Set(settingCacheKey(setting.BusinessID), setting)
	return setting, nil
}

func (s *Store) GetShopSetting(ctx context.Context, find *FindShopSetting) (*ShopSetting, error) {
	if find.BusinessID != nil && find.ID == nil {
		if cached, ok := s.settingCache.Get(settingCacheKey(*find.BusinessID)); ok {
			if setting, ok := cached.(*ShopSetting); ok {
				return setting, nil
			}
		}
	}

	settings, err := s.driver.ListShopSettings(ctx, find)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shop settings")
	}
	if len(settings) == 0 {
		return nil, nil
	}

	setting := settings[0]
	s.settingCache.Set(settingCacheKey(setting.BusinessID), setting)
	return setting, nil
}

func (s *Store) UpdateShopSetting(ctx context.Context, update *UpdateShopSetting) (*ShopSetting, error) {
	setting, err := s.driver.UpdateShopSetting(ctx, update)
	if err != nil {
		return nil, err
	}
	if setting != nil {
		s.settingCache.Set(settingCacheKey(setting.BusinessID), setting)
	}
	return setting, nil
}
