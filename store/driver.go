package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database access.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	ApplyLatestSchema(ctx context.Context) error
	UpsertMigrationHistory(ctx context.Context, upsert *UpsertMigrationHistory) (*MigrationHistory, error)
	FindMigrationHistoryList(ctx context.Context, find *FindMigrationHistory) ([]*MigrationHistory, error)

	CreateBusiness(ctx context.Context, create *Business) (*Business, error)
	ListBusinesses(ctx context.Context, find *FindBusiness) ([]*Business, error)

	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	UpsertShopSetting(ctx context.Context, upsert *ShopSetting) (*ShopSetting, error)
	ListShopSettings(ctx context.Context, find *FindShopSetting) ([]*ShopSetting, error)
	UpdateShopSetting(ctx context.Context, update *UpdateShopSetting) (*ShopSetting, error)

	CreateProduct(ctx context.Context, create *Product) (*Product, error)
	ListProducts(ctx context.Context, find *FindProduct) ([]*Product, error)
	UpdateProduct(ctx context.Context, update *UpdateProduct) (*Product, error)
	DeleteProduct(ctx context.Context, delete *DeleteProduct) error
	AdjustProductStock(ctx context.Context, productID, businessID int32, delta int) error

	UpsertImageFeature(ctx context.Context, upsert *ImageFeature) (*ImageFeature, error)
	DeleteImageFeature(ctx context.Context, delete *DeleteImageFeature) error
	ListImageFeatures(ctx context.Context, find *FindImageFeature) ([]*ImageFeatureRef, error)

	CreateSale(ctx context.Context, create *Sale) (*Sale, error)
	ListSales(ctx context.Context, find *FindSale) ([]*Sale, error)

	CreateSaleReturn(ctx context.Context, create *SaleReturn) (*SaleReturn, error)
	ListSaleReturns(ctx context.Context, find *FindSaleReturn) ([]*SaleReturn, error)
}
