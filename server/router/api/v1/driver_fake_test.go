package v1

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

// fakeDriver is an in-memory store.Driver for handler tests.
type fakeDriver struct {
	mu sync.Mutex

	nextID     int32
	businesses []*store.Business
	users      []*store.User
	settings   []*store.ShopSetting
	products   []*store.Product
	features   []*store.ImageFeature
	sales      []*store.Sale
	returns    []*store.SaleReturn
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{}
}

func (d *fakeDriver) id() int32 {
	d.nextID++
	return d.nextID
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }

func (d *fakeDriver) IsInitialized(context.Context) (bool, error)    { return true, nil }
func (d *fakeDriver) ApplyLatestSchema(context.Context) error        { return nil }
func (d *fakeDriver) UpsertMigrationHistory(_ context.Context, upsert *store.UpsertMigrationHistory) (*store.MigrationHistory, error) {
	return &store.MigrationHistory{Version: upsert.Version}, nil
}
func (d *fakeDriver) FindMigrationHistoryList(context.Context, *store.FindMigrationHistory) ([]*store.MigrationHistory, error) {
	return nil, nil
}

func (d *fakeDriver) CreateBusiness(_ context.Context, create *store.Business) (*store.Business, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	create.CreatedTs = time.Now().Unix()
	d.businesses = append(d.businesses, create)
	return create, nil
}

func (d *fakeDriver) ListBusinesses(_ context.Context, find *store.FindBusiness) ([]*store.Business, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.Business
	for _, business := range d.businesses {
		if find.ID != nil && business.ID != *find.ID {
			continue
		}
		if find.UID != nil && business.UID != *find.UID {
			continue
		}
		list = append(list, business)
	}
	return list, nil
}

func (d *fakeDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	create.CreatedTs = time.Now().Unix()
	d.users = append(d.users, create)
	return create, nil
}

func (d *fakeDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.User
	for _, user := range d.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.Username != nil && user.Username != *find.Username {
			continue
		}
		if find.BusinessID != nil && user.BusinessID != *find.BusinessID {
			continue
		}
		list = append(list, user)
	}
	return list, nil
}

func (d *fakeDriver) UpsertShopSetting(_ context.Context, upsert *store.ShopSetting) (*store.ShopSetting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, setting := range d.settings {
		if setting.BusinessID == upsert.BusinessID {
			upsert.ID = setting.ID
			d.settings[i] = upsert
			return upsert, nil
		}
	}
	upsert.ID = d.id()
	d.settings = append(d.settings, upsert)
	return upsert, nil
}

func (d *fakeDriver) ListShopSettings(_ context.Context, find *store.FindShopSetting) ([]*store.ShopSetting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.ShopSetting
	for _, setting := range d.settings {
		if find.ID != nil && setting.ID != *find.ID {
			continue
		}
		if find.BusinessID != nil && setting.BusinessID != *find.BusinessID {
			continue
		}
		list = append(list, setting)
	}
	return list, nil
}

func (d *fakeDriver) UpdateShopSetting(_ context.Context, update *store.UpdateShopSetting) (*store.ShopSetting, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, setting := range d.settings {
		if setting.ID != update.ID || setting.BusinessID != update.BusinessID {
			continue
		}
		if update.ShopName != nil {
			setting.ShopName = *update.ShopName
		}
		if update.OwnerName != nil {
			setting.OwnerName = *update.OwnerName
		}
		if update.UpiID != nil {
			setting.UpiID = *update.UpiID
		}
		return setting, nil
	}
	return nil, nil
}

func (d *fakeDriver) CreateProduct(_ context.Context, create *store.Product) (*store.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	create.CreatedTs = time.Now().Unix()
	create.UpdatedTs = create.CreatedTs
	d.products = append(d.products, create)
	return create, nil
}

func (d *fakeDriver) ListProducts(_ context.Context, find *store.FindProduct) ([]*store.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.Product
	for _, product := range d.products {
		if find.ID != nil && product.ID != *find.ID {
			continue
		}
		if find.UID != nil && product.UID != *find.UID {
			continue
		}
		if find.BusinessID != nil && product.BusinessID != *find.BusinessID {
			continue
		}
		if find.RowStatus != nil && product.RowStatus != *find.RowStatus {
			continue
		}
		list = append(list, product)
	}
	return list, nil
}

func (d *fakeDriver) UpdateProduct(_ context.Context, update *store.UpdateProduct) (*store.Product, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, product := range d.products {
		if product.ID != update.ID || product.BusinessID != update.BusinessID {
			continue
		}
		if update.Name != nil {
			product.Name = *update.Name
		}
		if update.Price != nil {
			product.Price = *update.Price
		}
		if update.Stock != nil {
			product.Stock = *update.Stock
		}
		if update.Category != nil {
			product.Category = *update.Category
		}
		if update.Size != nil {
			product.Size = *update.Size
		}
		if update.Color != nil {
			product.Color = *update.Color
		}
		if update.Images != nil {
			product.Images = *update.Images
		}
		if update.RowStatus != nil {
			product.RowStatus = *update.RowStatus
		}
		product.UpdatedTs = time.Now().Unix()
		return product, nil
	}
	return nil, nil
}

func (d *fakeDriver) DeleteProduct(_ context.Context, delete *store.DeleteProduct) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, product := range d.products {
		if product.ID == delete.ID && product.BusinessID == delete.BusinessID {
			product.RowStatus = store.Archived
			return nil
		}
	}
	return sql.ErrNoRows
}

func (d *fakeDriver) AdjustProductStock(_ context.Context, productID, businessID int32, delta int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, product := range d.products {
		if product.ID == productID && product.BusinessID == businessID {
			product.Stock += delta
			return nil
		}
	}
	return nil
}

func (d *fakeDriver) UpsertImageFeature(_ context.Context, upsert *store.ImageFeature) (*store.ImageFeature, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, feature := range d.features {
		if feature.ProductID == upsert.ProductID && feature.ImageIndex == upsert.ImageIndex {
			upsert.ID = feature.ID
			d.features[i] = upsert
			return upsert, nil
		}
	}
	upsert.ID = d.id()
	d.features = append(d.features, upsert)
	return upsert, nil
}

func (d *fakeDriver) DeleteImageFeature(_ context.Context, delete *store.DeleteImageFeature) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.features[:0]
	for _, feature := range d.features {
		if feature.ProductID == delete.ProductID &&
			(delete.ImageIndex == nil || feature.ImageIndex == *delete.ImageIndex) {
			continue
		}
		kept = append(kept, feature)
	}
	d.features = kept
	return nil
}

func (d *fakeDriver) ListImageFeatures(_ context.Context, find *store.FindImageFeature) ([]*store.ImageFeatureRef, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.ImageFeatureRef
	for _, feature := range d.features {
		var product *store.Product
		for _, p := range d.products {
			if p.ID == feature.ProductID {
				product = p
				break
			}
		}
		if product == nil || product.BusinessID != find.BusinessID || product.RowStatus != store.Normal {
			continue
		}
		if find.ProductID != nil && feature.ProductID != *find.ProductID {
			continue
		}
		list = append(list, &store.ImageFeatureRef{
			ProductID:        feature.ProductID,
			ProductUID:       product.UID,
			BusinessID:       product.BusinessID,
			ImageIndex:       feature.ImageIndex,
			PHash:            feature.PHash,
			Histogram:        feature.Histogram,
			ProductCreatedTs: product.CreatedTs,
		})
	}
	return list, nil
}

func (d *fakeDriver) CreateSale(_ context.Context, create *store.Sale) (*store.Sale, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	create.CreatedTs = time.Now().Unix()
	for i := range create.Items {
		create.Items[i].ID = d.id()
		create.Items[i].SaleID = create.ID
	}
	d.sales = append(d.sales, create)
	return create, nil
}

func (d *fakeDriver) ListSales(_ context.Context, find *store.FindSale) ([]*store.Sale, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.Sale
	for _, sale := range d.sales {
		if find.ID != nil && sale.ID != *find.ID {
			continue
		}
		if find.UID != nil && sale.UID != *find.UID {
			continue
		}
		if find.BusinessID != nil && sale.BusinessID != *find.BusinessID {
			continue
		}
		if find.Date != nil && sale.Date != *find.Date {
			continue
		}
		list = append(list, sale)
	}
	return list, nil
}

func (d *fakeDriver) CreateSaleReturn(_ context.Context, create *store.SaleReturn) (*store.SaleReturn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	create.CreatedTs = time.Now().Unix()
	for i := range create.Items {
		create.Items[i].ID = d.id()
		create.Items[i].ReturnID = create.ID
	}
	d.returns = append(d.returns, create)
	return create, nil
}

func (d *fakeDriver) ListSaleReturns(_ context.Context, find *store.FindSaleReturn) ([]*store.SaleReturn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var list []*store.SaleReturn
	for _, saleReturn := range d.returns {
		if find.ID != nil && saleReturn.ID != *find.ID {
			continue
		}
		if find.BusinessID != nil && saleReturn.BusinessID != *find.BusinessID {
			continue
		}
		if find.SaleID != nil && saleReturn.SaleID != *find.SaleID {
			continue
		}
		list = append(list, saleReturn)
	}
	return list, nil
}
