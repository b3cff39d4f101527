package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) CreateProduct(ctx context.Context, create *store.Product) (*store.Product, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO product (uid, business_id, name, price, stock, category, size, color, row_status, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts, updated_ts
	`
	now := time.Now().Unix()
	if err := tx.QueryRowContext(ctx, stmt,
		create.UID,
		create.BusinessID,
		create.Name,
		create.Price,
		create.Stock,
		create.Category,
		create.Size,
		create.Color,
		create.RowStatus,
		now,
		now,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	if err := replaceProductImages(ctx, tx, create.ID, create.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit tx")
	}
	return create, nil
}

func replaceProductImages(ctx context.Context, tx *sql.Tx, productID int32, images []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_image WHERE product_id = ?", productID); err != nil {
		return errors.Wrap(err, "failed to clear product images")
	}
	for index, data := range images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_image (product_id, image_index, data) VALUES (?, ?, ?)",
			productID, index, data,
		); err != nil {
			return errors.Wrap(err, "failed to insert product image")
		}
	}
	return nil
}

func (d *DB) ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.BusinessID != nil {
		where, args = append(where, "business_id = ?"), append(args, *find.BusinessID)
	}
	if find.RowStatus != nil {
		where, args = append(where, "row_status = ?"), append(args, *find.RowStatus)
	}

	query := `
		SELECT id, uid, business_id, name, price, stock, category, size, color, row_status, created_ts, updated_ts
		FROM product
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC
	`
	if find.Limit != nil {
		query += " LIMIT ?"
		args = append(args, *find.Limit)
		if find.Offset != nil {
			query += " OFFSET ?"
			args = append(args, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}
	defer rows.Close()

	var list []*store.Product
	for rows.Next() {
		var product store.Product
		if err := rows.Scan(
			&product.ID,
			&product.UID,
			&product.BusinessID,
			&product.Name,
			&product.Price,
			&product.Stock,
			&product.Category,
			&product.Size,
			&product.Color,
			&product.RowStatus,
			&product.CreatedTs,
			&product.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		list = append(list, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := d.loadProductImages(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) loadProductImages(ctx context.Context, products []*store.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[int32]*store.Product, len(products))
	placeholders, args := make([]string, 0, len(products)), make([]any, 0, len(products))
	for _, product := range products {
		byID[product.ID] = product
		placeholders = append(placeholders, "?")
		args = append(args, product.ID)
	}

	query := `
		SELECT product_id, image_index, data
		FROM product_image
		WHERE product_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY product_id, image_index
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to list product images")
	}
	defer rows.Close()

	for rows.Next() {
		var productID int32
		var index int
		var data string
		if err := rows.Scan(&productID, &index, &data); err != nil {
			return errors.Wrap(err, "failed to scan product image")
		}
		if product, ok := byID[productID]; ok {
			product.Images = append(product.Images, data)
		}
	}
	return rows.Err()
}

func (d *DB) UpdateProduct(ctx context.Context, update *store.UpdateProduct) (*store.Product, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	set, args := []string{}, []any{}
	if update.Name != nil {
		set, args = append(set, "name = ?"), append(args, *update.Name)
	}
	if update.Price != nil {
		set, args = append(set, "price = ?"), append(args, *update.Price)
	}
	if update.Stock != nil {
		set, args = append(set, "stock = ?"), append(args, *update.Stock)
	}
	if update.Category != nil {
		set, args = append(set, "category = ?"), append(args, *update.Category)
	}
	if update.Size != nil {
		set, args = append(set, "size = ?"), append(args, *update.Size)
	}
	if update.Color != nil {
		set, args = append(set, "color = ?"), append(args, *update.Color)
	}
	if update.RowStatus != nil {
		set, args = append(set, "row_status = ?"), append(args, *update.RowStatus)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.BusinessID)

	stmt := `
		UPDATE product
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND business_id = ?
		RETURNING id, uid, business_id, name, price, stock, category, size, color, row_status, created_ts, updated_ts
	`
	var product store.Product
	err = tx.QueryRowContext(ctx, stmt, args...).Scan(
		&product.ID,
		&product.UID,
		&product.BusinessID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.Size,
		&product.Color,
		&product.RowStatus,
		&product.CreatedTs,
		&product.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update product")
	}

	if update.Images != nil {
		if err := replaceProductImages(ctx, tx, product.ID, *update.Images); err != nil {
			return nil, err
		}
		product.Images = *update.Images
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit tx")
	}

	if update.Images == nil {
		if err := d.loadProductImages(ctx, []*store.Product{&product}); err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func (d *DB) DeleteProduct(ctx context.Context, delete *store.DeleteProduct) error {
	result, err := d.db.ExecContext(ctx,
		"UPDATE product SET row_status = ?, updated_ts = ? WHERE id = ? AND business_id = ?",
		store.Archived, time.Now().Unix(), delete.ID, delete.BusinessID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to delete product")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get affected rows")
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (d *DB) AdjustProductStock(ctx context.Context, productID, businessID int32, delta int) error {
	if _, err := d.db.ExecContext(ctx,
		"UPDATE product SET stock = stock + ?, updated_ts = ? WHERE id = ? AND business_id = ?",
		delta, time.Now().Unix(), productID, businessID,
	); err != nil {
		return errors.Wrap(err, "failed to adjust product stock")
	}
	return nil
}
