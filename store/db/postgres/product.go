package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) CreateProduct(ctx context.Context, create *store.Product) (*store.Product, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO product (uid, business_id, name, price, stock, category, size, color, row_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_ts, updated_ts
	`
	if err := tx.QueryRowContext(ctx, query,
		create.UID,
		create.BusinessID,
		create.Name,
		create.Price,
		create.Stock,
		create.Category,
		create.Size,
		create.Color,
		create.RowStatus,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := replaceProductImages(ctx, tx, create.ID, create.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}
	return create, nil
}

func replaceProductImages(ctx context.Context, tx *sql.Tx, productID int32, images []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM product_image WHERE product_id = $1", productID); err != nil {
		return fmt.Errorf("failed to clear product images: %w", err)
	}
	for index, data := range images {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO product_image (product_id, image_index, data) VALUES ($1, $2, $3)",
			productID, index, data,
		); err != nil {
			return fmt.Errorf("failed to insert product image: %w", err)
		}
	}
	return nil
}

func (db *DB) ListProducts(ctx context.Context, find *store.FindProduct) ([]*store.Product, error) {
	query := `
		SELECT id, uid, business_id, name, price, stock, category, size, color, row_status, created_ts, updated_ts
		FROM product
		WHERE 1=1
	`
	var args []interface{}
	argIndex := 1

	if find.ID != nil {
		query += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, *find.ID)
		argIndex++
	}
	if find.UID != nil {
		query += fmt.Sprintf(" AND uid = $%d", argIndex)
		args = append(args, *find.UID)
		argIndex++
	}
	if find.BusinessID != nil {
		query += fmt.Sprintf(" AND business_id = $%d", argIndex)
		args = append(args, *find.BusinessID)
		argIndex++
	}
	if find.RowStatus != nil {
		query += fmt.Sprintf(" AND row_status = $%d", argIndex)
		args = append(args, *find.RowStatus)
		argIndex++
	}
	query += " ORDER BY created_ts DESC, id DESC"
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, *find.Limit)
		argIndex++
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, *find.Offset)
			argIndex++
		}
	}

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
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
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		list = append(list, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadProductImages(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (db *DB) loadProductImages(ctx context.Context, products []*store.Product) error {
	if len(products) == 0 {
		return nil
	}

	byID := make(map[int32]*store.Product, len(products))
	ids := make([]int32, 0, len(products))
	for _, product := range products {
		byID[product.ID] = product
		ids = append(ids, product.ID)
	}

	rows, err := db.db.QueryContext(ctx, `
		SELECT product_id, image_index, data
		FROM product_image
		WHERE product_id = ANY($1)
		ORDER BY product_id, image_index
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int32
		var index int
		var data string
		if err := rows.Scan(&productID, &index, &data); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		if product, ok := byID[productID]; ok {
			product.Images = append(product.Images, data)
		}
	}
	return rows.Err()
}

func (db *DB) UpdateProduct(ctx context.Context, update *store.UpdateProduct) (*store.Product, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	var set []string
	var args []interface{}
	argIndex := 1

	if update.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *update.Name)
		argIndex++
	}
	if update.Price != nil {
		set = append(set, fmt.Sprintf("price = $%d", argIndex))
		args = append(args, *update.Price)
		argIndex++
	}
	if update.Stock != nil {
		set = append(set, fmt.Sprintf("stock = $%d", argIndex))
		args = append(args, *update.Stock)
		argIndex++
	}
	if update.Category != nil {
		set = append(set, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *update.Category)
		argIndex++
	}
	if update.Size != nil {
		set = append(set, fmt.Sprintf("size = $%d", argIndex))
		args = append(args, *update.Size)
		argIndex++
	}
	if update.Color != nil {
		set = append(set, fmt.Sprintf("color = $%d", argIndex))
		args = append(args, *update.Color)
		argIndex++
	}
	if update.RowStatus != nil {
		set = append(set, fmt.Sprintf("row_status = $%d", argIndex))
		args = append(args, *update.RowStatus)
		argIndex++
	}
	set = append(set, "updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT")

	query := fmt.Sprintf(`
		UPDATE product
		SET %s
		WHERE id = $%d AND business_id = $%d
		RETURNING id, uid, business_id, name, price, stock, category, size, color, row_status, created_ts, updated_ts
	`, strings.Join(set, ", "), argIndex, argIndex+1)
	args = append(args, update.ID, update.BusinessID)

	var product store.Product
	err = tx.QueryRowContext(ctx, query, args...).Scan(
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
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if update.Images != nil {
		if err := replaceProductImages(ctx, tx, product.ID, *update.Images); err != nil {
			return nil, err
		}
		product.Images = *update.Images
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}

	if update.Images == nil {
		if err := db.loadProductImages(ctx, []*store.Product{&product}); err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func (db *DB) DeleteProduct(ctx context.Context, delete *store.DeleteProduct) error {
	result, err := db.db.ExecContext(ctx, `
		UPDATE product
		SET row_status = $1, updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		WHERE id = $2 AND business_id = $3
	`, store.Archived, delete.ID, delete.BusinessID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (db *DB) AdjustProductStock(ctx context.Context, productID, businessID int32, delta int) error {
	if _, err := db.db.ExecContext(ctx, `
		UPDATE product
		SET stock = stock + $1, updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		WHERE id = $2 AND business_id = $3
	`, delta, productID, businessID); err != nil {
		return fmt.Errorf("failed to adjust product stock: %w", err)
	}
	return nil
}
