package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) CreateSale(ctx context.Context, create *store.Sale) (*store.Sale, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sale (uid, business_id, total, payment_method, customer_phone, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_ts
	`
	if err := tx.QueryRowContext(ctx, query,
		create.UID,
		create.BusinessID,
		create.Total,
		create.PaymentMethod,
		create.CustomerPhone,
		create.Date,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	for i := range create.Items {
		item := &create.Items[i]
		item.SaleID = create.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO sale_item (sale_id, product_id, product_uid, product_name, quantity, price, image)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
			item.SaleID,
			item.ProductID,
			item.ProductUID,
			item.ProductName,
			item.Quantity,
			item.Price,
			item.Image,
		).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to create sale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}
	return create, nil
}

func (db *DB) ListSales(ctx context.Context, find *store.FindSale) ([]*store.Sale, error) {
	query := `
		SELECT id, uid, business_id, total, payment_method, customer_phone, sale_date, created_ts
		FROM sale
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
	if find.Date != nil {
		query += fmt.Sprintf(" AND sale_date = $%d", argIndex)
		args = append(args, *find.Date)
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
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var list []*store.Sale
	for rows.Next() {
		var sale store.Sale
		if err := rows.Scan(
			&sale.ID,
			&sale.UID,
			&sale.BusinessID,
			&sale.Total,
			&sale.PaymentMethod,
			&sale.CustomerPhone,
			&sale.Date,
			&sale.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		list = append(list, &sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadSaleItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (db *DB) loadSaleItems(ctx context.Context, sales []*store.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byID := make(map[int32]*store.Sale, len(sales))
	ids := make([]int32, 0, len(sales))
	for _, sale := range sales {
		byID[sale.ID] = sale
		ids = append(ids, sale.ID)
	}

	rows, err := db.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, product_uid, product_name, quantity, price, image
		FROM sale_item
		WHERE sale_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list sale items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item store.SaleItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleID,
			&item.ProductID,
			&item.ProductUID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
			&item.Image,
		); err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}
		if sale, ok := byID[item.SaleID]; ok {
			sale.Items = append(sale.Items, item)
		}
	}
	return rows.Err()
}
