package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) CreateSaleReturn(ctx context.Context, create *store.SaleReturn) (*store.SaleReturn, error) {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sale_return (uid, business_id, sale_id, total, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_ts
	`
	if err := tx.QueryRowContext(ctx, query,
		create.UID,
		create.BusinessID,
		create.SaleID,
		create.Total,
		create.Reason,
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create sale return: %w", err)
	}

	for i := range create.Items {
		item := &create.Items[i]
		item.ReturnID = create.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO sale_return_item (return_id, product_id, product_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`,
			item.ReturnID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		).Scan(&item.ID); err != nil {
			return nil, fmt.Errorf("failed to create sale return item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tx: %w", err)
	}
	return create, nil
}

func (db *DB) ListSaleReturns(ctx context.Context, find *store.FindSaleReturn) ([]*store.SaleReturn, error) {
	query := `
		SELECT id, uid, business_id, sale_id, total, reason, created_ts
		FROM sale_return
		WHERE 1=1
	`
	var args []interface{}
	argIndex := 1

	if find.ID != nil {
		query += fmt.Sprintf(" AND id = $%d", argIndex)
		args = append(args, *find.ID)
		argIndex++
	}
	if find.BusinessID != nil {
		query += fmt.Sprintf(" AND business_id = $%d", argIndex)
		args = append(args, *find.BusinessID)
		argIndex++
	}
	if find.SaleID != nil {
		query += fmt.Sprintf(" AND sale_id = $%d", argIndex)
		args = append(args, *find.SaleID)
		argIndex++
	}
	query += " ORDER BY created_ts DESC, id DESC"

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale returns: %w", err)
	}
	defer rows.Close()

	var list []*store.SaleReturn
	for rows.Next() {
		var saleReturn store.SaleReturn
		if err := rows.Scan(
			&saleReturn.ID,
			&saleReturn.UID,
			&saleReturn.BusinessID,
			&saleReturn.SaleID,
			&saleReturn.Total,
			&saleReturn.Reason,
			&saleReturn.CreatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sale return: %w", err)
		}
		list = append(list, &saleReturn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadSaleReturnItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (db *DB) loadSaleReturnItems(ctx context.Context, returns []*store.SaleReturn) error {
	if len(returns) == 0 {
		return nil
	}

	byID := make(map[int32]*store.SaleReturn, len(returns))
	ids := make([]int32, 0, len(returns))
	for _, saleReturn := range returns {
		byID[saleReturn.ID] = saleReturn
		ids = append(ids, saleReturn.ID)
	}

	rows, err := db.db.QueryContext(ctx, `
		SELECT id, return_id, product_id, product_name, quantity, price
		FROM sale_return_item
		WHERE return_id = ANY($1)
		ORDER BY id
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to list sale return items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item store.SaleReturnItem
		if err := rows.Scan(
			&item.ID,
			&item.ReturnID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.Price,
		); err != nil {
			return fmt.Errorf("failed to scan sale return item: %w", err)
		}
		if saleReturn, ok := byID[item.ReturnID]; ok {
			saleReturn.Items = append(saleReturn.Items, item)
		}
	}
	return rows.Err()
}
