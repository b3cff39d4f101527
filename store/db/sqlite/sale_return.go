package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) CreateSaleReturn(ctx context.Context, create *store.SaleReturn) (*store.SaleReturn, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO sale_return (uid, business_id, sale_id, total, reason, created_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts
	`
	if err := tx.QueryRowContext(ctx, stmt,
		create.UID,
		create.BusinessID,
		create.SaleID,
		create.Total,
		create.Reason,
		time.Now().Unix(),
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create sale return")
	}

	for i := range create.Items {
		item := &create.Items[i]
		item.ReturnID = create.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO sale_return_item (return_id, product_id, product_name, quantity, price)
			VALUES (?, ?, ?, ?, ?)
			RETURNING id
		`,
			item.ReturnID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
		).Scan(&item.ID); err != nil {
			return nil, errors.Wrap(err, "failed to create sale return item")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit tx")
	}
	return create, nil
}

func (d *DB) ListSaleReturns(ctx context.Context, find *store.FindSaleReturn) ([]*store.SaleReturn, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.BusinessID != nil {
		where, args = append(where, "business_id = ?"), append(args, *find.BusinessID)
	}
	if find.SaleID != nil {
		where, args = append(where, "sale_id = ?"), append(args, *find.SaleID)
	}

	query := `
		SELECT id, uid, business_id, sale_id, total, reason, created_ts
		FROM sale_return
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC, id DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sale returns")
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
			return nil, errors.Wrap(err, "failed to scan sale return")
		}
		list = append(list, &saleReturn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := d.loadSaleReturnItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) loadSaleReturnItems(ctx context.Context, returns []*store.SaleReturn) error {
	if len(returns) == 0 {
		return nil
	}

	byID := make(map[int32]*store.SaleReturn, len(returns))
	placeholders, args := make([]string, 0, len(returns)), make([]any, 0, len(returns))
	for _, saleReturn := range returns {
		byID[saleReturn.ID] = saleReturn
		placeholders = append(placeholders, "?")
		args = append(args, saleReturn.ID)
	}

	query := `
		SELECT id, return_id, product_id, product_name, quantity, price
		FROM sale_return_item
		WHERE return_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to list sale return items")
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
			return errors.Wrap(err, "failed to scan sale return item")
		}
		if saleReturn, ok := byID[item.ReturnID]; ok {
			saleReturn.Items = append(saleReturn.Items, item)
		}
	}
	return rows.Err()
}
