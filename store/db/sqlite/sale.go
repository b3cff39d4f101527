package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) CreateSale(ctx context.Context, create *store.Sale) (*store.Sale, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin tx")
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO sale (uid, business_id, total, payment_method, customer_phone, sale_date, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts
	`
	if err := tx.QueryRowContext(ctx, stmt,
		create.UID,
		create.BusinessID,
		create.Total,
		create.PaymentMethod,
		create.CustomerPhone,
		create.Date,
		time.Now().Unix(),
	).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create sale")
	}

	for i := range create.Items {
		item := &create.Items[i]
		item.SaleID = create.ID
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO sale_item (sale_id, product_id, product_uid, product_name, quantity, price, image)
			VALUES (?, ?, ?, ?, ?, ?, ?)
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
			return nil, errors.Wrap(err, "failed to create sale item")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit tx")
	}
	return create, nil
}

func (d *DB) ListSales(ctx context.Context, find *store.FindSale) ([]*store.Sale, error) {
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
	if find.Date != nil {
		where, args = append(where, "sale_date = ?"), append(args, *find.Date)
	}

	query := `
		SELECT id, uid, business_id, total, payment_method, customer_phone, sale_date, created_ts
		FROM sale
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
		return nil, errors.Wrap(err, "failed to list sales")
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
			return nil, errors.Wrap(err, "failed to scan sale")
		}
		list = append(list, &sale)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := d.loadSaleItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (d *DB) loadSaleItems(ctx context.Context, sales []*store.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	byID := make(map[int32]*store.Sale, len(sales))
	placeholders, args := make([]string, 0, len(sales)), make([]any, 0, len(sales))
	for _, sale := range sales {
		byID[sale.ID] = sale
		placeholders = append(placeholders, "?")
		args = append(args, sale.ID)
	}

	query := `
		SELECT id, sale_id, product_id, product_uid, product_name, quantity, price, image
		FROM sale_item
		WHERE sale_id IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY id
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "failed to list sale items")
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
			return errors.Wrap(err, "failed to scan sale item")
		}
		if sale, ok := byID[item.SaleID]; ok {
			sale.Items = append(sale.Items, item)
		}
	}
	return rows.Err()
}
