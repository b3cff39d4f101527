package postgres

import (
	"context"
	"fmt"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) CreateBusiness(ctx context.Context, create *store.Business) (*store.Business, error) {
	query := `
		INSERT INTO business (uid, name)
		VALUES ($1, $2)
		RETURNING id, created_ts, updated_ts
	`
	if err := db.db.QueryRowContext(ctx, query,
		create.UID,
		create.Name,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return create, nil
}

func (db *DB) ListBusinesses(ctx context.Context, find *store.FindBusiness) ([]*store.Business, error) {
	query := `
		SELECT id, uid, name, created_ts, updated_ts
		FROM business
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
	query += " ORDER BY created_ts DESC"

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list businesses: %w", err)
	}
	defer rows.Close()

	var list []*store.Business
	for rows.Next() {
		var business store.Business
		if err := rows.Scan(
			&business.ID,
			&business.UID,
			&business.Name,
			&business.CreatedTs,
			&business.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan business: %w", err)
		}
		list = append(list, &business)
	}
	return list, rows.Err()
}
