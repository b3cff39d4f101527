package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) CreateBusiness(ctx context.Context, create *store.Business) (*store.Business, error) {
	stmt := `
		INSERT INTO business (uid, name, created_ts, updated_ts)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_ts, updated_ts
	`
	now := time.Now().Unix()
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.Name,
		now,
		now,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create business")
	}
	return create, nil
}

func (d *DB) ListBusinesses(ctx context.Context, find *store.FindBusiness) ([]*store.Business, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}

	query := `
		SELECT id, uid, name, created_ts, updated_ts
		FROM business
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list businesses")
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
			return nil, errors.Wrap(err, "failed to scan business")
		}
		list = append(list, &business)
	}
	return list, rows.Err()
}
