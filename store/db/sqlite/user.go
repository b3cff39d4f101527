package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := `
		INSERT INTO user (uid, business_id, username, password_hash, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_ts, updated_ts
	`
	now := time.Now().Unix()
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID,
		create.BusinessID,
		create.Username,
		create.PasswordHash,
		now,
		now,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to create user")
	}
	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.Username != nil {
		where, args = append(where, "username = ?"), append(args, *find.Username)
	}
	if find.BusinessID != nil {
		where, args = append(where, "business_id = ?"), append(args, *find.BusinessID)
	}

	query := `
		SELECT id, uid, business_id, username, password_hash, created_ts, updated_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
	`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	var list []*store.User
	for rows.Next() {
		var user store.User
		if err := rows.Scan(
			&user.ID,
			&user.UID,
			&user.BusinessID,
			&user.Username,
			&user.PasswordHash,
			&user.CreatedTs,
			&user.UpdatedTs,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		list = append(list, &user)
	}
	return list, rows.Err()
}
