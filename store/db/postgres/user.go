package postgres

import (
	"context"
	"fmt"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	query := `
		INSERT INTO "user" (uid, business_id, username, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_ts, updated_ts
	`
	if err := db.db.QueryRowContext(ctx, query,
		create.UID,
		create.BusinessID,
		create.Username,
		create.PasswordHash,
	).Scan(&create.ID, &create.CreatedTs, &create.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return create, nil
}

func (db *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	query := `
		SELECT id, uid, business_id, username, password_hash, created_ts, updated_ts
		FROM "user"
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
	if find.Username != nil {
		query += fmt.Sprintf(" AND username = $%d", argIndex)
		args = append(args, *find.Username)
		argIndex++
	}
	if find.BusinessID != nil {
		query += fmt.Sprintf(" AND business_id = $%d", argIndex)
		args = append(args, *find.BusinessID)
		argIndex++
	}
	query += " ORDER BY created_ts DESC"

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
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
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list = append(list, &user)
	}
	return list, rows.Err()
}
