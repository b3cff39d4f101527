package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (db *DB) UpsertShopSetting(ctx context.Context, upsert *store.ShopSetting) (*store.ShopSetting, error) {
	query := `
		INSERT INTO shop_setting (business_id, shop_name, owner_name, upi_id, setup_completed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (business_id) DO UPDATE SET
			shop_name = EXCLUDED.shop_name,
			owner_name = EXCLUDED.owner_name,
			upi_id = EXCLUDED.upi_id,
			updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT
		RETURNING id, setup_completed, created_ts, updated_ts
	`
	setting := *upsert
	if err := db.db.QueryRowContext(ctx, query,
		upsert.BusinessID,
		upsert.ShopName,
		upsert.OwnerName,
		upsert.UpiID,
		upsert.SetupCompleted,
	).Scan(&setting.ID, &setting.SetupCompleted, &setting.CreatedTs, &setting.UpdatedTs); err != nil {
		return nil, fmt.Errorf("failed to upsert shop setting: %w", err)
	}
	return &setting, nil
}

func (db *DB) ListShopSettings(ctx context.Context, find *store.FindShopSetting) ([]*store.ShopSetting, error) {
	query := `
		SELECT id, business_id, shop_name, owner_name, upi_id, setup_completed, created_ts, updated_ts
		FROM shop_setting
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

	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop settings: %w", err)
	}
	defer rows.Close()

	var list []*store.ShopSetting
	for rows.Next() {
		var setting store.ShopSetting
		if err := rows.Scan(
			&setting.ID,
			&setting.BusinessID,
			&setting.ShopName,
			&setting.OwnerName,
			&setting.UpiID,
			&setting.SetupCompleted,
			&setting.CreatedTs,
			&setting.UpdatedTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan shop setting: %w", err)
		}
		list = append(list, &setting)
	}
	return list, rows.Err()
}

func (db *DB) UpdateShopSetting(ctx context.Context, update *store.UpdateShopSetting) (*store.ShopSetting, error) {
	var set []string
	var args []interface{}
	argIndex := 1

	if update.ShopName != nil {
		set = append(set, fmt.Sprintf("shop_name = $%d", argIndex))
		args = append(args, *update.ShopName)
		argIndex++
	}
	if update.OwnerName != nil {
		set = append(set, fmt.Sprintf("owner_name = $%d", argIndex))
		args = append(args, *update.OwnerName)
		argIndex++
	}
	if update.UpiID != nil {
		set = append(set, fmt.Sprintf("upi_id = $%d", argIndex))
		args = append(args, *update.UpiID)
		argIndex++
	}
	set = append(set, "updated_ts = EXTRACT(EPOCH FROM NOW())::BIGINT")

	query := fmt.Sprintf(`
		UPDATE shop_setting
		SET %s
		WHERE id = $%d AND business_id = $%d
		RETURNING id, business_id, shop_name, owner_name, upi_id, setup_completed, created_ts, updated_ts
	`, strings.Join(set, ", "), argIndex, argIndex+1)
	args = append(args, update.ID, update.BusinessID)

	var setting store.ShopSetting
	err := db.db.QueryRowContext(ctx, query, args...).Scan(
		&setting.ID,
		&setting.BusinessID,
		&setting.ShopName,
		&setting.OwnerName,
		&setting.UpiID,
		&setting.SetupCompleted,
		&setting.CreatedTs,
		&setting.UpdatedTs,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update shop setting: %w", err)
	}
	return &setting, nil
}
