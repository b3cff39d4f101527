package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nischalvasista13-maker/Snap-and-sell/store"
)

func (d *DB) UpsertShopSetting(ctx context.Context, upsert *store.ShopSetting) (*store.ShopSetting, error) {
	stmt := `
		INSERT INTO shop_setting (business_id, shop_name, owner_name, upi_id, setup_completed, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (business_id) DO UPDATE SET
			shop_name = excluded.shop_name,
			owner_name = excluded.owner_name,
			upi_id = excluded.upi_id,
			updated_ts = excluded.updated_ts
		RETURNING id, setup_completed, created_ts, updated_ts
	`
	now := time.Now().Unix()
	setting := *upsert
	if err := d.db.QueryRowContext(ctx, stmt,
		upsert.BusinessID,
		upsert.ShopName,
		upsert.OwnerName,
		upsert.UpiID,
		upsert.SetupCompleted,
		now,
		now,
	).Scan(&setting.ID, &setting.SetupCompleted, &setting.CreatedTs, &setting.UpdatedTs); err != nil {
		return nil, errors.Wrap(err, "failed to upsert shop setting")
	}
	return &setting, nil
}

func (d *DB) ListShopSettings(ctx context.Context, find *store.FindShopSetting) ([]*store.ShopSetting, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.BusinessID != nil {
		where, args = append(where, "business_id = ?"), append(args, *find.BusinessID)
	}

	query := `
		SELECT id, business_id, shop_name, owner_name, upi_id, setup_completed, created_ts, updated_ts
		FROM shop_setting
		WHERE ` + strings.Join(where, " AND ")
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shop settings")
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
			return nil, errors.Wrap(err, "failed to scan shop setting")
		}
		list = append(list, &setting)
	}
	return list, rows.Err()
}

func (d *DB) UpdateShopSetting(ctx context.Context, update *store.UpdateShopSetting) (*store.ShopSetting, error) {
	set, args := []string{}, []any{}
	if update.ShopName != nil {
		set, args = append(set, "shop_name = ?"), append(args, *update.ShopName)
	}
	if update.OwnerName != nil {
		set, args = append(set, "owner_name = ?"), append(args, *update.OwnerName)
	}
	if update.UpiID != nil {
		set, args = append(set, "upi_id = ?"), append(args, *update.UpiID)
	}
	set, args = append(set, "updated_ts = ?"), append(args, time.Now().Unix())
	args = append(args, update.ID, update.BusinessID)

	stmt := `
		UPDATE shop_setting
		SET ` + strings.Join(set, ", ") + `
		WHERE id = ? AND business_id = ?
		RETURNING id, business_id, shop_name, owner_name, upi_id, setup_completed, created_ts, updated_ts
	`
	var setting store.ShopSetting
	err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
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
		return nil, errors.Wrap(err, "failed to update shop setting")
	}
	return &setting, nil
}
