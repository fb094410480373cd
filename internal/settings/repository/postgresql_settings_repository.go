// Package repository implements settings persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// PostgreSQLSettingsRepository implements Setting persistence for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLSettingsRepository struct {
	db *sql.DB
}

// Get retrieves a Setting by key. Returns ErrSettingNotFound if no value has
// ever been stored for the key.
func (p *PostgreSQLSettingsRepository) Get(
	ctx context.Context,
	key string,
) (*settingsDomain.Setting, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT key, value, value_type, updated_by, updated_at
			  FROM settings WHERE key = $1`

	var setting settingsDomain.Setting
	var valueType string

	err := querier.QueryRowContext(ctx, query, key).Scan(
		&setting.Key,
		&setting.Value,
		&valueType,
		&setting.UpdatedBy,
		&setting.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, settingsDomain.ErrSettingNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get setting")
	}

	setting.ValueType = settingsDomain.ValueType(valueType)
	return &setting, nil
}

// Upsert inserts or replaces the single row for a key.
func (p *PostgreSQLSettingsRepository) Upsert(
	ctx context.Context,
	setting *settingsDomain.Setting,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO settings (key, value, value_type, updated_by, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (key) DO UPDATE
			  SET value = EXCLUDED.value,
				  value_type = EXCLUDED.value_type,
				  updated_by = EXCLUDED.updated_by,
				  updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		setting.Key,
		setting.Value,
		string(setting.ValueType),
		setting.UpdatedBy,
		setting.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert setting")
	}

	return nil
}

// CreateChange appends a history record for a setting mutation.
func (p *PostgreSQLSettingsRepository) CreateChange(
	ctx context.Context,
	change *settingsDomain.Change,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO setting_changes (id, key, old_value, new_value, changed_by, changed_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		change.ID,
		change.Key,
		change.OldValue,
		change.NewValue,
		change.ChangedBy,
		change.ChangedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create setting change")
	}

	return nil
}

// ListChanges retrieves history records for a key, newest first.
func (p *PostgreSQLSettingsRepository) ListChanges(
	ctx context.Context,
	key string,
	limit int,
) ([]*settingsDomain.Change, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, key, old_value, new_value, changed_by, changed_at
			  FROM setting_changes
			  WHERE key = $1
			  ORDER BY changed_at DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, key, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list setting changes")
	}
	defer func() {
		_ = rows.Close()
	}()

	changes := make([]*settingsDomain.Change, 0)
	for rows.Next() {
		var change settingsDomain.Change
		err := rows.Scan(
			&change.ID,
			&change.Key,
			&change.OldValue,
			&change.NewValue,
			&change.ChangedBy,
			&change.ChangedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan setting change")
		}
		changes = append(changes, &change)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate setting changes")
	}

	return changes, nil
}

// NewPostgreSQLSettingsRepository creates a new PostgreSQL settings repository.
func NewPostgreSQLSettingsRepository(db *sql.DB) *PostgreSQLSettingsRepository {
	return &PostgreSQLSettingsRepository{db: db}
}
