package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
	settingsDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/settings/domain"
)

// MySQLSettingsRepository implements Setting persistence for MySQL.
// Uses transaction support via database.GetTx().
type MySQLSettingsRepository struct {
	db *sql.DB
}

// Get retrieves a Setting by key. Returns ErrSettingNotFound if no value has
// ever been stored for the key.
func (m *MySQLSettingsRepository) Get(
	ctx context.Context,
	key string,
) (*settingsDomain.Setting, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + "`key`" + `, value, value_type, updated_by, updated_at
			  FROM settings WHERE ` + "`key`" + ` = ?`

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
func (m *MySQLSettingsRepository) Upsert(
	ctx context.Context,
	setting *settingsDomain.Setting,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO settings (` + "`key`" + `, value, value_type, updated_by, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  value = VALUES(value),
			  value_type = VALUES(value_type),
			  updated_by = VALUES(updated_by),
			  updated_at = VALUES(updated_at)`

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
func (m *MySQLSettingsRepository) CreateChange(
	ctx context.Context,
	change *settingsDomain.Change,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO setting_changes (id, ` + "`key`" + `, old_value, new_value, changed_by, changed_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		change.ID.String(),
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
func (m *MySQLSettingsRepository) ListChanges(
	ctx context.Context,
	key string,
	limit int,
) ([]*settingsDomain.Change, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, ` + "`key`" + `, old_value, new_value, changed_by, changed_at
			  FROM setting_changes
			  WHERE ` + "`key`" + ` = ?
			  ORDER BY changed_at DESC
			  LIMIT ?`

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

// NewMySQLSettingsRepository creates a new MySQL settings repository.
func NewMySQLSettingsRepository(db *sql.DB) *MySQLSettingsRepository {
	return &MySQLSettingsRepository{db: db}
}
