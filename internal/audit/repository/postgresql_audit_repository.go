// Package repository implements audit log persistence for PostgreSQL and MySQL.
// Header maps and metadata are stored as JSON text columns.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	auditDomain "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/audit/domain"
	"github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/database"
	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// marshalJSON serializes audit payloads, mapping nil to an empty object so
// columns stay non-null.
func marshalJSON(v any) (string, error) {
	if v == nil {
		return "{}", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal audit payload")
	}
	return string(data), nil
}

// PostgreSQLAuditRepository implements audit persistence for PostgreSQL.
type PostgreSQLAuditRepository struct {
	db *sql.DB
}

// CreateAccess appends one access log row.
func (p *PostgreSQLAuditRepository) CreateAccess(
	ctx context.Context,
	entry *auditDomain.AccessEntry,
) error {
	querier := database.GetTx(ctx, p.db)

	rawHeaders, err := marshalJSON(entry.RawHeaders)
	if err != nil {
		return err
	}
	metadata, err := marshalJSON(entry.Metadata)
	if err != nil {
		return err
	}

	query := `INSERT INTO access_logs
			  (id, endpoint, action, resolved_ip, raw_headers, classification, session_id, metadata, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Endpoint,
		entry.Action,
		entry.ResolvedIP,
		rawHeaders,
		entry.Classification,
		entry.SessionID,
		metadata,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log")
	}

	return nil
}

// CreateViolation appends one violation row.
func (p *PostgreSQLAuditRepository) CreateViolation(
	ctx context.Context,
	violation *auditDomain.Violation,
) error {
	querier := database.GetTx(ctx, p.db)

	details, err := marshalJSON(violation.Details)
	if err != nil {
		return err
	}

	query := `INSERT INTO violations (id, type, ip, details, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err = querier.ExecContext(
		ctx,
		query,
		violation.ID,
		violation.Type,
		violation.IP,
		details,
		violation.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create violation")
	}

	return nil
}

// ListAccess retrieves access log rows, newest first.
func (p *PostgreSQLAuditRepository) ListAccess(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AccessEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, endpoint, action, resolved_ip, raw_headers, classification, session_id, metadata, created_at
			  FROM access_logs
			  ORDER BY created_at DESC
			  LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*auditDomain.AccessEntry, 0)
	for rows.Next() {
		var entry auditDomain.AccessEntry
		var rawHeaders, metadata string
		err := rows.Scan(
			&entry.ID,
			&entry.Endpoint,
			&entry.Action,
			&entry.ResolvedIP,
			&rawHeaders,
			&entry.Classification,
			&entry.SessionID,
			&metadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log")
		}
		if err := json.Unmarshal([]byte(rawHeaders), &entry.RawHeaders); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal raw headers")
		}
		if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal metadata")
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access logs")
	}

	return entries, nil
}

// ListViolations retrieves violation rows, newest first.
func (p *PostgreSQLAuditRepository) ListViolations(
	ctx context.Context,
	limit int,
) ([]*auditDomain.Violation, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, type, ip, details, created_at
			  FROM violations
			  ORDER BY created_at DESC
			  LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list violations")
	}
	defer func() {
		_ = rows.Close()
	}()

	violations := make([]*auditDomain.Violation, 0)
	for rows.Next() {
		var violation auditDomain.Violation
		var details string
		err := rows.Scan(
			&violation.ID,
			&violation.Type,
			&violation.IP,
			&details,
			&violation.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan violation")
		}
		if err := json.Unmarshal([]byte(details), &violation.Details); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal violation details")
		}
		violations = append(violations, &violation)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate violations")
	}

	return violations, nil
}

// CountBefore counts audit rows older than the cutoff across both tables.
func (p *PostgreSQLAuditRepository) CountBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var total int64
	for _, query := range []string{
		`SELECT COUNT(*) FROM access_logs WHERE created_at < $1`,
		`SELECT COUNT(*) FROM violations WHERE created_at < $1`,
	} {
		var count int64
		if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
			return total, apperrors.Wrap(err, "failed to count audit rows")
		}
		total += count
	}

	return total, nil
}

// DeleteBefore removes audit rows older than the cutoff from both tables.
func (p *PostgreSQLAuditRepository) DeleteBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var total int64
	for _, query := range []string{
		`DELETE FROM access_logs WHERE created_at < $1`,
		`DELETE FROM violations WHERE created_at < $1`,
	} {
		result, err := querier.ExecContext(ctx, query, cutoff)
		if err != nil {
			return total, apperrors.Wrap(err, "failed to delete audit rows")
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, apperrors.Wrap(err, "failed to read delete result")
		}
		total += affected
	}

	return total, nil
}

// NewPostgreSQLAuditRepository creates a new PostgreSQL audit repository.
func NewPostgreSQLAuditRepository(db *sql.DB) *PostgreSQLAuditRepository {
	return &PostgreSQLAuditRepository{db: db}
}
