package indicator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	pkgerrors "sinag/pkg/errors"
	"sinag/pkg/metrics"
)

type Repository interface {
	CreateIndicator(ctx context.Context, ind *Indicator) error
	ListIndicators(ctx context.Context, enabledOnly bool) ([]Indicator, error)
	GetIndicator(ctx context.Context, id string) (*Indicator, error)
	GetIndicatorByCode(ctx context.Context, code string) (*Indicator, error)
	UpdateIndicator(ctx context.Context, ind *Indicator) error
	DeleteIndicator(ctx context.Context, id string) error
}

type PostgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &PostgresRepository{db: db}
}

const indicatorColumns = `id, code, name, description, calculation_schema, checklist_config, enabled, created_at, updated_at`

func (r *PostgresRepository) CreateIndicator(ctx context.Context, ind *Indicator) error {
	if ind.ID == "" {
		ind.ID = uuid.New().String()
	}
	now := time.Now()
	ind.CreatedAt = now
	ind.UpdatedAt = now

	query := `
		INSERT INTO indicators (` + indicatorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	start := time.Now()
	_, err := r.db.ExecContext(ctx, query,
		ind.ID, ind.Code, ind.Name, ind.Description,
		[]byte(ind.CalculationSchema), nullableJSON(ind.ChecklistConfig),
		ind.Enabled, ind.CreatedAt, ind.UpdatedAt,
	)
	observe("insert", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.ErrConflict.WithCause(err).WithDetail("message", fmt.Sprintf("indicator with code '%s' already exists", ind.Code))
		}
		return fmt.Errorf("failed to create indicator: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetIndicator(ctx context.Context, id string) (*Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM indicators WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetIndicatorByCode(ctx context.Context, code string) (*Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM indicators WHERE code = $1`
	return r.getOne(ctx, query, code)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*Indicator, error) {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, arg)

	ind, err := scanIndicator(row)
	observe("select", start, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkgerrors.ErrNotFound.WithCause(err).WithDetail("id", arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get indicator: %w", err)
	}

	return ind, nil
}

func (r *PostgresRepository) ListIndicators(ctx context.Context, enabledOnly bool) ([]Indicator, error) {
	query := `SELECT ` + indicatorColumns + ` FROM indicators`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	query += ` ORDER BY code ASC`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	observe("select", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list indicators: %w", err)
	}
	defer rows.Close()

	var indicators []Indicator
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		ind, err := scanIndicator(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		indicators = append(indicators, *ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate indicators: %w", err)
	}

	return indicators, nil
}

func (r *PostgresRepository) UpdateIndicator(ctx context.Context, ind *Indicator) error {
	ind.UpdatedAt = time.Now()

	query := `
		UPDATE indicators
		SET code = $1, name = $2, description = $3, calculation_schema = $4,
		    checklist_config = $5, enabled = $6, updated_at = $7
		WHERE id = $8
	`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query,
		ind.Code, ind.Name, ind.Description,
		[]byte(ind.CalculationSchema), nullableJSON(ind.ChecklistConfig),
		ind.Enabled, ind.UpdatedAt, ind.ID,
	)
	observe("update", start, err)
	if err != nil {
		if isUniqueViolation(err) {
			return pkgerrors.ErrConflict.WithCause(err).WithDetail("message", fmt.Sprintf("indicator with code '%s' already exists", ind.Code))
		}
		return fmt.Errorf("failed to update indicator: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrNotFound.WithDetail("id", ind.ID)
	}

	return nil
}

func (r *PostgresRepository) DeleteIndicator(ctx context.Context, id string) error {
	query := `DELETE FROM indicators WHERE id = $1`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, id)
	observe("delete", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete indicator: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIndicator(row rowScanner) (*Indicator, error) {
	var ind Indicator
	var description sql.NullString
	var schema, checklistCfg []byte

	if err := row.Scan(
		&ind.ID, &ind.Code, &ind.Name, &description,
		&schema, &checklistCfg, &ind.Enabled, &ind.CreatedAt, &ind.UpdatedAt,
	); err != nil {
		return nil, err
	}

	ind.Description = description.String
	ind.CalculationSchema = schema
	if len(checklistCfg) > 0 {
		ind.ChecklistConfig = checklistCfg
	}
	return &ind, nil
}

func nullableJSON(raw []byte) interface{} {
	if !hasDocument(raw) {
		return nil
	}
	return raw
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "unique constraint")
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		status = "error"
	}
	metrics.IncDatabaseQuery("indicators", "postgres", operation, status)
	metrics.ObserveDatabaseQueryDuration("indicators", "postgres", operation, time.Since(start))
}
