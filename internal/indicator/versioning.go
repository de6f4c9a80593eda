package indicator

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type IndicatorVersion struct {
	ID            string          `json:"id"`
	IndicatorID   string          `json:"indicator_id"`
	IndicatorData json.RawMessage `json:"indicator_data" swaggertype:"object"`
	Version       int             `json:"version"`
	ChangedBy     string          `json:"changed_by,omitempty"`
	ChangeReason  string          `json:"change_reason,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type AuditLog struct {
	ID           string                 `json:"id"`
	IndicatorID  *string                `json:"indicator_id,omitempty"`
	Action       string                 `json:"action"`
	OldValue     map[string]interface{} `json:"old_value,omitempty"`
	NewValue     map[string]interface{} `json:"new_value,omitempty"`
	ChangedBy    string                 `json:"changed_by"`
	ChangeReason string                 `json:"change_reason,omitempty"`
	IPAddress    string                 `json:"ip_address,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

type VersioningRepository interface {
	CreateVersion(ctx context.Context, version *IndicatorVersion) error
	GetVersions(ctx context.Context, indicatorID string) ([]IndicatorVersion, error)
	GetVersion(ctx context.Context, indicatorID string, version int) (*IndicatorVersion, error)
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	GetAuditLogs(ctx context.Context, indicatorID *string, limit int) ([]AuditLog, error)
	GetNextVersion(ctx context.Context, indicatorID string) (int, error)
}

type postgresVersioningRepository struct {
	db *sql.DB
}

func NewVersioningRepository(db *sql.DB) VersioningRepository {
	return &postgresVersioningRepository{db: db}
}

func (r *postgresVersioningRepository) CreateVersion(ctx context.Context, version *IndicatorVersion) error {
	if version.ID == "" {
		version.ID = uuid.New().String()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO indicator_versions (id, indicator_id, indicator_data, version, changed_by, change_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		version.ID, version.IndicatorID, []byte(version.IndicatorData),
		version.Version, version.ChangedBy, version.ChangeReason, version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create indicator version: %w", err)
	}

	return nil
}

func (r *postgresVersioningRepository) GetVersions(ctx context.Context, indicatorID string) ([]IndicatorVersion, error) {
	query := `
		SELECT id, indicator_id, indicator_data, version, changed_by, change_reason, created_at
		FROM indicator_versions
		WHERE indicator_id = $1
		ORDER BY version DESC
	`

	rows, err := r.db.QueryContext(ctx, query, indicatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query versions: %w", err)
	}
	defer rows.Close()

	var versions []IndicatorVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		versions = append(versions, *v)
	}

	return versions, rows.Err()
}

func (r *postgresVersioningRepository) GetVersion(ctx context.Context, indicatorID string, version int) (*IndicatorVersion, error) {
	query := `
		SELECT id, indicator_id, indicator_data, version, changed_by, change_reason, created_at
		FROM indicator_versions
		WHERE indicator_id = $1 AND version = $2
	`

	v, err := scanVersion(r.db.QueryRowContext(ctx, query, indicatorID, version))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	return v, nil
}

func scanVersion(row rowScanner) (*IndicatorVersion, error) {
	var v IndicatorVersion
	var data []byte
	var changedBy, changeReason sql.NullString
	if err := row.Scan(
		&v.ID, &v.IndicatorID, &data,
		&v.Version, &changedBy, &changeReason, &v.CreatedAt,
	); err != nil {
		return nil, err
	}
	v.IndicatorData = data
	v.ChangedBy = changedBy.String
	v.ChangeReason = changeReason.String
	return &v, nil
}

func (r *postgresVersioningRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}

	var oldValueJSON, newValueJSON []byte
	var err error

	if log.OldValue != nil {
		oldValueJSON, err = json.Marshal(log.OldValue)
		if err != nil {
			return fmt.Errorf("failed to marshal old value: %w", err)
		}
	}

	if log.NewValue != nil {
		newValueJSON, err = json.Marshal(log.NewValue)
		if err != nil {
			return fmt.Errorf("failed to marshal new value: %w", err)
		}
	}

	query := `
		INSERT INTO indicator_audit_logs (id, indicator_id, action, old_value, new_value, changed_by, change_reason, ip_address, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		log.ID, log.IndicatorID, log.Action,
		oldValueJSON, newValueJSON, log.ChangedBy, log.ChangeReason, log.IPAddress, log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

func (r *postgresVersioningRepository) GetAuditLogs(ctx context.Context, indicatorID *string, limit int) ([]AuditLog, error) {
	var query string
	var args []interface{}

	if indicatorID != nil {
		query = `
			SELECT id, indicator_id, action, old_value, new_value, changed_by, change_reason, ip_address, timestamp
			FROM indicator_audit_logs
			WHERE indicator_id = $1
			ORDER BY timestamp DESC
			LIMIT $2
		`
		args = []interface{}{*indicatorID, limit}
	} else {
		query = `
			SELECT id, indicator_id, action, old_value, new_value, changed_by, change_reason, ip_address, timestamp
			FROM indicator_audit_logs
			ORDER BY timestamp DESC
			LIMIT $1
		`
		args = []interface{}{limit}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []AuditLog
	for rows.Next() {
		var log AuditLog
		var oldValueJSON, newValueJSON []byte
		var indicatorIDPtr *string
		var changeReason, ipAddress sql.NullString

		if err := rows.Scan(
			&log.ID, &indicatorIDPtr, &log.Action,
			&oldValueJSON, &newValueJSON, &log.ChangedBy, &changeReason, &ipAddress, &log.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}

		log.IndicatorID = indicatorIDPtr
		log.ChangeReason = changeReason.String
		log.IPAddress = ipAddress.String

		if len(oldValueJSON) > 0 {
			if err := json.Unmarshal(oldValueJSON, &log.OldValue); err != nil {
				return nil, fmt.Errorf("failed to unmarshal old value: %w", err)
			}
		}

		if len(newValueJSON) > 0 {
			if err := json.Unmarshal(newValueJSON, &log.NewValue); err != nil {
				return nil, fmt.Errorf("failed to unmarshal new value: %w", err)
			}
		}

		logs = append(logs, log)
	}

	return logs, rows.Err()
}

func (r *postgresVersioningRepository) GetNextVersion(ctx context.Context, indicatorID string) (int, error) {
	query := `SELECT COALESCE(MAX(version), 0) + 1 FROM indicator_versions WHERE indicator_id = $1`

	var version int
	if err := r.db.QueryRowContext(ctx, query, indicatorID).Scan(&version); err != nil {
		return 1, nil
	}

	return version, nil
}

func indicatorToMap(ind *Indicator) (map[string]interface{}, error) {
	data, err := json.Marshal(ind)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}
