package indicator

import (
	"encoding/json"
	"time"
)

// Indicator is a stored SINAG indicator definition: a calculation schema over
// response data and an optional checklist configuration.
type Indicator struct {
	ID                string          `json:"id" db:"id"`
	Code              string          `json:"code" db:"code"`
	Name              string          `json:"name" db:"name"`
	Description       string          `json:"description,omitempty" db:"description"`
	CalculationSchema json.RawMessage `json:"calculation_schema" db:"calculation_schema" swaggertype:"object"`
	ChecklistConfig   json.RawMessage `json:"checklist_config,omitempty" db:"checklist_config" swaggertype:"object"`
	Enabled           bool            `json:"enabled" db:"enabled"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

type CreateIndicatorRequest struct {
	Code              string          `json:"code" binding:"required"`
	Name              string          `json:"name" binding:"required"`
	Description       string          `json:"description"`
	CalculationSchema json.RawMessage `json:"calculation_schema" binding:"required" swaggertype:"object"`
	ChecklistConfig   json.RawMessage `json:"checklist_config" swaggertype:"object"`
	Enabled           *bool           `json:"enabled"`
}

type UpdateIndicatorRequest struct {
	Code              *string         `json:"code"`
	Name              *string         `json:"name"`
	Description       *string         `json:"description"`
	CalculationSchema json.RawMessage `json:"calculation_schema" swaggertype:"object"`
	ChecklistConfig   json.RawMessage `json:"checklist_config" swaggertype:"object"`
	Enabled           *bool           `json:"enabled"`
}

// ValidateSchemasRequest is the body of the dry-run validation endpoint.
// Either document may be omitted.
type ValidateSchemasRequest struct {
	CalculationSchema json.RawMessage `json:"calculation_schema" swaggertype:"object"`
	ChecklistConfig   json.RawMessage `json:"checklist_config" swaggertype:"object"`
}

type SchemaIssue struct {
	Document string `json:"document"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
}

type ValidateSchemasResponse struct {
	Valid  bool          `json:"valid"`
	Errors []SchemaIssue `json:"errors,omitempty"`
}

const (
	DocumentCalculationSchema = "calculation_schema"
	DocumentChecklistConfig   = "checklist_config"
)

func hasDocument(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
