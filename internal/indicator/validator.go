package indicator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sinag/pkg/checklist"
	pkgerrors "sinag/pkg/errors"
	"sinag/pkg/rules"
)

// SchemaValidator parses and strictly validates the two documents an
// indicator carries.
type SchemaValidator struct {
	maxDepth    int
	expressions rules.ExpressionEvaluator
}

// NewSchemaValidator returns a validator that enforces maxDepth. A nil
// expressions evaluator makes EXPRESSION rules invalid.
func NewSchemaValidator(maxDepth int, expressions rules.ExpressionEvaluator) *SchemaValidator {
	return &SchemaValidator{
		maxDepth:    maxDepth,
		expressions: expressions,
	}
}

func (v *SchemaValidator) CalculationSchema(raw json.RawMessage) (*rules.CalculationSchema, error) {
	schema, err := rules.ParseCalculationSchemaJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(rules.ValidateOptions{MaxDepth: v.maxDepth, Expressions: v.expressions}); err != nil {
		return nil, err
	}
	return schema, nil
}

func (v *SchemaValidator) ChecklistConfig(raw json.RawMessage) (*checklist.Config, error) {
	cfg, err := checklist.ParseConfigJSON(raw)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(v.maxDepth); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Check validates whichever documents are present and reports every problem
// found, one per document.
func (v *SchemaValidator) Check(schema, checklistCfg json.RawMessage) ValidateSchemasResponse {
	var issues []SchemaIssue
	if hasDocument(schema) {
		if _, err := v.CalculationSchema(schema); err != nil {
			issues = append(issues, toIssue(DocumentCalculationSchema, err))
		}
	}
	if hasDocument(checklistCfg) {
		if _, err := v.ChecklistConfig(checklistCfg); err != nil {
			issues = append(issues, toIssue(DocumentChecklistConfig, err))
		}
	}
	return ValidateSchemasResponse{Valid: len(issues) == 0, Errors: issues}
}

// Validate returns an ErrValidation carrying the first problem found.
func (v *SchemaValidator) Validate(schema, checklistCfg json.RawMessage) error {
	res := v.Check(schema, checklistCfg)
	if res.Valid {
		return nil
	}
	issue := res.Errors[0]
	return pkgerrors.ErrValidation.
		WithDetail("message", fmt.Sprintf("invalid %s: %s", issue.Document, issue.Message)).
		WithDetail("document", issue.Document).
		WithDetail("path", issue.Path)
}

func toIssue(document string, err error) SchemaIssue {
	var engineErr *rules.CalculationEngineError
	if errors.As(err, &engineErr) {
		return SchemaIssue{Document: document, Path: engineErr.Path, Message: engineErr.Message}
	}
	var configErr *checklist.ConfigError
	if errors.As(err, &configErr) {
		return SchemaIssue{Document: document, Path: configErr.Path, Message: configErr.Message}
	}
	return SchemaIssue{Document: document, Message: err.Error()}
}

func validateCreateRequest(req CreateIndicatorRequest) error {
	if strings.TrimSpace(req.Code) == "" {
		return fmt.Errorf("code is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !hasDocument(req.CalculationSchema) {
		return fmt.Errorf("calculation_schema is required")
	}
	return nil
}

func validateUpdateRequest(req UpdateIndicatorRequest) error {
	if req.Code != nil && strings.TrimSpace(*req.Code) == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if len(req.CalculationSchema) > 0 && !hasDocument(req.CalculationSchema) {
		return fmt.Errorf("calculation_schema cannot be removed")
	}
	return nil
}
