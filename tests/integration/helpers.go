package integration

import (
	"encoding/json"
	"time"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/indicator"
	"sinag/internal/logger"
)

const (
	containerStartupTimeout = 60
	eventuallyTimeout       = 30 * time.Second
	eventuallyTick          = 200 * time.Millisecond
)

const budgetSchema = `{
	"condition_groups": [
		{"operator": "AND", "rules": [
			{"rule_type": "MATCH_VALUE", "field_id": "ordinance_status", "operator": "==", "expected_value": "approved"},
			{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "utilization_rate", "operator": ">=", "threshold": 75}
		]}
	]
}`

const budgetChecklist = `{
	"validation_mode": "strict",
	"items": [
		{"id": "signed", "type": "checkbox", "required": true},
		{"id": "budget", "type": "currency_input", "min_value": 100000, "threshold": 500000}
	]
}`

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

func createTestValidator() *indicator.SchemaValidator {
	return indicator.NewSchemaValidator(constants.DefaultMaxNestingDepth, nil)
}

func createTestIdempotencyConfig() config.IdempotencyConfig {
	return config.IdempotencyConfig{
		Enabled:       true,
		HashAlgorithm: "sha256",
		TTLSeconds:    300,
		OnRedisError:  constants.FallbackAllow,
	}
}

func createTestIndicator(code string, enabled bool) *indicator.Indicator {
	return &indicator.Indicator{
		Code:              code,
		Name:              "Indicator " + code,
		Description:       "Budget utilization",
		CalculationSchema: json.RawMessage(budgetSchema),
		ChecklistConfig:   json.RawMessage(budgetChecklist),
		Enabled:           enabled,
	}
}

func createTestIndicatorRequest(code string) indicator.CreateIndicatorRequest {
	return indicator.CreateIndicatorRequest{
		Code:              code,
		Name:              "Indicator " + code,
		CalculationSchema: json.RawMessage(budgetSchema),
		ChecklistConfig:   json.RawMessage(budgetChecklist),
	}
}

func compliantSubmission(submissionID, code string) map[string]interface{} {
	return map[string]interface{}{
		"submission_id":  submissionID,
		"indicator_code": code,
		"response_data": map[string]interface{}{
			"ordinance_status": "approved",
			"utilization_rate": 80,
		},
		"checklist_data": map[string]interface{}{
			"signed": true,
			"budget": 750000,
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}
