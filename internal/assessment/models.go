package assessment

import (
	"encoding/json"
	"time"

	"sinag/pkg/checklist"
	"sinag/pkg/rules"
)

// Submission is one barangay's answers for one indicator.
type Submission struct {
	SubmissionID  string                 `json:"submission_id" binding:"required"`
	IndicatorCode string                 `json:"indicator_code" binding:"required"`
	ResponseData  map[string]interface{} `json:"response_data"`
	ChecklistData map[string]interface{} `json:"checklist_data,omitempty"`
}

// toMap is the form hashed by the idempotency service and carried in
// message payloads.
func (s Submission) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"submission_id":  s.SubmissionID,
		"indicator_code": s.IndicatorCode,
		"response_data":  s.ResponseData,
	}
	if s.ChecklistData != nil {
		m["checklist_data"] = s.ChecklistData
	}
	return m
}

// submissionFromPayload decodes a message payload produced by toMap or by an
// upstream form service.
func submissionFromPayload(payload map[string]interface{}) (Submission, error) {
	var sub Submission
	raw, err := json.Marshal(payload)
	if err != nil {
		return sub, err
	}
	err = json.Unmarshal(raw, &sub)
	return sub, err
}

// EvaluationResult is the stored and published outcome of evaluating a
// submission. RuleStatus is empty when the schema could not be evaluated;
// ChecklistStatus is empty when the indicator has no checklist.
type EvaluationResult struct {
	ID              string                      `json:"id" bson:"_id"`
	SubmissionID    string                      `json:"submission_id" bson:"submission_id"`
	IndicatorID     string                      `json:"indicator_id" bson:"indicator_id"`
	IndicatorCode   string                      `json:"indicator_code" bson:"indicator_code"`
	Status          rules.ValidationStatus      `json:"status" bson:"status"`
	RuleStatus      rules.ValidationStatus      `json:"rule_status,omitempty" bson:"rule_status,omitempty"`
	ChecklistStatus checklist.Status            `json:"checklist_status,omitempty" bson:"checklist_status,omitempty"`
	ItemResults     map[string]checklist.Status `json:"item_results,omitempty" bson:"item_results,omitempty"`
	Errors          []string                    `json:"errors,omitempty" bson:"errors,omitempty"`
	SchemaError     string                      `json:"schema_error,omitempty" bson:"schema_error,omitempty"`
	EvaluatedAt     time.Time                   `json:"evaluated_at" bson:"evaluated_at"`
}

func (r *EvaluationResult) toMap() (map[string]interface{}, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SchemaEvaluationRequest evaluates a calculation schema that is not stored
// as an indicator.
type SchemaEvaluationRequest struct {
	CalculationSchema json.RawMessage        `json:"calculation_schema" binding:"required" swaggertype:"object"`
	Data              map[string]interface{} `json:"data"`
}

type SchemaEvaluationResponse struct {
	Status rules.ValidationStatus `json:"status"`
	Passed bool                   `json:"passed"`
}

// ChecklistEvaluationRequest validates a submission against a checklist
// config that is not stored as an indicator.
type ChecklistEvaluationRequest struct {
	ChecklistConfig json.RawMessage        `json:"checklist_config" binding:"required" swaggertype:"object"`
	Submission      map[string]interface{} `json:"submission"`
}

type ChecklistEvaluationResponse struct {
	checklist.Result
	ValidationStatus rules.ValidationStatus `json:"validation_status"`
}
