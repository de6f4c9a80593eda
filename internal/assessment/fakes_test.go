package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/indicator"
	"sinag/internal/logger"
	"sinag/pkg/checklist"
	"sinag/pkg/models"
	"sinag/pkg/rules"
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

type staticSource struct {
	mu         sync.Mutex
	indicators []indicator.Indicator
	err        error
	calls      int
}

func (s *staticSource) ListIndicators(_ context.Context, enabledOnly bool) ([]indicator.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var out []indicator.Indicator
	for _, ind := range s.indicators {
		if enabledOnly && !ind.Enabled {
			continue
		}
		out = append(out, ind)
	}
	return out, nil
}

func (s *staticSource) set(indicators ...indicator.Indicator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicators = indicators
}

func stored(id, code, schema, checklistCfg string) indicator.Indicator {
	ind := indicator.Indicator{
		ID:                id,
		Code:              code,
		Name:              "Indicator " + code,
		CalculationSchema: json.RawMessage(schema),
		Enabled:           true,
	}
	if checklistCfg != "" {
		ind.ChecklistConfig = json.RawMessage(checklistCfg)
	}
	return ind
}

type memoryStore struct {
	mu      sync.Mutex
	results map[string]EvaluationResult
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{results: make(map[string]EvaluationResult)}
}

func (s *memoryStore) SaveResult(_ context.Context, result *EvaluationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.results[result.ID] = *result
	return nil
}

func (s *memoryStore) GetResults(_ context.Context, submissionID string) ([]EvaluationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []EvaluationResult
	for _, r := range s.results {
		if r.SubmissionID == submissionID {
			out = append(out, r)
		}
	}
	return out, nil
}

// setClaimer remembers claimed submissions by id and indicator.
type setClaimer struct {
	mu       sync.Mutex
	claimed  map[string]bool
	released []string
	err      error
}

func newSetClaimer() *setClaimer {
	return &setClaimer{claimed: make(map[string]bool)}
}

func (c *setClaimer) Claim(_ context.Context, submission map[string]interface{}) (bool, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, "", c.err
	}
	raw, _ := json.Marshal(submission)
	key := string(raw)
	if c.claimed[key] {
		return false, key, nil
	}
	c.claimed[key] = true
	return true, key, nil
}

func (c *setClaimer) Release(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claimed, key)
	c.released = append(c.released, key)
}

type recordingProducer struct {
	mu        sync.Mutex
	published map[string][]models.MessageEnvelope
	err       error
}

func newRecordingProducer() *recordingProducer {
	return &recordingProducer{published: make(map[string][]models.MessageEnvelope)}
}

func (p *recordingProducer) Publish(_ context.Context, topic string, msg models.MessageEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published[topic] = append(p.published[topic], msg)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published[topic])
}

var errUnavailable = errors.New("connection refused")

type fixture struct {
	source   *staticSource
	catalog  *Catalog
	store    *memoryStore
	claimer  *setClaimer
	producer *recordingProducer
	service  *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		source: &staticSource{indicators: []indicator.Indicator{
			stored("ind-1", "1.1", budgetSchema, budgetChecklist),
			stored("ind-2", "1.2", budgetSchema, ""),
			stored("ind-3", "1.3", `{"condition_groups": []}`, ""),
		}},
		store:    newMemoryStore(),
		claimer:  newSetClaimer(),
		producer: newRecordingProducer(),
	}

	validator := indicator.NewSchemaValidator(constants.DefaultMaxNestingDepth, nil)
	f.catalog = NewCatalog(f.source, validator, config.ReloadConfig{IntervalSeconds: 1}, logger.NopLogger())
	require.NoError(t, f.catalog.ReloadRules(context.Background(), true))

	base := []Option{
		WithResultStore(f.store),
		WithIdempotency(f.claimer),
		WithResultPublisher(f.producer, constants.DefaultResultsTopic),
	}
	f.service = NewService(f.catalog, rules.NewEngine(), checklist.NewValidator(), append(base, opts...)...)
	return f
}

func compliantSubmission(id string) Submission {
	return Submission{
		SubmissionID:  id,
		IndicatorCode: "1.1",
		ResponseData: map[string]interface{}{
			"ordinance_status": "approved",
			"utilization_rate": 80,
		},
		ChecklistData: map[string]interface{}{
			"signed": true,
			"budget": 750000,
		},
	}
}
