package indicator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	pkgerrors "sinag/pkg/errors"
)

const validSchema = `{
	"condition_groups": [
		{"operator": "AND", "rules": [
			{"rule_type": "MATCH_VALUE", "field_id": "ordinance_status", "operator": "==", "expected_value": "approved"},
			{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "utilization_rate", "operator": ">=", "threshold": 75}
		]}
	]
}`

const validChecklist = `{
	"validation_mode": "strict",
	"items": [
		{"id": "signed", "type": "checkbox", "required": true},
		{"id": "budget", "type": "currency_input", "min_value": 100000, "threshold": 500000}
	]
}`

type memoryRepository struct {
	mu    sync.Mutex
	items map[string]Indicator
	seq   int
	err   error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{items: make(map[string]Indicator)}
}

func (r *memoryRepository) CreateIndicator(_ context.Context, ind *Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.items {
		if existing.Code == ind.Code {
			return pkgerrors.ErrConflict.WithDetail("message", fmt.Sprintf("indicator with code '%s' already exists", ind.Code))
		}
	}
	r.seq++
	ind.ID = fmt.Sprintf("ind-%d", r.seq)
	ind.CreatedAt = time.Now()
	ind.UpdatedAt = ind.CreatedAt
	r.items[ind.ID] = *ind
	return nil
}

func (r *memoryRepository) ListIndicators(_ context.Context, enabledOnly bool) ([]Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []Indicator
	for _, ind := range r.items {
		if enabledOnly && !ind.Enabled {
			continue
		}
		out = append(out, ind)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *memoryRepository) GetIndicator(_ context.Context, id string) (*Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	ind, ok := r.items[id]
	if !ok {
		return nil, pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	return &ind, nil
}

func (r *memoryRepository) GetIndicatorByCode(_ context.Context, code string) (*Indicator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ind := range r.items {
		if ind.Code == code {
			ind := ind
			return &ind, nil
		}
	}
	return nil, pkgerrors.ErrNotFound.WithDetail("id", code)
}

func (r *memoryRepository) UpdateIndicator(_ context.Context, ind *Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ind.ID]; !ok {
		return pkgerrors.ErrNotFound.WithDetail("id", ind.ID)
	}
	ind.UpdatedAt = time.Now()
	r.items[ind.ID] = *ind
	return nil
}

func (r *memoryRepository) DeleteIndicator(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pkgerrors.ErrNotFound.WithDetail("id", id)
	}
	delete(r.items, id)
	return nil
}

type memoryVersioning struct {
	mu       sync.Mutex
	versions []IndicatorVersion
	logs     []AuditLog
}

func (v *memoryVersioning) CreateVersion(_ context.Context, version *IndicatorVersion) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.versions = append(v.versions, *version)
	return nil
}

func (v *memoryVersioning) GetVersions(_ context.Context, indicatorID string) ([]IndicatorVersion, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []IndicatorVersion
	for i := len(v.versions) - 1; i >= 0; i-- {
		if v.versions[i].IndicatorID == indicatorID {
			out = append(out, v.versions[i])
		}
	}
	return out, nil
}

func (v *memoryVersioning) GetVersion(ctx context.Context, indicatorID string, version int) (*IndicatorVersion, error) {
	versions, _ := v.GetVersions(ctx, indicatorID)
	for _, ver := range versions {
		if ver.Version == version {
			ver := ver
			return &ver, nil
		}
	}
	return nil, nil
}

func (v *memoryVersioning) CreateAuditLog(_ context.Context, log *AuditLog) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logs = append(v.logs, *log)
	return nil
}

func (v *memoryVersioning) GetAuditLogs(_ context.Context, indicatorID *string, limit int) ([]AuditLog, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	var out []AuditLog
	for _, log := range v.logs {
		if indicatorID != nil && (log.IndicatorID == nil || *log.IndicatorID != *indicatorID) {
			continue
		}
		out = append(out, log)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (v *memoryVersioning) GetNextVersion(ctx context.Context, indicatorID string) (int, error) {
	versions, _ := v.GetVersions(ctx, indicatorID)
	return len(versions) + 1, nil
}

type publishedEvent struct {
	action      string
	indicatorID string
	changedBy   string
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishIndicatorEvent(_ context.Context, action, indicatorID, changedBy string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{action: action, indicatorID: indicatorID, changedBy: changedBy})
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

func stringPtr(s string) *string {
	return &s
}
