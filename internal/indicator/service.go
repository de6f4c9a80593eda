package indicator

import (
	"context"
	"encoding/json"
	"errors"

	"sinag/internal/constants"
	"sinag/internal/logger"
	pkgerrors "sinag/pkg/errors"
	"sinag/pkg/metrics"
	"sinag/pkg/models"
)

type Service interface {
	CreateIndicator(ctx context.Context, req CreateIndicatorRequest) (*Indicator, error)
	ListIndicators(ctx context.Context, enabledOnly bool) ([]Indicator, error)
	GetIndicator(ctx context.Context, id string) (*Indicator, error)
	UpdateIndicator(ctx context.Context, id string, req UpdateIndicatorRequest) (*Indicator, error)
	DeleteIndicator(ctx context.Context, id string) error
	GetIndicatorVersions(ctx context.Context, id string) ([]IndicatorVersion, error)
	GetAuditLogs(ctx context.Context, indicatorID *string, limit int) ([]AuditLog, error)
	ValidateSchemas(ctx context.Context, req ValidateSchemasRequest) ValidateSchemasResponse
}

type service struct {
	repo           Repository
	versioningRepo VersioningRepository
	events         EventPublisher
	validator      *SchemaValidator
	logger         logger.Logger
}

type ServiceOption func(*service)

func WithVersioning(versioningRepo VersioningRepository) ServiceOption {
	return func(s *service) {
		s.versioningRepo = versioningRepo
	}
}

func WithConfigEvents(events EventPublisher) ServiceOption {
	return func(s *service) {
		s.events = events
	}
}

func WithSchemaValidator(validator *SchemaValidator) ServiceOption {
	return func(s *service) {
		s.validator = validator
	}
}

func WithLogger(log logger.Logger) ServiceOption {
	return func(s *service) {
		s.logger = log
	}
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logger.NopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = NewSchemaValidator(constants.DefaultMaxNestingDepth, nil)
	}

	return s
}

func (s *service) CreateIndicator(ctx context.Context, req CreateIndicatorRequest) (*Indicator, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, pkgerrors.ErrValidation.WithCause(err).WithDetail("message", err.Error())
	}
	if err := s.validator.Validate(req.CalculationSchema, req.ChecklistConfig); err != nil {
		return nil, err
	}

	ind := &Indicator{
		Code:              req.Code,
		Name:              req.Name,
		Description:       req.Description,
		CalculationSchema: req.CalculationSchema,
		Enabled:           enabledOrDefault(req.Enabled),
	}
	if hasDocument(req.ChecklistConfig) {
		ind.ChecklistConfig = req.ChecklistConfig
	}

	if err := s.repo.CreateIndicator(ctx, ind); err != nil {
		return nil, wrapRepoError(err)
	}

	s.recordChange(ctx, ind, models.ActionCreate, nil)
	return ind, nil
}

func (s *service) ListIndicators(ctx context.Context, enabledOnly bool) ([]Indicator, error) {
	indicators, err := s.repo.ListIndicators(ctx, enabledOnly)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	if indicators == nil {
		indicators = []Indicator{}
	}
	return indicators, nil
}

func (s *service) GetIndicator(ctx context.Context, id string) (*Indicator, error) {
	ind, err := s.repo.GetIndicator(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return ind, nil
}

func (s *service) UpdateIndicator(ctx context.Context, id string, req UpdateIndicatorRequest) (*Indicator, error) {
	if err := validateUpdateRequest(req); err != nil {
		return nil, pkgerrors.ErrValidation.WithCause(err).WithDetail("message", err.Error())
	}

	ind, err := s.repo.GetIndicator(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	oldValue, _ := indicatorToMap(ind)
	action := applyUpdate(ind, req)

	if err := s.validator.Validate(ind.CalculationSchema, ind.ChecklistConfig); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateIndicator(ctx, ind); err != nil {
		return nil, wrapRepoError(err)
	}

	s.recordChange(ctx, ind, action, oldValue)
	return ind, nil
}

func (s *service) DeleteIndicator(ctx context.Context, id string) error {
	ind, err := s.repo.GetIndicator(ctx, id)
	if err != nil {
		return wrapRepoError(err)
	}

	oldValue, _ := indicatorToMap(ind)

	if err := s.repo.DeleteIndicator(ctx, id); err != nil {
		return wrapRepoError(err)
	}

	if s.versioningRepo != nil {
		auditLog := buildAuditLog(id, models.ActionDelete, oldValue, nil, GetChangedBy(ctx))
		if err := s.versioningRepo.CreateAuditLog(ctx, auditLog); err != nil {
			s.logger.WarnwCtx(ctx, "Failed to write audit log", "indicator_id", id, "error", err)
		}
	}

	metrics.IndicatorChangesTotal.WithLabelValues(models.ActionDelete).Inc()
	s.publishEvent(ctx, models.ActionDelete, id)
	return nil
}

func (s *service) GetIndicatorVersions(ctx context.Context, id string) ([]IndicatorVersion, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "versioning not enabled")
	}
	versions, err := s.versioningRepo.GetVersions(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if versions == nil {
		versions = []IndicatorVersion{}
	}
	return versions, nil
}

func (s *service) GetAuditLogs(ctx context.Context, indicatorID *string, limit int) ([]AuditLog, error) {
	if s.versioningRepo == nil {
		return nil, pkgerrors.ErrInternal.WithDetail("message", "audit logging not enabled")
	}
	if limit <= 0 || limit > constants.MaxLimit {
		limit = constants.DefaultLimit
	}
	logs, err := s.versioningRepo.GetAuditLogs(ctx, indicatorID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.ErrInternal)
	}
	if logs == nil {
		logs = []AuditLog{}
	}
	return logs, nil
}

func (s *service) ValidateSchemas(ctx context.Context, req ValidateSchemasRequest) ValidateSchemasResponse {
	res := s.validator.Check(req.CalculationSchema, req.ChecklistConfig)
	if !res.Valid {
		s.logger.DebugwCtx(ctx, "Schema dry-run rejected", "errors", len(res.Errors))
	}
	return res
}

func (s *service) recordChange(ctx context.Context, ind *Indicator, action string, oldValue map[string]interface{}) {
	metrics.IndicatorChangesTotal.WithLabelValues(action).Inc()
	s.createVersionAndAudit(ctx, ind, action, oldValue)
	s.publishEvent(ctx, action, ind.ID)
}

func (s *service) createVersionAndAudit(ctx context.Context, ind *Indicator, action string, oldValue map[string]interface{}) {
	if s.versioningRepo == nil {
		return
	}

	data, err := json.Marshal(ind)
	if err != nil {
		return
	}

	version := 1
	if next, err := s.versioningRepo.GetNextVersion(ctx, ind.ID); err == nil {
		version = next
	}

	changedBy := GetChangedBy(ctx)
	if err := s.versioningRepo.CreateVersion(ctx, &IndicatorVersion{
		IndicatorID:   ind.ID,
		IndicatorData: data,
		Version:       version,
		ChangedBy:     changedBy,
	}); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to write indicator version", "indicator_id", ind.ID, "error", err)
		return
	}

	newValue, err := indicatorToMap(ind)
	if err != nil {
		return
	}

	if err := s.versioningRepo.CreateAuditLog(ctx, buildAuditLog(ind.ID, action, oldValue, newValue, changedBy)); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to write audit log", "indicator_id", ind.ID, "error", err)
	}
}

func (s *service) publishEvent(ctx context.Context, action, indicatorID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishIndicatorEvent(ctx, action, indicatorID, GetChangedBy(ctx)); err != nil {
		s.logger.WarnwCtx(ctx, "Failed to publish indicator event", "indicator_id", indicatorID, "action", action, "error", err)
	}
}

func buildAuditLog(indicatorID, action string, oldValue, newValue map[string]interface{}, changedBy string) *AuditLog {
	return &AuditLog{
		IndicatorID: &indicatorID,
		Action:      action,
		OldValue:    oldValue,
		NewValue:    newValue,
		ChangedBy:   changedBy,
	}
}

// applyUpdate copies the set fields of req onto ind and reports whether the
// change was a pure enable/disable toggle.
func applyUpdate(ind *Indicator, req UpdateIndicatorRequest) string {
	toggleOnly := req.Enabled != nil
	if req.Code != nil {
		ind.Code = *req.Code
		toggleOnly = false
	}
	if req.Name != nil {
		ind.Name = *req.Name
		toggleOnly = false
	}
	if req.Description != nil {
		ind.Description = *req.Description
		toggleOnly = false
	}
	if len(req.CalculationSchema) > 0 {
		ind.CalculationSchema = req.CalculationSchema
		toggleOnly = false
	}
	if len(req.ChecklistConfig) > 0 {
		if hasDocument(req.ChecklistConfig) {
			ind.ChecklistConfig = req.ChecklistConfig
		} else {
			ind.ChecklistConfig = nil
		}
		toggleOnly = false
	}
	if req.Enabled != nil {
		ind.Enabled = *req.Enabled
	}

	if toggleOnly {
		return models.ActionToggle
	}
	return models.ActionUpdate
}

func wrapRepoError(err error) error {
	var appErr *pkgerrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return pkgerrors.Wrap(err, pkgerrors.ErrInternal)
}

func enabledOrDefault(enabled *bool) bool {
	if enabled == nil {
		return true
	}
	return *enabled
}

type changedByKey struct{}

// WithChangedBy records the acting user for versions and audit logs.
func WithChangedBy(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, changedByKey{}, user)
}

func GetChangedBy(ctx context.Context) string {
	if user, ok := ctx.Value(changedByKey{}).(string); ok && user != "" {
		return user
	}
	return "system"
}
