package assessment

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"sinag/internal/broker"
	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/checklist"
	pkgerrors "sinag/pkg/errors"
	"sinag/pkg/logging"
	"sinag/pkg/metrics"
	"sinag/pkg/models"
	"sinag/pkg/rules"
	"sinag/pkg/tracing"
)

const tracerName = "validation-service"

// Claimer reports whether a submission is seen for the first time.
// *idempotency.Service satisfies it.
type Claimer interface {
	Claim(ctx context.Context, submission map[string]interface{}) (bool, string, error)
	Release(ctx context.Context, key string)
}

type Service struct {
	catalog       *Catalog
	engine        *rules.Engine
	checklist     *checklist.Validator
	onSchemaError string

	results      ResultStore
	idempotency  Claimer
	producer     broker.Producer
	resultsTopic string

	logger logger.Logger
}

type Option func(*Service)

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSchemaErrorFallback sets how an unusable schema is reported:
// constants.SchemaErrorFail records a FAIL result, constants.SchemaErrorError
// returns an ErrSchema.
func WithSchemaErrorFallback(mode string) Option {
	return func(s *Service) {
		if mode != "" {
			s.onSchemaError = mode
		}
	}
}

func WithResultStore(store ResultStore) Option {
	return func(s *Service) {
		s.results = store
	}
}

func WithIdempotency(claimer Claimer) Option {
	return func(s *Service) {
		s.idempotency = claimer
	}
}

// WithResultPublisher publishes every new result to topic.
func WithResultPublisher(producer broker.Producer, topic string) Option {
	return func(s *Service) {
		s.producer = producer
		s.resultsTopic = topic
		if s.resultsTopic == "" {
			s.resultsTopic = constants.DefaultResultsTopic
		}
	}
}

func NewService(catalog *Catalog, engine *rules.Engine, validator *checklist.Validator, opts ...Option) *Service {
	s := &Service{
		catalog:       catalog,
		engine:        engine,
		checklist:     validator,
		onSchemaError: constants.SchemaErrorFail,
		logger:        logger.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate computes the status of a submission against its indicator without
// storing or publishing anything.
func (s *Service) Evaluate(ctx context.Context, sub Submission) (*EvaluationResult, error) {
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "assessment.evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("submission_id", sub.SubmissionID),
		attribute.String("indicator_code", sub.IndicatorCode),
	)

	if err := validateSubmission(sub); err != nil {
		return nil, err
	}
	ctx = logging.WithIndicatorCode(logging.WithSubmissionID(ctx, sub.SubmissionID), sub.IndicatorCode)

	ind, ok := s.catalog.lookup(sub.IndicatorCode)
	if !ok {
		return nil, pkgerrors.ErrNotFound.
			WithDetail("message", "no enabled indicator with code "+sub.IndicatorCode).
			WithDetail("indicator_code", sub.IndicatorCode)
	}

	start := time.Now()
	result := &EvaluationResult{
		ID:            resultID(sub.SubmissionID, ind.code),
		SubmissionID:  sub.SubmissionID,
		IndicatorID:   ind.id,
		IndicatorCode: ind.code,
		EvaluatedAt:   start.UTC(),
	}

	if ind.err != nil {
		return s.schemaFailure(ctx, result, ind.err, start)
	}

	ruleStatus, err := s.engine.ExecuteCalculation(ctx, ind.schema, sub.ResponseData)
	if err != nil {
		metrics.SchemaErrorsTotal.WithLabelValues("calculation_schema").Inc()
		return s.schemaFailure(ctx, result, err, start)
	}
	result.RuleStatus = ruleStatus
	statuses := []rules.ValidationStatus{ruleStatus}

	if ind.checklist != nil {
		cl := s.checklist.ValidateChecklist(ctx, ind.checklist, sub.ChecklistData)
		result.ChecklistStatus = cl.Status
		result.ItemResults = cl.ItemResults
		result.Errors = cl.Errors
		statuses = append(statuses, checklist.ToValidationStatus(cl.Status))
	}

	result.Status = rules.Combine(statuses...)
	span.SetAttributes(attribute.String("status", result.Status.String()))
	metrics.ObserveEvaluation("indicator", result.Status.String(), time.Since(start))

	s.logger.DebugwCtx(ctx, "Submission evaluated",
		"status", result.Status,
		"rule_status", result.RuleStatus,
		"checklist_status", result.ChecklistStatus,
	)
	return result, nil
}

func (s *Service) schemaFailure(ctx context.Context, result *EvaluationResult, cause error, start time.Time) (*EvaluationResult, error) {
	s.logger.ErrorwCtx(ctx, "Indicator schema cannot be evaluated", "error", cause)

	if s.onSchemaError == constants.SchemaErrorError {
		metrics.ObserveEvaluation("indicator", "error", time.Since(start))
		return nil, schemaError(cause).WithDetail("indicator_code", result.IndicatorCode)
	}

	metrics.FallbackUsageTotal.WithLabelValues("validation", "fail_on_schema_error", "schema_error").Inc()
	result.Status = rules.StatusFail
	result.SchemaError = cause.Error()
	metrics.ObserveEvaluation("indicator", result.Status.String(), time.Since(start))
	return result, nil
}

// Submit evaluates a submission once: a repeated submission with identical
// content is reported as a duplicate and not evaluated again. New results are
// stored and published. For duplicates the stored result is returned when
// one exists.
func (s *Service) Submit(ctx context.Context, sub Submission) (*EvaluationResult, bool, error) {
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "assessment.submit")
	defer span.End()

	if err := validateSubmission(sub); err != nil {
		return nil, false, err
	}

	var key string
	var checkedAt time.Time
	if s.idempotency != nil {
		checkedAt = time.Now().UTC()
		unique, claimed, err := s.idempotency.Claim(ctx, sub.toMap())
		if err != nil {
			return nil, false, pkgerrors.ErrServiceUnavailable.WithCause(err)
		}
		if !unique {
			span.SetAttributes(attribute.Bool("duplicate", true))
			return s.storedResult(ctx, sub), true, nil
		}
		key = claimed
	}

	result, err := s.Evaluate(ctx, sub)
	if err == nil {
		err = s.persist(ctx, result, checkedAt)
	}
	if err != nil {
		tracing.RecordError(span, err)
		if s.idempotency != nil {
			s.idempotency.Release(ctx, key)
		}
		return nil, false, err
	}

	return result, false, nil
}

// persist stores and publishes a new result. checkedAt is zero when the
// submission skipped the duplicate check.
func (s *Service) persist(ctx context.Context, result *EvaluationResult, checkedAt time.Time) error {
	if s.results != nil {
		if err := s.results.SaveResult(ctx, result); err != nil {
			return pkgerrors.ErrServiceUnavailable.WithCause(err)
		}
	}

	if s.producer == nil {
		return nil
	}

	payload, err := result.toMap()
	if err != nil {
		return pkgerrors.ErrInternal.WithCause(err)
	}
	builder := models.NewMessageEnvelopeBuilder().
		WithID(uuid.New().String()).
		WithSource(tracerName).
		WithPayload(payload).
		WithTraceID(logging.GetTraceID(ctx)).
		WithEvaluation(models.EvaluationInfo{
			EvaluatedAt: result.EvaluatedAt,
			IndicatorID: result.IndicatorID,
			Status:      result.Status.String(),
		})
	if !checkedAt.IsZero() {
		builder = builder.WithIdempotency(true, checkedAt)
	}
	envelope := builder.Build()

	if err := s.producer.Publish(ctx, s.resultsTopic, *envelope); err != nil {
		s.logger.ErrorwCtx(ctx, "Failed to publish evaluation result",
			"error", err,
			"topic", s.resultsTopic,
		)
		return pkgerrors.ErrServiceUnavailable.WithCause(err)
	}
	return nil
}

func (s *Service) storedResult(ctx context.Context, sub Submission) *EvaluationResult {
	if s.results == nil {
		return nil
	}
	results, err := s.results.GetResults(ctx, sub.SubmissionID)
	if err != nil {
		s.logger.WarnwCtx(ctx, "Failed to load stored result for duplicate submission", "error", err)
		return nil
	}
	for i := range results {
		if results[i].IndicatorCode == sub.IndicatorCode {
			return &results[i]
		}
	}
	return nil
}

// GetResults returns the stored results of a submission, one per indicator.
func (s *Service) GetResults(ctx context.Context, submissionID string) ([]EvaluationResult, error) {
	if s.results == nil {
		return nil, pkgerrors.ErrServiceUnavailable.WithDetail("message", "result store is not configured")
	}
	results, err := s.results.GetResults(ctx, submissionID)
	if err != nil {
		return nil, pkgerrors.ErrServiceUnavailable.WithCause(err)
	}
	if len(results) == 0 {
		return nil, pkgerrors.ErrNotFound.WithDetail("submission_id", submissionID)
	}
	return results, nil
}

// EvaluateSchema runs an unsaved calculation schema against data.
func (s *Service) EvaluateSchema(ctx context.Context, req SchemaEvaluationRequest) (*SchemaEvaluationResponse, error) {
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "assessment.evaluate_schema")
	defer span.End()

	schema, err := s.catalog.validator.CalculationSchema(req.CalculationSchema)
	if err != nil {
		metrics.SchemaErrorsTotal.WithLabelValues("calculation_schema").Inc()
		return nil, schemaError(err)
	}

	start := time.Now()
	passed, err := s.engine.EvaluateCalculationSchema(ctx, schema, req.Data)
	if err != nil {
		return nil, schemaError(err)
	}

	status := schema.OutputStatusOnFail
	if passed {
		status = schema.OutputStatusOnPass
	}
	metrics.ObserveEvaluation("schema", status.String(), time.Since(start))
	return &SchemaEvaluationResponse{Status: status, Passed: passed}, nil
}

// EvaluateChecklist validates a submission against an unsaved checklist config.
func (s *Service) EvaluateChecklist(ctx context.Context, req ChecklistEvaluationRequest) (*ChecklistEvaluationResponse, error) {
	ctx, span := tracing.GetTracer(tracerName).Start(ctx, "assessment.evaluate_checklist")
	defer span.End()

	cfg, err := s.catalog.validator.ChecklistConfig(req.ChecklistConfig)
	if err != nil {
		metrics.SchemaErrorsTotal.WithLabelValues("checklist_config").Inc()
		return nil, schemaError(err)
	}

	start := time.Now()
	res := s.checklist.ValidateChecklist(ctx, cfg, req.Submission)
	metrics.ObserveEvaluation("checklist", res.Status.String(), time.Since(start))

	return &ChecklistEvaluationResponse{
		Result:           res,
		ValidationStatus: checklist.ToValidationStatus(res.Status),
	}, nil
}

// ReloadRules refreshes the indicator catalog. It lets the service act as
// the reloader for indicator change events.
func (s *Service) ReloadRules(ctx context.Context) error {
	return s.catalog.ReloadRules(ctx)
}

func validateSubmission(sub Submission) error {
	if strings.TrimSpace(sub.SubmissionID) == "" {
		return pkgerrors.ErrValidation.WithDetail("message", "submission_id is required")
	}
	if strings.TrimSpace(sub.IndicatorCode) == "" {
		return pkgerrors.ErrValidation.WithDetail("message", "indicator_code is required")
	}
	return nil
}

func resultID(submissionID, indicatorCode string) string {
	return submissionID + ":" + indicatorCode
}

// schemaError wraps an engine error into ErrSchema, keeping the document path.
func schemaError(err error) *pkgerrors.Error {
	appErr := pkgerrors.ErrSchema.WithCause(err).WithDetail("message", err.Error())

	var engineErr *rules.CalculationEngineError
	if errors.As(err, &engineErr) {
		return appErr.WithDetail("path", engineErr.Path)
	}
	var configErr *checklist.ConfigError
	if errors.As(err, &configErr) {
		return appErr.WithDetail("path", configErr.Path)
	}
	return appErr
}

// decodeSubmission reads a submission from a message payload.
func decodeSubmission(payload map[string]interface{}) (Submission, error) {
	sub, err := submissionFromPayload(payload)
	if err != nil {
		return sub, pkgerrors.ErrValidation.WithCause(err).WithDetail("message", "malformed submission payload")
	}
	return sub, validateSubmission(sub)
}
