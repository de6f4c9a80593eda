package assessment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"sinag/internal/config_handler"
	"sinag/internal/logger"
	"sinag/pkg/errors"
	"sinag/pkg/logging"
	"sinag/pkg/models"
)

type Handler struct {
	Service *Service
	Logger  logger.Logger
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  log,
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)
	c.JSON(errors.ToHTTPStatus(err), errors.ToErrorResponse(err))
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	evaluations := router.Group("/api/v1/evaluations")
	{
		evaluations.POST("", h.SubmitEvaluation)
		evaluations.GET("/:submission_id", h.GetEvaluation)
		evaluations.POST("/schema", h.EvaluateSchema)
		evaluations.POST("/checklist", h.EvaluateChecklist)
	}
}

// SubmitEvaluation evaluates a submission against its indicator. A repeated
// identical submission returns the stored result with 200 instead of 201.
func (h *Handler) SubmitEvaluation(c *gin.Context) {
	var sub Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	result, duplicate, err := h.Service.Submit(c.Request.Context(), sub)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if duplicate {
		if result == nil {
			h.HandleError(c, errors.ErrConflict.
				WithDetail("message", "submission is already being evaluated").
				WithDetail("submission_id", sub.SubmissionID))
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) GetEvaluation(c *gin.Context) {
	results, err := h.Service.GetResults(c.Request.Context(), c.Param("submission_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) EvaluateSchema(c *gin.Context) {
	var req SchemaEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	resp, err := h.Service.EvaluateSchema(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) EvaluateChecklist(c *gin.Context) {
	var req ChecklistEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	resp, err := h.Service.EvaluateChecklist(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleSubmission consumes a submission message. Malformed payloads and
// schema errors are permanent, so the consumer sends them to the DLQ without
// retrying.
func (h *Handler) HandleSubmission(ctx context.Context, msg models.MessageEnvelope) error {
	if err := models.ValidateMessageEnvelope(&msg, "submission_id", "indicator_code"); err != nil {
		h.Logger.WarnwCtx(ctx, "Invalid submission envelope", "error", err, "id", msg.ID)
		return errors.ErrValidation.WithCause(err).WithDetail("message", err.Error())
	}

	sub, err := decodeSubmission(msg.Payload)
	if err != nil {
		h.Logger.WarnwCtx(ctx, "Invalid submission message", "error", err, "id", msg.ID)
		return err
	}
	ctx = logging.WithSubmissionID(ctx, sub.SubmissionID)

	result, duplicate, err := h.Service.Submit(ctx, sub)
	if err != nil {
		h.Logger.ErrorwCtx(ctx, "Evaluation failed", "error", err)
		return err
	}

	if duplicate {
		h.Logger.InfowCtx(ctx, "Duplicate submission skipped", "indicator_code", sub.IndicatorCode)
		return nil
	}

	h.Logger.InfowCtx(ctx, "Submission evaluated",
		"indicator_code", result.IndicatorCode,
		"status", result.Status,
	)
	return nil
}

// NewConfigEventHandler reloads the indicator catalog when an indicator
// changes.
func NewConfigEventHandler(service *Service, log logger.Logger) *config_handler.Handler {
	return config_handler.NewHandlerWithReloader(
		models.EventTypeIndicatorUpdated,
		models.ServiceTypeEvaluation,
		service,
		log,
	)
}
