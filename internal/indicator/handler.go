package indicator

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/errors"
)

// ChangedByHeader carries the acting user for audit records. Authentication
// happens upstream of this service.
const ChangedByHeader = "X-User-ID"

type Handler struct {
	Service Service
	Logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		Service: service,
		Logger:  log,
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.Logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	response := errors.ToErrorResponse(err)

	c.JSON(status, response)
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		indicators := v1.Group("/indicators")
		{
			indicators.GET("", h.ListIndicators)
			indicators.POST("", h.CreateIndicator)
			indicators.GET("/:id", h.GetIndicator)
			indicators.PUT("/:id", h.UpdateIndicator)
			indicators.DELETE("/:id", h.DeleteIndicator)
			indicators.GET("/:id/versions", h.GetIndicatorVersions)
			indicators.GET("/:id/audit", h.GetIndicatorAuditLogs)
		}

		v1.POST("/schemas/validate", h.ValidateSchemas)

		audit := v1.Group("/audit")
		{
			audit.GET("/logs", h.GetAuditLogs)
		}
	}
}

// ListIndicators godoc
// @Summary      List indicators
// @Description  Get all indicator definitions, optionally only the enabled ones
// @Tags         indicators
// @Accept       json
// @Produce      json
// @Param        enabled  query     bool  false  "Only return enabled indicators"
// @Success      200      {array}   Indicator
// @Failure      500      {object}  errors.ErrorResponse
// @Router       /indicators [get]
func (h *Handler) ListIndicators(c *gin.Context) {
	enabledOnly, _ := strconv.ParseBool(c.Query("enabled"))
	indicators, err := h.Service.ListIndicators(c.Request.Context(), enabledOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, indicators)
}

// CreateIndicator godoc
// @Summary      Create an indicator
// @Description  Create an indicator after validating its calculation schema and checklist config
// @Tags         indicators
// @Accept       json
// @Produce      json
// @Param        indicator  body      CreateIndicatorRequest  true  "Indicator definition"
// @Success      201        {object}  Indicator
// @Failure      400        {object}  errors.ErrorResponse
// @Failure      409        {object}  errors.ErrorResponse
// @Failure      500        {object}  errors.ErrorResponse
// @Router       /indicators [post]
func (h *Handler) CreateIndicator(c *gin.Context) {
	var req CreateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	ind, err := h.Service.CreateIndicator(h.requestContext(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ind)
}

// GetIndicator godoc
// @Summary      Get an indicator
// @Description  Get an indicator definition by ID
// @Tags         indicators
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Indicator ID"
// @Success      200  {object}  Indicator
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /indicators/{id} [get]
func (h *Handler) GetIndicator(c *gin.Context) {
	ind, err := h.Service.GetIndicator(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ind)
}

// UpdateIndicator godoc
// @Summary      Update an indicator
// @Description  Update an indicator; changed documents are validated again
// @Tags         indicators
// @Accept       json
// @Produce      json
// @Param        id         path      string                  true  "Indicator ID"
// @Param        indicator  body      UpdateIndicatorRequest  true  "Fields to change"
// @Success      200        {object}  Indicator
// @Failure      400        {object}  errors.ErrorResponse
// @Failure      404        {object}  errors.ErrorResponse
// @Failure      409        {object}  errors.ErrorResponse
// @Failure      500        {object}  errors.ErrorResponse
// @Router       /indicators/{id} [put]
func (h *Handler) UpdateIndicator(c *gin.Context) {
	var req UpdateIndicatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	ind, err := h.Service.UpdateIndicator(h.requestContext(c), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ind)
}

// DeleteIndicator godoc
// @Summary      Delete an indicator
// @Tags         indicators
// @Param        id   path      string  true  "Indicator ID"
// @Success      204  "No Content"
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /indicators/{id} [delete]
func (h *Handler) DeleteIndicator(c *gin.Context) {
	if err := h.Service.DeleteIndicator(h.requestContext(c), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetIndicatorVersions godoc
// @Summary      Get indicator version history
// @Tags         indicators
// @Produce      json
// @Param        id   path      string  true  "Indicator ID"
// @Success      200  {array}   IndicatorVersion
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /indicators/{id}/versions [get]
func (h *Handler) GetIndicatorVersions(c *gin.Context) {
	versions, err := h.Service.GetIndicatorVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

// GetIndicatorAuditLogs godoc
// @Summary      Get audit logs for an indicator
// @Tags         indicators
// @Produce      json
// @Param        id     path      string  true   "Indicator ID"
// @Param        limit  query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200    {array}   AuditLog
// @Failure      500    {object}  errors.ErrorResponse
// @Router       /indicators/{id}/audit [get]
func (h *Handler) GetIndicatorAuditLogs(c *gin.Context) {
	id := c.Param("id")
	logs, err := h.Service.GetAuditLogs(c.Request.Context(), &id, parseLimit(c.Query("limit")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetAuditLogs godoc
// @Summary      Get audit logs
// @Description  Get audit logs, optionally filtered by indicator ID
// @Tags         audit
// @Produce      json
// @Param        indicator_id  query     string  false  "Filter by indicator ID"
// @Param        limit         query     int     false  "Maximum number of logs to return (1-1000)" default(100)
// @Success      200           {array}   AuditLog
// @Failure      500           {object}  errors.ErrorResponse
// @Router       /audit/logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	var indicatorID *string
	if id := c.Query("indicator_id"); id != "" {
		indicatorID = &id
	}

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), indicatorID, parseLimit(c.Query("limit")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ValidateSchemas godoc
// @Summary      Validate indicator documents
// @Description  Dry-run validation of a calculation schema and/or checklist config without saving
// @Tags         schemas
// @Accept       json
// @Produce      json
// @Param        documents  body      ValidateSchemasRequest  true  "Documents to validate"
// @Success      200        {object}  ValidateSchemasResponse
// @Failure      400        {object}  errors.ErrorResponse
// @Router       /schemas/validate [post]
func (h *Handler) ValidateSchemas(c *gin.Context) {
	var req ValidateSchemasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}
	if !hasDocument(req.CalculationSchema) && !hasDocument(req.ChecklistConfig) {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.ErrValidation.WithDetail("message", "calculation_schema or checklist_config is required")))
		return
	}

	c.JSON(http.StatusOK, h.Service.ValidateSchemas(c.Request.Context(), req))
}

func (h *Handler) requestContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if user := c.GetHeader(ChangedByHeader); user != "" {
		ctx = WithChangedBy(ctx, user)
	}
	return ctx
}

func parseLimit(limitStr string) int {
	if limitStr == "" {
		return constants.DefaultLimit
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil || parsed <= 0 || parsed > constants.MaxLimit {
		return constants.DefaultLimit
	}
	return parsed
}
