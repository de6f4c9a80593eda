package assessment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"sinag/internal/config"
	"sinag/internal/indicator"
	"sinag/internal/logger"
	"sinag/pkg/checklist"
	"sinag/pkg/metrics"
	"sinag/pkg/rules"
)

// IndicatorSource lists stored indicator definitions. indicator.Repository
// satisfies it.
type IndicatorSource interface {
	ListIndicators(ctx context.Context, enabledOnly bool) ([]indicator.Indicator, error)
}

// compiledIndicator is an indicator whose documents were parsed once at load
// time. err holds the schema problem, if any, so that evaluation can apply
// the configured fallback instead of the indicator silently disappearing.
type compiledIndicator struct {
	id        string
	code      string
	schema    *rules.CalculationSchema
	checklist *checklist.Config
	err       error
}

// Catalog keeps the enabled indicators in memory, keyed by code.
type Catalog struct {
	source    IndicatorSource
	validator *indicator.SchemaValidator
	reload    config.ReloadConfig
	logger    logger.Logger

	mu         sync.RWMutex
	indicators map[string]*compiledIndicator
}

func NewCatalog(source IndicatorSource, validator *indicator.SchemaValidator, reload config.ReloadConfig, log logger.Logger) *Catalog {
	return &Catalog{
		source:     source,
		validator:  validator,
		reload:     reload,
		logger:     log,
		indicators: make(map[string]*compiledIndicator),
	}
}

func (c *Catalog) lookup(code string) (*compiledIndicator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ind, ok := c.indicators[code]
	return ind, ok
}

// Len reports how many indicators are loaded.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.indicators)
}

// ReloadRules replaces the cached indicators with the enabled ones from the
// source. Passing true skips the reload jitter.
func (c *Catalog) ReloadRules(ctx context.Context, skipJitter ...bool) error {
	shouldSkipJitter := len(skipJitter) > 0 && skipJitter[0]

	if err := c.applyJitter(ctx, shouldSkipJitter); err != nil {
		return err
	}

	stored, err := c.source.ListIndicators(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to load indicators: %w", err)
	}

	compiled := make(map[string]*compiledIndicator, len(stored))
	invalid := 0
	for _, ind := range stored {
		ci := c.compile(ind)
		if ci.err != nil {
			invalid++
			c.logger.WarnwCtx(ctx, "Indicator has an invalid schema",
				"indicator_code", ind.Code,
				"indicator_id", ind.ID,
				"error", ci.err,
			)
		}
		compiled[ind.Code] = ci
	}

	c.mu.Lock()
	c.indicators = compiled
	c.mu.Unlock()

	metrics.SetActiveIndicators(len(compiled))
	c.logger.InfowCtx(ctx, "Successfully reloaded indicators",
		"indicators_count", len(compiled),
		"invalid_count", invalid,
	)
	return nil
}

func (c *Catalog) compile(ind indicator.Indicator) *compiledIndicator {
	ci := &compiledIndicator{id: ind.ID, code: ind.Code}

	schema, err := c.validator.CalculationSchema(ind.CalculationSchema)
	if err != nil {
		ci.err = fmt.Errorf("calculation_schema: %w", err)
		metrics.SchemaErrorsTotal.WithLabelValues("calculation_schema").Inc()
		return ci
	}
	ci.schema = schema

	if len(ind.ChecklistConfig) > 0 && string(ind.ChecklistConfig) != "null" {
		cfg, err := c.validator.ChecklistConfig(ind.ChecklistConfig)
		if err != nil {
			ci.err = fmt.Errorf("checklist_config: %w", err)
			metrics.SchemaErrorsTotal.WithLabelValues("checklist_config").Inc()
			return ci
		}
		ci.checklist = cfg
	}

	return ci
}

func (c *Catalog) applyJitter(ctx context.Context, skipJitter bool) error {
	if skipJitter || c.reload.JitterMaxMilliseconds <= 0 {
		return nil
	}

	jitter := time.Duration(rand.Intn(c.reload.JitterMaxMilliseconds)) * time.Millisecond
	c.logger.DebugwCtx(ctx, "Reload scheduled with jitter",
		"jitter_ms", jitter.Milliseconds(),
	)

	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartReloader loads the indicators immediately and then on every reload
// interval until ctx is done.
func (c *Catalog) StartReloader(ctx context.Context) error {
	interval := time.Duration(c.reload.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := c.ReloadRules(ctx, true); err != nil {
		c.logger.ErrorwCtx(ctx, "Failed to reload indicators", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := c.ReloadRules(ctx); err != nil {
				c.logger.ErrorwCtx(ctx, "Failed to reload indicators", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
