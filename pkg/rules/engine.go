package rules

import (
	"context"
	"strings"

	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/values"
)

// ExpressionEvaluator evaluates EXPRESSION rules. *cel.Evaluator satisfies it.
type ExpressionEvaluator interface {
	Evaluate(ctx context.Context, expression string, data map[string]interface{}) (bool, error)
	ValidateExpression(expression string) error
}

// Engine evaluates calculation schemas. It holds no per-call state and is safe
// for concurrent use.
type Engine struct {
	logger      logger.Logger
	expressions ExpressionEvaluator
	maxDepth    int
}

type Option func(*Engine)

func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

func WithExpressionEvaluator(evaluator ExpressionEvaluator) Option {
	return func(e *Engine) {
		e.expressions = evaluator
	}
}

func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   logger.NopLogger(),
		maxDepth: constants.DefaultMaxNestingDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// ExecuteCalculation maps the schema's boolean outcome onto its configured
// output statuses.
func (e *Engine) ExecuteCalculation(ctx context.Context, schema *CalculationSchema, data map[string]interface{}) (ValidationStatus, error) {
	passed, err := e.EvaluateCalculationSchema(ctx, schema, data)
	if err != nil {
		return "", err
	}

	if passed {
		return outputOr(schema.OutputStatusOnPass, StatusPass), nil
	}
	return outputOr(schema.OutputStatusOnFail, StatusFail), nil
}

func outputOr(status, fallback ValidationStatus) ValidationStatus {
	if status == "" {
		return fallback
	}
	return status
}

// EvaluateCalculationSchema reports whether any top-level condition group
// passes. Only structural problems in the schema produce an error.
func (e *Engine) EvaluateCalculationSchema(ctx context.Context, schema *CalculationSchema, data map[string]interface{}) (bool, error) {
	if schema == nil {
		return false, schemaErrorf("", "schema is nil")
	}
	if len(schema.ConditionGroups) == 0 {
		return false, schemaErrorf("condition_groups", "must contain at least one group")
	}

	for i, group := range schema.ConditionGroups {
		if group == nil {
			return false, schemaErrorf(indexPath("condition_groups", i), "group is nil")
		}
		if depth := conditionDepth(group); depth > e.maxDepth {
			return false, schemaErrorf(indexPath("condition_groups", i), "nesting depth %d exceeds maximum %d", depth, e.maxDepth)
		}
	}

	// Every group is evaluated so that warnings for unsupported rules are
	// reported even when an earlier group already passed.
	passed := false
	for _, group := range schema.ConditionGroups {
		if e.evaluate(ctx, group, data) {
			passed = true
		}
	}

	return passed, nil
}

// EvaluateRule evaluates a single condition. Missing fields and mistyped values
// evaluate to false; a condition nested deeper than the engine's limit is false.
func (e *Engine) EvaluateRule(ctx context.Context, cond Condition, data map[string]interface{}) bool {
	if depth := conditionDepth(cond); depth > e.maxDepth {
		e.logger.WarnwCtx(ctx, "Condition exceeds maximum nesting depth",
			"depth", depth,
			"max_depth", e.maxDepth,
		)
		return false
	}
	return e.evaluate(ctx, cond, data)
}

func (e *Engine) evaluate(ctx context.Context, cond Condition, data map[string]interface{}) bool {
	switch c := cond.(type) {
	case *MatchValueRule:
		return e.evaluateMatchValue(c, data)

	case *PercentageThresholdRule:
		value, ok := values.Lookup(data, c.FieldID)
		if !ok {
			return false
		}
		number, ok := values.Number(value)
		if !ok {
			return false
		}
		return compare(c.Operator, number, c.Threshold)

	case *CountThresholdRule:
		value, ok := values.Lookup(data, c.FieldID)
		if !ok || value == nil {
			return false
		}
		return compare(c.Operator, float64(values.Count(value)), float64(c.Threshold))

	case *BBIFunctionalityCheckRule:
		e.logger.WarnwCtx(ctx, "BBI functionality check is not supported, rule evaluates to false",
			"bbi_id", c.BBIID,
			"expected_status", c.ExpectedStatus,
		)
		return false

	case *ExpressionRule:
		return e.evaluateExpression(ctx, c, data)

	case *AndAllRule:
		return e.all(ctx, c.Conditions, data)

	case *OrAnyRule:
		return e.any(ctx, c.Conditions, data)

	case *ConditionGroup:
		if c.Operator == LogicOr {
			return e.any(ctx, c.Rules, data)
		}
		if c.Operator == LogicAnd {
			return e.all(ctx, c.Rules, data)
		}
		e.logger.WarnwCtx(ctx, "Unknown group operator, group evaluates to false",
			"operator", string(c.Operator),
		)
		return false

	case *UnknownRule:
		e.logger.WarnwCtx(ctx, "Unknown rule type, rule evaluates to false",
			"rule_type", c.RuleType,
		)
		return false

	default:
		e.logger.WarnwCtx(ctx, "Unsupported condition, evaluates to false")
		return false
	}
}

func (e *Engine) all(ctx context.Context, conditions []Condition, data map[string]interface{}) bool {
	for _, cond := range conditions {
		if !e.evaluate(ctx, cond, data) {
			return false
		}
	}
	return true
}

func (e *Engine) any(ctx context.Context, conditions []Condition, data map[string]interface{}) bool {
	for _, cond := range conditions {
		if e.evaluate(ctx, cond, data) {
			return true
		}
	}
	return false
}

func (e *Engine) evaluateMatchValue(rule *MatchValueRule, data map[string]interface{}) bool {
	value, ok := values.Lookup(data, rule.FieldID)
	if !ok {
		return false
	}

	switch rule.Operator {
	case OpEqual:
		return values.Equal(value, rule.ExpectedValue)
	case OpNotEqual:
		return !values.Equal(value, rule.ExpectedValue)
	case OpContains:
		haystack, ok := value.(string)
		if !ok {
			return false
		}
		needle, ok := rule.ExpectedValue.(string)
		if !ok {
			return false
		}
		return strings.Contains(haystack, needle)
	default:
		return false
	}
}

func (e *Engine) evaluateExpression(ctx context.Context, rule *ExpressionRule, data map[string]interface{}) bool {
	if e.expressions == nil {
		e.logger.WarnwCtx(ctx, "Expression rules are disabled, rule evaluates to false",
			"expression", rule.Expression,
		)
		return false
	}

	result, err := e.expressions.Evaluate(ctx, rule.Expression, data)
	if err != nil {
		e.logger.WarnwCtx(ctx, "Expression evaluation failed, rule evaluates to false",
			"expression", rule.Expression,
			"error", err,
		)
		return false
	}
	return result
}

func compare(op Operator, value, threshold float64) bool {
	switch op {
	case OpGreaterOrEqual:
		return value >= threshold
	case OpLessOrEqual:
		return value <= threshold
	case OpGreater:
		return value > threshold
	case OpLess:
		return value < threshold
	case OpEqual:
		return value == threshold
	default:
		return false
	}
}

// conditionDepth counts nesting levels, with a leaf rule at depth 1.
func conditionDepth(cond Condition) int {
	var children []Condition
	switch c := cond.(type) {
	case *AndAllRule:
		children = c.Conditions
	case *OrAnyRule:
		children = c.Conditions
	case *ConditionGroup:
		children = c.Rules
	default:
		return 1
	}

	deepest := 0
	for _, child := range children {
		if d := conditionDepth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
