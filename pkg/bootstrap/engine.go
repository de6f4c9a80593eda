package bootstrap

import (
	"fmt"

	"sinag/internal/config"
	"sinag/internal/constants"
	"sinag/internal/indicator"
	"sinag/pkg/cel"
	"sinag/pkg/rules"
)

// Rules bundles the evaluation pieces built from the engine config so every
// binary validates and evaluates with the same limits.
type Rules struct {
	Engine    *rules.Engine
	Validator *indicator.SchemaValidator
}

func NewRules(cfg config.EngineConfig, opts ...rules.Option) (*Rules, error) {
	depth := cfg.MaxNestingDepth
	if depth <= 0 {
		depth = constants.DefaultMaxNestingDepth
	}

	// Left as a nil interface when disabled so EXPRESSION rules are rejected.
	var expressions rules.ExpressionEvaluator
	if cfg.ExpressionsEnabled {
		evaluator, err := cel.NewEvaluator(cel.WithCacheSize(cfg.ExpressionCacheSize))
		if err != nil {
			return nil, fmt.Errorf("failed to create expression evaluator: %w", err)
		}
		expressions = evaluator
	}

	engineOpts := append([]rules.Option{
		rules.WithMaxDepth(depth),
		rules.WithExpressionEvaluator(expressions),
	}, opts...)

	return &Rules{
		Engine:    rules.NewEngine(engineOpts...),
		Validator: indicator.NewSchemaValidator(depth, expressions),
	}, nil
}
