package rules

import (
	"fmt"

	"sinag/internal/constants"
)

type ValidateOptions struct {
	MaxDepth int
	// Expressions, when set, compiles EXPRESSION rules. Without it expression
	// rules are rejected.
	Expressions ExpressionEvaluator
}

// Validate applies authoring checks on top of what parsing enforces: unknown
// rule types, empty composites, excessive nesting and invalid expressions are
// all rejected.
func (s *CalculationSchema) Validate(opts ValidateOptions) error {
	if s == nil {
		return schemaErrorf("", "schema is nil")
	}
	if len(s.ConditionGroups) == 0 {
		return schemaErrorf("condition_groups", "must contain at least one group")
	}
	if !outputOr(s.OutputStatusOnPass, StatusPass).IsValid() {
		return schemaErrorf("output_status_on_pass", "unknown status %q", s.OutputStatusOnPass)
	}
	if !outputOr(s.OutputStatusOnFail, StatusFail).IsValid() {
		return schemaErrorf("output_status_on_fail", "unknown status %q", s.OutputStatusOnFail)
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = constants.DefaultMaxNestingDepth
	}

	for i, group := range s.ConditionGroups {
		path := indexPath("condition_groups", i)
		if group == nil {
			return schemaErrorf(path, "group is nil")
		}
		if err := validateCondition(path, group, 1, maxDepth, opts.Expressions); err != nil {
			return err
		}
	}
	return nil
}

func validateCondition(path string, cond Condition, depth, maxDepth int, expressions ExpressionEvaluator) error {
	if depth > maxDepth {
		return schemaErrorf(path, "nesting depth exceeds maximum %d", maxDepth)
	}

	switch c := cond.(type) {
	case *MatchValueRule:
		if c.FieldID == "" {
			return schemaErrorf(path+".field_id", "must not be empty")
		}
		if !matchOperators[c.Operator] {
			return schemaErrorf(path+".operator", "unsupported operator %q", c.Operator)
		}

	case *PercentageThresholdRule:
		if c.FieldID == "" {
			return schemaErrorf(path+".field_id", "must not be empty")
		}
		if _, err := NewPercentageThresholdRule(c.FieldID, c.Operator, c.Threshold); err != nil {
			err.(*CalculationEngineError).Path = path
			return err
		}

	case *CountThresholdRule:
		if c.FieldID == "" {
			return schemaErrorf(path+".field_id", "must not be empty")
		}
		if !thresholdOperators[c.Operator] {
			return schemaErrorf(path+".operator", "unsupported operator %q", c.Operator)
		}

	case *BBIFunctionalityCheckRule:
		if c.BBIID == "" {
			return schemaErrorf(path+".bbi_id", "must not be empty")
		}

	case *ExpressionRule:
		if expressions == nil {
			return schemaErrorf(path, "expression rules are not enabled")
		}
		if err := expressions.ValidateExpression(c.Expression); err != nil {
			return schemaErrorf(path+".expression", "%v", err)
		}

	case *AndAllRule:
		return validateChildren(path+".conditions", c.Conditions, depth, maxDepth, expressions)

	case *OrAnyRule:
		return validateChildren(path+".conditions", c.Conditions, depth, maxDepth, expressions)

	case *ConditionGroup:
		if c.Operator != LogicAnd && c.Operator != LogicOr {
			return schemaErrorf(path+".operator", "must be AND or OR, got %q", c.Operator)
		}
		return validateChildren(path+".rules", c.Rules, depth, maxDepth, expressions)

	case *UnknownRule:
		return schemaErrorf(path+".rule_type", "unknown rule type %q", c.RuleType)

	default:
		return schemaErrorf(path, "unsupported condition %T", cond)
	}
	return nil
}

func validateChildren(path string, children []Condition, depth, maxDepth int, expressions ExpressionEvaluator) error {
	if len(children) == 0 {
		return schemaErrorf(path, "must contain at least one condition")
	}
	for i, child := range children {
		if child == nil {
			return schemaErrorf(indexPath(path, i), "condition is nil")
		}
		if err := validateCondition(indexPath(path, i), child, depth+1, maxDepth, expressions); err != nil {
			return err
		}
	}
	return nil
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
