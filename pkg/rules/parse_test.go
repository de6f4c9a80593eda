package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sinag/pkg/cel"
)

func TestParseCalculationSchemaJSON(t *testing.T) {
	schema, err := ParseCalculationSchemaJSON([]byte(`{
		"condition_groups": [
			{
				"operator": "AND",
				"rules": [
					{"rule_type": "MATCH_VALUE", "field_id": "status", "operator": "==", "expected_value": "compliant"},
					{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "rate", "operator": ">=", "threshold": 75.5},
					{"rule_type": "COUNT_THRESHOLD", "field_id": "files", "operator": ">", "threshold": 2},
					{"rule_type": "AND_ALL", "conditions": [
						{"rule_type": "BBI_FUNCTIONALITY_CHECK", "bbi_id": "bdrrmc", "expected_status": "functional"}
					]},
					{"rule_type": "OR_ANY", "conditions": [
						{"rule_type": "EXPRESSION", "expression": "data.total > 0"}
					]},
					{"operator": "or", "rules": [
						{"rule_type": "FUTURE_RULE"}
					]}
				]
			}
		],
		"output_status_on_pass": "pass",
		"output_status_on_fail": "CONDITIONAL"
	}`))
	require.NoError(t, err)

	require.Len(t, schema.ConditionGroups, 1)
	assert.Equal(t, StatusPass, schema.OutputStatusOnPass)
	assert.Equal(t, StatusConditional, schema.OutputStatusOnFail)

	group := schema.ConditionGroups[0]
	assert.Equal(t, LogicAnd, group.Operator)
	require.Len(t, group.Rules, 6)

	assert.Equal(t, &MatchValueRule{FieldID: "status", Operator: OpEqual, ExpectedValue: "compliant"}, group.Rules[0])
	assert.Equal(t, &PercentageThresholdRule{FieldID: "rate", Operator: OpGreaterOrEqual, Threshold: 75.5}, group.Rules[1])
	assert.Equal(t, &CountThresholdRule{FieldID: "files", Operator: OpGreater, Threshold: 2}, group.Rules[2])
	assert.Equal(t, &AndAllRule{Conditions: []Condition{
		&BBIFunctionalityCheckRule{BBIID: "bdrrmc", ExpectedStatus: "functional"},
	}}, group.Rules[3])
	assert.Equal(t, &OrAnyRule{Conditions: []Condition{
		&ExpressionRule{Expression: "data.total > 0"},
	}}, group.Rules[4])
	assert.Equal(t, &ConditionGroup{Operator: LogicOr, Rules: []Condition{
		&UnknownRule{RuleType: "FUTURE_RULE"},
	}}, group.Rules[5])
}

func TestParseCalculationSchema_Defaults(t *testing.T) {
	schema, err := ParseCalculationSchema(map[string]interface{}{
		"condition_groups": []interface{}{
			map[string]interface{}{
				"operator": "AND",
				"rules": []interface{}{
					map[string]interface{}{"rule_type": "MATCH_VALUE", "field_id": "a", "operator": "==", "expected_value": 1},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPass, schema.OutputStatusOnPass)
	assert.Equal(t, StatusFail, schema.OutputStatusOnFail)
}

func TestParseCalculationSchema_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{name: "invalid json", input: `{`},
		{name: "root not object", input: `[]`},
		{name: "missing condition groups", input: `{}`},
		{name: "condition groups not list", input: `{"condition_groups": {}}`, wantPath: "condition_groups"},
		{name: "empty condition groups", input: `{"condition_groups": []}`, wantPath: "condition_groups"},
		{name: "group not object", input: `{"condition_groups": [1]}`, wantPath: "condition_groups[0]"},
		{
			name:     "bad group operator",
			input:    `{"condition_groups": [{"operator": "XOR", "rules": []}]}`,
			wantPath: "condition_groups[0].operator",
		},
		{
			name:     "group without rules",
			input:    `{"condition_groups": [{"operator": "AND"}]}`,
			wantPath: "condition_groups[0].rules",
		},
		{
			name:     "child without discriminator",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"field_id": "x"}]}]}`,
			wantPath: "condition_groups[0].rules[0]",
		},
		{
			name:     "bad match operator",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "MATCH_VALUE", "field_id": "x", "operator": ">"}]}]}`,
			wantPath: "condition_groups[0].rules[0].operator",
		},
		{
			name:     "percentage above range",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "x", "operator": ">=", "threshold": 101}]}]}`,
			wantPath: "condition_groups[0].rules[0].threshold",
		},
		{
			name:     "percentage below range",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "x", "operator": ">=", "threshold": -1}]}]}`,
			wantPath: "condition_groups[0].rules[0].threshold",
		},
		{
			name:     "percentage threshold not numeric",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "PERCENTAGE_THRESHOLD", "field_id": "x", "operator": ">=", "threshold": "50"}]}]}`,
			wantPath: "condition_groups[0].rules[0].threshold",
		},
		{
			name:     "count threshold not integer",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "COUNT_THRESHOLD", "field_id": "x", "operator": ">=", "threshold": 1.5}]}]}`,
			wantPath: "condition_groups[0].rules[0].threshold",
		},
		{
			name:     "missing field id",
			input:    `{"condition_groups": [{"operator": "AND", "rules": [{"rule_type": "MATCH_VALUE", "operator": "=="}]}]}`,
			wantPath: "condition_groups[0].rules[0].field_id",
		},
		{
			name:     "bad output status",
			input:    `{"condition_groups": [{"operator": "AND", "rules": []}], "output_status_on_pass": "GREAT"}`,
			wantPath: "output_status_on_pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCalculationSchemaJSON([]byte(tt.input))
			require.Error(t, err)

			var engineErr *CalculationEngineError
			require.ErrorAs(t, err, &engineErr)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, engineErr.Path)
			}
		})
	}
}

func TestNewPercentageThresholdRule(t *testing.T) {
	tests := []struct {
		name      string
		op        Operator
		threshold float64
		wantErr   bool
	}{
		{name: "lower bound", op: OpGreaterOrEqual, threshold: 0},
		{name: "upper bound", op: OpLessOrEqual, threshold: 100},
		{name: "below range", op: OpGreaterOrEqual, threshold: -0.1, wantErr: true},
		{name: "above range", op: OpGreaterOrEqual, threshold: 100.1, wantErr: true},
		{name: "contains not allowed", op: OpContains, threshold: 50, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewPercentageThresholdRule("rate", tt.op, tt.threshold)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsCalculationEngineError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.threshold, rule.Threshold)
		})
	}
}

func TestCalculationSchema_Validate(t *testing.T) {
	evaluator, err := cel.NewEvaluator()
	require.NoError(t, err)

	leaf := &MatchValueRule{FieldID: "a", Operator: OpEqual, ExpectedValue: "x"}

	tests := []struct {
		name    string
		schema  *CalculationSchema
		opts    ValidateOptions
		wantErr bool
	}{
		{
			name:   "valid",
			schema: &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{leaf}}}},
		},
		{
			name:    "nil",
			schema:  nil,
			wantErr: true,
		},
		{
			name:    "unknown rule type",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&UnknownRule{RuleType: "X"}}}}},
			wantErr: true,
		},
		{
			name:    "empty group",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd}}},
			wantErr: true,
		},
		{
			name:    "empty composite",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&OrAnyRule{}}}}},
			wantErr: true,
		},
		{
			name:    "too deep",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{nestedGroup(4)}},
			opts:    ValidateOptions{MaxDepth: 3},
			wantErr: true,
		},
		{
			name:   "at depth limit",
			schema: &CalculationSchema{ConditionGroups: []*ConditionGroup{nestedGroup(3)}},
			opts:   ValidateOptions{MaxDepth: 3},
		},
		{
			name:    "expression without evaluator",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&ExpressionRule{Expression: "true"}}}}},
			wantErr: true,
		},
		{
			name:   "expression with evaluator",
			schema: &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&ExpressionRule{Expression: "data.total > 0.0"}}}}},
			opts:   ValidateOptions{Expressions: evaluator},
		},
		{
			name:    "expression not bool",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&ExpressionRule{Expression: "1 + 2"}}}}},
			opts:    ValidateOptions{Expressions: evaluator},
			wantErr: true,
		},
		{
			name:    "percentage out of range",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{&PercentageThresholdRule{FieldID: "r", Operator: OpGreater, Threshold: 150}}}}},
			wantErr: true,
		},
		{
			name:    "invalid output status",
			schema:  &CalculationSchema{ConditionGroups: []*ConditionGroup{{Operator: LogicAnd, Rules: []Condition{leaf}}}, OutputStatusOnFail: "MAYBE"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsCalculationEngineError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name     string
		statuses []ValidationStatus
		want     ValidationStatus
	}{
		{name: "empty", want: StatusPass},
		{name: "all pass", statuses: []ValidationStatus{StatusPass, StatusPass}, want: StatusPass},
		{name: "conditional wins over pass", statuses: []ValidationStatus{StatusPass, StatusConditional}, want: StatusConditional},
		{name: "fail wins", statuses: []ValidationStatus{StatusConditional, StatusFail, StatusPass}, want: StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Combine(tt.statuses...))
		})
	}
}
