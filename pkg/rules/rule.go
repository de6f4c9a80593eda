package rules

type RuleType string

const (
	RuleTypeMatchValue            RuleType = "MATCH_VALUE"
	RuleTypePercentageThreshold   RuleType = "PERCENTAGE_THRESHOLD"
	RuleTypeCountThreshold        RuleType = "COUNT_THRESHOLD"
	RuleTypeBBIFunctionalityCheck RuleType = "BBI_FUNCTIONALITY_CHECK"
	RuleTypeExpression            RuleType = "EXPRESSION"
	RuleTypeAndAll                RuleType = "AND_ALL"
	RuleTypeOrAny                 RuleType = "OR_ANY"
)

type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpContains       Operator = "contains"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
)

type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

var matchOperators = map[Operator]bool{
	OpEqual:    true,
	OpNotEqual: true,
	OpContains: true,
}

var thresholdOperators = map[Operator]bool{
	OpGreaterOrEqual: true,
	OpLessOrEqual:    true,
	OpGreater:        true,
	OpLess:           true,
	OpEqual:          true,
}

// Condition is one node of a calculation schema. The set of implementations is
// closed: every node is one of the rule types below, a composite or a group.
type Condition interface {
	condition()
}

type MatchValueRule struct {
	FieldID       string
	Operator      Operator
	ExpectedValue interface{}
}

type PercentageThresholdRule struct {
	FieldID   string
	Operator  Operator
	Threshold float64
}

// NewPercentageThresholdRule rejects thresholds outside [0,100].
func NewPercentageThresholdRule(fieldID string, op Operator, threshold float64) (*PercentageThresholdRule, error) {
	if !thresholdOperators[op] {
		return nil, schemaErrorf("", "invalid operator %q for %s", op, RuleTypePercentageThreshold)
	}
	if threshold < 0 || threshold > 100 {
		return nil, schemaErrorf("", "percentage threshold must be between 0 and 100, got %v", threshold)
	}
	return &PercentageThresholdRule{FieldID: fieldID, Operator: op, Threshold: threshold}, nil
}

type CountThresholdRule struct {
	FieldID   string
	Operator  Operator
	Threshold int
}

// BBIFunctionalityCheckRule is accepted in schemas but always evaluates to false
// until BBI functionality data is available to the engine.
type BBIFunctionalityCheckRule struct {
	BBIID          string
	ExpectedStatus string
}

// ExpressionRule evaluates a CEL expression over the response data, exposed as `data`.
type ExpressionRule struct {
	Expression string
}

type AndAllRule struct {
	Conditions []Condition
}

type OrAnyRule struct {
	Conditions []Condition
}

type ConditionGroup struct {
	Operator LogicOperator
	Rules    []Condition
}

// UnknownRule keeps an unrecognised rule_type so that evaluation can fail it
// closed instead of rejecting the whole schema.
type UnknownRule struct {
	RuleType string
}

func (*MatchValueRule) condition()            {}
func (*PercentageThresholdRule) condition()   {}
func (*CountThresholdRule) condition()        {}
func (*BBIFunctionalityCheckRule) condition() {}
func (*ExpressionRule) condition()            {}
func (*AndAllRule) condition()                {}
func (*OrAnyRule) condition()                 {}
func (*ConditionGroup) condition()            {}
func (*UnknownRule) condition()               {}

type CalculationSchema struct {
	ConditionGroups    []*ConditionGroup
	OutputStatusOnPass ValidationStatus
	OutputStatusOnFail ValidationStatus
}
