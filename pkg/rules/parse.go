package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"sinag/pkg/values"
)

func ParseCalculationSchemaJSON(data []byte) (*CalculationSchema, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, schemaErrorf("", "invalid JSON: %v", err)
	}
	return ParseCalculationSchema(raw)
}

// ParseCalculationSchema decodes the authored form of a schema, as produced by
// encoding/json or a YAML decoder.
func ParseCalculationSchema(raw interface{}) (*CalculationSchema, error) {
	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, schemaErrorf("", "schema must be an object, got %T", raw)
	}

	rawGroups, ok := root["condition_groups"]
	if !ok {
		return nil, schemaErrorf("", "missing required key condition_groups")
	}
	groupList, ok := rawGroups.([]interface{})
	if !ok {
		return nil, schemaErrorf("condition_groups", "must be a list, got %T", rawGroups)
	}
	if len(groupList) == 0 {
		return nil, schemaErrorf("condition_groups", "must contain at least one group")
	}

	schema := &CalculationSchema{
		ConditionGroups: make([]*ConditionGroup, 0, len(groupList)),
	}

	for i, rawGroup := range groupList {
		path := fmt.Sprintf("condition_groups[%d]", i)
		m, ok := rawGroup.(map[string]interface{})
		if !ok {
			return nil, schemaErrorf(path, "must be an object, got %T", rawGroup)
		}
		group, err := parseGroup(path, m)
		if err != nil {
			return nil, err
		}
		schema.ConditionGroups = append(schema.ConditionGroups, group)
	}

	var err error
	if schema.OutputStatusOnPass, err = parseOutputStatus(root, "output_status_on_pass", StatusPass); err != nil {
		return nil, err
	}
	if schema.OutputStatusOnFail, err = parseOutputStatus(root, "output_status_on_fail", StatusFail); err != nil {
		return nil, err
	}

	return schema, nil
}

func parseOutputStatus(root map[string]interface{}, key string, fallback ValidationStatus) (ValidationStatus, error) {
	raw, ok := root[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", schemaErrorf(key, "must be a string, got %T", raw)
	}
	if s == "" {
		return fallback, nil
	}
	status := ValidationStatus(strings.ToUpper(s))
	if !status.IsValid() {
		return "", schemaErrorf(key, "unknown status %q (valid: PASS, FAIL, CONDITIONAL)", s)
	}
	return status, nil
}

func parseGroup(path string, m map[string]interface{}) (*ConditionGroup, error) {
	opRaw, _ := m["operator"].(string)
	op := LogicOperator(strings.ToUpper(opRaw))
	if op != LogicAnd && op != LogicOr {
		return nil, schemaErrorf(path+".operator", "must be AND or OR, got %v", m["operator"])
	}

	children, err := parseConditionList(path+".rules", m["rules"])
	if err != nil {
		return nil, err
	}

	return &ConditionGroup{Operator: op, Rules: children}, nil
}

func parseConditionList(path string, raw interface{}) ([]Condition, error) {
	if raw == nil {
		return nil, schemaErrorf(path, "is required")
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, schemaErrorf(path, "must be a list, got %T", raw)
	}

	conditions := make([]Condition, 0, len(list))
	for i, item := range list {
		cond, err := parseCondition(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

func parseCondition(path string, raw interface{}) (Condition, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, schemaErrorf(path, "must be an object, got %T", raw)
	}

	rawType, hasType := m["rule_type"]
	if !hasType {
		if _, hasRules := m["rules"]; hasRules {
			return parseGroup(path, m)
		}
		return nil, schemaErrorf(path, "must declare rule_type or be a condition group with operator and rules")
	}

	ruleType, ok := rawType.(string)
	if !ok || ruleType == "" {
		return nil, schemaErrorf(path+".rule_type", "must be a non-empty string")
	}

	switch RuleType(ruleType) {
	case RuleTypeMatchValue:
		fieldID, err := requireString(path, m, "field_id")
		if err != nil {
			return nil, err
		}
		op, err := parseOperator(path, m, matchOperators)
		if err != nil {
			return nil, err
		}
		return &MatchValueRule{FieldID: fieldID, Operator: op, ExpectedValue: m["expected_value"]}, nil

	case RuleTypePercentageThreshold:
		fieldID, err := requireString(path, m, "field_id")
		if err != nil {
			return nil, err
		}
		op, err := parseOperator(path, m, thresholdOperators)
		if err != nil {
			return nil, err
		}
		threshold, ok := values.Number(m["threshold"])
		if !ok {
			return nil, schemaErrorf(path+".threshold", "must be a number, got %T", m["threshold"])
		}
		rule, err := NewPercentageThresholdRule(fieldID, op, threshold)
		if err != nil {
			err.(*CalculationEngineError).Path = path + ".threshold"
			return nil, err
		}
		return rule, nil

	case RuleTypeCountThreshold:
		fieldID, err := requireString(path, m, "field_id")
		if err != nil {
			return nil, err
		}
		op, err := parseOperator(path, m, thresholdOperators)
		if err != nil {
			return nil, err
		}
		threshold, ok := values.Number(m["threshold"])
		if !ok || threshold != math.Trunc(threshold) {
			return nil, schemaErrorf(path+".threshold", "must be an integer, got %v", m["threshold"])
		}
		return &CountThresholdRule{FieldID: fieldID, Operator: op, Threshold: int(threshold)}, nil

	case RuleTypeBBIFunctionalityCheck:
		bbiID, err := requireString(path, m, "bbi_id")
		if err != nil {
			return nil, err
		}
		expected, _ := m["expected_status"].(string)
		return &BBIFunctionalityCheckRule{BBIID: bbiID, ExpectedStatus: expected}, nil

	case RuleTypeExpression:
		expr, err := requireString(path, m, "expression")
		if err != nil {
			return nil, err
		}
		return &ExpressionRule{Expression: expr}, nil

	case RuleTypeAndAll:
		conditions, err := parseConditionList(path+".conditions", m["conditions"])
		if err != nil {
			return nil, err
		}
		return &AndAllRule{Conditions: conditions}, nil

	case RuleTypeOrAny:
		conditions, err := parseConditionList(path+".conditions", m["conditions"])
		if err != nil {
			return nil, err
		}
		return &OrAnyRule{Conditions: conditions}, nil

	default:
		return &UnknownRule{RuleType: ruleType}, nil
	}
}

func requireString(path string, m map[string]interface{}, key string) (string, error) {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return "", schemaErrorf(path+"."+key, "must be a non-empty string")
	}
	return s, nil
}

func parseOperator(path string, m map[string]interface{}, allowed map[Operator]bool) (Operator, error) {
	s, ok := m["operator"].(string)
	if !ok {
		return "", schemaErrorf(path+".operator", "must be a string")
	}
	op := Operator(s)
	if !allowed[op] {
		return "", schemaErrorf(path+".operator", "unsupported operator %q", s)
	}
	return op, nil
}
