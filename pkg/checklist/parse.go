package checklist

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cast"
	"sinag/pkg/values"
)

func ParseConfigJSON(data []byte) (*Config, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, configErrorf("", "invalid JSON: %v", err)
	}
	return ParseConfig(raw)
}

// ParseConfig decodes the authored form of a MOV checklist.
func ParseConfig(raw interface{}) (*Config, error) {
	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, configErrorf("", "config must be an object, got %T", raw)
	}

	cfg := &Config{ValidationMode: ModeStrict}

	if rawMode, ok := root["validation_mode"]; ok && rawMode != nil {
		mode, ok := rawMode.(string)
		if !ok {
			return nil, configErrorf("validation_mode", "must be a string, got %T", rawMode)
		}
		if mode != "" {
			cfg.ValidationMode = ValidationMode(strings.ToLower(mode))
		}
	}
	if cfg.ValidationMode != ModeStrict && cfg.ValidationMode != ModeLenient {
		return nil, configErrorf("validation_mode", "must be strict or lenient, got %q", cfg.ValidationMode)
	}

	items, err := parseItems("items", root["items"])
	if err != nil {
		return nil, err
	}
	cfg.Items = items

	return cfg, nil
}

func parseItems(path string, raw interface{}) ([]Item, error) {
	if raw == nil {
		return nil, configErrorf(path, "is required")
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, configErrorf(path, "must be a list, got %T", raw)
	}

	items := make([]Item, 0, len(list))
	for i, rawItem := range list {
		item, err := parseItem(fmt.Sprintf("%s[%d]", path, i), rawItem)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(path string, raw interface{}) (Item, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, configErrorf(path, "must be an object, got %T", raw)
	}

	id, ok := m["id"].(string)
	if !ok || id == "" {
		return nil, configErrorf(path+".id", "must be a non-empty string")
	}
	itemType, ok := m["type"].(string)
	if !ok || itemType == "" {
		return nil, configErrorf(path+".type", "must be a non-empty string")
	}

	label, _ := m["label"].(string)
	required, err := optionalBool(path, m, "required", false)
	if err != nil {
		return nil, err
	}
	base := ItemBase{ID: id, Label: label, Required: required}

	switch ItemType(itemType) {
	case TypeCheckbox:
		defaultValue, err := optionalBool(path, m, "default_value", false)
		if err != nil {
			return nil, err
		}
		return &CheckboxItem{ItemBase: base, DefaultValue: defaultValue}, nil

	case TypeCurrencyInput:
		bounds, err := parseBounds(path, m)
		if err != nil {
			return nil, err
		}
		return &CurrencyInputItem{ItemBase: base, NumericBounds: bounds}, nil

	case TypeNumberInput:
		bounds, err := parseBounds(path, m)
		if err != nil {
			return nil, err
		}
		return &NumberInputItem{ItemBase: base, NumericBounds: bounds}, nil

	case TypeTextInput:
		maxLength, err := optionalInt(path, m, "max_length")
		if err != nil {
			return nil, err
		}
		pattern := ""
		if rawPattern, ok := m["validation_pattern"]; ok && rawPattern != nil {
			if pattern, ok = rawPattern.(string); !ok {
				return nil, configErrorf(path+".validation_pattern", "must be a string, got %T", rawPattern)
			}
		}
		item, err := NewTextInputItem(base, maxLength, pattern)
		if err != nil {
			return nil, configErrorf(path+".validation_pattern", "invalid pattern: %v", err)
		}
		return item, nil

	case TypeDateInput:
		minDate, err := optionalDate(path, m, "min_date")
		if err != nil {
			return nil, err
		}
		maxDate, err := optionalDate(path, m, "max_date")
		if err != nil {
			return nil, err
		}
		grace, err := optionalInt(path, m, "grace_period_days")
		if err != nil {
			return nil, err
		}
		considered, err := optionalBool(path, m, "considered_status_enabled", true)
		if err != nil {
			return nil, err
		}
		return &DateInputItem{
			ItemBase:                base,
			MinDate:                 minDate,
			MaxDate:                 maxDate,
			GracePeriodDays:         grace,
			ConsideredStatusEnabled: considered,
		}, nil

	case TypeAssessment:
		assessmentType, _ := m["assessment_type"].(string)
		return &AssessmentItem{ItemBase: base, AssessmentType: AssessmentType(strings.ToUpper(assessmentType))}, nil

	case TypeRadioGroup:
		options, err := parseOptions(path, m)
		if err != nil {
			return nil, err
		}
		return &RadioGroupItem{ItemBase: base, Options: options}, nil

	case TypeDropdown:
		options, err := parseOptions(path, m)
		if err != nil {
			return nil, err
		}
		allowMultiple, err := optionalBool(path, m, "allow_multiple", false)
		if err != nil {
			return nil, err
		}
		return &DropdownItem{ItemBase: base, Options: options, AllowMultiple: allowMultiple}, nil

	case TypeGroup:
		return parseGroup(path, m, base)

	default:
		return &UnknownItem{ItemBase: base, Type: itemType}, nil
	}
}

func parseGroup(path string, m map[string]interface{}, base ItemBase) (*GroupItem, error) {
	opRaw, _ := m["logic_operator"].(string)
	op := LogicOperator(strings.ToUpper(opRaw))
	if op != LogicAnd && op != LogicOr {
		return nil, configErrorf(path+".logic_operator", "must be AND or OR, got %v", m["logic_operator"])
	}

	minRequired, err := optionalInt(path, m, "min_required")
	if err != nil {
		return nil, err
	}
	if _, ok := m["min_required"]; ok && m["min_required"] != nil && minRequired < 1 {
		return nil, configErrorf(path+".min_required", "must be at least 1, got %d", minRequired)
	}

	children, err := parseItems(path+".children", m["children"])
	if err != nil {
		return nil, err
	}

	return &GroupItem{
		ItemBase:      base,
		LogicOperator: op,
		MinRequired:   minRequired,
		Children:      children,
	}, nil
}

func parseBounds(path string, m map[string]interface{}) (NumericBounds, error) {
	var bounds NumericBounds
	var err error
	if bounds.MinValue, err = optionalNumber(path, m, "min_value"); err != nil {
		return bounds, err
	}
	if bounds.MaxValue, err = optionalNumber(path, m, "max_value"); err != nil {
		return bounds, err
	}
	if bounds.Threshold, err = optionalNumber(path, m, "threshold"); err != nil {
		return bounds, err
	}
	return bounds, nil
}

func parseOptions(path string, m map[string]interface{}) ([]Option, error) {
	raw, ok := m["options"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, configErrorf(path+".options", "must be a list, got %T", raw)
	}

	options := make([]Option, 0, len(list))
	for i, rawOpt := range list {
		optPath := fmt.Sprintf("%s.options[%d]", path, i)
		switch o := rawOpt.(type) {
		case map[string]interface{}:
			value, err := cast.ToStringE(o["value"])
			if err != nil || o["value"] == nil {
				return nil, configErrorf(optPath+".value", "must be a scalar value")
			}
			label, _ := o["label"].(string)
			if label == "" {
				label = value
			}
			options = append(options, Option{Label: label, Value: value})
		default:
			value, err := cast.ToStringE(o)
			if err != nil || o == nil {
				return nil, configErrorf(optPath, "must be a string or an object with label and value")
			}
			options = append(options, Option{Label: value, Value: value})
		}
	}
	return options, nil
}

func optionalBool(path string, m map[string]interface{}, key string, fallback bool) (bool, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, configErrorf(path+"."+key, "must be a boolean, got %T", raw)
	}
	return b, nil
}

func optionalNumber(path string, m map[string]interface{}, key string) (*float64, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	n, ok := values.Number(raw)
	if !ok {
		return nil, configErrorf(path+"."+key, "must be a number, got %T", raw)
	}
	return &n, nil
}

func optionalInt(path string, m map[string]interface{}, key string) (int, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, nil
	}
	n, ok := values.Number(raw)
	if !ok || n != math.Trunc(n) {
		return 0, configErrorf(path+"."+key, "must be an integer, got %v", raw)
	}
	if n < 0 {
		return 0, configErrorf(path+"."+key, "must not be negative, got %v", raw)
	}
	return int(n), nil
}

func optionalDate(path string, m map[string]interface{}, key string) (*time.Time, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	d, ok := values.Date(raw)
	if !ok {
		return nil, configErrorf(path+"."+key, "must be a date, got %v", raw)
	}
	return &d, nil
}
