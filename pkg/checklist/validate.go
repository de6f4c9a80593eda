package checklist

import (
	"fmt"

	"sinag/internal/constants"
)

// Validate checks authoring constraints that parsing alone does not: unique
// ids, group shape, band ordering, known types and nesting depth.
func (c *Config) Validate(maxDepth int) error {
	if c == nil {
		return configErrorf("", "config is nil")
	}
	if c.ValidationMode != "" && c.ValidationMode != ModeStrict && c.ValidationMode != ModeLenient {
		return configErrorf("validation_mode", "must be strict or lenient, got %q", c.ValidationMode)
	}
	if maxDepth <= 0 {
		maxDepth = constants.DefaultMaxNestingDepth
	}

	seen := make(map[string]string)
	for i, item := range c.Items {
		if err := validateItemConfig(fmt.Sprintf("items[%d]", i), item, 1, maxDepth, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateItemConfig(path string, item Item, depth, maxDepth int, seen map[string]string) error {
	if item == nil {
		return configErrorf(path, "item is nil")
	}
	if depth > maxDepth {
		return configErrorf(path, "nesting depth exceeds maximum %d", maxDepth)
	}

	id := item.ItemID()
	if id == "" {
		return configErrorf(path+".id", "must not be empty")
	}
	if other, ok := seen[id]; ok {
		return configErrorf(path+".id", "duplicate id %q, already used at %s", id, other)
	}
	seen[id] = path

	switch it := item.(type) {
	case *CheckboxItem:
	case *CurrencyInputItem:
		return validateBounds(path, it.NumericBounds)
	case *NumberInputItem:
		return validateBounds(path, it.NumericBounds)
	case *TextInputItem:
		if it.MaxLength < 0 {
			return configErrorf(path+".max_length", "must not be negative")
		}
		if it.ValidationPattern != "" {
			if _, err := compileFullMatch(it.ValidationPattern); err != nil {
				return configErrorf(path+".validation_pattern", "invalid pattern: %v", err)
			}
		}
	case *DateInputItem:
		if it.GracePeriodDays < 0 {
			return configErrorf(path+".grace_period_days", "must not be negative")
		}
		if it.MinDate != nil && it.MaxDate != nil && it.MinDate.After(*it.MaxDate) {
			return configErrorf(path+".min_date", "must not be after max_date")
		}
	case *AssessmentItem:
		if it.AssessmentType != AssessmentYesNo && it.AssessmentType != AssessmentCompliantNonCompliant {
			return configErrorf(path+".assessment_type", "unknown assessment type %q", it.AssessmentType)
		}
	case *RadioGroupItem:
		if len(it.Options) == 0 {
			return configErrorf(path+".options", "must not be empty")
		}
	case *DropdownItem:
		if len(it.Options) == 0 {
			return configErrorf(path+".options", "must not be empty")
		}
	case *GroupItem:
		return validateGroupConfig(path, it, depth, maxDepth, seen)
	case *UnknownItem:
		return configErrorf(path+".type", "unknown item type %q", it.Type)
	default:
		return configErrorf(path, "unsupported item %T", item)
	}
	return nil
}

func validateGroupConfig(path string, group *GroupItem, depth, maxDepth int, seen map[string]string) error {
	if group.LogicOperator != LogicAnd && group.LogicOperator != LogicOr {
		return configErrorf(path+".logic_operator", "must be AND or OR, got %q", group.LogicOperator)
	}
	if len(group.Children) == 0 {
		return configErrorf(path+".children", "must not be empty")
	}
	if group.MinRequired != 0 {
		if group.LogicOperator != LogicOr {
			return configErrorf(path+".min_required", "only applies to OR groups")
		}
		if group.MinRequired < 1 || group.MinRequired > len(group.Children) {
			return configErrorf(path+".min_required", "must be between 1 and %d, got %d", len(group.Children), group.MinRequired)
		}
	}

	for i, child := range group.Children {
		if err := validateItemConfig(fmt.Sprintf("%s.children[%d]", path, i), child, depth+1, maxDepth, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateBounds(path string, b NumericBounds) error {
	if b.MinValue != nil && b.MaxValue != nil && *b.MinValue > *b.MaxValue {
		return configErrorf(path+".min_value", "must not exceed max_value")
	}
	if b.Threshold != nil {
		if b.MinValue == nil {
			return configErrorf(path+".min_value", "is required when threshold is set")
		}
		if *b.Threshold < *b.MinValue {
			return configErrorf(path+".threshold", "must not be below min_value")
		}
		if b.MaxValue != nil && *b.Threshold > *b.MaxValue {
			return configErrorf(path+".threshold", "must not exceed max_value")
		}
	}
	return nil
}
