package checklist

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"sinag/internal/constants"
	"sinag/internal/logger"
	"sinag/pkg/values"
)

type missingValue struct{}

func (missingValue) String() string { return "<missing>" }

// Missing stands in for an item that has no submitted value.
var Missing interface{} = missingValue{}

func isMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	_, ok := v.(missingValue)
	return ok
}

// Validator evaluates checklist items against submitted values. It holds no
// per-call state and is safe for concurrent use.
type Validator struct {
	logger   logger.Logger
	maxDepth int
}

type ValidatorOption func(*Validator)

func WithLogger(log logger.Logger) ValidatorOption {
	return func(v *Validator) {
		if log != nil {
			v.logger = log
		}
	}
}

func WithMaxDepth(depth int) ValidatorOption {
	return func(v *Validator) {
		if depth > 0 {
			v.maxDepth = depth
		}
	}
}

func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		logger:   logger.NopLogger(),
		maxDepth: constants.DefaultMaxNestingDepth,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateChecklist validates every top-level item and aggregates the results.
func (v *Validator) ValidateChecklist(ctx context.Context, cfg *Config, submission map[string]interface{}) Result {
	result := Result{
		ItemResults: make(map[string]Status),
		Errors:      []string{},
	}
	if cfg == nil {
		result.Status = StatusFailed
		result.Errors = append(result.Errors, "checklist config is nil")
		return result
	}

	statuses := make([]Status, 0, len(cfg.Items))
	known := make(map[string]bool, len(cfg.Items))
	for _, item := range cfg.Items {
		if item == nil {
			continue
		}
		known[item.ItemID()] = true

		status, errs := v.validate(ctx, item, submittedValue(submission, item.ItemID()), 1, result.ItemResults)
		statuses = append(statuses, status)
		result.Errors = append(result.Errors, errs...)
	}

	result.Status = StatusPassed
	switch aggregate(statuses) {
	case StatusFailed:
		result.Status = StatusFailed
	case StatusConsidered:
		result.Status = StatusConsidered
	}

	if cfg.ValidationMode != ModeLenient {
		unknown := make([]string, 0)
		for key := range submission {
			if !known[key] {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: not a checklist item", key))
		}
		if len(unknown) > 0 {
			result.Status = StatusFailed
		}
	}

	return result
}

// ValidateItem validates a single item. For groups, value is the map of child
// submissions keyed by child id.
func (v *Validator) ValidateItem(ctx context.Context, item Item, value interface{}) (Status, []string) {
	return v.validate(ctx, item, value, 1, nil)
}

func (v *Validator) validate(ctx context.Context, item Item, value interface{}, depth int, results map[string]Status) (Status, []string) {
	if item == nil {
		return StatusFailed, []string{"item is nil"}
	}

	var status Status
	var errs []string
	if depth > v.maxDepth {
		v.logger.WarnwCtx(ctx, "Checklist item exceeds maximum nesting depth",
			"item_id", item.ItemID(),
			"max_depth", v.maxDepth,
		)
		status, errs = StatusFailed, []string{itemError(item, "nesting depth exceeds maximum %d", v.maxDepth)}
	} else if group, ok := item.(*GroupItem); ok {
		status, errs = v.validateGroup(ctx, group, value, depth, results)
	} else {
		status, errs = v.validateLeaf(ctx, item, value)
	}

	if results != nil {
		results[item.ItemID()] = status
	}
	return status, errs
}

// validateLeaf dispatches on the item type. Missing values go through the same
// type check as any other value.
func (v *Validator) validateLeaf(ctx context.Context, item Item, value interface{}) (Status, []string) {
	switch it := item.(type) {
	case *CheckboxItem:
		return validateCheckbox(it, value)
	case *CurrencyInputItem:
		return validateNumeric(it, it.NumericBounds, value)
	case *NumberInputItem:
		return validateNumeric(it, it.NumericBounds, value)
	case *TextInputItem:
		return validateText(it, value)
	case *DateInputItem:
		return validateDate(it, value)
	case *AssessmentItem:
		return v.validateAssessment(ctx, it, value)
	case *RadioGroupItem:
		return validateRadio(it, value)
	case *DropdownItem:
		return validateDropdown(it, value)
	case *UnknownItem:
		v.logger.WarnwCtx(ctx, "Unknown checklist item type, item fails",
			"item_id", it.ID,
			"type", it.Type,
		)
		return StatusFailed, []string{itemError(item, "unknown item type %q", it.Type)}
	default:
		v.logger.WarnwCtx(ctx, "Unsupported checklist item, item fails",
			"item_id", item.ItemID(),
		)
		return StatusFailed, []string{itemError(item, "unsupported item")}
	}
}

func validateCheckbox(item *CheckboxItem, value interface{}) (Status, []string) {
	checked, ok := value.(bool)
	if !ok && !isMissing(value) {
		return StatusFailed, []string{itemError(item, "expected a boolean, got %T", value)}
	}
	switch {
	case checked:
		return StatusPassed, nil
	case item.Required:
		return StatusFailed, []string{itemError(item, "must be checked")}
	default:
		return StatusNotApplicable, nil
	}
}

func validateNumeric(item Item, bounds NumericBounds, value interface{}) (Status, []string) {
	number, ok := values.Number(value)
	if !ok {
		return invalidValue(item, value, "expected a number, got %T", value)
	}

	status := CalculateThresholdStatus(number, bounds.MinValue, bounds.MaxValue, bounds.Threshold)
	if status != StatusFailed {
		return status, nil
	}
	if bounds.MinValue != nil && number < *bounds.MinValue {
		return status, []string{itemError(item, "value %v is below minimum %v", number, *bounds.MinValue)}
	}
	return status, []string{itemError(item, "value %v exceeds maximum %v", number, *bounds.MaxValue)}
}

func validateText(item *TextInputItem, value interface{}) (Status, []string) {
	text, ok := value.(string)
	if !ok && !isMissing(value) {
		return StatusFailed, []string{itemError(item, "expected text, got %T", value)}
	}
	if strings.TrimSpace(text) == "" {
		if item.Required {
			return StatusFailed, []string{itemError(item, "required item is empty")}
		}
		return StatusNotApplicable, nil
	}
	if item.MaxLength > 0 && utf8.RuneCountInString(text) > item.MaxLength {
		return StatusFailed, []string{itemError(item, "length %d exceeds maximum %d", utf8.RuneCountInString(text), item.MaxLength)}
	}
	if item.ValidationPattern != "" {
		pattern := item.pattern
		if pattern == nil {
			var err error
			if pattern, err = compileFullMatch(item.ValidationPattern); err != nil {
				return StatusFailed, []string{itemError(item, "invalid validation pattern: %v", err)}
			}
		}
		if !pattern.MatchString(text) {
			return StatusFailed, []string{itemError(item, "value does not match the required format")}
		}
	}
	return StatusPassed, nil
}

func validateDate(item *DateInputItem, value interface{}) (Status, []string) {
	submitted, ok := values.Date(value)
	if !ok {
		return invalidValue(item, value, "expected a date, got %v", value)
	}
	if item.MinDate != nil && submitted.Before(calendarDay(*item.MinDate)) {
		return StatusFailed, []string{itemError(item, "date %s is before %s", formatDay(submitted), formatDay(*item.MinDate))}
	}
	if item.MaxDate == nil {
		return StatusPassed, nil
	}

	status := CheckGracePeriod(*item.MaxDate, submitted, item.GracePeriodDays)
	switch status {
	case StatusConsidered:
		if !item.ConsideredStatusEnabled {
			return StatusFailed, []string{itemError(item, "date %s is after the deadline %s", formatDay(submitted), formatDay(*item.MaxDate))}
		}
		return StatusConsidered, nil
	case StatusFailed:
		if item.GracePeriodDays > 0 {
			return StatusFailed, []string{itemError(item, "date %s is beyond the %d day grace period after %s", formatDay(submitted), item.GracePeriodDays, formatDay(*item.MaxDate))}
		}
		return StatusFailed, []string{itemError(item, "date %s is after the deadline %s", formatDay(submitted), formatDay(*item.MaxDate))}
	default:
		return status, nil
	}
}

func (v *Validator) validateAssessment(ctx context.Context, item *AssessmentItem, value interface{}) (Status, []string) {
	answer, ok := value.(string)
	if !ok {
		return invalidValue(item, value, "expected an answer, got %T", value)
	}
	answer = strings.ToUpper(strings.TrimSpace(answer))

	var passing string
	switch item.AssessmentType {
	case AssessmentYesNo:
		passing = "YES"
	case AssessmentCompliantNonCompliant:
		passing = "COMPLIANT"
	default:
		v.logger.WarnwCtx(ctx, "Unknown assessment type, item fails",
			"item_id", item.ID,
			"assessment_type", string(item.AssessmentType),
		)
		return StatusFailed, []string{itemError(item, "unknown assessment type %q", item.AssessmentType)}
	}

	if answer != passing {
		return StatusFailed, []string{itemError(item, "answer %q is not %s", answer, passing)}
	}
	return StatusPassed, nil
}

func validateRadio(item *RadioGroupItem, value interface{}) (Status, []string) {
	choice, ok := value.(string)
	if !ok {
		return invalidValue(item, value, "expected a single option, got %T", value)
	}
	if !hasOption(item.Options, choice) {
		return StatusFailed, []string{itemError(item, "invalid option %q", choice)}
	}
	return StatusPassed, nil
}

func validateDropdown(item *DropdownItem, value interface{}) (Status, []string) {
	if !item.AllowMultiple {
		choice, ok := value.(string)
		if !ok {
			return invalidValue(item, value, "expected a single option, got %T", value)
		}
		if !hasOption(item.Options, choice) {
			return StatusFailed, []string{itemError(item, "invalid option %q", choice)}
		}
		return StatusPassed, nil
	}

	choices, ok := stringList(value)
	if !ok {
		return invalidValue(item, value, "expected a list of options, got %T", value)
	}
	if len(choices) == 0 {
		if item.Required {
			return StatusFailed, []string{itemError(item, "at least one option must be selected")}
		}
		return StatusNotApplicable, nil
	}

	var invalid []string
	for _, choice := range choices {
		if !hasOption(item.Options, choice) {
			invalid = append(invalid, choice)
		}
	}
	if len(invalid) > 0 {
		return StatusFailed, []string{itemError(item, "invalid options: %s", strings.Join(invalid, ", "))}
	}
	return StatusPassed, nil
}

func (v *Validator) validateGroup(ctx context.Context, group *GroupItem, value interface{}, depth int, results map[string]Status) (Status, []string) {
	var sub map[string]interface{}
	if !isMissing(value) {
		m, ok := value.(map[string]interface{})
		if !ok {
			return StatusFailed, []string{itemError(group, "expected an object of child values, got %T", value)}
		}
		sub = m
	}

	statuses := make([]Status, 0, len(group.Children))
	var childErrs []string
	for _, child := range group.Children {
		if child == nil {
			continue
		}
		status, errs := v.validate(ctx, child, submittedValue(sub, child.ItemID()), depth+1, results)
		statuses = append(statuses, status)
		childErrs = append(childErrs, errs...)
	}

	if group.LogicOperator == LogicOr {
		return orGroupStatus(group, statuses, childErrs)
	}
	if group.LogicOperator != LogicAnd {
		v.logger.WarnwCtx(ctx, "Unknown group logic operator, group fails",
			"item_id", group.ID,
			"logic_operator", string(group.LogicOperator),
		)
		return StatusFailed, append(childErrs, itemError(group, "unknown logic operator %q", group.LogicOperator))
	}

	status := aggregate(statuses)
	if status == StatusFailed {
		return status, childErrs
	}
	return status, nil
}

func orGroupStatus(group *GroupItem, statuses []Status, childErrs []string) (Status, []string) {
	minRequired := group.MinRequired
	if minRequired < 1 {
		minRequired = 1
	}

	passed, considered := 0, 0
	for _, s := range statuses {
		switch s {
		case StatusPassed:
			passed++
		case StatusConsidered:
			considered++
		}
	}

	if passed+considered < minRequired {
		noun := "items"
		if minRequired == 1 {
			noun = "item"
		}
		return StatusFailed, append(childErrs, itemError(group, "at least %d %s must pass", minRequired, noun))
	}
	if considered > 0 {
		return StatusConsidered, nil
	}
	return StatusPassed, nil
}

// invalidValue reports a value that failed its type check. An absent value
// fails required items and leaves optional ones not applicable.
func invalidValue(item Item, value interface{}, format string, args ...interface{}) (Status, []string) {
	if !isMissing(value) {
		return StatusFailed, []string{itemError(item, format, args...)}
	}
	if item.IsRequired() {
		return StatusFailed, []string{itemError(item, "required item is missing")}
	}
	return StatusNotApplicable, nil
}

func submittedValue(submission map[string]interface{}, id string) interface{} {
	value, ok := submission[id]
	if !ok || value == nil {
		return Missing
	}
	return value
}

func stringList(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case string:
		return []string{v}, true
	case []string:
		return v, true
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func itemError(item Item, format string, args ...interface{}) string {
	return item.ItemID() + ": " + fmt.Sprintf(format, args...)
}

func formatDay(t time.Time) string {
	return t.Format("2006-01-02")
}
