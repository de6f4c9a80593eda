package checklist

import (
	"regexp"
	"time"
)

type ItemType string

const (
	TypeCheckbox      ItemType = "checkbox"
	TypeCurrencyInput ItemType = "currency_input"
	TypeNumberInput   ItemType = "number_input"
	TypeTextInput     ItemType = "text_input"
	TypeDateInput     ItemType = "date_input"
	TypeAssessment    ItemType = "assessment"
	TypeRadioGroup    ItemType = "radio_group"
	TypeDropdown      ItemType = "dropdown"
	TypeGroup         ItemType = "group"
)

type AssessmentType string

const (
	AssessmentYesNo                 AssessmentType = "YES_NO"
	AssessmentCompliantNonCompliant AssessmentType = "COMPLIANT_NON_COMPLIANT"
)

type LogicOperator string

const (
	LogicAnd LogicOperator = "AND"
	LogicOr  LogicOperator = "OR"
)

type ValidationMode string

const (
	ModeStrict  ValidationMode = "strict"
	ModeLenient ValidationMode = "lenient"
)

// Item is one entry of a MOV checklist. Implementations are limited to the
// types in this file.
type Item interface {
	ItemID() string
	ItemLabel() string
	IsRequired() bool
	item()
}

type ItemBase struct {
	ID       string
	Label    string
	Required bool
}

func (b ItemBase) ItemID() string    { return b.ID }
func (b ItemBase) ItemLabel() string { return b.Label }
func (b ItemBase) IsRequired() bool  { return b.Required }
func (ItemBase) item()               {}

type CheckboxItem struct {
	ItemBase
	DefaultValue bool
}

// NumericBounds holds the threshold band of currency and number inputs. Nil
// fields are not enforced.
type NumericBounds struct {
	MinValue  *float64
	MaxValue  *float64
	Threshold *float64
}

type CurrencyInputItem struct {
	ItemBase
	NumericBounds
}

type NumberInputItem struct {
	ItemBase
	NumericBounds
}

type TextInputItem struct {
	ItemBase
	// MaxLength is measured in characters; zero disables the check.
	MaxLength         int
	ValidationPattern string

	pattern *regexp.Regexp
}

// NewTextInputItem compiles the validation pattern once. The pattern must match
// the whole value.
func NewTextInputItem(base ItemBase, maxLength int, validationPattern string) (*TextInputItem, error) {
	item := &TextInputItem{
		ItemBase:          base,
		MaxLength:         maxLength,
		ValidationPattern: validationPattern,
	}
	if validationPattern != "" {
		re, err := compileFullMatch(validationPattern)
		if err != nil {
			return nil, err
		}
		item.pattern = re
	}
	return item, nil
}

func compileFullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

type DateInputItem struct {
	ItemBase
	MinDate *time.Time
	// MaxDate is the submission deadline.
	MaxDate         *time.Time
	GracePeriodDays int
	// ConsideredStatusEnabled allows late submissions inside the grace period
	// to be Considered. When false they are Failed. Parsed configs default to true.
	ConsideredStatusEnabled bool
}

type AssessmentItem struct {
	ItemBase
	AssessmentType AssessmentType
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type RadioGroupItem struct {
	ItemBase
	Options []Option
}

type DropdownItem struct {
	ItemBase
	Options       []Option
	AllowMultiple bool
}

type GroupItem struct {
	ItemBase
	LogicOperator LogicOperator
	// MinRequired applies to OR groups; zero means one.
	MinRequired int
	Children    []Item
}

// UnknownItem keeps an item whose type is not recognised. It always fails.
type UnknownItem struct {
	ItemBase
	Type string
}

type Config struct {
	Items          []Item
	ValidationMode ValidationMode
}

func hasOption(options []Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
