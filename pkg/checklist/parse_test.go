package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	"validation_mode": "lenient",
	"items": [
		{"id": "signed", "type": "checkbox", "label": "Signed ordinance", "required": true},
		{"id": "budget", "type": "currency_input", "required": true, "min_value": 100000, "threshold": 500000},
		{"id": "members", "type": "number_input", "min_value": 0, "max_value": 50},
		{"id": "ordinance_no", "type": "text_input", "max_length": 20, "validation_pattern": "ORD-\\d{4}"},
		{"id": "posted_on", "type": "date_input", "max_date": "2024-12-31", "grace_period_days": 30},
		{"id": "functional", "type": "assessment", "assessment_type": "yes_no"},
		{"id": "frequency", "type": "radio_group", "options": ["annual", {"label": "Quarterly", "value": "quarterly"}]},
		{"id": "channels", "type": "dropdown", "options": ["radio", "print"], "allow_multiple": true},
		{"id": "proofs", "type": "group", "logic_operator": "OR", "min_required": 1, "children": [
			{"id": "photo", "type": "checkbox"},
			{"id": "minutes", "type": "checkbox"}
		]},
		{"id": "signature", "type": "e_signature"}
	]
}`

func TestParseConfigJSON(t *testing.T) {
	cfg, err := ParseConfigJSON([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, ModeLenient, cfg.ValidationMode)
	require.Len(t, cfg.Items, 10)

	signed, ok := cfg.Items[0].(*CheckboxItem)
	require.True(t, ok)
	assert.Equal(t, "Signed ordinance", signed.Label)
	assert.True(t, signed.Required)

	budget, ok := cfg.Items[1].(*CurrencyInputItem)
	require.True(t, ok)
	assert.Equal(t, 100000.0, *budget.MinValue)
	assert.Nil(t, budget.MaxValue)
	assert.Equal(t, 500000.0, *budget.Threshold)

	members, ok := cfg.Items[2].(*NumberInputItem)
	require.True(t, ok)
	assert.Equal(t, 50.0, *members.MaxValue)
	assert.False(t, members.Required)

	text, ok := cfg.Items[3].(*TextInputItem)
	require.True(t, ok)
	assert.Equal(t, 20, text.MaxLength)
	assert.NotNil(t, text.pattern)

	date, ok := cfg.Items[4].(*DateInputItem)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *date.MaxDate)
	assert.Equal(t, 30, date.GracePeriodDays)
	assert.True(t, date.ConsideredStatusEnabled)

	assessment, ok := cfg.Items[5].(*AssessmentItem)
	require.True(t, ok)
	assert.Equal(t, AssessmentYesNo, assessment.AssessmentType)

	radio, ok := cfg.Items[6].(*RadioGroupItem)
	require.True(t, ok)
	assert.Equal(t, []Option{{Label: "annual", Value: "annual"}, {Label: "Quarterly", Value: "quarterly"}}, radio.Options)

	dropdown, ok := cfg.Items[7].(*DropdownItem)
	require.True(t, ok)
	assert.True(t, dropdown.AllowMultiple)

	group, ok := cfg.Items[8].(*GroupItem)
	require.True(t, ok)
	assert.Equal(t, LogicOr, group.LogicOperator)
	assert.Equal(t, 1, group.MinRequired)
	assert.Len(t, group.Children, 2)

	unknown, ok := cfg.Items[9].(*UnknownItem)
	require.True(t, ok)
	assert.Equal(t, "e_signature", unknown.Type)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfigJSON([]byte(`{"items": [{"id": "d", "type": "date_input", "considered_status_enabled": false}]}`))
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, cfg.ValidationMode)

	date := cfg.Items[0].(*DateInputItem)
	assert.False(t, date.ConsideredStatusEnabled)
	assert.Nil(t, date.MaxDate)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{name: "invalid json", input: `[`},
		{name: "root not object", input: `"x"`},
		{name: "missing items", input: `{}`, wantPath: "items"},
		{name: "bad mode", input: `{"items": [], "validation_mode": "loose"}`, wantPath: "validation_mode"},
		{name: "item without id", input: `{"items": [{"type": "checkbox"}]}`, wantPath: "items[0].id"},
		{name: "item without type", input: `{"items": [{"id": "a"}]}`, wantPath: "items[0].type"},
		{name: "required not bool", input: `{"items": [{"id": "a", "type": "checkbox", "required": "yes"}]}`, wantPath: "items[0].required"},
		{name: "min value not number", input: `{"items": [{"id": "a", "type": "number_input", "min_value": "1"}]}`, wantPath: "items[0].min_value"},
		{name: "bad pattern", input: `{"items": [{"id": "a", "type": "text_input", "validation_pattern": "("}]}`, wantPath: "items[0].validation_pattern"},
		{name: "bad date", input: `{"items": [{"id": "a", "type": "date_input", "max_date": "someday"}]}`, wantPath: "items[0].max_date"},
		{name: "negative grace", input: `{"items": [{"id": "a", "type": "date_input", "grace_period_days": -1}]}`, wantPath: "items[0].grace_period_days"},
		{name: "group operator", input: `{"items": [{"id": "g", "type": "group", "logic_operator": "XOR", "children": []}]}`, wantPath: "items[0].logic_operator"},
		{name: "zero min required", input: `{"items": [{"id": "g", "type": "group", "logic_operator": "OR", "min_required": 0, "children": []}]}`, wantPath: "items[0].min_required"},
		{name: "group without children", input: `{"items": [{"id": "g", "type": "group", "logic_operator": "AND"}]}`, wantPath: "items[0].children"},
		{name: "nested child error", input: `{"items": [{"id": "g", "type": "group", "logic_operator": "AND", "children": [{"id": "c"}]}]}`, wantPath: "items[0].children[0].type"},
		{name: "option without value", input: `{"items": [{"id": "r", "type": "radio_group", "options": [{"label": "A"}]}]}`, wantPath: "items[0].options[0].value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfigJSON([]byte(tt.input))
			require.Error(t, err)

			var configErr *ConfigError
			require.ErrorAs(t, err, &configErr)
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, configErr.Path)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		maxDepth int
		wantErr  bool
	}{
		{
			name: "valid",
			cfg: &Config{Items: []Item{
				checkbox("a", true),
				&GroupItem{ItemBase: ItemBase{ID: "g"}, LogicOperator: LogicOr, MinRequired: 2, Children: []Item{checkbox("b", false), checkbox("c", false)}},
			}},
		},
		{
			name:    "duplicate ids across groups",
			cfg:     &Config{Items: []Item{checkbox("a", true), &GroupItem{ItemBase: ItemBase{ID: "g"}, LogicOperator: LogicAnd, Children: []Item{checkbox("a", false)}}}},
			wantErr: true,
		},
		{
			name:    "min required above children",
			cfg:     &Config{Items: []Item{&GroupItem{ItemBase: ItemBase{ID: "g"}, LogicOperator: LogicOr, MinRequired: 3, Children: []Item{checkbox("b", false), checkbox("c", false)}}}},
			wantErr: true,
		},
		{
			name:    "min required on and group",
			cfg:     &Config{Items: []Item{&GroupItem{ItemBase: ItemBase{ID: "g"}, LogicOperator: LogicAnd, MinRequired: 1, Children: []Item{checkbox("b", false)}}}},
			wantErr: true,
		},
		{
			name:    "empty group",
			cfg:     &Config{Items: []Item{&GroupItem{ItemBase: ItemBase{ID: "g"}, LogicOperator: LogicAnd}}},
			wantErr: true,
		},
		{
			name:    "threshold below min",
			cfg:     &Config{Items: []Item{&NumberInputItem{ItemBase: ItemBase{ID: "n"}, NumericBounds: NumericBounds{MinValue: ptr(10), Threshold: ptr(5)}}}},
			wantErr: true,
		},
		{
			name:    "threshold without min",
			cfg:     &Config{Items: []Item{&CurrencyInputItem{ItemBase: ItemBase{ID: "n"}, NumericBounds: NumericBounds{Threshold: ptr(500000)}}}},
			wantErr: true,
		},
		{
			name: "threshold with min and no max",
			cfg:  &Config{Items: []Item{&CurrencyInputItem{ItemBase: ItemBase{ID: "n"}, NumericBounds: NumericBounds{MinValue: ptr(0), Threshold: ptr(500000)}}}},
		},
		{
			name:    "min above max",
			cfg:     &Config{Items: []Item{&CurrencyInputItem{ItemBase: ItemBase{ID: "n"}, NumericBounds: NumericBounds{MinValue: ptr(10), MaxValue: ptr(5)}}}},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     &Config{Items: []Item{&UnknownItem{ItemBase: ItemBase{ID: "u"}, Type: "signature"}}},
			wantErr: true,
		},
		{
			name:    "unknown assessment type",
			cfg:     &Config{Items: []Item{&AssessmentItem{ItemBase: ItemBase{ID: "q"}, AssessmentType: "SCALE"}}},
			wantErr: true,
		},
		{
			name:    "radio without options",
			cfg:     &Config{Items: []Item{&RadioGroupItem{ItemBase: ItemBase{ID: "r"}}}},
			wantErr: true,
		},
		{
			name: "too deep",
			cfg: &Config{Items: []Item{&GroupItem{ItemBase: ItemBase{ID: "g1"}, LogicOperator: LogicAnd, Children: []Item{
				&GroupItem{ItemBase: ItemBase{ID: "g2"}, LogicOperator: LogicAnd, Children: []Item{checkbox("leaf", true)}},
			}}}},
			maxDepth: 2,
			wantErr:  true,
		},
		{
			name:    "nil config",
			cfg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(tt.maxDepth)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseConfig_SampleValidates(t *testing.T) {
	cfg, err := ParseConfigJSON([]byte(sampleConfig))
	require.NoError(t, err)

	err = cfg.Validate(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e_signature")

	cfg.Items = cfg.Items[:9]
	assert.NoError(t, cfg.Validate(0))
}
