package checklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkbox(id string, required bool) *CheckboxItem {
	return &CheckboxItem{ItemBase: ItemBase{ID: id, Required: required}}
}

func TestValidator_ValidateItem_Checkbox(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	tests := []struct {
		name     string
		required bool
		value    interface{}
		want     Status
		wantErrs int
	}{
		{name: "required checked", required: true, value: true, want: StatusPassed},
		{name: "required unchecked", required: true, value: false, want: StatusFailed, wantErrs: 1},
		{name: "optional unchecked", required: false, value: false, want: StatusNotApplicable},
		{name: "optional checked", required: false, value: true, want: StatusPassed},
		{name: "not a boolean", required: false, value: "true", want: StatusFailed, wantErrs: 1},
		{name: "required missing", required: true, value: Missing, want: StatusFailed, wantErrs: 1},
		{name: "optional missing", required: false, value: Missing, want: StatusNotApplicable},
		{name: "nil counts as missing", required: true, value: nil, want: StatusFailed, wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errs := v.ValidateItem(ctx, checkbox("cb", tt.required), tt.value)
			assert.Equal(t, tt.want, status)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestValidator_ValidateItem_Numeric(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	currency := &CurrencyInputItem{
		ItemBase:      ItemBase{ID: "budget", Required: true},
		NumericBounds: NumericBounds{MinValue: ptr(100000), Threshold: ptr(500000)},
	}
	number := &NumberInputItem{
		ItemBase:      ItemBase{ID: "meetings"},
		NumericBounds: NumericBounds{MinValue: ptr(0), MaxValue: ptr(12)},
	}

	tests := []struct {
		name  string
		item  Item
		value interface{}
		want  Status
	}{
		{name: "currency considered", item: currency, value: 300000, want: StatusConsidered},
		{name: "currency passed", item: currency, value: 600000.0, want: StatusPassed},
		{name: "currency failed", item: currency, value: 50000, want: StatusFailed},
		{name: "currency string", item: currency, value: "600000", want: StatusFailed},
		{name: "number within bounds", item: number, value: 4, want: StatusPassed},
		{name: "number above max", item: number, value: 13, want: StatusFailed},
		{name: "number missing optional", item: number, value: Missing, want: StatusNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errs := v.ValidateItem(ctx, tt.item, tt.value)
			assert.Equal(t, tt.want, status)
			if tt.want == StatusFailed {
				assert.NotEmpty(t, errs)
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidator_ValidateItem_Text(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	code, err := NewTextInputItem(ItemBase{ID: "ordinance", Required: true}, 10, `ORD-\d{4}`)
	require.NoError(t, err)
	free := &TextInputItem{ItemBase: ItemBase{ID: "notes"}, MaxLength: 5}

	tests := []struct {
		name  string
		item  Item
		value interface{}
		want  Status
	}{
		{name: "pattern matches", item: code, value: "ORD-2024", want: StatusPassed},
		{name: "pattern must match fully", item: code, value: "ORD-2024x", want: StatusFailed},
		{name: "pattern prefix only", item: code, value: "xORD-2024", want: StatusFailed},
		{name: "too long", item: code, value: "ORD-2024-01", want: StatusFailed},
		{name: "not text", item: code, value: 2024, want: StatusFailed},
		{name: "required empty", item: code, value: "", want: StatusFailed},
		{name: "multibyte within limit", item: free, value: "ñañañ", want: StatusPassed},
		{name: "multibyte over limit", item: free, value: "ñañaña", want: StatusFailed},
		{name: "optional empty", item: free, value: "", want: StatusNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := v.ValidateItem(ctx, tt.item, tt.value)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestValidator_ValidateItem_Text_UncompiledPattern(t *testing.T) {
	v := NewValidator()
	item := &TextInputItem{ItemBase: ItemBase{ID: "code"}, ValidationPattern: `[A-Z]{3}`}

	status, _ := v.ValidateItem(context.Background(), item, "ABC")
	assert.Equal(t, StatusPassed, status)

	status, _ = v.ValidateItem(context.Background(), item, "ABCD")
	assert.Equal(t, StatusFailed, status)
}

func TestValidator_ValidateItem_Date(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	deadline := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	opened := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	item := &DateInputItem{
		ItemBase:                ItemBase{ID: "submitted_on", Required: true},
		MinDate:                 &opened,
		MaxDate:                 &deadline,
		GracePeriodDays:         30,
		ConsideredStatusEnabled: true,
	}
	strictItem := &DateInputItem{
		ItemBase:        ItemBase{ID: "submitted_on", Required: true},
		MaxDate:         &deadline,
		GracePeriodDays: 30,
	}

	tests := []struct {
		name  string
		item  *DateInputItem
		value interface{}
		want  Status
	}{
		{name: "on time", item: item, value: "2024-12-01", want: StatusPassed},
		{name: "inside grace", item: item, value: "2025-01-15", want: StatusConsidered},
		{name: "beyond grace", item: item, value: "2025-01-31", want: StatusFailed},
		{name: "before min date", item: item, value: "2023-12-31", want: StatusFailed},
		{name: "time value", item: item, value: deadline, want: StatusPassed},
		{name: "unparseable", item: item, value: "soon", want: StatusFailed},
		{name: "considered disabled", item: strictItem, value: "2025-01-15", want: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := v.ValidateItem(ctx, tt.item, tt.value)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestValidator_ValidateItem_Choices(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	yesNo := &AssessmentItem{ItemBase: ItemBase{ID: "q1", Required: true}, AssessmentType: AssessmentYesNo}
	compliance := &AssessmentItem{ItemBase: ItemBase{ID: "q2", Required: true}, AssessmentType: AssessmentCompliantNonCompliant}
	badType := &AssessmentItem{ItemBase: ItemBase{ID: "q3", Required: true}, AssessmentType: "SCALE"}
	options := []Option{{Label: "Annual", Value: "annual"}, {Label: "Quarterly", Value: "quarterly"}}
	radio := &RadioGroupItem{ItemBase: ItemBase{ID: "frequency", Required: true}, Options: options}
	single := &DropdownItem{ItemBase: ItemBase{ID: "freq", Required: true}, Options: options}
	multi := &DropdownItem{ItemBase: ItemBase{ID: "freqs", Required: true}, Options: options, AllowMultiple: true}

	tests := []struct {
		name  string
		item  Item
		value interface{}
		want  Status
	}{
		{name: "yes", item: yesNo, value: "YES", want: StatusPassed},
		{name: "no", item: yesNo, value: "NO", want: StatusFailed},
		{name: "maybe", item: yesNo, value: "MAYBE", want: StatusFailed},
		{name: "compliant", item: compliance, value: "COMPLIANT", want: StatusPassed},
		{name: "non compliant", item: compliance, value: "NON_COMPLIANT", want: StatusFailed},
		{name: "unknown assessment type", item: badType, value: "YES", want: StatusFailed},
		{name: "radio valid", item: radio, value: "annual", want: StatusPassed},
		{name: "radio invalid", item: radio, value: "weekly", want: StatusFailed},
		{name: "radio not a string", item: radio, value: 1, want: StatusFailed},
		{name: "dropdown single", item: single, value: "quarterly", want: StatusPassed},
		{name: "dropdown single invalid", item: single, value: "weekly", want: StatusFailed},
		{name: "dropdown multi", item: multi, value: []interface{}{"annual", "quarterly"}, want: StatusPassed},
		{name: "dropdown multi empty", item: multi, value: []interface{}{}, want: StatusFailed},
		{name: "dropdown multi not strings", item: multi, value: []interface{}{1}, want: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := v.ValidateItem(ctx, tt.item, tt.value)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestValidator_ValidateItem_DropdownListsInvalidValues(t *testing.T) {
	v := NewValidator()
	item := &DropdownItem{
		ItemBase:      ItemBase{ID: "docs"},
		Options:       []Option{{Label: "A", Value: "a"}, {Label: "B", Value: "b"}},
		AllowMultiple: true,
	}

	status, errs := v.ValidateItem(context.Background(), item, []string{"a", "x", "y"})
	assert.Equal(t, StatusFailed, status)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "x, y")
}

func TestValidator_ValidateItem_UnknownItem(t *testing.T) {
	v := NewValidator()
	status, errs := v.ValidateItem(context.Background(), &UnknownItem{ItemBase: ItemBase{ID: "x"}, Type: "signature"}, "anything")
	assert.Equal(t, StatusFailed, status)
	assert.Len(t, errs, 1)
}

func TestValidator_ValidateItem_OrGroup(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	group := &GroupItem{
		ItemBase:      ItemBase{ID: "proofs", Required: true},
		LogicOperator: LogicOr,
		MinRequired:   2,
		Children:      []Item{checkbox("a", true), checkbox("b", true), checkbox("c", true)},
	}

	status, errs := v.ValidateItem(ctx, group, map[string]interface{}{"a": true, "b": true, "c": false})
	assert.Equal(t, StatusPassed, status)
	assert.Empty(t, errs)

	status, errs = v.ValidateItem(ctx, group, map[string]interface{}{"a": true, "b": false, "c": false})
	assert.Equal(t, StatusFailed, status)
	assert.Contains(t, errs, "proofs: at least 2 items must pass")
}

func TestValidator_ValidateItem_OrGroupConsidered(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	amount := &NumberInputItem{
		ItemBase:      ItemBase{ID: "amount"},
		NumericBounds: NumericBounds{MinValue: ptr(10), Threshold: ptr(100)},
	}
	group := &GroupItem{
		ItemBase:      ItemBase{ID: "either", Required: true},
		LogicOperator: LogicOr,
		Children:      []Item{checkbox("flag", false), amount},
	}

	status, _ := v.ValidateItem(ctx, group, map[string]interface{}{"amount": 50})
	assert.Equal(t, StatusConsidered, status)

	status, _ = v.ValidateItem(ctx, group, map[string]interface{}{"flag": true, "amount": 50})
	assert.Equal(t, StatusConsidered, status)

	status, _ = v.ValidateItem(ctx, group, map[string]interface{}{"flag": true, "amount": 150})
	assert.Equal(t, StatusPassed, status)
}

func TestValidator_ValidateItem_GroupsWithNoApplicableChildren(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	group := func(op LogicOperator, required bool) *GroupItem {
		g := &GroupItem{
			ItemBase:      ItemBase{ID: "g", Required: required},
			LogicOperator: op,
			Children:      []Item{checkbox("a", false), checkbox("b", false)},
		}
		if op == LogicOr {
			g.MinRequired = 1
		}
		return g
	}
	unchecked := map[string]interface{}{"a": false, "b": false}

	tests := []struct {
		name    string
		group   *GroupItem
		value   interface{}
		want    Status
		wantErr string
	}{
		{name: "optional AND group", group: group(LogicAnd, false), value: unchecked, want: StatusNotApplicable},
		{name: "optional OR group", group: group(LogicOr, false), value: unchecked, want: StatusFailed, wantErr: "g: at least 1 item must pass"},
		{name: "required OR group", group: group(LogicOr, true), value: unchecked, want: StatusFailed, wantErr: "g: at least 1 item must pass"},
		{name: "optional OR group without submission", group: group(LogicOr, false), value: Missing, want: StatusFailed, wantErr: "g: at least 1 item must pass"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, errs := v.ValidateItem(ctx, tt.group, tt.value)
			assert.Equal(t, tt.want, status)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, []string{tt.wantErr}, errs)
		})
	}
}

func TestValidator_ValidateChecklist_UnmetOrGroupFailsChecklist(t *testing.T) {
	cfg, err := ParseConfigJSON([]byte(`{"items": [
		{"id": "g", "type": "group", "logic_operator": "OR", "min_required": 1, "children": [
			{"id": "a", "type": "checkbox"},
			{"id": "b", "type": "checkbox"}
		]}
	]}`))
	require.NoError(t, err)

	result := NewValidator().ValidateChecklist(context.Background(), cfg, map[string]interface{}{
		"g": map[string]interface{}{"a": false, "b": false},
	})

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, StatusFailed, result.ItemResults["g"])
	assert.Contains(t, result.Errors, "g: at least 1 item must pass")
}

func TestValidator_ValidateItem_MissingValuePerType(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()
	deadline := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	options := []Option{{Label: "Yes", Value: "yes"}}

	items := func(required bool) []Item {
		base := func(id string) ItemBase { return ItemBase{ID: id, Required: required} }
		return []Item{
			&CheckboxItem{ItemBase: base("checkbox")},
			&CurrencyInputItem{ItemBase: base("currency")},
			&NumberInputItem{ItemBase: base("number")},
			&TextInputItem{ItemBase: base("text")},
			&DateInputItem{ItemBase: base("date"), MaxDate: &deadline},
			&AssessmentItem{ItemBase: base("assessment"), AssessmentType: AssessmentYesNo},
			&RadioGroupItem{ItemBase: base("radio"), Options: options},
			&DropdownItem{ItemBase: base("dropdown"), Options: options},
			&DropdownItem{ItemBase: base("multi"), Options: options, AllowMultiple: true},
		}
	}

	wantRequired := map[string]string{
		"checkbox":   "checkbox: must be checked",
		"currency":   "currency: required item is missing",
		"number":     "number: required item is missing",
		"text":       "text: required item is empty",
		"date":       "date: required item is missing",
		"assessment": "assessment: required item is missing",
		"radio":      "radio: required item is missing",
		"dropdown":   "dropdown: required item is missing",
		"multi":      "multi: required item is missing",
	}

	for _, item := range items(true) {
		t.Run("required "+item.ItemID(), func(t *testing.T) {
			for _, value := range []interface{}{Missing, nil} {
				status, errs := v.ValidateItem(ctx, item, value)
				assert.Equal(t, StatusFailed, status)
				assert.Equal(t, []string{wantRequired[item.ItemID()]}, errs)
			}
		})
	}
	for _, item := range items(false) {
		t.Run("optional "+item.ItemID(), func(t *testing.T) {
			status, errs := v.ValidateItem(ctx, item, Missing)
			assert.Equal(t, StatusNotApplicable, status)
			assert.Empty(t, errs)
		})
	}
}

func TestValidator_ValidateItem_OrMinRequiredMonotonic(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	children := []Item{checkbox("a", true), checkbox("b", true), checkbox("c", true), checkbox("d", true)}
	submission := map[string]interface{}{"a": true, "b": true, "c": false, "d": true}

	rank := map[Status]int{StatusPassed: 0, StatusConsidered: 1, StatusFailed: 2}
	previous := StatusPassed
	for n := 1; n <= len(children); n++ {
		group := &GroupItem{
			ItemBase:      ItemBase{ID: "g", Required: true},
			LogicOperator: LogicOr,
			MinRequired:   n,
			Children:      children,
		}
		status, _ := v.ValidateItem(ctx, group, submission)
		assert.GreaterOrEqual(t, rank[status], rank[previous], "min_required %d", n)
		previous = status
	}
	assert.Equal(t, StatusFailed, previous)
}

func TestValidator_ValidateItem_AndGroup(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	amount := &NumberInputItem{
		ItemBase:      ItemBase{ID: "amount", Required: true},
		NumericBounds: NumericBounds{MinValue: ptr(10), Threshold: ptr(100)},
	}
	group := &GroupItem{
		ItemBase:      ItemBase{ID: "all", Required: true},
		LogicOperator: LogicAnd,
		Children:      []Item{checkbox("a", true), amount},
	}

	tests := []struct {
		name  string
		value interface{}
		want  Status
	}{
		{name: "all passed", value: map[string]interface{}{"a": true, "amount": 150}, want: StatusPassed},
		{name: "one considered", value: map[string]interface{}{"a": true, "amount": 50}, want: StatusConsidered},
		{name: "one failed", value: map[string]interface{}{"a": false, "amount": 150}, want: StatusFailed},
		{name: "missing submission", value: Missing, want: StatusFailed},
		{name: "not an object", value: []interface{}{true}, want: StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := v.ValidateItem(ctx, group, tt.value)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestValidator_ValidateItem_NestedGroups(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	inner := &GroupItem{
		ItemBase:      ItemBase{ID: "inner", Required: true},
		LogicOperator: LogicOr,
		MinRequired:   1,
		Children:      []Item{checkbox("x", true), checkbox("y", true)},
	}
	outer := &GroupItem{
		ItemBase:      ItemBase{ID: "outer", Required: true},
		LogicOperator: LogicAnd,
		Children:      []Item{inner, checkbox("z", true)},
	}

	status, errs := v.ValidateItem(ctx, outer, map[string]interface{}{
		"inner": map[string]interface{}{"x": false, "y": true},
		"z":     true,
	})
	assert.Equal(t, StatusPassed, status)
	assert.Empty(t, errs)
}

func TestValidator_NestedAndFailurePropagates(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	for depth := 1; depth <= 10; depth++ {
		var item Item = checkbox("leaf", true)
		var value interface{} = false
		for i := 0; i < depth; i++ {
			id := "group" + string(rune('a'+i))
			item = &GroupItem{ItemBase: ItemBase{ID: id, Required: true}, LogicOperator: LogicAnd, Children: []Item{item, checkbox(id+"_ok", true)}}
			value = map[string]interface{}{item.(*GroupItem).Children[0].ItemID(): value, id + "_ok": true}
		}
		status, _ := v.ValidateItem(ctx, item, value)
		assert.Equal(t, StatusFailed, status, "depth %d", depth)
	}
}

func TestValidator_DepthGuard(t *testing.T) {
	v := NewValidator(WithMaxDepth(2))
	ctx := context.Background()

	item := &GroupItem{
		ItemBase:      ItemBase{ID: "g1", Required: true},
		LogicOperator: LogicAnd,
		Children: []Item{&GroupItem{
			ItemBase:      ItemBase{ID: "g2", Required: true},
			LogicOperator: LogicAnd,
			Children:      []Item{checkbox("leaf", true)},
		}},
	}

	status, errs := v.ValidateItem(ctx, item, map[string]interface{}{"g2": map[string]interface{}{"leaf": true}})
	assert.Equal(t, StatusFailed, status)
	assert.NotEmpty(t, errs)
}

func TestValidator_ValidateChecklist(t *testing.T) {
	v := NewValidator()
	ctx := context.Background()

	cfg := &Config{
		ValidationMode: ModeStrict,
		Items: []Item{
			checkbox("signed", true),
			&CurrencyInputItem{
				ItemBase:      ItemBase{ID: "budget", Required: true},
				NumericBounds: NumericBounds{MinValue: ptr(100000), Threshold: ptr(500000)},
			},
			checkbox("optional", false),
			&GroupItem{
				ItemBase:      ItemBase{ID: "proofs", Required: true},
				LogicOperator: LogicOr,
				Children:      []Item{checkbox("photo", false), checkbox("minutes", false)},
			},
		},
	}

	tests := []struct {
		name       string
		mode       ValidationMode
		submission map[string]interface{}
		want       Status
		wantErrs   bool
	}{
		{
			name:       "passed",
			submission: map[string]interface{}{"signed": true, "budget": 600000, "proofs": map[string]interface{}{"photo": true}},
			want:       StatusPassed,
		},
		{
			name:       "considered",
			submission: map[string]interface{}{"signed": true, "budget": 300000, "proofs": map[string]interface{}{"minutes": true}},
			want:       StatusConsidered,
		},
		{
			name:       "failed wins over considered",
			submission: map[string]interface{}{"signed": false, "budget": 300000, "proofs": map[string]interface{}{"minutes": true}},
			want:       StatusFailed,
			wantErrs:   true,
		},
		{
			name:       "missing required",
			submission: map[string]interface{}{"budget": 600000, "proofs": map[string]interface{}{"photo": true}},
			want:       StatusFailed,
			wantErrs:   true,
		},
		{
			name:       "unknown key in strict mode",
			submission: map[string]interface{}{"signed": true, "budget": 600000, "proofs": map[string]interface{}{"photo": true}, "extra": 1},
			want:       StatusFailed,
			wantErrs:   true,
		},
		{
			name:       "unknown key in lenient mode",
			mode:       ModeLenient,
			submission: map[string]interface{}{"signed": true, "budget": 600000, "proofs": map[string]interface{}{"photo": true}, "extra": 1},
			want:       StatusPassed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			if tt.mode != "" {
				c.ValidationMode = tt.mode
			}
			result := v.ValidateChecklist(ctx, &c, tt.submission)
			assert.Equal(t, tt.want, result.Status)
			assert.Equal(t, tt.wantErrs, len(result.Errors) > 0, "errors: %v", result.Errors)
		})
	}
}

func TestValidator_ValidateChecklist_ItemResults(t *testing.T) {
	v := NewValidator()

	cfg := &Config{Items: []Item{
		checkbox("signed", true),
		&GroupItem{
			ItemBase:      ItemBase{ID: "proofs", Required: true},
			LogicOperator: LogicOr,
			Children:      []Item{checkbox("photo", false), checkbox("minutes", false)},
		},
	}}

	result := v.ValidateChecklist(context.Background(), cfg, map[string]interface{}{
		"signed": true,
		"proofs": map[string]interface{}{"photo": true, "minutes": false},
	})

	assert.Equal(t, StatusPassed, result.Status)
	assert.Equal(t, map[string]Status{
		"signed":  StatusPassed,
		"proofs":  StatusPassed,
		"photo":   StatusPassed,
		"minutes": StatusNotApplicable,
	}, result.ItemResults)
	assert.Empty(t, result.Errors)
}

func TestValidator_ValidateChecklist_Deterministic(t *testing.T) {
	v := NewValidator()
	cfg := &Config{Items: []Item{checkbox("a", true), checkbox("b", false)}}
	submission := map[string]interface{}{"a": false, "b": true, "z": 1, "y": 2}

	first := v.ValidateChecklist(context.Background(), cfg, submission)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, v.ValidateChecklist(context.Background(), cfg, submission))
	}
}

func TestToValidationStatus(t *testing.T) {
	assert.Equal(t, "PASS", ToValidationStatus(StatusPassed).String())
	assert.Equal(t, "CONDITIONAL", ToValidationStatus(StatusConsidered).String())
	assert.Equal(t, "FAIL", ToValidationStatus(StatusFailed).String())
	assert.Equal(t, "PASS", ToValidationStatus(StatusNotApplicable).String())
}
