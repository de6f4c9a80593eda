package rules

// ValidationStatus is the status stored on an assessment response.
type ValidationStatus string

const (
	StatusPass        ValidationStatus = "PASS"
	StatusFail        ValidationStatus = "FAIL"
	StatusConditional ValidationStatus = "CONDITIONAL"
)

func (s ValidationStatus) IsValid() bool {
	switch s {
	case StatusPass, StatusFail, StatusConditional:
		return true
	default:
		return false
	}
}

func (s ValidationStatus) String() string {
	return string(s)
}

func (s ValidationStatus) severity() int {
	switch s {
	case StatusFail:
		return 2
	case StatusConditional:
		return 1
	default:
		return 0
	}
}

// Combine folds statuses with FAIL > CONDITIONAL > PASS precedence. An empty
// input yields PASS.
func Combine(statuses ...ValidationStatus) ValidationStatus {
	result := StatusPass
	for _, s := range statuses {
		if s.severity() > result.severity() {
			result = s
		}
	}
	return result
}
