package checklist

import "sinag/pkg/rules"

// Status is the per-item verdict of the checklist validator.
type Status string

const (
	StatusPassed        Status = "Passed"
	StatusFailed        Status = "Failed"
	StatusConsidered    Status = "Considered"
	StatusNotApplicable Status = "Not Applicable"
)

func (s Status) String() string {
	return string(s)
}

// ToValidationStatus maps a checklist status onto the response status
// vocabulary. Not Applicable items do not count against a response.
func ToValidationStatus(s Status) rules.ValidationStatus {
	switch s {
	case StatusPassed, StatusNotApplicable:
		return rules.StatusPass
	case StatusConsidered:
		return rules.StatusConditional
	default:
		return rules.StatusFail
	}
}

// aggregate applies Failed > Considered > Passed precedence. Not Applicable
// statuses are neutral; when every status is Not Applicable so is the result.
func aggregate(statuses []Status) Status {
	failed, considered, applicable := false, false, false
	for _, s := range statuses {
		switch s {
		case StatusFailed:
			failed = true
		case StatusConsidered:
			considered = true
		}
		if s != StatusNotApplicable {
			applicable = true
		}
	}

	switch {
	case failed:
		return StatusFailed
	case considered:
		return StatusConsidered
	case !applicable && len(statuses) > 0:
		return StatusNotApplicable
	default:
		return StatusPassed
	}
}

// Result is the outcome of validating a whole checklist. ItemResults holds every
// item, including the children of groups.
type Result struct {
	Status      Status            `json:"status"`
	ItemResults map[string]Status `json:"item_results"`
	Errors      []string          `json:"errors"`
}
