package failure

import "time"

const (
	WarningNegativeRateClamp = "negative_rate_clamp"
)

// Warning is a recoverable condition reported alongside a result instead of an error.
type Warning struct {
	Kind    string    `json:"kind"`
	Date    time.Time `json:"date,omitzero"`
	RuleID  int64     `json:"rule_id,omitempty"`
	Message string    `json:"message"`
}

func NegativeRateClamp(date time.Time, ruleID int64, msg string) Warning {
	return Warning{
		Kind:    WarningNegativeRateClamp,
		Date:    date,
		RuleID:  ruleID,
		Message: msg,
	}
}
