package failure

import (
	"errors"
	"net/http"
)

const (
	KindInvalidDateRange  = "invalid_date_range"
	KindInvalidTransition = "invalid_transition"
	KindPolicyViolation   = "policy_violation"
	KindOverRefund        = "over_refund"
	KindOverPayout        = "over_payout"
	KindRuleConflict      = "rule_conflict"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
// Kind, when set, identifies a booking engine error independently of its message.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

var ErrInvalidDateRange = &Failure{Code: http.StatusBadRequest, Kind: KindInvalidDateRange, Message: "check-out must be after check-in"}
var ErrInvalidTransition = &Failure{Code: http.StatusConflict, Kind: KindInvalidTransition, Message: "invalid reservation transition"}
var ErrPolicyViolation = &Failure{Code: http.StatusUnprocessableEntity, Kind: KindPolicyViolation, Message: "request violates hotel policy"}
var ErrOverRefund = &Failure{Code: http.StatusUnprocessableEntity, Kind: KindOverRefund, Message: "refund exceeds amount paid"}
var ErrOverPayout = &Failure{Code: http.StatusUnprocessableEntity, Kind: KindOverPayout, Message: "payout exceeds payable balance"}
var ErrRuleConflict = &Failure{Code: http.StatusInternalServerError, Kind: KindRuleConflict, Message: "pricing rules have ambiguous order"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// Is reports whether target is a Failure of the same kind.
func (e *Failure) Is(target error) bool {
	t, ok := target.(*Failure)
	if !ok {
		return false
	}

	return e.Kind != "" && e.Kind == t.Kind
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Forbidden returns a new Failure with code for rejected callers.
func Forbidden(message string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: message,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func InvalidDateRange(msg string) error {
	return withKind(ErrInvalidDateRange, msg)
}

func InvalidTransition(msg string) error {
	return withKind(ErrInvalidTransition, msg)
}

func PolicyViolation(msg string) error {
	return withKind(ErrPolicyViolation, msg)
}

func OverRefund(msg string) error {
	return withKind(ErrOverRefund, msg)
}

func OverPayout(msg string) error {
	return withKind(ErrOverPayout, msg)
}

func RuleConflict(msg string) error {
	return withKind(ErrRuleConflict, msg)
}

func withKind(base *Failure, msg string) error {
	if msg == "" {
		msg = base.Message
	}

	return &Failure{
		Code:    base.Code,
		Kind:    base.Kind,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the engine error kind of an error interface, or empty when it has none.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}
