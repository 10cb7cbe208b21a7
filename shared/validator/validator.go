package validator

import (
	"encoding/json"
	"fmt"
	"io"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"suave/shared/failure"
)

var validate *val.Validate

var hundred = decimal.NewFromInt(100)

func registerPercentValidation(field val.FieldLevel) bool {
	pct, ok := field.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

func registerNonNegativeDecimalValidation(field val.FieldLevel) bool {
	amount, ok := field.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	return !amount.IsNegative()
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonName)

	err := validate.RegisterValidation("percent", registerPercentValidation)
	if err != nil {
		panic(err)
	}

	err = validate.RegisterValidation("nonnegative", registerNonNegativeDecimalValidation)
	if err != nil {
		panic(err)
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
