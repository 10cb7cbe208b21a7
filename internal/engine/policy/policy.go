// Package policy evaluates hotel policies against a reservation: policy fees,
// cancellation and no-show outcomes, check-in surcharges and deposits.
package policy

import (
	"fmt"
	"time"

	"suave/internal/engine/charge"
	"suave/shared/calendar"
	"suave/shared/failure"
	"suave/shared/money"
)

const (
	FeeExtraBed     = "extra_bed"
	FeeCrib         = "crib"
	FeePet          = "pet"
	FeeSmoking      = "smoking"
	FeeEarlyCheckIn = "early_check_in"
)

// GuestFlags are the policy-relevant parts of a booking request.
type GuestFlags struct {
	Pets         bool  `json:"pets"`
	Smoking      bool  `json:"smoking"`
	ChildrenAges []int `json:"children_ages"`
	Crib         bool  `json:"crib"`
}

// Stay is what a cancellation is evaluated against.
type Stay struct {
	CheckIn    time.Time
	GrandTotal int64
	AmountPaid int64
}

type CancellationOutcome struct {
	RefundableAmount int64 `json:"refundable_amount"`
	FeeCharged       int64 `json:"fee_charged"`
	FreeCancellation bool  `json:"free_cancellation"`
}

type NoShowOutcome struct {
	RefundableAmount int64 `json:"refundable_amount"`
	FeeCharged       int64 `json:"fee_charged"`
}

type CheckInAssessment struct {
	Fee   int64 `json:"fee"`
	Early bool  `json:"early"`
}

// ArrivalAt is the standard check-in instant on the check-in date.
func (p Policies) ArrivalAt(checkIn time.Time) time.Time {
	hour, minute := clock(p.CheckIn.StandardCheckIn)

	return calendar.At(checkIn, hour, minute, p.location())
}

// LocalDay is the hotel's calendar date at instant t.
func (p Policies) LocalDay(t time.Time) time.Time {
	return calendar.Day(t.In(p.location()))
}

// CancellationOutcome applies the cancellation policy. Cancelling more than
// FreeCancellationHours before arrival refunds everything paid; otherwise the
// cancellation fee percentage of the grand total is kept, never more than was paid.
func (p Policies) CancellationOutcome(stay Stay, cancelledAt time.Time) (CancellationOutcome, error) {
	window := time.Duration(p.Cancellation.FreeCancellationHours) * time.Hour

	if p.ArrivalAt(stay.CheckIn).Sub(cancelledAt) > window {
		return CancellationOutcome{RefundableAmount: stay.AmountPaid, FreeCancellation: true}, nil
	}

	fee := money.Percent(stay.GrandTotal, money.ClampPercent(p.Cancellation.CancellationFee))
	refund := max(stay.AmountPaid-fee, 0)

	if refund > stay.AmountPaid {
		return CancellationOutcome{}, failure.OverRefund(fmt.Sprintf("refund %d exceeds amount paid %d", refund, stay.AmountPaid))
	}

	return CancellationOutcome{RefundableAmount: refund, FeeCharged: fee}, nil
}

// NoShowOutcome keeps the no-show fee percentage of the grand total and refunds the rest
// of what was paid.
func (p Policies) NoShowOutcome(grandTotal, amountPaid int64) (NoShowOutcome, error) {
	fee := money.Percent(grandTotal, money.ClampPercent(p.Cancellation.NoShowFee))
	refund := max(amountPaid-fee, 0)

	if refund > amountPaid {
		return NoShowOutcome{}, failure.OverRefund(fmt.Sprintf("refund %d exceeds amount paid %d", refund, amountPaid))
	}

	return NoShowOutcome{RefundableAmount: refund, FeeCharged: fee}, nil
}

// CheckInFee assesses an actual check-in against the check-in policy.
// Late arrivals beyond the latest check-in time are reported, not cancelled.
func (p Policies) CheckInFee(checkIn, actual time.Time) (CheckInAssessment, error) {
	if actual.Before(p.ArrivalAt(checkIn)) {
		if !p.CheckIn.EarlyCheckIn {
			return CheckInAssessment{}, failure.PolicyViolation("early check-in is not offered")
		}

		return CheckInAssessment{Fee: p.CheckIn.EarlyCheckInFee, Early: true}, nil
	}

	if p.CheckIn.LatestCheckIn != "" && !p.CheckIn.LateCheckIn {
		hour, minute := clock(p.CheckIn.LatestCheckIn)
		if actual.After(calendar.At(checkIn, hour, minute, p.location())) {
			return CheckInAssessment{}, failure.PolicyViolation(fmt.Sprintf("check-in after %s is not allowed", p.CheckIn.LatestCheckIn))
		}
	}

	return CheckInAssessment{}, nil
}

// ChildrenFee charges the extra bed fee for every child older than MaxChildrenAge
// and the crib fee once when a crib is requested.
func (p Policies) ChildrenFee(ages []int, crib bool) ([]charge.PolicyFee, error) {
	if (len(ages) > 0 || crib) && !p.Children.ChildrenAllowed {
		return nil, failure.PolicyViolation("children are not allowed")
	}

	var fees []charge.PolicyFee

	older := 0

	for _, age := range ages {
		if age < 0 {
			return nil, failure.BadRequestFromString("child age must not be negative")
		}

		if age > p.Children.MaxChildrenAge {
			older++
		}
	}

	if older > 0 && p.Children.ExtraBedFee > 0 {
		fees = append(fees, charge.PolicyFee{
			Code:   FeeExtraBed,
			Name:   fmt.Sprintf("Extra bed x%d", older),
			Amount: p.Children.ExtraBedFee * int64(older),
		})
	}

	if crib && p.Children.CribFee > 0 {
		fees = append(fees, charge.PolicyFee{Code: FeeCrib, Name: "Crib", Amount: p.Children.CribFee})
	}

	return fees, nil
}

func (p Policies) PetFee(pets bool) (int64, error) {
	if !pets {
		return 0, nil
	}

	if !p.Pets.PetsAllowed {
		return 0, failure.PolicyViolation("pets are not allowed")
	}

	return p.Pets.PetFee, nil
}

func (p Policies) SmokingFee(smoking bool) (int64, error) {
	if !smoking {
		return 0, nil
	}

	if !p.Smoking.SmokingAllowed {
		return 0, failure.PolicyViolation("smoking is not allowed")
	}

	return p.Smoking.SmokingFee, nil
}

// ValidateRequest rejects requests the policies disallow. It must pass before quoting.
func (p Policies) ValidateRequest(flags GuestFlags) error {
	_, err := p.Charges(flags)

	return err
}

// Charges returns the policy fee lines for a booking request, in a fixed order.
func (p Policies) Charges(flags GuestFlags) ([]charge.PolicyFee, error) {
	fees, err := p.ChildrenFee(flags.ChildrenAges, flags.Crib)
	if err != nil {
		return nil, err
	}

	pet, err := p.PetFee(flags.Pets)
	if err != nil {
		return nil, err
	}

	if pet > 0 {
		fees = append(fees, charge.PolicyFee{Code: FeePet, Name: "Pet fee", Amount: pet})
	}

	smoking, err := p.SmokingFee(flags.Smoking)
	if err != nil {
		return nil, err
	}

	if smoking > 0 {
		fees = append(fees, charge.PolicyFee{Code: FeeSmoking, Name: "Smoking fee", Amount: smoking})
	}

	return fees, nil
}

// DepositDue is the amount that confirms a booking, capped at the grand total.
func (p Policies) DepositDue(grandTotal int64) int64 {
	if !p.Deposit.Required {
		return 0
	}

	var due int64

	switch p.Deposit.Kind {
	case charge.KindPercentage:
		due = money.Percent(grandTotal, money.ClampPercent(p.Deposit.Value))
	case charge.KindFixed:
		due = money.RoundHalfUp(p.Deposit.Value)
	}

	return min(max(due, 0), grandTotal)
}

func clock(value string) (hour, minute int) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0
	}

	return t.Hour(), t.Minute()
}
