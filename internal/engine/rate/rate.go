// Package rate resolves nightly room prices from a room's base price and its
// time-bounded pricing rules.
package rate

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"suave/shared/calendar"
	"suave/shared/failure"
	"suave/shared/money"
)

type AdjustmentType string

const (
	AdjustmentPercentage AdjustmentType = "percentage"
	AdjustmentFixed      AdjustmentType = "fixed"
)

// Room is the priced unit. BasePrice is in minor currency units.
type Room struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
	Capacity  int    `json:"capacity"`
	Type      string `json:"type"`
}

// PricingRule adjusts a room's nightly price between ValidFrom and ValidTo inclusive.
// Value is signed: a percentage rule of 25 adds 25%, a fixed rule of -20000 subtracts 20000.
type PricingRule struct {
	ID             int64           `json:"id"`
	RoomID         string          `json:"room_id"`
	Name           string          `json:"name"`
	AdjustmentType AdjustmentType  `json:"adjustment_type"`
	Value          decimal.Decimal `json:"value"`
	Condition      string          `json:"condition"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidTo        time.Time       `json:"valid_to"`
}

func (r PricingRule) activeOn(roomID string, date time.Time) bool {
	return r.RoomID == roomID && calendar.Within(date, r.ValidFrom, r.ValidTo)
}

// AppliedRule records the effect of one rule on one night.
type AppliedRule struct {
	RuleID int64  `json:"rule_id"`
	Name   string `json:"name"`
	Delta  int64  `json:"delta"`
}

type NightlyRate struct {
	Date     time.Time         `json:"date"`
	Base     int64             `json:"base"`
	Amount   int64             `json:"amount"`
	Applied  []AppliedRule     `json:"applied,omitempty"`
	Warnings []failure.Warning `json:"warnings,omitempty"`
}

type StayCost struct {
	Nights   []NightlyRate     `json:"nights"`
	Total    int64             `json:"total"`
	Warnings []failure.Warning `json:"warnings,omitempty"`
}

// Amounts returns the per-night amounts in stay order.
func (s StayCost) Amounts() []int64 {
	amounts := make([]int64, len(s.Nights))
	for i, night := range s.Nights {
		amounts[i] = night.Amount
	}

	return amounts
}

// Nights returns the number of nights between the check-in and check-out dates.
func Nights(checkIn, checkOut time.Time) int {
	return calendar.DaysBetween(checkIn, checkOut)
}

// ResolveNightlyRate prices one night. Fixed adjustments run first, then
// percentage adjustments compound on the running total, each group in
// ascending rule ID order. The running total never goes below zero.
func ResolveNightlyRate(room Room, rules []PricingRule, date time.Time) (NightlyRate, error) {
	date = calendar.Day(date)

	var fixed, percentage []PricingRule

	seen := make(map[int64]struct{})

	for _, rule := range rules {
		if !rule.activeOn(room.ID, date) {
			continue
		}

		if _, dup := seen[rule.ID]; dup {
			return NightlyRate{}, failure.RuleConflict(fmt.Sprintf("pricing rule %d is active twice on %s", rule.ID, date.Format(time.DateOnly)))
		}

		seen[rule.ID] = struct{}{}

		switch rule.AdjustmentType {
		case AdjustmentFixed:
			fixed = append(fixed, rule)
		case AdjustmentPercentage:
			percentage = append(percentage, rule)
		default:
			return NightlyRate{}, failure.BadRequestFromString(fmt.Sprintf("pricing rule %d has unknown adjustment type %q", rule.ID, rule.AdjustmentType))
		}
	}

	byID := func(a, b PricingRule) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}

		return 0
	}

	slices.SortFunc(fixed, byID)
	slices.SortFunc(percentage, byID)

	night := NightlyRate{
		Date:   date,
		Base:   room.BasePrice,
		Amount: room.BasePrice,
	}

	for _, rule := range fixed {
		night.apply(rule, money.RoundHalfUp(rule.Value))
	}

	for _, rule := range percentage {
		night.apply(rule, money.Percent(night.Amount, rule.Value))
	}

	return night, nil
}

func (n *NightlyRate) apply(rule PricingRule, delta int64) {
	next := n.Amount + delta

	if next < 0 {
		n.Warnings = append(n.Warnings, failure.NegativeRateClamp(n.Date, rule.ID,
			fmt.Sprintf("rule %q would set the nightly rate to %d, clamped to 0", rule.Name, next)))

		delta = -n.Amount
		next = 0
	}

	n.Amount = next
	n.Applied = append(n.Applied, AppliedRule{RuleID: rule.ID, Name: rule.Name, Delta: delta})
}

// ResolveStayCost prices every night from checkIn up to, not including, checkOut.
func ResolveStayCost(room Room, rules []PricingRule, checkIn, checkOut time.Time) (StayCost, error) {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return StayCost{}, failure.InvalidDateRange(fmt.Sprintf("check-out %s must be after check-in %s",
			calendar.Day(checkOut).Format(time.DateOnly), calendar.Day(checkIn).Format(time.DateOnly)))
	}

	stay := StayCost{Nights: make([]NightlyRate, 0, nights)}

	for i := range nights {
		night, err := ResolveNightlyRate(room, rules, calendar.AddDays(checkIn, i))
		if err != nil {
			return StayCost{}, err
		}

		stay.Nights = append(stay.Nights, night)
		stay.Total += night.Amount
		stay.Warnings = append(stay.Warnings, night.Warnings...)
	}

	return stay, nil
}
