// Package charge turns a priced stay, extras and the hotel's tax and fee rules
// into an itemised quote.
package charge

import (
	"fmt"

	"github.com/shopspring/decimal"

	"suave/shared/failure"
	"suave/shared/money"
)

type RuleKind string

const (
	KindPercentage RuleKind = "percentage"
	KindFixed      RuleKind = "fixed"
)

type AppliesTo string

const (
	AppliesToAll      AppliesTo = "all"
	AppliesToPerNight AppliesTo = "per_night"
	AppliesToPerStay  AppliesTo = "per_stay"
	AppliesToServices AppliesTo = "services"
)

type LineKind string

const (
	LineRoom      LineKind = "room"
	LineExtra     LineKind = "extra"
	LinePolicyFee LineKind = "policy_fee"
	LineTaxFee    LineKind = "tax_fee"
)

// TaxFeeRule is a hotel-wide tax or fee. Disabled rules are left out of quotes entirely.
type TaxFeeRule struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      RuleKind        `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	AppliesTo AppliesTo       `json:"applies_to"`
	Enabled   bool            `json:"enabled"`
}

func (r TaxFeeRule) validate() error {
	switch r.Kind {
	case KindPercentage, KindFixed:
	default:
		return failure.BadRequestFromString(fmt.Sprintf("tax/fee %q has unknown kind %q", r.Name, r.Kind))
	}

	switch r.AppliesTo {
	case AppliesToAll, AppliesToPerNight, AppliesToPerStay, AppliesToServices:
	default:
		return failure.BadRequestFromString(fmt.Sprintf("tax/fee %q has unknown scope %q", r.Name, r.AppliesTo))
	}

	if r.Value.IsNegative() {
		return failure.BadRequestFromString(fmt.Sprintf("tax/fee %q must not be negative", r.Name))
	}

	return nil
}

// Extra is an optional service added to a booking (breakfast, airport pickup).
type Extra struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (e Extra) Total() int64 {
	return e.UnitPrice * int64(e.Quantity)
}

// PolicyFee is a charge derived from hotel policy, such as a pet or extra bed fee.
type PolicyFee struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

type LineItem struct {
	Kind     LineKind        `json:"kind"`
	Code     string          `json:"code,omitempty"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Base     int64           `json:"base"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   int64           `json:"amount"`
}

// Quote is an immutable price breakdown. A new one is built whenever any input changes.
type Quote struct {
	Nights             int               `json:"nights"`
	NightlyRates       []int64           `json:"nightly_rates"`
	RoomSubtotal       int64             `json:"room_subtotal"`
	ExtrasSubtotal     int64             `json:"extras_subtotal"`
	PolicyFeesSubtotal int64             `json:"policy_fees_subtotal"`
	TaxFeeTotal        int64             `json:"tax_fee_total"`
	GrandTotal         int64             `json:"grand_total"`
	Lines              []LineItem        `json:"lines"`
	Warnings           []failure.Warning `json:"warnings,omitempty"`
}

// LineTotal returns the exact sum of every line amount.
func (q Quote) LineTotal() int64 {
	var total int64
	for _, line := range q.Lines {
		total += line.Amount
	}

	return total
}

type Input struct {
	StayCost     int64
	NightlyRates []int64
	Nights       int
	Extras       []Extra
	Rules        []TaxFeeRule
	PolicyFees   []PolicyFee
	Warnings     []failure.Warning
}

// BuildQuote prices the stay. Every tax or fee is computed from the untaxed
// base of its scope and rounded once; the grand total is the integer sum of all lines.
func BuildQuote(in Input) (Quote, error) {
	if in.Nights < 1 {
		return Quote{}, failure.InvalidDateRange("a quote needs at least one night")
	}

	if len(in.NightlyRates) > 0 && len(in.NightlyRates) != in.Nights {
		return Quote{}, failure.BadRequestFromString(fmt.Sprintf("got %d nightly rates for %d nights", len(in.NightlyRates), in.Nights))
	}

	if in.StayCost < 0 {
		return Quote{}, failure.BadRequestFromString("stay cost must not be negative")
	}

	if len(in.NightlyRates) > 0 {
		if sum := money.Sum(in.NightlyRates...); sum != in.StayCost {
			return Quote{}, failure.BadRequestFromString(fmt.Sprintf("nightly rates sum to %d, stay cost is %d", sum, in.StayCost))
		}
	}

	quote := Quote{
		Nights:       in.Nights,
		NightlyRates: append([]int64{}, in.NightlyRates...),
		RoomSubtotal: in.StayCost,
		Lines: []LineItem{{
			Kind:     LineRoom,
			Code:     string(LineRoom),
			Name:     "Room",
			Quantity: in.Nights,
			Base:     in.StayCost,
			Amount:   in.StayCost,
		}},
		Warnings: append([]failure.Warning{}, in.Warnings...),
	}

	for _, extra := range in.Extras {
		if extra.Quantity < 1 || extra.UnitPrice < 0 {
			return Quote{}, failure.BadRequestFromString(fmt.Sprintf("extra %q needs a positive quantity and a non-negative price", extra.Name))
		}

		amount := extra.Total()
		quote.ExtrasSubtotal += amount
		quote.Lines = append(quote.Lines, LineItem{
			Kind:     LineExtra,
			Code:     extra.Code,
			Name:     extra.Name,
			Quantity: extra.Quantity,
			Base:     extra.UnitPrice,
			Amount:   amount,
		})
	}

	for _, fee := range in.PolicyFees {
		if fee.Amount < 0 {
			return Quote{}, failure.BadRequestFromString(fmt.Sprintf("policy fee %q must not be negative", fee.Name))
		}

		quote.PolicyFeesSubtotal += fee.Amount
		quote.Lines = append(quote.Lines, LineItem{
			Kind:     LinePolicyFee,
			Code:     fee.Code,
			Name:     fee.Name,
			Quantity: 1,
			Base:     fee.Amount,
			Amount:   fee.Amount,
		})
	}

	for _, rule := range in.Rules {
		if !rule.Enabled {
			continue
		}

		if err := rule.validate(); err != nil {
			return Quote{}, err
		}

		line := taxLine(rule, in, quote.ExtrasSubtotal, len(in.Extras) > 0)
		quote.TaxFeeTotal += line.Amount
		quote.Lines = append(quote.Lines, line)
	}

	quote.GrandTotal = quote.LineTotal()

	return quote, nil
}

func taxLine(rule TaxFeeRule, in Input, extrasTotal int64, hasExtras bool) LineItem {
	line := LineItem{
		Kind:     LineTaxFee,
		Code:     fmt.Sprintf("tax_fee:%d", rule.ID),
		Name:     rule.Name,
		Quantity: 1,
		Rate:     rule.Value,
	}

	if rule.Kind == KindFixed {
		unit := money.RoundHalfUp(rule.Value)
		line.Base = unit

		switch rule.AppliesTo {
		case AppliesToPerNight:
			line.Quantity = in.Nights
			line.Amount = unit * int64(in.Nights)
		case AppliesToServices:
			if hasExtras {
				line.Amount = unit
			} else {
				line.Quantity = 0
			}
		default:
			line.Amount = unit
		}

		return line
	}

	switch rule.AppliesTo {
	case AppliesToAll:
		line.Base = in.StayCost + extrasTotal
		line.Amount = money.Percent(line.Base, rule.Value)
	case AppliesToPerNight:
		line.Quantity = in.Nights
		line.Base = in.StayCost
		line.Amount = money.RoundHalfUp(perNightPercent(in, rule.Value))
	case AppliesToPerStay:
		line.Base = in.StayCost
		line.Amount = money.Percent(line.Base, rule.Value)
	case AppliesToServices:
		line.Base = extrasTotal
		line.Amount = money.Percent(extrasTotal, rule.Value)
	}

	return line
}

// perNightPercent applies pct to each night's rate and sums without rounding.
// Without per-night rates every night is priced at stayCost/nights, whose sum is stayCost.
func perNightPercent(in Input, pct decimal.Decimal) decimal.Decimal {
	if len(in.NightlyRates) == 0 {
		return money.PercentOf(in.StayCost, pct)
	}

	total := decimal.Zero
	for _, nightly := range in.NightlyRates {
		total = total.Add(money.PercentOf(nightly, pct))
	}

	return total
}
