// Package booking assembles a booking request step by step and prices it.
package booking

import (
	"fmt"
	"time"

	"suave/internal/engine/charge"
	"suave/internal/engine/policy"
	"suave/internal/engine/rate"
	"suave/shared/calendar"
	"suave/shared/failure"
)

type Request struct {
	RoomID   string            `json:"room_id"`
	CheckIn  time.Time         `json:"check_in"`
	CheckOut time.Time         `json:"check_out"`
	Adults   int               `json:"adults"`
	Extras   []charge.Extra    `json:"extras,omitempty"`
	Flags    policy.GuestFlags `json:"flags"`
}

// Guests counts adults and children.
func (r Request) Guests() int {
	return r.Adults + len(r.Flags.ChildrenAges)
}

func (r Request) Nights() int {
	return rate.Nights(r.CheckIn, r.CheckOut)
}

// Validate checks the request against the room it is for.
func (r Request) Validate(room rate.Room) error {
	if r.RoomID == "" || r.RoomID != room.ID {
		return failure.BadRequestFromString(fmt.Sprintf("request is for room %q, not %q", r.RoomID, room.ID))
	}

	if err := validateDates(r.CheckIn, r.CheckOut); err != nil {
		return err
	}

	if err := validateGuests(room, r.Adults, r.Flags.ChildrenAges); err != nil {
		return err
	}

	for _, extra := range r.Extras {
		if err := validateExtra(extra); err != nil {
			return err
		}
	}

	return nil
}

// Catalog is everything needed to price a request for one room.
type Catalog struct {
	Room     rate.Room
	Rules    []rate.PricingRule
	TaxFees  []charge.TaxFeeRule
	Policies policy.Policies
}

// Quote prices a request. Disallowed requests are rejected before any pricing,
// and rate clamp warnings are carried onto the quote.
func Quote(catalog Catalog, req Request) (charge.Quote, error) {
	if err := req.Validate(catalog.Room); err != nil {
		return charge.Quote{}, err
	}

	if err := catalog.Policies.ValidateRequest(req.Flags); err != nil {
		return charge.Quote{}, err
	}

	stay, err := rate.ResolveStayCost(catalog.Room, catalog.Rules, req.CheckIn, req.CheckOut)
	if err != nil {
		return charge.Quote{}, err
	}

	fees, err := catalog.Policies.Charges(req.Flags)
	if err != nil {
		return charge.Quote{}, err
	}

	return charge.BuildQuote(charge.Input{
		StayCost:     stay.Total,
		NightlyRates: stay.Amounts(),
		Nights:       len(stay.Nights),
		Extras:       req.Extras,
		Rules:        catalog.TaxFees,
		PolicyFees:   fees,
		Warnings:     stay.Warnings,
	})
}

func validateDates(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return failure.InvalidDateRange("check-in and check-out dates are required")
	}

	if rate.Nights(checkIn, checkOut) < 1 {
		return failure.InvalidDateRange(fmt.Sprintf("check-out %s must be after check-in %s",
			calendar.Day(checkOut).Format(time.DateOnly), calendar.Day(checkIn).Format(time.DateOnly)))
	}

	return nil
}

func validateGuests(room rate.Room, adults int, childrenAges []int) error {
	if adults < 1 {
		return failure.BadRequestFromString("at least one adult is required")
	}

	if guests := adults + len(childrenAges); room.Capacity > 0 && guests > room.Capacity {
		return failure.BadRequestFromString(fmt.Sprintf("%s sleeps %d, got %d guests", room.Name, room.Capacity, guests))
	}

	return nil
}

func validateExtra(extra charge.Extra) error {
	if extra.Code == "" {
		return failure.BadRequestFromString("extra code is required")
	}

	if extra.Quantity < 1 || extra.UnitPrice < 0 {
		return failure.BadRequestFromString(fmt.Sprintf("extra %q needs a positive quantity and a non-negative price", extra.Code))
	}

	return nil
}
