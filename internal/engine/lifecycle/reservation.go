package lifecycle

import (
	"slices"
	"time"

	"suave/internal/engine/charge"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusCheckedOut Status = "checked_out"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentFailed        PaymentStatus = "failed"
)

var moves = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut},
}

// Terminal reports whether no further status transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled || s == StatusNoShow
}

// CanMoveTo reports whether to is a legal next status.
func (s Status) CanMoveTo(to Status) bool {
	return slices.Contains(moves[s], to)
}

// Reservation is a committed booking. Quote is frozen at commit time and is the
// source of truth for the amount owed; it is never recomputed from live rates.
type Reservation struct {
	ID            string            `json:"id"`
	RoomID        string            `json:"room_id"`
	GuestRef      string            `json:"guest_ref"`
	CheckIn       time.Time         `json:"check_in"`
	CheckOut      time.Time         `json:"check_out"`
	Nights        int               `json:"nights"`
	Status        Status            `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Quote         charge.Quote      `json:"quote"`
	Surcharges    []charge.LineItem `json:"surcharges,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	ConfirmedAt   *time.Time        `json:"confirmed_at,omitempty"`
	CheckedInAt   *time.Time        `json:"checked_in_at,omitempty"`
	CheckedOutAt  *time.Time        `json:"checked_out_at,omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
}

// TotalDue is the frozen grand total plus any surcharges raised during the stay.
func (r Reservation) TotalDue() int64 {
	total := r.Quote.GrandTotal
	for _, line := range r.Surcharges {
		total += line.Amount
	}

	return total
}

func (r Reservation) clone() Reservation {
	r.Surcharges = slices.Clone(r.Surcharges)

	return r
}
