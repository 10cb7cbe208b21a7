package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"suave/internal/engine/charge"
	"suave/internal/engine/lifecycle"
	"suave/shared/calendar"
	"suave/shared/constant"
	"suave/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldGuestRef      = "guest_ref"
	FieldCheckIn       = "check_in"
	FieldCheckOut      = "check_out"
	FieldNights        = "nights"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldGrandTotal    = "grand_total"
	FieldTotalDue      = "total_due"
	FieldSurcharges    = "surcharges"
	FieldConfirmedAt   = "confirmed_at"
	FieldCheckedInAt   = "checked_in_at"
	FieldCheckedOutAt  = "checked_out_at"
	FieldCancelledAt   = "cancelled_at"
)

// Reservation is the persisted form of lifecycle.Reservation. GrandTotal and
// TotalDue are copies of the frozen amounts kept as columns for reporting.
type Reservation struct {
	ID            string     `db:"id"`
	RoomID        string     `db:"room_id"`
	GuestRef      string     `db:"guest_ref"`
	CheckIn       time.Time  `db:"check_in"`
	CheckOut      time.Time  `db:"check_out"`
	Nights        int        `db:"nights"`
	Status        string     `db:"status"`
	PaymentStatus string     `db:"payment_status"`
	Currency      string     `db:"currency"`
	GrandTotal    int64      `db:"grand_total"`
	TotalDue      int64      `db:"total_due"`
	Quote         Quote      `db:"quote"`
	Surcharges    LineItems  `db:"surcharges"`
	ConfirmedAt   *time.Time `db:"confirmed_at"`
	CheckedInAt   *time.Time `db:"checked_in_at"`
	CheckedOutAt  *time.Time `db:"checked_out_at"`
	CancelledAt   *time.Time `db:"cancelled_at"`
	model.Metadata
}

func FromEngine(r lifecycle.Reservation, currency, user string) Reservation {
	return Reservation{
		ID:            r.ID,
		RoomID:        r.RoomID,
		GuestRef:      r.GuestRef,
		CheckIn:       r.CheckIn,
		CheckOut:      r.CheckOut,
		Nights:        r.Nights,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		Currency:      currency,
		GrandTotal:    r.Quote.GrandTotal,
		TotalDue:      r.TotalDue(),
		Quote:         Quote(r.Quote),
		Surcharges:    LineItems(r.Surcharges),
		ConfirmedAt:   r.ConfirmedAt,
		CheckedInAt:   r.CheckedInAt,
		CheckedOutAt:  r.CheckedOutAt,
		CancelledAt:   r.CancelledAt,
		Metadata: model.Metadata{
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.CreatedAt,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

func (r Reservation) ToEngine() lifecycle.Reservation {
	return lifecycle.Reservation{
		ID:            r.ID,
		RoomID:        r.RoomID,
		GuestRef:      r.GuestRef,
		CheckIn:       calendar.Day(r.CheckIn),
		CheckOut:      calendar.Day(r.CheckOut),
		Nights:        r.Nights,
		Status:        lifecycle.Status(r.Status),
		PaymentStatus: lifecycle.PaymentStatus(r.PaymentStatus),
		Quote:         charge.Quote(r.Quote),
		Surcharges:    []charge.LineItem(r.Surcharges),
		CreatedAt:     r.CreatedAt,
		ConfirmedAt:   r.ConfirmedAt,
		CheckedInAt:   r.CheckedInAt,
		CheckedOutAt:  r.CheckedOutAt,
		CancelledAt:   r.CancelledAt,
	}
}

// TransitionFields is the column set a lifecycle transition may change.
func TransitionFields(r lifecycle.Reservation, user string, at time.Time) map[string]any {
	return map[string]any{
		FieldStatus:              string(r.Status),
		FieldPaymentStatus:       string(r.PaymentStatus),
		FieldTotalDue:            r.TotalDue(),
		FieldSurcharges:          LineItems(r.Surcharges),
		FieldConfirmedAt:         r.ConfirmedAt,
		FieldCheckedInAt:         r.CheckedInAt,
		FieldCheckedOutAt:        r.CheckedOutAt,
		FieldCancelledAt:         r.CancelledAt,
		constant.FieldModifiedAt: at,
		constant.FieldModifiedBy: user,
	}
}

// Quote is the frozen quote stored as jsonb.
type Quote charge.Quote

func (q Quote) Value() (driver.Value, error) {
	return json.Marshal(charge.Quote(q))
}

func (q *Quote) Scan(src any) error {
	return scanJSON(src, q)
}

// LineItems are surcharges raised after commit, stored as a jsonb array.
type LineItems []charge.LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]charge.LineItem(l))
}

func (l *LineItems) Scan(src any) error {
	return scanJSON(src, l)
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
