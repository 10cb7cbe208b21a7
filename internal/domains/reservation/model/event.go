package model

import (
	"time"

	"suave/internal/engine/lifecycle"
)

const (
	EventCreated         = "reservation.created"
	EventPaymentRecorded = "reservation.payment_recorded"
	EventPaymentFailed   = "reservation.payment_failed"
	EventConfirmed       = "reservation.confirmed"
	EventCheckedIn       = "reservation.checked_in"
	EventCheckedOut      = "reservation.checked_out"
	EventCancelled       = "reservation.cancelled"
	EventNoShow          = "reservation.no_show"
	EventRefunded        = "reservation.refunded"
	EventPaidOut         = "reservation.paid_out"
)

// Event is published to the reservation topic after a transition commits.
type Event struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	RoomID        string    `json:"room_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	TotalDue      int64     `json:"total_due"`
	At            time.Time `json:"at"`
}

func NewEvent(eventType string, r lifecycle.Reservation, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		RoomID:        r.RoomID,
		Status:        string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
		TotalDue:      r.TotalDue(),
		At:            at,
	}
}

// PaymentCapturedEvent is consumed from the payment collaborator. Failed marks a
// declined or errored capture, in which case the amounts are ignored.
type PaymentCapturedEvent struct {
	ReservationID string `json:"reservation_id"`
	Amount        int64  `json:"amount"`
	ProcessorFee  int64  `json:"processor_fee"`
	Reference     string `json:"reference"`
	Failed        bool   `json:"failed"`
}
