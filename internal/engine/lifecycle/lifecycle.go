// Package lifecycle is the reservation state machine. Status and payment
// status are tracked separately; every transition is a pure function of the
// reservation, its ledger entries and the hotel policies, and returns the new
// reservation together with the ledger entries that must be committed with it.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"suave/internal/engine/charge"
	"suave/internal/engine/ledger"
	"suave/internal/engine/policy"
	"suave/internal/engine/rate"
	"suave/shared/calendar"
	"suave/shared/failure"
)

const (
	refCancellation = "cancellation"
	refNoShow       = "no_show"
)

// Transition is the result of one lifecycle event. Entries holds only the new
// ledger entries; callers persist them atomically with Reservation.
type Transition struct {
	Reservation  Reservation                 `json:"reservation"`
	Entries      []ledger.Entry              `json:"entries,omitempty"`
	Cancellation *policy.CancellationOutcome `json:"cancellation,omitempty"`
	NoShow       *policy.NoShowOutcome       `json:"no_show,omitempty"`
	CheckIn      *policy.CheckInAssessment   `json:"check_in,omitempty"`
}

// Capture is a payment captured by the payment collaborator.
type Capture struct {
	Amount       int64
	ProcessorFee int64
	Reference    string
}

type CreateInput struct {
	ID        string
	RoomID    string
	GuestRef  string
	CheckIn   time.Time
	CheckOut  time.Time
	Quote     charge.Quote
	CreatedAt time.Time
	Capture   *Capture
}

type Machine struct {
	policies policy.Policies
	newID    func() string
}

func New(policies policy.Policies) *Machine {
	return &Machine{
		policies: policies,
		newID:    uuid.NewString,
	}
}

// WithIDs replaces the ledger entry id generator.
func (m *Machine) WithIDs(newID func() string) *Machine {
	m.newID = newID

	return m
}

func (m *Machine) recorder(r Reservation, entries []ledger.Entry) *ledger.Recorder {
	return ledger.NewRecorder(r.ID, entries).WithIDs(m.newID)
}

// ConfirmationThreshold is the collected amount that confirms a pending reservation:
// the deposit when one is required, otherwise the full amount due.
func (m *Machine) ConfirmationThreshold(r Reservation) int64 {
	if m.policies.Deposit.Required {
		return m.policies.DepositDue(r.TotalDue())
	}

	return r.TotalDue()
}

// Create commits an accepted quote as a pending reservation. A payment captured
// synchronously is recorded in the same transition and may confirm it.
func (m *Machine) Create(in CreateInput) (Transition, error) {
	nights := rate.Nights(in.CheckIn, in.CheckOut)
	if nights < 1 {
		return Transition{}, failure.InvalidDateRange("")
	}

	if in.Quote.Nights != nights {
		return Transition{}, failure.BadRequestFromString(fmt.Sprintf("quote covers %d nights, stay has %d", in.Quote.Nights, nights))
	}

	r := Reservation{
		ID:            in.ID,
		RoomID:        in.RoomID,
		GuestRef:      in.GuestRef,
		CheckIn:       calendar.Day(in.CheckIn),
		CheckOut:      calendar.Day(in.CheckOut),
		Nights:        nights,
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		Quote:         in.Quote,
		CreatedAt:     in.CreatedAt,
	}

	if in.Capture == nil {
		return Transition{Reservation: r}, nil
	}

	return m.RecordPayment(r, nil, *in.Capture, in.CreatedAt)
}

// RecordPayment appends a captured payment and moves the payment status forward.
// A pending reservation is confirmed once the confirmation threshold is collected.
func (m *Machine) RecordPayment(r Reservation, entries []ledger.Entry, capture Capture, at time.Time) (Transition, error) {
	if r.Status == StatusCancelled || r.Status == StatusNoShow {
		return Transition{}, failure.InvalidTransition(fmt.Sprintf("cannot take a payment on a %s reservation", r.Status))
	}

	rec := m.recorder(r, entries)

	if outstanding := r.TotalDue() - rec.Balance().NetCollected; capture.Amount > outstanding {
		return Transition{}, failure.BadRequestFromString(fmt.Sprintf("payment %d exceeds outstanding balance %d", capture.Amount, outstanding))
	}

	entry, err := rec.Payment(capture.Amount, capture.ProcessorFee, capture.Reference, at)
	if err != nil {
		return Transition{}, err
	}

	next := r.clone()
	net := rec.Balance().NetCollected

	paid := PaymentPartiallyPaid
	if net >= next.TotalDue() || r.PaymentStatus == PaymentPaid {
		paid = PaymentPaid
	}

	next.PaymentStatus = paid

	if next.Status == StatusPending && net >= m.ConfirmationThreshold(next) {
		next.Status = StatusConfirmed
		next.ConfirmedAt = &at
	}

	return Transition{Reservation: next, Entries: []ledger.Entry{entry}}, nil
}

// FailPayment records a failed capture. It is the only event besides a refund
// that may move the payment status backwards.
func (m *Machine) FailPayment(r Reservation, _ time.Time) (Transition, error) {
	if r.Status.Terminal() {
		return Transition{}, failure.InvalidTransition(fmt.Sprintf("reservation is %s", r.Status))
	}

	if r.PaymentStatus != PaymentPending && r.PaymentStatus != PaymentPartiallyPaid {
		return Transition{}, failure.InvalidTransition(fmt.Sprintf("payment status cannot move from %s to %s", r.PaymentStatus, PaymentFailed))
	}

	next := r.clone()
	next.PaymentStatus = PaymentFailed

	return Transition{Reservation: next}, nil
}

// Confirm moves a pending reservation to confirmed once enough has been collected.
func (m *Machine) Confirm(r Reservation, entries []ledger.Entry, at time.Time) (Transition, error) {
	if err := ensure(r, StatusConfirmed); err != nil {
		return Transition{}, err
	}

	collected := m.recorder(r, entries).Balance().NetCollected
	if threshold := m.ConfirmationThreshold(r); collected < threshold {
		return Transition{}, failure.InvalidTransition(fmt.Sprintf("confirmation needs %d collected, have %d", threshold, collected))
	}

	next := r.clone()
	next.Status = StatusConfirmed
	next.ConfirmedAt = &at

	return Transition{Reservation: next}, nil
}

// CheckIn records the guest's arrival. An early check-in fee becomes a surcharge;
// a check-in the policy forbids is rejected and the reservation is left as is.
func (m *Machine) CheckIn(r Reservation, at time.Time) (Transition, error) {
	if err := ensure(r, StatusCheckedIn); err != nil {
		return Transition{}, err
	}

	day := m.policies.LocalDay(at)
	if day.Before(calendar.Day(r.CheckIn)) {
		return Transition{}, failure.InvalidTransition("the stay has not started yet")
	}

	if !day.Before(calendar.Day(r.CheckOut)) {
		return Transition{}, failure.InvalidTransition("the stay has already ended")
	}

	assessment, err := m.policies.CheckInFee(r.CheckIn, at)
	if err != nil {
		return Transition{}, err
	}

	next := r.clone()
	next.Status = StatusCheckedIn
	next.CheckedInAt = &at

	if assessment.Fee > 0 {
		next.Surcharges = append(next.Surcharges, charge.LineItem{
			Kind:     charge.LinePolicyFee,
			Code:     policy.FeeEarlyCheckIn,
			Name:     "Early check-in",
			Quantity: 1,
			Base:     assessment.Fee,
			Amount:   assessment.Fee,
		})
	}

	return Transition{Reservation: next, CheckIn: &assessment}, nil
}

func (m *Machine) CheckOut(r Reservation, at time.Time) (Transition, error) {
	if err := ensure(r, StatusCheckedOut); err != nil {
		return Transition{}, err
	}

	next := r.clone()
	next.Status = StatusCheckedOut
	next.CheckedOutAt = &at

	return Transition{Reservation: next}, nil
}

// Cancel applies the cancellation policy and refunds the refundable amount.
func (m *Machine) Cancel(r Reservation, entries []ledger.Entry, at time.Time) (Transition, error) {
	if err := ensure(r, StatusCancelled); err != nil {
		return Transition{}, err
	}

	rec := m.recorder(r, entries)
	collected := rec.Balance().NetCollected

	outcome, err := m.policies.CancellationOutcome(policy.Stay{
		CheckIn:    r.CheckIn,
		GrandTotal: r.TotalDue(),
		AmountPaid: collected,
	}, at)
	if err != nil {
		return Transition{}, err
	}

	next := r.clone()
	next.Status = StatusCancelled
	next.CancelledAt = &at

	entries, err = refundAndSettle(rec, &next, collected, outcome.RefundableAmount, refCancellation, at)
	if err != nil {
		return Transition{}, err
	}

	return Transition{Reservation: next, Entries: entries, Cancellation: &outcome}, nil
}

// MarkNoShow closes a confirmed reservation whose arrival day has passed without a check-in.
func (m *Machine) MarkNoShow(r Reservation, entries []ledger.Entry, at time.Time) (Transition, error) {
	if err := ensure(r, StatusNoShow); err != nil {
		return Transition{}, err
	}

	if !m.policies.LocalDay(at).After(calendar.Day(r.CheckIn)) {
		return Transition{}, failure.InvalidTransition("the arrival day has not passed yet")
	}

	rec := m.recorder(r, entries)
	collected := rec.Balance().NetCollected

	outcome, err := m.policies.NoShowOutcome(r.TotalDue(), collected)
	if err != nil {
		return Transition{}, err
	}

	next := r.clone()
	next.Status = StatusNoShow

	entries, err = refundAndSettle(rec, &next, collected, outcome.RefundableAmount, refNoShow, at)
	if err != nil {
		return Transition{}, err
	}

	return Transition{Reservation: next, Entries: entries, NoShow: &outcome}, nil
}

// Refund returns money to the guest outside of a cancellation, such as a goodwill refund.
func (m *Machine) Refund(r Reservation, entries []ledger.Entry, amount int64, reference string, at time.Time) (Transition, error) {
	rec := m.recorder(r, entries)

	entry, err := rec.Refund(amount, reference, at)
	if err != nil {
		return Transition{}, err
	}

	next := r.clone()
	next.PaymentStatus = PaymentPartiallyPaid

	if rec.Balance().NetCollected == 0 {
		next.PaymentStatus = PaymentRefunded
	}

	return Transition{Reservation: next, Entries: []ledger.Entry{entry}}, nil
}

// Payout releases collected funds to the hotel. Statuses are unchanged.
func (m *Machine) Payout(r Reservation, entries []ledger.Entry, amount int64, reference string, at time.Time) (Transition, error) {
	entry, err := m.recorder(r, entries).Payout(amount, reference, at)
	if err != nil {
		return Transition{}, err
	}

	return Transition{Reservation: r.clone(), Entries: []ledger.Entry{entry}}, nil
}

// refundAndSettle records the refund and sets the payment status: refunded
// when everything collected went back, partially paid otherwise. With nothing
// collected the payment status is left as it is.
func refundAndSettle(rec *ledger.Recorder, r *Reservation, collected, refund int64, reference string, at time.Time) ([]ledger.Entry, error) {
	if collected <= 0 {
		return nil, nil
	}

	var entries []ledger.Entry

	if refund > 0 {
		entry, err := rec.Refund(refund, reference, at)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	r.PaymentStatus = PaymentPartiallyPaid
	if refund == collected {
		r.PaymentStatus = PaymentRefunded
	}

	return entries, nil
}

func ensure(r Reservation, to Status) error {
	if r.Status.Terminal() {
		return failure.InvalidTransition(fmt.Sprintf("reservation %s is %s and cannot move to %s", r.ID, r.Status, to))
	}

	if !r.Status.CanMoveTo(to) {
		return failure.InvalidTransition(fmt.Sprintf("reservation %s cannot move from %s to %s", r.ID, r.Status, to))
	}

	return nil
}
