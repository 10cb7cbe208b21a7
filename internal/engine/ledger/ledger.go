// Package ledger records the monetary events of a reservation. Entries are
// append-only; balances are always derived from the full entry list.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"suave/shared/failure"
)

type Kind string

const (
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
	KindPayout  Kind = "payout"
)

// Entry amounts are signed: payments are positive, refunds and payouts negative.
type Entry struct {
	ID            string    `json:"id"`
	ReservationID string    `json:"reservation_id"`
	Kind          Kind      `json:"kind"`
	Amount        int64     `json:"amount"`
	ProcessorFee  int64     `json:"processor_fee"`
	Reference     string    `json:"reference,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

type Balance struct {
	Paid          int64 `json:"paid"`
	Refunded      int64 `json:"refunded"`
	NetCollected  int64 `json:"net_collected"`
	ProcessorFees int64 `json:"processor_fees"`
	PaidOut       int64 `json:"paid_out"`
	Payable       int64 `json:"payable"`
}

// Summarize derives the running balance of a reservation's entries.
func Summarize(entries []Entry) Balance {
	var balance Balance

	for _, entry := range entries {
		switch entry.Kind {
		case KindPayment:
			balance.Paid += entry.Amount
		case KindRefund:
			balance.Refunded -= entry.Amount
		case KindPayout:
			balance.PaidOut -= entry.Amount
		}

		balance.ProcessorFees += entry.ProcessorFee
	}

	balance.NetCollected = balance.Paid - balance.Refunded
	balance.Payable = balance.NetCollected - balance.ProcessorFees - balance.PaidOut

	return balance
}

// Recorder appends entries for a single reservation and keeps its balance consistent.
type Recorder struct {
	reservationID string
	entries       []Entry
	newID         func() string
}

// NewRecorder starts from the entries already persisted for the reservation.
func NewRecorder(reservationID string, existing []Entry) *Recorder {
	entries := make([]Entry, 0, len(existing))
	for _, entry := range existing {
		if entry.ReservationID == reservationID {
			entries = append(entries, entry)
		}
	}

	return &Recorder{
		reservationID: reservationID,
		entries:       entries,
		newID:         uuid.NewString,
	}
}

// WithIDs replaces the entry id generator.
func (r *Recorder) WithIDs(newID func() string) *Recorder {
	r.newID = newID

	return r
}

func (r *Recorder) Entries() []Entry {
	return append([]Entry{}, r.entries...)
}

func (r *Recorder) Balance() Balance {
	return Summarize(r.entries)
}

// Payment records money captured from the guest.
func (r *Recorder) Payment(amount, processorFee int64, reference string, at time.Time) (Entry, error) {
	if amount <= 0 {
		return Entry{}, failure.BadRequestFromString("payment amount must be positive")
	}

	if processorFee < 0 || processorFee > amount {
		return Entry{}, failure.BadRequestFromString("processor fee must be between 0 and the payment amount")
	}

	return r.append(KindPayment, amount, processorFee, reference, at), nil
}

// Refund records money returned to the guest. It may never exceed what is still collected.
func (r *Recorder) Refund(amount int64, reference string, at time.Time) (Entry, error) {
	if amount <= 0 {
		return Entry{}, failure.BadRequestFromString("refund amount must be positive")
	}

	if net := r.Balance().NetCollected; amount > net {
		return Entry{}, failure.OverRefund(fmt.Sprintf("refund %d exceeds net collected %d", amount, net))
	}

	return r.append(KindRefund, -amount, 0, reference, at), nil
}

// Payout records funds released to the hotel. It may never exceed the payable balance.
func (r *Recorder) Payout(amount int64, reference string, at time.Time) (Entry, error) {
	if amount <= 0 {
		return Entry{}, failure.BadRequestFromString("payout amount must be positive")
	}

	if payable := r.Balance().Payable; amount > payable {
		return Entry{}, failure.OverPayout(fmt.Sprintf("payout %d exceeds payable balance %d", amount, payable))
	}

	return r.append(KindPayout, -amount, 0, reference, at), nil
}

func (r *Recorder) append(kind Kind, amount, processorFee int64, reference string, at time.Time) Entry {
	entry := Entry{
		ID:            r.newID(),
		ReservationID: r.reservationID,
		Kind:          kind,
		Amount:        amount,
		ProcessorFee:  processorFee,
		Reference:     reference,
		Timestamp:     at,
	}

	r.entries = append(r.entries, entry)

	return entry
}
