package model

import (
	"time"

	"suave/internal/engine/ledger"
)

const (
	TableName  = "ledger_entries"
	EntityName = "ledger_entry"

	FieldID            = "id"
	FieldReservationID = "reservation_id"
	FieldKind          = "kind"
	FieldSeq           = "seq"
	FieldRecordedAt    = "recorded_at"
)

// Entry rows are never updated or deleted. Seq is assigned by the database and
// orders entries recorded within the same instant.
type Entry struct {
	Seq           int64     `db:"seq"            insert:"-"`
	ID            string    `db:"id"`
	ReservationID string    `db:"reservation_id"`
	Kind          string    `db:"kind"`
	Amount        int64     `db:"amount"`
	ProcessorFee  int64     `db:"processor_fee"`
	Reference     string    `db:"reference"`
	RecordedAt    time.Time `db:"recorded_at"`
	CreatedBy     string    `db:"created_by"`
}

func FromEngine(entry ledger.Entry, user string) Entry {
	return Entry{
		ID:            entry.ID,
		ReservationID: entry.ReservationID,
		Kind:          string(entry.Kind),
		Amount:        entry.Amount,
		ProcessorFee:  entry.ProcessorFee,
		Reference:     entry.Reference,
		RecordedAt:    entry.Timestamp,
		CreatedBy:     user,
	}
}

func FromEngineEntries(entries []ledger.Entry, user string) []Entry {
	res := make([]Entry, len(entries))
	for i, entry := range entries {
		res[i] = FromEngine(entry, user)
	}

	return res
}

func (e Entry) ToEngine() ledger.Entry {
	return ledger.Entry{
		ID:            e.ID,
		ReservationID: e.ReservationID,
		Kind:          ledger.Kind(e.Kind),
		Amount:        e.Amount,
		ProcessorFee:  e.ProcessorFee,
		Reference:     e.Reference,
		Timestamp:     e.RecordedAt,
	}
}

func ToEngineEntries(entries []Entry) []ledger.Entry {
	res := make([]ledger.Entry, len(entries))
	for i, entry := range entries {
		res[i] = entry.ToEngine()
	}

	return res
}
