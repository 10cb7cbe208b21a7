package dto

import (
	"suave/internal/domains/ledger/model"
	"suave/internal/engine/ledger"
	"suave/shared/constant"
	"suave/shared/timezone"
)

type EntryResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	ProcessorFee int64  `json:"processor_fee"`
	Reference    string `json:"reference,omitempty"`
	RecordedAt   string `json:"recorded_at"`
	RecordedBy   string `json:"recorded_by,omitempty"`
}

func (e *EntryResponse) FromModel(model model.Entry) {
	e.ID = model.ID
	e.Kind = model.Kind
	e.Amount = model.Amount
	e.ProcessorFee = model.ProcessorFee
	e.Reference = model.Reference
	e.RecordedAt = timezone.Format(model.RecordedAt, constant.DateFormat)
	e.RecordedBy = model.CreatedBy
}

// StatementResponse lists a reservation's entries with the balance derived from them.
type StatementResponse struct {
	ReservationID string          `json:"reservation_id"`
	Entries       []EntryResponse `json:"entries"`
	Balance       ledger.Balance  `json:"balance"`
}

func (s *StatementResponse) FromModels(reservationID string, models []model.Entry) {
	s.ReservationID = reservationID
	s.Entries = make([]EntryResponse, len(models))

	for i, mod := range models {
		s.Entries[i].FromModel(mod)
	}

	s.Balance = ledger.Summarize(model.ToEngineEntries(models))
}
