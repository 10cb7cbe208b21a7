package dto

import (
	"time"

	"suave/shared/constant"
	"suave/shared/model"
	"suave/shared/timezone"
)

// Metadata renders audit columns in the hotel's timezone. Rows that were never
// modified leave the modified fields out.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(model model.Metadata) {
	m.CreatedAt = formatTime(model.CreatedAt)
	m.CreatedBy = model.CreatedBy
	m.ModifiedAt = formatTime(model.ModifiedAt)
	m.ModifiedBy = model.ModifiedBy
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return timezone.Format(t, constant.DateFormat)
}
