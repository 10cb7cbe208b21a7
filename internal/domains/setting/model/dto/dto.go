package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"suave/internal/domains/setting/model"
	"suave/internal/engine/charge"
	"suave/internal/engine/policy"
	gDto "suave/shared/dto"
	gModel "suave/shared/model"
	"suave/shared/timezone"
)

type CreateTaxFeeRequest struct {
	Name      string          `json:"name"       validate:"required,max=100"`
	Kind      string          `json:"kind"       validate:"required,oneof=percentage fixed"`
	Value     decimal.Decimal `json:"value"      validate:"nonnegative"`
	AppliesTo string          `json:"applies_to" validate:"required,oneof=all per_night per_stay services"`
	Enabled   *bool           `json:"enabled"    validate:"omitempty"`
}

func (c *CreateTaxFeeRequest) ToModel(user string) model.TaxFeeRule {
	enabled := true
	if c.Enabled != nil {
		enabled = *c.Enabled
	}

	return model.TaxFeeRule{
		Name:      c.Name,
		Kind:      c.Kind,
		Value:     c.Value,
		AppliesTo: c.AppliesTo,
		Enabled:   enabled,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateTaxFeeRequest struct {
	Name      string           `db:"name"       json:"name"       validate:"omitempty,max=100"`
	Kind      string           `db:"kind"       json:"kind"       validate:"omitempty,oneof=percentage fixed"`
	Value     *decimal.Decimal `db:"value"      json:"value"      validate:"omitempty"`
	AppliesTo string           `db:"applies_to" json:"applies_to" validate:"omitempty,oneof=all per_night per_stay services"`
	Enabled   *bool            `db:"enabled"    json:"enabled"    validate:"omitempty"`
}

type TaxFeeResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	AppliesTo string          `json:"applies_to"`
	Enabled   bool            `json:"enabled"`
	gDto.Metadata
}

func (t *TaxFeeResponse) FromModel(model model.TaxFeeRule) {
	t.ID = model.ID
	t.Name = model.Name
	t.Kind = model.Kind
	t.Value = model.Value
	t.AppliesTo = model.AppliesTo
	t.Enabled = model.Enabled
	t.Metadata.FromModel(model.Metadata)
}

func FromTaxFees(models []model.TaxFeeRule) []TaxFeeResponse {
	res := make([]TaxFeeResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}

// PutPolicyRequest replaces the block of one category. Payload is decoded
// against that category's schema.
type PutPolicyRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

// Catalog is everything hotel-wide a quote needs besides the room itself.
type Catalog struct {
	TaxFees  []charge.TaxFeeRule `json:"tax_fees"`
	Policies policy.Policies     `json:"policies"`
}
