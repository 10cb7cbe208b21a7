package model

import (
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"

	"suave/internal/engine/charge"
	"suave/shared/model"
)

const (
	TaxFeeTableName  = "tax_fee_rules"
	TaxFeeEntityName = "tax_fee_rule"

	FieldID        = "id"
	FieldName      = "name"
	FieldKind      = "kind"
	FieldValue     = "value"
	FieldAppliesTo = "applies_to"
	FieldEnabled   = "enabled"
)

type TaxFeeRule struct {
	ID        int64           `db:"id"         insert:"-"`
	Name      string          `db:"name"`
	Kind      string          `db:"kind"`
	Value     decimal.Decimal `db:"value"`
	AppliesTo string          `db:"applies_to"`
	Enabled   bool            `db:"enabled"`
	model.Metadata
}

func (t TaxFeeRule) ToEngine() charge.TaxFeeRule {
	return charge.TaxFeeRule{
		ID:        t.ID,
		Name:      t.Name,
		Kind:      charge.RuleKind(t.Kind),
		Value:     t.Value,
		AppliesTo: charge.AppliesTo(t.AppliesTo),
		Enabled:   t.Enabled,
	}
}

const (
	PolicyBlockTableName  = "policy_blocks"
	PolicyBlockEntityName = "policy_block"

	FieldCategory = "category"
	FieldPayload  = "payload"
)

// PolicyBlock stores one policy category as a jsonb document.
type PolicyBlock struct {
	Category string          `db:"category"`
	Payload  types.JSONText `db:"payload"`
	model.Metadata
}
