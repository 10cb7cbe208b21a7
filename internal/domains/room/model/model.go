package model

import (
	"time"

	"github.com/shopspring/decimal"

	"suave/internal/engine/rate"
	"suave/shared/model"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID        = "id"
	FieldName      = "name"
	FieldType      = "type"
	FieldLocation  = "location"
	FieldCapacity  = "capacity"
	FieldBasePrice = "base_price"
	FieldActive    = "active"
)

type Room struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Type      string `db:"type"`
	Location  string `db:"location"`
	Capacity  int    `db:"capacity"`
	BasePrice int64  `db:"base_price"`
	Active    bool   `db:"active"`
	model.Metadata
}

func (r Room) ToEngine() rate.Room {
	return rate.Room{
		ID:        r.ID,
		Name:      r.Name,
		BasePrice: r.BasePrice,
		Capacity:  r.Capacity,
		Type:      r.Type,
	}
}

const (
	PricingRuleTableName  = "pricing_rules"
	PricingRuleEntityName = "pricing_rule"

	FieldRoomID    = "room_id"
	FieldValidFrom = "valid_from"
	FieldValidTo   = "valid_to"
)

// PricingRule ids come from a sequence; their order is the order rules apply in.
type PricingRule struct {
	ID             int64           `db:"id"              insert:"-"`
	RoomID         string          `db:"room_id"`
	Name           string          `db:"name"`
	AdjustmentType string          `db:"adjustment_type"`
	Value          decimal.Decimal `db:"value"`
	Condition      string          `db:"condition"`
	ValidFrom      time.Time       `db:"valid_from"`
	ValidTo        time.Time       `db:"valid_to"`
	model.Metadata
}

func (p PricingRule) ToEngine() rate.PricingRule {
	return rate.PricingRule{
		ID:             p.ID,
		RoomID:         p.RoomID,
		Name:           p.Name,
		AdjustmentType: rate.AdjustmentType(p.AdjustmentType),
		Value:          p.Value,
		Condition:      p.Condition,
		ValidFrom:      p.ValidFrom,
		ValidTo:        p.ValidTo,
	}
}

func ToEngineRules(rules []PricingRule) []rate.PricingRule {
	res := make([]rate.PricingRule, len(rules))
	for i, rule := range rules {
		res[i] = rule.ToEngine()
	}

	return res
}
