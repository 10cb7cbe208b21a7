package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"suave/internal/domains/room/model"
	"suave/shared"
	"suave/shared/calendar"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	"suave/shared/failure"
	gModel "suave/shared/model"
	"suave/shared/timezone"
)

type CreateRoomRequest struct {
	Name      string `json:"name"       validate:"required,max=100"`
	Type      string `json:"type"       validate:"omitempty,max=50"`
	Location  string `json:"location"   validate:"omitempty,max=100"`
	Capacity  int    `json:"capacity"   validate:"required,min=1"`
	BasePrice int64  `json:"base_price" validate:"min=0"`
	Active    *bool  `json:"active"     validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:        uuid.NewString(),
		Name:      c.Name,
		Type:      c.Type,
		Location:  c.Location,
		Capacity:  c.Capacity,
		BasePrice: c.BasePrice,
		Active:    active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

// UpdateRoomRequest changes a room in place. Reservations keep the quote they
// were committed with, so a new base price only affects later quotes.
type UpdateRoomRequest struct {
	Name      string `db:"name"       json:"name"       validate:"omitempty,max=100"`
	Type      string `db:"type"       json:"type"       validate:"omitempty,max=50"`
	Location  string `db:"location"   json:"location"   validate:"omitempty,max=100"`
	Capacity  *int   `db:"capacity"   json:"capacity"   validate:"omitempty,min=1"`
	BasePrice *int64 `db:"base_price" json:"base_price" validate:"omitempty,min=0"`
	Active    *bool  `db:"active"     json:"active"     validate:"omitempty"`
}

type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Location  string `json:"location"`
	Capacity  int    `json:"capacity"`
	BasePrice int64  `json:"base_price"`
	Active    bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Type = model.Type
	r.Location = model.Location
	r.Capacity = model.Capacity
	r.BasePrice = model.BasePrice
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type CreatePricingRuleRequest struct {
	Name           string          `json:"name"            validate:"required,max=100"`
	AdjustmentType string          `json:"adjustment_type" validate:"required,oneof=percentage fixed"`
	Value          decimal.Decimal `json:"value"`
	Condition      string          `json:"condition"       validate:"omitempty,max=50"`
	ValidFrom      string          `json:"valid_from"      validate:"required,datetime=2006-01-02"`
	ValidTo        string          `json:"valid_to"        validate:"required,datetime=2006-01-02"`
}

func (c *CreatePricingRuleRequest) ToModel(roomID, user string) (model.PricingRule, error) {
	from, err := time.Parse(constant.DateOnlyFormat, c.ValidFrom)
	if err != nil {
		return model.PricingRule{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	to, err := time.Parse(constant.DateOnlyFormat, c.ValidTo)
	if err != nil {
		return model.PricingRule{}, failure.BadRequest(err) //nolint:wrapcheck
	}

	if to.Before(from) {
		return model.PricingRule{}, failure.InvalidDateRange("valid_to is before valid_from") //nolint:wrapcheck
	}

	return model.PricingRule{
		RoomID:         roomID,
		Name:           c.Name,
		AdjustmentType: c.AdjustmentType,
		Value:          c.Value,
		Condition:      c.Condition,
		ValidFrom:      calendar.Day(from),
		ValidTo:        calendar.Day(to),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type PricingRuleResponse struct {
	ID             int64           `json:"id"`
	RoomID         string          `json:"room_id"`
	Name           string          `json:"name"`
	AdjustmentType string          `json:"adjustment_type"`
	Value          decimal.Decimal `json:"value"`
	Condition      string          `json:"condition"`
	ValidFrom      string          `json:"valid_from"`
	ValidTo        string          `json:"valid_to"`
	gDto.Metadata
}

func (p *PricingRuleResponse) FromModel(model model.PricingRule) {
	p.ID = model.ID
	p.RoomID = model.RoomID
	p.Name = model.Name
	p.AdjustmentType = model.AdjustmentType
	p.Value = model.Value
	p.Condition = model.Condition
	p.ValidFrom = model.ValidFrom.Format(constant.DateOnlyFormat)
	p.ValidTo = model.ValidTo.Format(constant.DateOnlyFormat)
	p.Metadata.FromModel(model.Metadata)
}

func FromPricingRules(models []model.PricingRule) []PricingRuleResponse {
	res := make([]PricingRuleResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res
}
