package repository

//go:generate go run go.uber.org/mock/mockgen -source=./pricing_rule.go -destination=../mocks/pricing_rule_mock.go -package=mocks

import (
	"context"
	"time"

	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/internal/domains/room/model"
	"suave/shared/calendar"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	gRepo "suave/shared/repository"
)

type PricingRule interface {
	Insert(ctx context.Context, model model.PricingRule) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PricingRule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ActiveForStay(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]model.PricingRule, error)
}

type pricingRuleRepositoryImpl struct {
	gRepo.Repository[model.PricingRule]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPricingRule(db *postgres.Connection, otel otel.Otel) PricingRule {
	return &pricingRuleRepositoryImpl{
		Repository: gRepo.NewRepository[model.PricingRule](model.PricingRuleEntityName, model.PricingRuleTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveForStay returns the room's rules whose validity window touches any night
// of the stay, in id order.
func (repo *pricingRuleRepositoryImpl) ActiveForStay(ctx context.Context, roomID string, checkIn, checkOut time.Time) ([]model.PricingRule, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".pricing_rule.ActiveForStay")
	defer scope.End()

	lastNight := calendar.AddDays(checkOut, -1)

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.PricingRuleTableName},
			gDto.Filter{Field: model.FieldValidFrom, Operator: gDto.FilterOperatorLessEq, Value: calendar.Day(lastNight), Table: model.PricingRuleTableName},
			gDto.Filter{Field: model.FieldValidTo, Operator: gDto.FilterOperatorGreaterEq, Value: calendar.Day(checkIn), Table: model.PricingRuleTableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.PricingRuleTableName + "." + model.FieldID, SortDir: gDto.SortDirAsc}

	rules, err := repo.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, err //nolint:wrapcheck
	}

	return rules, nil
}
