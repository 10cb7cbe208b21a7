package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/internal/domains/setting/model"
	gDto "suave/shared/dto"
	gRepo "suave/shared/repository"
)

type TaxFee interface {
	Insert(ctx context.Context, model model.TaxFeeRule) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TaxFeeRule, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type PolicyBlock interface {
	Insert(ctx context.Context, model model.PolicyBlock) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.PolicyBlock, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type taxFeeRepositoryImpl struct {
	gRepo.Repository[model.TaxFeeRule]
	db   *postgres.Connection
	otel otel.Otel
}

func NewTaxFee(db *postgres.Connection, otel otel.Otel) TaxFee {
	return &taxFeeRepositoryImpl{
		Repository: gRepo.NewRepository[model.TaxFeeRule](model.TaxFeeEntityName, model.TaxFeeTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

type policyBlockRepositoryImpl struct {
	gRepo.Repository[model.PolicyBlock]
	db   *postgres.Connection
	otel otel.Otel
}

func NewPolicyBlock(db *postgres.Connection, otel otel.Otel) PolicyBlock {
	return &policyBlockRepositoryImpl{
		Repository: gRepo.NewRepository[model.PolicyBlock](model.PolicyBlockEntityName, model.PolicyBlockTableName, model.FieldCategory, db, otel),
		db:         db,
		otel:       otel,
	}
}
