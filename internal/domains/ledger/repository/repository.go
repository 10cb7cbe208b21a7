package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/internal/domains/ledger/model"
	"suave/shared"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	gRepo "suave/shared/repository"

	"github.com/jmoiron/sqlx"
)

// Ledger is append-only: there is no update or delete.
type Ledger interface {
	InsertBulkTx(ctx context.Context, sqltx *sqlx.Tx, models []model.Entry) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Entry, error)
	ByReservation(ctx context.Context, reservationID string) ([]model.Entry, error)
	ByReservationTx(ctx context.Context, sqltx *sqlx.Tx, reservationID string) ([]model.Entry, error)
}

var byReservationParams = gDto.QueryParams{SortBy: model.FieldSeq, SortDir: gDto.SortDirAsc}

type repositoryImpl struct {
	gRepo.Repository[model.Entry]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Ledger {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Entry](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ByReservation returns a reservation's entries in the order they were recorded.
func (repo *repositoryImpl) ByReservation(ctx context.Context, reservationID string) ([]model.Entry, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger_entry.ByReservation")
	defer scope.End()

	entries, err := repo.GetAll(ctx, byReservationParams, shared.FilterByID(reservationID, model.FieldReservationID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return nil, err //nolint:wrapcheck
	}

	return entries, nil
}

// ByReservationTx is ByReservation inside sqltx. Callers hold the reservation
// row lock, so no entry can be appended concurrently.
func (repo *repositoryImpl) ByReservationTx(ctx context.Context, sqltx *sqlx.Tx, reservationID string) ([]model.Entry, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".ledger_entry.ByReservationTx")
	defer scope.End()

	entries, err := repo.GetAllTx(ctx, sqltx, byReservationParams, shared.FilterByID(reservationID, model.FieldReservationID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return nil, err //nolint:wrapcheck
	}

	return entries, nil
}
