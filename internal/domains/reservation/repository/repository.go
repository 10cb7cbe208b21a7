package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/internal/domains/reservation/model"
	"suave/internal/engine/lifecycle"
	"suave/shared/constant"
	gDto "suave/shared/dto"
	gRepo "suave/shared/repository"

	"github.com/jmoiron/sqlx"
)

// occupying are the statuses that hold a room for their dates.
var occupying = []string{
	string(lifecycle.StatusPending),
	string(lifecycle.StatusConfirmed),
	string(lifecycle.StatusCheckedIn),
}

type Reservation interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	OverlapsTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time) (bool, error)
	StalePending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Reservation, error)
	MissedArrivals(ctx context.Context, checkInBefore time.Time, limit int) ([]model.Reservation, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.WithTx")
	defer scope.End()

	err := repo.db.WithTx(ctx, fn)
	scope.TraceIfError(err)

	return err //nolint:wrapcheck
}

// OverlapsTx reports whether an occupying reservation of the room shares a night
// with [checkIn, checkOut). Call it while holding the room's row lock.
func (repo *repositoryImpl) OverlapsTx(ctx context.Context, sqltx *sqlx.Tx, roomID string, checkIn, checkOut time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.OverlapsTx")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldRoomID, Operator: gDto.FilterOperatorEq, Value: roomID, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorIn, Value: occupying, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Operator: gDto.FilterOperatorLess, Value: checkOut, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOut, Operator: gDto.FilterOperatorGreater, Value: checkIn, Table: model.TableName},
		},
	}

	overlaps, err := repo.ExistTx(ctx, sqltx, filter)
	if err != nil {
		scope.TraceError(err)

		return false, err //nolint:wrapcheck
	}

	return overlaps, nil
}

// StalePending lists unpaid pending reservations created before the cutoff.
func (repo *repositoryImpl) StalePending(ctx context.Context, createdBefore time.Time, limit int) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.StalePending")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: string(lifecycle.StatusPending), Table: model.TableName},
			gDto.Filter{
				Field:    model.FieldPaymentStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    []string{string(lifecycle.PaymentPending), string(lifecycle.PaymentFailed)},
				Table:    model.TableName,
			},
			gDto.Filter{Field: constant.FieldCreatedAt, Operator: gDto.FilterOperatorLess, Value: createdBefore, Table: model.TableName},
		},
	}

	return repo.sweepCandidates(ctx, filter, limit)
}

// MissedArrivals lists confirmed reservations whose check-in date is before the
// date of checkInBefore. The bound is sent as a plain date so the session
// timezone cannot shift it.
func (repo *repositoryImpl) MissedArrivals(ctx context.Context, checkInBefore time.Time, limit int) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.MissedArrivals")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: string(lifecycle.StatusConfirmed), Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckIn, Operator: gDto.FilterOperatorLess, Value: checkInBefore.Format(time.DateOnly), Table: model.TableName},
		},
	}

	return repo.sweepCandidates(ctx, filter, limit)
}

func (repo *repositoryImpl) sweepCandidates(ctx context.Context, filter gDto.FilterGroup, limit int) ([]model.Reservation, error) {
	params := gDto.QueryParams{Limit: limit, SortBy: model.TableName + "." + constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	reservations, err := repo.GetAll(ctx, params, filter, model.FieldID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return reservations, nil
}
