package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/internal/domains/room/model"
	"suave/shared"
	gDto "suave/shared/dto"
	gRepo "suave/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	LockTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockTx reads a room and holds its row lock until sqltx ends. Every commit
// for the room queues behind the lock, which serializes availability checks.
// A missing room comes back as the zero value.
func (r *repositoryImpl) LockTx(ctx context.Context, sqltx *sqlx.Tx, roomID string) (model.Room, error) {
	return r.GetForUpdateTx(ctx, sqltx, shared.FilterByID(roomID, model.FieldID, model.TableName))
}
