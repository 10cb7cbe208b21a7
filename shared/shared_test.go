package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"suave/shared"
	"suave/shared/cache/mocks"
	"suave/shared/constant"
	"suave/shared/dto"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "true", input: "true", want: boolPtr(true)},
		{name: "false", input: "false", want: boolPtr(false)},
		{name: "numeric true", input: "1", want: boolPtr(true)},
		{name: "upper case false", input: "FALSE", want: boolPtr(false)},
		{name: "garbage", input: "yes please", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "no rows", total: 0, limit: 10, want: 1},
		{name: "exact pages", total: 30, limit: 10, want: 3},
		{name: "partial last page", total: 31, limit: 10, want: 4},
		{name: "zero limit", total: 31, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestTransformFields(t *testing.T) {
	type roomPatch struct {
		Name     string `db:"name"`
		Capacity int    `db:"capacity"`
		Internal string
	}

	fields := shared.TransformFields(roomPatch{Name: "Harbour Suite", Internal: "skip"}, "front-desk")

	assert.Equal(t, "Harbour Suite", fields["name"])
	assert.NotContains(t, fields, "capacity")
	assert.NotContains(t, fields, "Internal")
	assert.Equal(t, "front-desk", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
	assert.Len(t, fields, 3)
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("res-1", "id", "reservations")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(reservations.id = :id)", where)
	assert.Equal(t, "res-1", args["id"])
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room", shared.BuildCacheKey("room"))
	assert.Equal(t, "room:get:r-1", shared.BuildCacheKey("room", "get", "r-1"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	active := dto.FilterGroup{Filters: []any{dto.Filter{Field: "active", Operator: dto.FilterOperatorEq, Value: true}}}
	inactive := dto.FilterGroup{Filters: []any{dto.Filter{Field: "active", Operator: dto.FilterOperatorEq, Value: false}}}

	key := shared.BuildCacheKeyWithQuery("room:list", params, active)

	assert.Contains(t, key, "room:list:")
	assert.Equal(t, key, shared.BuildCacheKeyWithQuery("room:list", params, active))
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("room:list", params, inactive))

	params.Page = 2
	assert.NotEqual(t, key, shared.BuildCacheKeyWithQuery("room:list", params, active))
}

func TestInvalidateCaches(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "cleared", err: nil},
		{name: "cache failure is swallowed", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mocks.NewMockRedisCache(ctrl)

			cache.EXPECT().Clear(gomock.Any(), "room:*").Return(tt.err)

			shared.InvalidateCaches(context.Background(), cache, "room")
		})
	}
}
