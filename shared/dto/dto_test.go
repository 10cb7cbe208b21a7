package dto_test

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"suave/shared/constant"
	"suave/shared/dto"
	"suave/shared/model"
	"suave/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)
	modifiedAt := createdAt.Add(26 * time.Hour)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "front-desk",
		ModifiedBy: "night-audit",
	})

	assert.Equal(t, dto.Metadata{
		CreatedAt:  timezone.Format(createdAt, constant.DateFormat),
		ModifiedAt: timezone.Format(modifiedAt, constant.DateFormat),
		CreatedBy:  "front-desk",
		ModifiedBy: "night-audit",
	}, metadata)
}

func TestMetadata_FromModelNeverModified(t *testing.T) {
	createdAt := time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedAt: createdAt, CreatedBy: "front-desk"})

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt)
	assert.Empty(t, metadata.ModifiedBy)

	body, err := json.Marshal(metadata)
	assert.NoError(t, err)
	assert.NotContains(t, string(body), "modified_at")
}

func TestQueryParams_FromRequest(t *testing.T) {
	defaults := dto.QueryParams{
		Page:    constant.DefaultValuePage,
		Limit:   constant.DefaultValueLimit,
		SortBy:  constant.DefaultValueSortBy,
		SortDir: constant.DefaultValueSortDir,
	}

	tests := []struct {
		name           string
		query          url.Values
		defaultRequest bool
		want           dto.QueryParams
	}{
		{
			name:  "all parameters given",
			query: url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"check_in"}, "sort_dir": {"asc"}},
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults when nothing given",
			query:          url.Values{},
			defaultRequest: true,
			want:           defaults,
		},
		{
			name:  "nothing given without defaults",
			query: url.Values{},
			want:  dto.QueryParams{},
		},
		{
			name:           "malformed page falls back",
			query:          url.Values{"page": {"first"}},
			defaultRequest: true,
			want:           defaults,
		},
		{
			name:           "non-positive page and limit fall back",
			query:          url.Values{"page": {"0"}, "limit": {"-10"}},
			defaultRequest: true,
			want:           defaults,
		},
		{
			name:  "limit is capped",
			query: url.Values{"limit": {"5000"}},
			want:  dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:           "unknown sort direction is ignored",
			query:          url.Values{"sort_by": {"status"}, "sort_dir": {"sideways"}},
			defaultRequest: true,
			want: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  "status",
				SortDir: constant.DefaultValueSortDir,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/reservations?"+tt.query.Encode(), nil)

			got := dto.QueryParams{}
			got.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params dto.QueryParams
		want   int
	}{
		{name: "first page", params: dto.QueryParams{Page: 1, Limit: 10}, want: 0},
		{name: "third page", params: dto.QueryParams{Page: 3, Limit: 25}, want: 50},
		{name: "no page", params: dto.QueryParams{Limit: 10}, want: 0},
		{name: "no limit", params: dto.QueryParams{Page: 4}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}
}

func TestFilter_WhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "comparison with table",
			filter:    dto.Filter{Field: "check_in", Operator: dto.FilterOperatorGreaterEq, Value: "2025-03-20", Table: "reservations"},
			wantWhere: "reservations.check_in >= :check_in",
			wantArgs:  map[string]any{"check_in": "2025-03-20"},
		},
		{
			name:      "custom arg name",
			filter:    dto.Filter{ArgName: "guest", Field: "guest_ref", Operator: dto.FilterOperatorNotEq, Value: "g-1"},
			wantWhere: "guest_ref != :guest",
			wantArgs:  map[string]any{"guest": "g-1"},
		},
		{
			name:      "like wraps the value",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "Deluxe", Table: "rooms"},
			wantWhere: "LOWER(rooms.name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%Deluxe%"},
		},
		{
			name:      "in expands a slice",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "in binds a scalar",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: "pending'; DROP TABLE rooms; --"},
			wantWhere: "status IN (:status)",
			wantArgs:  map[string]any{"status": "pending'; DROP TABLE rooms; --"},
		},
		{
			name:      "empty in matches nothing",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{}},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "status", Operator: "between", Value: 1},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_WhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "room-1", Table: "reservations"},
			dto.Filter{Field: "check_in", Operator: dto.FilterOperatorLess, Value: "2025-03-22", Table: "reservations"},
		},
	}

	where, args := group.GetWhereClause()

	assert.Contains(t, where, "reservations.room_id")
	assert.Contains(t, where, "reservations.check_in")
	assert.Contains(t, where, "AND")
	assert.Equal(t, "room-1", args["room_id"])
	assert.Equal(t, "2025-03-22", args["check_in"])
}

func TestFilterGroup_Nested(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "room-1"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending"},
					dto.Filter{ArgName: "paid", Field: "payment_status", Operator: dto.FilterOperatorEq, Value: "paid"},
				},
			},
			dto.Filter{Field: "ignored", Operator: "between"},
			"not a filter",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :status OR payment_status = :paid))", where)
	assert.Len(t, args, 3)
}

func TestFilterGroup_Empty(t *testing.T) {
	where, args := (&dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}).GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
