package setting_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"suave/infras/otel/mocks"
	settingMocks "suave/internal/domains/setting/mocks"
	"suave/internal/domains/setting/model/dto"
	"suave/internal/engine/policy"
	"suave/internal/handlers/setting"
	"suave/shared/failure"
)

func newServer(t *testing.T) (*settingMocks.MockSetting, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := settingMocks.NewMockSetting(ctrl)

	handler := setting.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func serve(server http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.ServeHTTP(rec, req)

	return rec
}

func TestHandler_CreateTaxFee(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *settingMocks.MockSetting)
		wantStatus int
	}{
		{
			name: "vat",
			body: `{"name":"VAT","kind":"percentage","value":"7.5","applies_to":"all"}`,
			setupMock: func(svc *settingMocks.MockSetting) {
				svc.EXPECT().
					CreateTaxFee(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.CreateTaxFeeRequest) error {
						assert.Equal(t, "7.5", req.Value.String())
						assert.Equal(t, "all", req.AppliesTo)

						return nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "unknown base",
			body:       `{"name":"Levy","kind":"fixed","value":"100","applies_to":"minibar"}`,
			setupMock:  func(*settingMocks.MockSetting) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative value",
			body:       `{"name":"Levy","kind":"fixed","value":"-100","applies_to":"per_stay"}`,
			setupMock:  func(*settingMocks.MockSetting) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, server := newServer(t)
			tt.setupMock(svc)

			rec := serve(server, http.MethodPost, "/tax-fees", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_UpdateAndDeleteTaxFee(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		setupMock  func(svc *settingMocks.MockSetting)
		wantStatus int
	}{
		{
			name:   "disable",
			method: http.MethodPatch,
			target: "/tax-fees/3",
			body:   `{"enabled":false}`,
			setupMock: func(svc *settingMocks.MockSetting) {
				svc.EXPECT().UpdateTaxFee(gomock.Any(), gomock.Any(), int64(3)).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "non numeric id",
			method:     http.MethodPatch,
			target:     "/tax-fees/vat",
			body:       `{"enabled":false}`,
			setupMock:  func(*settingMocks.MockSetting) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "delete missing",
			method: http.MethodDelete,
			target: "/tax-fees/99",
			setupMock: func(svc *settingMocks.MockSetting) {
				svc.EXPECT().DeleteTaxFee(gomock.Any(), int64(99)).Return(failure.NotFound("tax/fee rule"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, server := newServer(t)
			tt.setupMock(svc)

			rec := serve(server, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_GetPolicies(t *testing.T) {
	svc, server := newServer(t)

	svc.EXPECT().Policies(gomock.Any()).Return(policy.Policies{}, nil)

	rec := serve(server, http.MethodGet, "/policies", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_PutPolicy(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		body       string
		setupMock  func(svc *settingMocks.MockSetting)
		wantStatus int
	}{
		{
			name:   "pets allowed",
			target: "/policies/pets",
			body:   `{"payload":{"allowed":true}}`,
			setupMock: func(svc *settingMocks.MockSetting) {
				svc.EXPECT().
					PutPolicy(gomock.Any(), policy.CategoryPets, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ policy.Category, req dto.PutPolicyRequest) error {
						assert.JSONEq(t, `{"allowed":true}`, string(req.Payload))

						return nil
					})
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing payload",
			target:     "/policies/pets",
			body:       `{}`,
			setupMock:  func(*settingMocks.MockSetting) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown category",
			target: "/policies/parking",
			body:   `{"payload":{}}`,
			setupMock: func(svc *settingMocks.MockSetting) {
				svc.EXPECT().PutPolicy(gomock.Any(), policy.Category("parking"), gomock.Any()).Return(failure.BadRequestFromString("unknown policy category"))
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, server := newServer(t)
			tt.setupMock(svc)

			rec := serve(server, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				var body map[string]string
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}
