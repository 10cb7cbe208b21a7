package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"suave/config"
	"suave/infras/otel/mocks"
	resMocks "suave/internal/domains/reservation/mocks"
	"suave/internal/domains/reservation/model/dto"
	"suave/internal/handlers/reservation"
	"suave/internal/handlers/room"
	"suave/internal/handlers/setting"
	transport "suave/transport/http"
	"suave/transport/http/middleware"
	"suave/transport/http/router"
)

func newServer(t *testing.T, cfg *config.Config) (*resMocks.MockReservationService, *transport.HTTP) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := resMocks.NewMockReservationService(ctrl)
	otel := mocks.NewOtel()

	r := router.New(
		router.DomainHandlers{
			Room:        room.New(nil, otel),
			Setting:     setting.New(nil, otel),
			Reservation: reservation.New(svc, otel),
		},
		router.Middlewares{
			App:      middleware.NewAppMiddleware(otel, cfg, nil),
			Operator: middleware.NewOperatorMiddleware(otel, cfg),
		},
	)

	return svc, transport.New(cfg, r)
}

func TestHTTP_Health(t *testing.T) {
	_, server := newServer(t, &config.Config{})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, transport.ServerStateReady, server.State())
}

func TestHTTP_VersionedRoutes(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "s3cret"

	svc, server := newServer(t, cfg)

	svc.EXPECT().Get(gomock.Any(), "res-1").Return(dto.ReservationResponse{ID: "res-1"}, nil)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reservations/res-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/reservations/res-1", nil)
	req.Header.Set("X-API-Key", "wrong")

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/reservations/res-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
