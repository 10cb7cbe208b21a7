package router

import (
	_ "suave/docs" // swagger docs
	"suave/internal/handlers/reservation"
	"suave/internal/handlers/room"
	"suave/internal/handlers/setting"
	"suave/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Room        room.Handler
	Setting     setting.Handler
	Reservation reservation.Handler
}

type Middlewares struct {
	App      middleware.AppMiddleware
	Operator middleware.Operator
}

type Router struct {
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(chiMiddleware.RequestID)
	router.Use(r.Middlewares.App.Tracing)
	router.Use(chiMiddleware.Recoverer)
	router.Use(r.Middlewares.App.CORS())

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middlewares.App.RateLimit())
		routerGroup.Use(r.Middlewares.Operator.APIKey)
		routerGroup.Use(r.Middlewares.Operator.Attribute)

		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Setting.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
