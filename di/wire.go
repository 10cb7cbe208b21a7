//go:build wireinject
// +build wireinject

package di

import (
	"suave/config"
	"suave/infras/kafka"
	"suave/infras/otel"
	"suave/infras/postgres"
	"suave/infras/redis"
	"suave/shared/cache"
	"suave/transport/http"
	"suave/transport/http/middleware"
	"suave/transport/http/router"
	"suave/transport/worker"

	ledgerRepository "suave/internal/domains/ledger/repository"
	reservationRepository "suave/internal/domains/reservation/repository"
	reservationService "suave/internal/domains/reservation/service"
	roomRepository "suave/internal/domains/room/repository"
	roomService "suave/internal/domains/room/service"
	settingRepository "suave/internal/domains/setting/repository"
	settingService "suave/internal/domains/setting/service"
	reservationHandler "suave/internal/handlers/reservation"
	roomHandler "suave/internal/handlers/room"
	settingHandler "suave/internal/handlers/setting"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewOperatorMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomRepository.NewPricingRule,
	roomService.New,
)

var settingDomain = wire.NewSet(
	settingRepository.NewTaxFee,
	settingRepository.NewPolicyBlock,
	settingService.New,
)

var reservationDomain = wire.NewSet(
	ledgerRepository.New,
	reservationRepository.New,
	reservationService.New,
)

var domains = wire.NewSet(
	roomDomain,
	settingDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	settingHandler.New,
	reservationHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeSweeper() *worker.Sweeper {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		worker.NewSweeper,
	)

	return &worker.Sweeper{}
}

func InitializeConsumer() *worker.Consumer {
	wire.Build(
		configurations,
		infrastructures,
		sharedHelpers,
		domains,
		reservationHandler.New,
		worker.NewConsumer,
	)

	return &worker.Consumer{}
}
