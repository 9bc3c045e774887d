//go:build wireinject
// +build wireinject

package di

import (
	"hotelier/config"
	"hotelier/infras/kafka"
	"hotelier/infras/otel"
	"hotelier/infras/postgres"
	"hotelier/infras/redis"
	bookingHandler "hotelier/internal/handlers/booking"
	guestHandler "hotelier/internal/handlers/guest"
	roomHandler "hotelier/internal/handlers/room"
	"hotelier/shared/cache"
	"hotelier/transport/http"
	"hotelier/transport/http/middleware"
	"hotelier/transport/http/router"

	bookingRepository "hotelier/internal/domains/booking/repository"
	bookingService "hotelier/internal/domains/booking/service"
	guestRepository "hotelier/internal/domains/guest/repository"
	guestService "hotelier/internal/domains/guest/service"
	roomRepository "hotelier/internal/domains/room/repository"
	roomService "hotelier/internal/domains/room/service"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.ProvidePostgres,
	otel.New,
	redis.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var guestDomain = wire.NewSet(
	guestRepository.New,
	guestService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	roomDomain,
	guestDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	guestHandler.New,
	bookingHandler.New,
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
