//go:build wireinject
// +build wireinject

package di

import (
	"storeloft/config"
	"storeloft/infras/firebase"
	"storeloft/infras/kafka"
	"storeloft/infras/otel"
	"storeloft/infras/postgres"
	"storeloft/infras/redis"
	"storeloft/infras/s3"
	"storeloft/infras/stripe"
	"storeloft/permissions"
	"storeloft/shared/cache"
	"storeloft/transport/http"
	"storeloft/transport/http/middleware"
	"storeloft/transport/http/router"

	bookingRepository "storeloft/internal/domains/booking/repository"
	bookingService "storeloft/internal/domains/booking/service"
	locationRepository "storeloft/internal/domains/location/repository"
	locationService "storeloft/internal/domains/location/service"
	paymentRepository "storeloft/internal/domains/payment/repository"
	userRepository "storeloft/internal/domains/user/repository"
	userService "storeloft/internal/domains/user/service"

	bookingHandler "storeloft/internal/handlers/booking"
	locationHandler "storeloft/internal/handlers/location"
	userHandler "storeloft/internal/handlers/user"
	webhookHandler "storeloft/internal/handlers/webhook"

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
	s3.New,
	firebase.New,
	stripe.New,
)

var middlewares = wire.NewSet(
	permissions.Get,
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var locationDomain = wire.NewSet(
	locationRepository.New,
	locationService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	paymentRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	userDomain,
	locationDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	userHandler.New,
	locationHandler.New,
	bookingHandler.New,
	webhookHandler.New,
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
