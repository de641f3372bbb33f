//go:build wireinject
// +build wireinject

package di

import (
	"resort/config"
	"resort/infras/gateway"
	"resort/infras/jwt"
	"resort/infras/kafka"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/infras/redis"
	"resort/infras/s3"
	"resort/internal/domains/resort"
	"resort/permissions"
	"resort/shared/cache"
	"resort/transport/http"
	"resort/transport/http/middleware"
	"resort/transport/http/router"

	"github.com/google/wire"

	authService "resort/internal/domains/auth/service"
	availabilityService "resort/internal/domains/availability/service"
	bookingRepository "resort/internal/domains/booking/repository"
	bookingService "resort/internal/domains/booking/service"
	documentService "resort/internal/domains/document/service"
	outboxRepository "resort/internal/domains/outbox/repository"
	outboxService "resort/internal/domains/outbox/service"
	paymentRepository "resort/internal/domains/payment/repository"
	paymentService "resort/internal/domains/payment/service"
	pricingService "resort/internal/domains/pricing/service"
	userRepository "resort/internal/domains/user/repository"
	authHandler "resort/internal/handlers/auth"
	bookingHandler "resort/internal/handlers/booking"
	paymentHandler "resort/internal/handlers/payment"
	reportHandler "resort/internal/handlers/report"
	resortHandler "resort/internal/handlers/resort"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
	resort.New,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	gateway.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	paymentRepository.New,
	outboxRepository.New,
	pricingService.New,
	availabilityService.New,
	bookingService.New,
	paymentService.New,
	documentService.New,
)

var domains = wire.NewSet(
	authDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	resortHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	reportHandler.New,
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

func InitializeRelay() outboxService.Relay {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		kafka.NewProducer,
		outboxRepository.New,
		outboxService.NewRelay,
	)

	return nil
}
