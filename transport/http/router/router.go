package router

import (
	"resort/internal/handlers/auth"
	"resort/internal/handlers/booking"
	"resort/internal/handlers/payment"
	"resort/internal/handlers/report"
	"resort/internal/handlers/resort"
	"resort/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth    auth.Handler
	Resort  resort.Handler
	Booking booking.Handler
	Payment payment.Handler
	Report  report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.Resort.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup, r.App.Idempotency)
		r.DomainHandlers.Payment.Router(routerGroup)
		r.DomainHandlers.Report.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
	}
}
