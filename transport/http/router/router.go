package router

import (
	"github.com/go-chi/chi/v5"

	"hotelier/internal/handlers/booking"
	"hotelier/internal/handlers/guest"
	"hotelier/internal/handlers/room"
)

type DomainHandlers struct {
	Room    room.Handler
	Guest   guest.Handler
	Booking booking.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Room.Router(routerGroup)
		r.DomainHandlers.Guest.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
