package resort

import (
	"net/http"
	"resort/infras/otel"
	"resort/internal/domains/resort"
	"resort/internal/domains/resort/model/dto"
	"resort/shared/constant"
	"resort/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	catalog *resort.Catalog
	otel    otel.Otel
}

func New(catalog *resort.Catalog, otel otel.Otel) Handler {
	return Handler{
		catalog: catalog,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/packages", handler.GetPackages)
	router.Get("/rooms", handler.GetRooms)
}

// GetPackages lists the treatment packages with their seasonal prices.
// @Summary List packages
// @Tags Resort
// @Produce json
// @Success 200 {object} response.Data[dto.PackagesResponse]
// @Router /v1/packages [get]
func (handler *Handler) GetPackages(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPackages")
	defer scope.End()

	res := dto.PackagesResponse{}
	res.FromCatalog(handler.catalog)

	response.WithJSON(w, http.StatusOK, res)
}

// GetRooms lists the bookable rooms.
// @Summary List rooms
// @Tags Resort
// @Produce json
// @Success 200 {object} response.Data[dto.RoomsResponse]
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	res := dto.RoomsResponse{}
	res.FromCatalog(handler.catalog)

	response.WithJSON(w, http.StatusOK, res)
}
