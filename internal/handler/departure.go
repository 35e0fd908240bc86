package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ticketgo/ticketgo/internal/repository"
)

// DepartureHandler serves the public trip browse list.
type DepartureHandler struct {
	Departures *repository.DepartureRepo
}

func NewDepartureHandler(departures *repository.DepartureRepo) *DepartureHandler {
	if departures == nil {
		panic("nil DepartureRepo passed to NewDepartureHandler")
	}
	return &DepartureHandler{Departures: departures}
}

// List handles GET /v1/departures. Each summary carries the route
// endpoints and the first coach id so clients can link straight into
// seat selection.
func (h *DepartureHandler) List(c echo.Context) error {
	summaries, err := h.Departures.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list departures"})
	}
	return c.JSON(http.StatusOK, echo.Map{"departures": summaries})
}
