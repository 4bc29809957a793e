package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/service"
	"github.com/tripmaster/trip-scout/internal/util"
)

type ClientHandler struct {
	clients *service.ClientService
}

func RegisterClients(e *echo.Echo, auth *service.AuthService, clients *service.ClientService) {
	handler := &ClientHandler{clients: clients}

	group := e.Group("/api/v1/clients", RequireAuth(auth), RequireAJAXHeader())
	group.GET("", handler.list)
	group.POST("", handler.create)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

type clientRequest struct {
	Name                string  `json:"name"`
	Email               *string `json:"email"`
	Phone               *string `json:"phone"`
	Company             *string `json:"company"`
	HomeCity            *string `json:"home_city"`
	PreferredBudget     *string `json:"preferred_budget"`
	TravelStyle         *string `json:"travel_style"`
	DietaryRequirements *string `json:"dietary_requirements"`
	Notes               *string `json:"notes"`
	Tags                *string `json:"tags"`
}

func (r clientRequest) toInput() service.ClientInput {
	return service.ClientInput{
		Name:                r.Name,
		Email:               r.Email,
		Phone:               r.Phone,
		Company:             r.Company,
		HomeCity:            r.HomeCity,
		PreferredBudget:     r.PreferredBudget,
		TravelStyle:         r.TravelStyle,
		DietaryRequirements: r.DietaryRequirements,
		Notes:               r.Notes,
		Tags:                r.Tags,
	}
}

func (h *ClientHandler) list(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	clients, err := h.clients.List(c.Request().Context(), c.QueryParam("q"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list clients"))
	}
	return c.JSON(http.StatusOK, util.Data("clients", clients))
}

func (h *ClientHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	client, err := h.clients.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrClientNameNeeded) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to create client"))
	}
	return c.JSON(http.StatusCreated, util.Data("client", client))
}

func (h *ClientHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid client id"))
	}
	client, trips, err := h.clients.GetWithTrips(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load client"))
	}
	return c.JSON(http.StatusOK, util.Envelope{"client": client, "trips": trips})
}

func (h *ClientHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid client id"))
	}
	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	client, err := h.clients.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNameNeeded):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrClientNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update client"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("client", client))
}

func (h *ClientHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid client id"))
	}
	if err := h.clients.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete client"))
	}
	return c.JSON(http.StatusOK, util.Data("ok", true))
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
