package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/service"
	"github.com/tripmaster/trip-scout/internal/util"
)

type TripHandler struct {
	trips *service.TripService
}

func RegisterTrips(e *echo.Echo, auth *service.AuthService, trips *service.TripService) {
	handler := &TripHandler{trips: trips}

	group := e.Group("/api/v1/trips", RequireAuth(auth), RequireAJAXHeader())
	group.GET("", handler.list)
	group.GET("/:id", handler.get)
	group.PUT("/:id", handler.update)
	group.DELETE("/:id", handler.delete)
}

func (h *TripHandler) list(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	if raw := c.QueryParam("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, util.Error("invalid client_id"))
		}
		trips, err := h.trips.ListForClient(c.Request().Context(), clientID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, util.Error("unable to list trips"))
		}
		return c.JSON(http.StatusOK, util.Data("trips", trips))
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	trips, err := h.trips.List(c.Request().Context(), user.ID, c.QueryParam("status"), limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list trips"))
	}
	return c.JSON(http.StatusOK, util.Data("trips", trips))
}

func (h *TripHandler) update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid trip id"))
	}
	var req struct {
		Title    *string `json:"title"`
		Status   *string `json:"status"`
		ClientID *int64  `json:"client_id"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	trip, err := h.trips.Update(c.Request().Context(), id, service.TripUpdateInput{
		Title:    req.Title,
		Status:   req.Status,
		ClientID: req.ClientID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTripNotFound):
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		case errors.Is(err, service.ErrInvalidTripStatus), errors.Is(err, service.ErrTripTitleNeeded):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update trip"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("trip", trip))
}

func (h *TripHandler) get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid trip id"))
	}
	trip, err := h.trips.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load trip"))
	}
	return c.JSON(http.StatusOK, util.Data("trip", trip))
}

func (h *TripHandler) delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid trip id"))
	}
	if err := h.trips.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete trip"))
	}
	return c.JSON(http.StatusOK, util.Data("ok", true))
}
