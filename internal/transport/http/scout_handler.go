package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/ratelimit"
	"github.com/tripmaster/trip-scout/internal/repository/ports"
	"github.com/tripmaster/trip-scout/internal/service"
	"github.com/tripmaster/trip-scout/internal/util"
)

type ScoutHandler struct {
	guides *service.GuideService
}

func RegisterScout(e *echo.Echo, auth *service.AuthService, guides *service.GuideService, limiter *ratelimit.Limiter) {
	handler := &ScoutHandler{guides: guides}

	group := e.Group("/api/v1/scout", RequireAuth(auth), RequireAJAXHeader())
	group.POST("/generate", handler.generate, RateLimit(limiter, RuleGenerate, UserIdentity))
	group.POST("/replace", handler.replace, RateLimit(limiter, RuleReplace, UserIdentity))
	group.POST("/finalize", handler.finalize)
}

type generateRequest struct {
	Location      string `json:"location"`
	Duration      int    `json:"duration"`
	Budget        string `json:"budget"`
	Distance      string `json:"distance"`
	Accommodation string `json:"accommodation"`
	PrePlanned    string `json:"pre_planned"`

	// Sections default to enabled when the key is absent.
	IncludePhotos      *bool `json:"include_photos"`
	IncludeDining      *bool `json:"include_dining"`
	IncludeAttractions *bool `json:"include_attractions"`

	PhotosPerDay      int `json:"photos_per_day"`
	RestaurantsPerDay int `json:"restaurants_per_day"`
	AttractionsPerDay int `json:"attractions_per_day"`

	PhotoInterests       string `json:"photo_interests"`
	Cuisines             string `json:"cuisines"`
	AttractionCategories string `json:"attractions"`

	ClientID *int64 `json:"client_id"`
}

func (h *ScoutHandler) generate(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.guides.Generate(c.Request().Context(), user.ID, service.GenerateRequest{
		Location:           req.Location,
		Duration:           req.Duration,
		Budget:             req.Budget,
		Distance:           req.Distance,
		Accommodation:      req.Accommodation,
		PrePlanned:         req.PrePlanned,
		IncludePhotos:      boolOrTrue(req.IncludePhotos),
		IncludeDining:      boolOrTrue(req.IncludeDining),
		IncludeAttractions: boolOrTrue(req.IncludeAttractions),
		PhotosPerDay:       req.PhotosPerDay,
		RestaurantsPerDay:  req.RestaurantsPerDay,
		AttractionsPerDay:  req.AttractionsPerDay,
		PhotoInterests:     req.PhotoInterests,
		Cuisines:           req.Cuisines,
		AttractionCats:     req.AttractionCategories,
		ClientID:           req.ClientID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLocation),
			errors.Is(err, service.ErrInvalidDuration),
			errors.Is(err, service.ErrNoSectionsEnabled):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, ports.ErrUpstreamEmpty):
			body := util.Error("could not generate recommendations for this destination, please try again")
			if result != nil {
				body["warnings"] = result.Warnings
			}
			return c.JSON(http.StatusInternalServerError, body)
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("generation failed"))
		}
	}
	return c.JSON(http.StatusOK, result)
}

type replaceRequest struct {
	SessionID    string   `json:"session_id"`
	TripID       *int64   `json:"trip_id"`
	Category     string   `json:"type"`
	Index        int      `json:"index"`
	Day          int      `json:"day"`
	MealType     *string  `json:"meal_type"`
	ExcludeNames []string `json:"exclude_names"`
}

func (h *ScoutHandler) replace(c echo.Context) error {
	var req replaceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	item, err := h.guides.Replace(c.Request().Context(), service.ReplaceRequest{
		SessionID:    req.SessionID,
		TripID:       req.TripID,
		Category:     domain.Category(req.Category),
		Index:        req.Index,
		Day:          req.Day,
		MealType:     req.MealType,
		ExcludeNames: req.ExcludeNames,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCategory), errors.Is(err, service.ErrInvalidLocation):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, ports.ErrSessionNotFound):
			return c.JSON(http.StatusNotFound, util.Error("session expired or not found"))
		case errors.Is(err, service.ErrNoAlternativeFound):
			return c.JSON(http.StatusUnprocessableEntity, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("replacement failed"))
		}
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"item":     item,
		"category": req.Category,
		"index":    req.Index,
	})
}

type finalizeRequest struct {
	SessionID string `json:"session_id"`
	TripID    *int64 `json:"trip_id"`

	// nil means "approve everything", an empty list approves nothing.
	ApprovedPhotos      []int `json:"approved_photos"`
	ApprovedRestaurants []int `json:"approved_restaurants"`
	ApprovedAttractions []int `json:"approved_attractions"`
}

func (h *ScoutHandler) finalize(c echo.Context) error {
	var req finalizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.guides.Finalize(c.Request().Context(), service.FinalizeRequest{
		SessionID:           req.SessionID,
		TripID:              req.TripID,
		ApprovedPhotos:      req.ApprovedPhotos,
		ApprovedRestaurants: req.ApprovedRestaurants,
		ApprovedAttractions: req.ApprovedAttractions,
	})
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("session expired or not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("finalize failed"))
	}
	return c.JSON(http.StatusOK, result)
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
