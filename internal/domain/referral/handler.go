package referral

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/platform/auth"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With().Str("component", "referral-handler").Logger()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("/referrals", auth.RequireRole("direction", "secretary", "physician"))
	read.GET("", h.List)
	read.GET("/stats", h.GetStats)
	read.GET("/:id", h.Get)

	write := g.Group("/referrals", auth.RequireRole("direction", "secretary"))
	write.POST("", h.Create)
	write.PATCH("/:id", h.Update)
	write.PATCH("/:id/status", h.SetStatus)
	write.DELETE("/:id", h.Delete)
}

func criteriaFromQuery(c echo.Context) (Criteria, error) {
	var crit Criteria
	for _, raw := range c.QueryParams()["status"] {
		s := Status(raw)
		if !s.Valid() {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid status filter: "+raw)
		}
		crit.Statuses = append(crit.Statuses, s)
	}
	crit.Query = c.QueryParam("q")
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from timestamp")
		}
		crit.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to timestamp")
		}
		crit.To = &t
	}
	return crit, nil
}

func (h *Handler) List(c echo.Context) error {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}
	refs, err := h.svc.List(c.Request().Context(), crit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list referrals")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list referrals")
	}
	if refs == nil {
		refs = []Referral{}
	}
	return c.JSON(http.StatusOK, refs)
}

func (h *Handler) Get(c echo.Context) error {
	ref, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "referral not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch referral")
	}
	return c.JSON(http.StatusOK, ref)
}

func (h *Handler) Create(c echo.Context) error {
	var ref Referral
	if err := c.Bind(&ref); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.Create(c.Request().Context(), ref)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) Update(c echo.Context) error {
	var ref Referral
	if err := c.Bind(&ref); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ref.ID = c.Param("id")
	updated, err := h.svc.Update(c.Request().Context(), ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "referral not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) SetStatus(c echo.Context) error {
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ref, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "referral not found")
		case errors.Is(err, ErrBadTransition):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusOK, ref)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "referral not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete referral")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetStats(c echo.Context) error {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}
	stats, err := h.svc.Stats(c.Request().Context(), crit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute referral stats")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to compute referral stats")
	}
	return c.JSON(http.StatusOK, stats)
}
