package lookup

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic-api/internal/platform/auth"
)

type Handler struct {
	svc *Service
	log zerolog.Logger
}

func NewHandler(svc *Service, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log.With().Str("component", "lookup-handler").Logger()}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	read := g.Group("", auth.RequireRole("direction", "secretary", "physician"))
	read.GET("/rooms", h.ListRooms)
	read.GET("/physicians", h.ListPhysicians)
	read.GET("/appointment-types", h.ListTypes)

	// Directory management is reserved for the clinic director.
	write := g.Group("", auth.RequireRole("direction"))
	write.POST("/rooms", h.CreateRoom)
	write.PATCH("/rooms/:id", h.UpdateRoom)
	write.POST("/physicians", h.CreatePhysician)
	write.PATCH("/physicians/:id", h.UpdatePhysician)
	write.POST("/appointment-types", h.CreateType)
}

func (h *Handler) ListRooms(c echo.Context) error {
	rooms, err := h.svc.ListRooms(c.Request().Context(), c.QueryParam("include_inactive") == "true")
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list rooms")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list rooms")
	}
	if rooms == nil {
		rooms = []Room{}
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *Handler) CreateRoom(c echo.Context) error {
	var r Room
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreateRoom(c.Request().Context(), r)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateRoom(c echo.Context) error {
	var r Room
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	r.ID = c.Param("id")
	if err := h.svc.UpdateRoom(c.Request().Context(), r); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "room not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListPhysicians(c echo.Context) error {
	physicians, err := h.svc.ListPhysicians(c.Request().Context(), c.QueryParam("include_inactive") == "true")
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list physicians")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list physicians")
	}
	if physicians == nil {
		physicians = []Physician{}
	}
	return c.JSON(http.StatusOK, physicians)
}

func (h *Handler) CreatePhysician(c echo.Context) error {
	var p Physician
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreatePhysician(c.Request().Context(), p)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdatePhysician(c echo.Context) error {
	var p Physician
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p.ID = c.Param("id")
	if err := h.svc.UpdatePhysician(c.Request().Context(), p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "physician not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.svc.ListTypes(c.Request().Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list appointment types")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list appointment types")
	}
	if types == nil {
		types = []AppointmentType{}
	}
	return c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateType(c echo.Context) error {
	var t AppointmentType
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	created, err := h.svc.CreateType(c.Request().Context(), t)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}
