package scheduling

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-api/internal/platform/auth"
	"github.com/clinichq/clinic-api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – direction, secretary, physician
	readGroup := api.Group("", auth.RequireRole("direction", "secretary", "physician"))
	readGroup.GET("/appointments", h.ListAppointments)
	readGroup.GET("/appointments/:id", h.GetAppointment)
	readGroup.GET("/calendar", h.GetCalendar)

	// Write endpoints – direction, secretary
	writeGroup := api.Group("", auth.RequireRole("direction", "secretary"))
	writeGroup.POST("/appointments", h.CreateAppointment)
	writeGroup.PATCH("/appointments/:id", h.UpdateAppointment)
	writeGroup.PATCH("/appointments/:id/status", h.UpdateStatus)
	writeGroup.POST("/appointments/:id/reschedule", h.RescheduleAppointment)
	writeGroup.DELETE("/appointments/:id", h.DeleteAppointment)
}

// criteriaFromQuery builds filter criteria from repeatable query params:
// ?room=a&room=b&physician=1&status=pending&type=consult&q=smith&from=...&to=...
func criteriaFromQuery(c echo.Context) (Criteria, error) {
	var crit Criteria
	crit.Rooms = c.QueryParams()["room"]
	crit.Physicians = c.QueryParams()["physician"]
	crit.Types = c.QueryParams()["type"]
	for _, s := range c.QueryParams()["status"] {
		st := Status(s)
		if !st.Valid() {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid status "+s)
		}
		crit.Statuses = append(crit.Statuses, st)
	}
	crit.Query = c.QueryParam("q")
	if v := c.QueryParam("from"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		crit.From = d
	}
	if v := c.QueryParam("to"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return Criteria{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		crit.To = d
	}
	return crit, nil
}

func (h *Handler) ListAppointments(c echo.Context) error {
	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}
	items, err := h.svc.List(c.Request().Context(), crit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []Appointment{}
	}
	p := pagination.FromContext(c)
	start, end := p.Bounds(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), p.Limit, p.Offset))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	var raw RawAppointment
	if err := c.Bind(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Create(c.Request().Context(), raw)
	if err != nil {
		if errors.Is(err, ErrDuplicateID) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	var raw RawAppointment
	if err := c.Bind(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Update(c.Request().Context(), c.Param("id"), raw)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.SetStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) RescheduleAppointment(c echo.Context) error {
	var body struct {
		Room *string `json:"room"`
		Time string  `json:"time"`
		Day  *string `json:"day"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t := Target{Room: body.Room, Time: body.Time}
	if body.Day != nil {
		d, err := ParseDate(*body.Day)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid day")
		}
		t.Day = &d
	}
	a, err := h.svc.Reschedule(c.Request().Context(), c.Param("id"), t)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCalendar materializes a calendar view:
// ?mode=day|week|month&date=2025-02-15&days=3&rooms=r1,r2 plus the usual
// filter params.
func (h *Handler) GetCalendar(c echo.Context) error {
	mode := ViewMode(c.QueryParam("mode"))
	if mode == "" {
		mode = ViewWeek
	}
	if !mode.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid mode")
	}
	anchor, err := ParseDate(c.QueryParam("date"))
	if err != nil || anchor.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	view := ViewContext{Mode: mode, Anchor: anchor}
	if v := c.QueryParam("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || (n != 1 && n != 3 && n != 7) {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be 1, 3 or 7")
		}
		view.VisibleDays = n
	}

	var rooms []string
	if v := c.QueryParam("rooms"); v != "" {
		for _, r := range strings.Split(v, ",") {
			if r = strings.TrimSpace(r); r != "" {
				rooms = append(rooms, r)
			}
		}
	}

	crit, err := criteriaFromQuery(c)
	if err != nil {
		return err
	}

	payload, err := h.svc.Calendar(c.Request().Context(), view, crit, rooms)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, payload)
}
