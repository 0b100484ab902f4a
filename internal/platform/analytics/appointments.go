package analytics

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-api/internal/domain/scheduling"
)

// AppointmentStats aggregates the book of appointments for dashboards.
type AppointmentStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	ByDay       map[string]int `json:"by_day"`
	ByPhysician map[string]int `json:"by_physician"`
	ByRoom      map[string]int `json:"by_room"`
}

// ComputeAppointmentStats tallies the given appointments. Unset physician or
// room buckets are keyed "unassigned".
func ComputeAppointmentStats(appts []scheduling.Appointment) *AppointmentStats {
	s := &AppointmentStats{
		Total:       len(appts),
		ByStatus:    make(map[string]int),
		ByDay:       make(map[string]int),
		ByPhysician: make(map[string]int),
		ByRoom:      make(map[string]int),
	}
	for _, a := range appts {
		s.ByStatus[string(a.Status)]++
		if !a.Date.IsZero() {
			s.ByDay[a.Date.String()]++
		}
		phys := a.Physician
		if phys == "" {
			phys = "unassigned"
		}
		s.ByPhysician[phys]++
		room := a.Room
		if room == "" {
			room = "unassigned"
		}
		s.ByRoom[room]++
	}
	return s
}

// AppointmentLister is the slice of the scheduling service the stats
// endpoint needs.
type AppointmentLister interface {
	List(ctx context.Context, c scheduling.Criteria) ([]scheduling.Appointment, error)
}

// AppointmentStatsHandler serves appointment aggregates, honoring the same
// from/to bounds as the appointment list endpoint.
func AppointmentStatsHandler(lister AppointmentLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		var crit scheduling.Criteria
		if v := c.QueryParam("from"); v != "" {
			d, err := scheduling.ParseDate(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
			}
			crit.From = d
		}
		if v := c.QueryParam("to"); v != "" {
			d, err := scheduling.ParseDate(v)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
			}
			crit.To = d
		}
		appts, err := lister.List(c.Request().Context(), crit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, ComputeAppointmentStats(appts))
	}
}
