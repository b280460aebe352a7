package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/airquality"
	"github.com/airowalk/airowalk-backend/internal/repository"
)

// summaryWindow is the trailing window covered by the air quality summary,
// both for measurements and for the rolling activity sums.
const summaryWindow = 8 * time.Hour

// AirQualityHandler serves the per-user air quality summary.
type AirQualityHandler struct {
	Nodes        *repository.NodeRepo
	Measurements *repository.MeasurementRepo
	Stats        *repository.StatsRepo
}

func NewAirQualityHandler(n *repository.NodeRepo, m *repository.MeasurementRepo, s *repository.StatsRepo) *AirQualityHandler {
	return &AirQualityHandler{Nodes: n, Measurements: m, Stats: s}
}

// Summary answers GET /usuario/calidad-aire-resumen?userId=N: the air
// quality classification around the user's node over the last eight hours,
// their rolling activity totals, and the chart series the app draws.
func (h *AirQualityHandler) Summary(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("userId"), 10, 64)
	if err != nil || userID == 0 {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	node, err := h.Nodes.GetActiveByUser(ctx, userID)
	if err == sql.ErrNoRows {
		return fail(c, http.StatusNotFound, "El usuario no tiene ningún nodo vinculado")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}

	now := time.Now().UTC()
	since := now.Add(-summaryWindow)

	ms, err := h.Measurements.ListByNodeSince(ctx, node.ID, since)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load measurements failed")
	}
	samples := make([]airquality.Sample, len(ms))
	for i, m := range ms {
		samples[i] = airquality.Sample{Timestamp: m.Timestamp, O3: m.O3, NO2: m.NO2, CO: m.CO}
	}

	status, summary := airquality.Classify(samples)
	chart := airquality.ChartSeries(samples)

	hours, err := h.Stats.SumHoursSince(ctx, userID, since)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "sum hours failed")
	}
	distance, err := h.Stats.SumDistanceSince(ctx, userID, since)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "sum distance failed")
	}
	points, err := h.Stats.SumPointsSince(ctx, userID, since)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "sum points failed")
	}

	return ok(c, http.StatusOK, echo.Map{
		"status":       status,
		"summary":      summary,
		"active_hours": hours,
		"distance":     distance,
		"points":       points,
		"chart":        chart,
	})
}
