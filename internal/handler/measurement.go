package handler

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/airowalk/airowalk-backend/internal/geo"
	"github.com/airowalk/airowalk-backend/internal/repository"
)

// maxFakeMeasurements caps one synthetic generation request.
const maxFakeMeasurements = 1000

// gandiaPolygon bounds the area synthetic measurement coordinates are drawn
// from.
var gandiaPolygon = []geo.Point{
	{Lat: 38.97619486753026, Lon: -0.18349714625501487},
	{Lat: 38.97333777022671, Lon: -0.17411600294874113},
	{Lat: 38.96897671527094, Lon: -0.17846807974031142},
	{Lat: 38.97160841849363, Lon: -0.18649524360031886},
}

// MeasurementHandler bundles dependencies for measurement ingestion and
// queries.
type MeasurementHandler struct {
	Measurements *repository.MeasurementRepo
}

func NewMeasurementHandler(m *repository.MeasurementRepo) *MeasurementHandler {
	return &MeasurementHandler{Measurements: m}
}

type createMeasurementReq struct {
	NodeID    uint64   `json:"nodeId"`
	CO        float64  `json:"co_value"`
	O3        float64  `json:"o3_value"`
	NO2       float64  `json:"no2_value"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
type fakeMeasurementsReq struct {
	NodeID uint64 `json:"nodeId"`
	Count  int    `json:"count"`
}

// Create ingests one measurement, stamped with the server clock.
func (h *MeasurementHandler) Create(c echo.Context) error {
	var req createMeasurementReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.NodeID == 0 {
		return fail(c, http.StatusBadRequest, "nodeId required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	exists, err := h.Measurements.NodeExists(ctx, req.NodeID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "node not found")
	}
	if err := h.Measurements.Insert(ctx, req.NodeID, time.Now().UTC(),
		req.CO, req.O3, req.NO2, req.Latitude, req.Longitude); err != nil {
		return fail(c, http.StatusInternalServerError, "insert measurement failed")
	}
	return ok(c, http.StatusCreated, echo.Map{"message": "measurement recorded"})
}

// List returns every measurement.
func (h *MeasurementHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ms, err := h.Measurements.ListAll(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list measurements failed")
	}
	return ok(c, http.StatusOK, echo.Map{"measurements": ms})
}

// Closest returns the O3/NO2 readings of the geographically nearest
// measurement to a point, by linear haversine scan over rows that carry
// coordinates.
func (h *MeasurementHandler) Closest(c echo.Context) error {
	lat, err1 := strconv.ParseFloat(c.Param("lat"), 64)
	lon, err2 := strconv.ParseFloat(c.Param("lon"), 64)
	if err1 != nil || err2 != nil ||
		math.IsNaN(lat) || math.IsInf(lat, 0) ||
		math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fail(c, http.StatusBadRequest, "invalid coordinates")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ms, err := h.Measurements.ListWithCoordinates(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list measurements failed")
	}
	if len(ms) == 0 {
		return fail(c, http.StatusNotFound, "no measurements with coordinates")
	}

	pts := make([]geo.Point, len(ms))
	for i, m := range ms {
		pts[i] = geo.Point{Lat: *m.Latitude, Lon: *m.Longitude}
	}
	best := geo.Nearest(lat, lon, pts)
	return ok(c, http.StatusOK, echo.Map{
		"o3_value":  ms[best].O3,
		"no2_value": ms[best].NO2,
	})
}

// GenerateFake inserts N synthetic measurements for one node: coordinates
// rejection-sampled inside the Gandía polygon, timestamps spread uniformly
// over the trailing three days, near-constant pollutant values. Seed/test
// utility.
func (h *MeasurementHandler) GenerateFake(c echo.Context) error {
	var req fakeMeasurementsReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.NodeID == 0 {
		return fail(c, http.StatusBadRequest, "nodeId required")
	}
	if req.Count <= 0 || req.Count > maxFakeMeasurements {
		return fail(c, http.StatusBadRequest, "count must be between 1 and 1000")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	exists, err := h.Measurements.NodeExists(ctx, req.NodeID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load node failed")
	}
	if !exists {
		return fail(c, http.StatusNotFound, "node not found")
	}

	now := time.Now().UTC()
	span := 3 * 24 * time.Hour
	min, max := geo.BoundingBox(gandiaPolygon)

	for i := 0; i < req.Count; i++ {
		var pt geo.Point
		for {
			pt = geo.Point{
				Lat: min.Lat + rand.Float64()*(max.Lat-min.Lat),
				Lon: min.Lon + rand.Float64()*(max.Lon-min.Lon),
			}
			if geo.PointInPolygon(pt, gandiaPolygon) {
				break
			}
		}
		ts := now.Add(-time.Duration(rand.Int63n(int64(span))))
		lat, lon := pt.Lat, pt.Lon
		if err := h.Measurements.Insert(ctx, req.NodeID, ts, 1.0, 50.0, 50.0, &lat, &lon); err != nil {
			return fail(c, http.StatusInternalServerError, "insert measurement failed")
		}
	}
	return ok(c, http.StatusCreated, echo.Map{"inserted": req.Count})
}
