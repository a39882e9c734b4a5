package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/dashboard"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/simulation"
)

// Overview is the part of the board the dashboard endpoints read.
type Overview interface {
	Summary() dashboard.Summary
	LoadAll(ctx context.Context) error
}

// DashboardHandler serves the overview and the manual reload.
type DashboardHandler struct {
	board   Overview
	timeout time.Duration
}

// NewDashboardHandler creates a dashboard handler
func NewDashboardHandler(board Overview, timeout time.Duration) *DashboardHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DashboardHandler{board: board, timeout: timeout}
}

// Summary returns the last update time, the first load error and the stats.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.board.Summary())
}

// Reload reloads every collection. Partial failures are reported in the
// summary status rather than as an error response.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	_ = h.board.LoadAll(ctx)
	respondJSON(w, http.StatusOK, h.board.Summary())
}

// FleetSource provides the loaded buses and drivers.
type FleetSource interface {
	Buses() []models.Bus
	Drivers() []models.Driver
}

// BoardFleet reads the fleet from a board's loaded collections.
type BoardFleet struct {
	Board *dashboard.Board
}

func (f BoardFleet) Buses() []models.Bus       { return f.Board.Buses.Items() }
func (f BoardFleet) Drivers() []models.Driver { return f.Board.Drivers.Items() }

// SimulationHandler serves mock telemetry built from the loaded fleet.
type SimulationHandler struct {
	gen   simulation.Generator
	fleet FleetSource
}

// NewSimulationHandler creates a simulation handler
func NewSimulationHandler(gen simulation.Generator, fleet FleetSource) *SimulationHandler {
	return &SimulationHandler{gen: gen, fleet: fleet}
}

// Live returns a simulated reading per bus.
func (h *SimulationHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.gen.LiveBuses(h.fleet.Buses()))
}

// Maintenance returns the simulated maintenance forecast per bus.
func (h *SimulationHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.gen.MaintenanceForecast(h.fleet.Buses()))
}

// Drivers returns simulated performance summaries for active drivers.
func (h *SimulationHandler) Drivers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.gen.DriverSummaries(h.fleet.Drivers()))
}

// Pinger checks the store connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status     string    `json:"status"`
	Store      string    `json:"store"`
	Error      string    `json:"error,omitempty"`
	ServerTime time.Time `json:"server_time"`
}

// HealthHandler reports whether the store is reachable.
type HealthHandler struct {
	store   Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler
func NewHealthHandler(store Pinger, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthHandler{store: store, timeout: timeout}
}

// Health pings the store.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Store: "connected", ServerTime: time.Now().UTC()}
	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Store = "unreachable"
		resp.Error = err.Error()
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
