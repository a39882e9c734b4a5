package handlers

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/dashboard"
	"github.com/ukydev/fleet-dashboard/internal/forms"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/simulation"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Board          *dashboard.Board
	Schedules      ActiveScheduleFinder
	Gateway        *auth.Gateway
	Store          Pinger
	Simulator      simulation.Generator
	Logger         *log.Entry
	RequestTimeout time.Duration
	CORSOrigin     string
	// Now supplies the date used for form defaults.
	Now func() time.Time
}

// NewRouter mounts every endpoint behind logging, recovery and authentication.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = log.NewEntry(log.StandardLogger())
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	today := func() time.Time { return d.Now() }

	authMW := middleware.NewAuthMiddleware(d.Gateway.Service())
	limiter := middleware.NewRateLimitMiddleware()
	adminOnly := authMW.RequireRole(models.RoleAdmin)
	canView := func(name string) func(http.Handler) http.Handler {
		return authMW.RequirePermission("view_" + name)
	}

	mux := http.NewServeMux()

	authHandler := NewAuthHandler(d.Gateway)
	mux.Handle("POST /api/auth/login", limiter.RateLimit(10, 60)(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/register", limiter.RateLimit(5, 60)(http.HandlerFunc(authHandler.Register)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.HandleFunc("GET /api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("PUT /api/auth/profile", authHandler.UpdateProfile)
	mux.HandleFunc("POST /api/auth/password", authHandler.ChangePassword)
	mux.Handle("GET /api/users", adminOnly(http.HandlerFunc(authHandler.ListUsers)))

	b := d.Board
	NewCollectionHandler(b.Buses,
		forms.NewBusForm, forms.BusFormFrom, d.RequestTimeout).
		Register(mux, canView("buses"), adminOnly)
	NewCollectionHandler(b.Routes,
		forms.NewRouteForm, forms.RouteFormFrom, d.RequestTimeout).
		Register(mux, canView("routes"), adminOnly)
	NewCollectionHandler(b.Schedules,
		forms.NewScheduleForm, forms.ScheduleFormFrom, d.RequestTimeout).
		Register(mux, canView("schedules"), adminOnly)
	NewCollectionHandler(b.Drivers,
		func() forms.DriverForm { return forms.NewDriverForm(today()) }, forms.DriverFormFrom, d.RequestTimeout).
		Register(mux, canView("drivers"), adminOnly)
	NewCollectionHandler(b.Maintenance,
		func() forms.MaintenanceForm { return forms.NewMaintenanceForm(today()) }, forms.MaintenanceFormFrom, d.RequestTimeout).
		Register(mux, canView("maintenance"), adminOnly)
	NewCollectionHandler(b.Performance,
		func() forms.PerformanceForm { return forms.NewPerformanceForm(today()) }, forms.PerformanceFormFrom, d.RequestTimeout).
		Register(mux, canView("performance"), adminOnly)

	scheduleHandler := NewScheduleHandler(b.Schedules, d.Schedules, d.RequestTimeout)
	mux.Handle("PATCH /api/schedules/{id}/toggle", adminOnly(http.HandlerFunc(scheduleHandler.Toggle)))
	mux.Handle("GET /api/routes/{id}/schedules", canView("schedules")(http.HandlerFunc(scheduleHandler.ForRoute)))

	dashboardHandler := NewDashboardHandler(b, d.RequestTimeout)
	mux.HandleFunc("GET /api/dashboard", dashboardHandler.Summary)
	mux.HandleFunc("POST /api/dashboard/reload", dashboardHandler.Reload)

	if d.Simulator != nil {
		simHandler := NewSimulationHandler(d.Simulator, BoardFleet{Board: b})
		mux.Handle("GET /api/simulation/live", canView("buses")(http.HandlerFunc(simHandler.Live)))
		mux.Handle("GET /api/simulation/maintenance", canView("maintenance")(http.HandlerFunc(simHandler.Maintenance)))
		mux.Handle("GET /api/simulation/drivers", canView("drivers")(http.HandlerFunc(simHandler.Drivers)))
	}

	if d.Store != nil {
		mux.HandleFunc("GET /health", NewHealthHandler(d.Store, d.RequestTimeout).Health)
	}

	return middleware.Chain(mux,
		middleware.RequestLogger(d.Logger),
		middleware.Recover(d.Logger),
		middleware.CORS(d.CORSOrigin),
		authMW.Authenticate,
	)
}
