package dashboard

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/analytics"
	"github.com/ukydev/fleet-dashboard/internal/events"
	"github.com/ukydev/fleet-dashboard/internal/forms"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/syncer"
)

// Repositories is the store access the board is built on.
type Repositories struct {
	Buses       syncer.Repository[models.Bus]
	Routes      syncer.Repository[models.Route]
	Schedules   syncer.Repository[models.Schedule]
	Drivers     syncer.Repository[models.Driver]
	Maintenance syncer.Repository[models.MaintenanceRecord]
	Performance syncer.Repository[models.DriverPerformanceRecord]
}

// Options tunes a Board.
type Options struct {
	ReloadInterval time.Duration
	FlashTTL       time.Duration
	Publisher      events.Publisher
	Logger         *log.Entry
}

// Board holds one controller per collection and the coordinator that
// reloads them.
type Board struct {
	Buses       *syncer.Controller[models.Bus]
	Routes      *syncer.Controller[models.Route]
	Schedules   *syncer.Controller[models.Schedule]
	Drivers     *syncer.Controller[models.Driver]
	Maintenance *syncer.Controller[models.MaintenanceRecord]
	Performance *syncer.Controller[models.DriverPerformanceRecord]

	*Coordinator
}

// NewBoard builds the controllers with their validators and registers them
// for the backstop reload.
func NewBoard(repos Repositories, opts Options) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	ctlLogger := logger.WithField("component", "syncer")

	b := &Board{
		Buses: syncer.New(syncer.Config[models.Bus]{
			Name: "buses", Repository: repos.Buses, Validate: forms.ValidateBus,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
		Routes: syncer.New(syncer.Config[models.Route]{
			Name: "routes", Repository: repos.Routes, Validate: forms.ValidateRoute,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
		Schedules: syncer.New(syncer.Config[models.Schedule]{
			Name: "schedules", Repository: repos.Schedules, Validate: forms.ValidateSchedule,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
		Drivers: syncer.New(syncer.Config[models.Driver]{
			Name: "drivers", Repository: repos.Drivers, Validate: forms.ValidateDriver,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
		Maintenance: syncer.New(syncer.Config[models.MaintenanceRecord]{
			Name: "maintenance", Repository: repos.Maintenance, Validate: forms.ValidateMaintenance,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
		Performance: syncer.New(syncer.Config[models.DriverPerformanceRecord]{
			Name: "performance", Repository: repos.Performance, Validate: forms.ValidatePerformance,
			FlashTTL: opts.FlashTTL, Publisher: opts.Publisher, Logger: ctlLogger,
		}),
	}
	b.Coordinator = NewCoordinator(opts.ReloadInterval, logger.WithField("component", "dashboard"),
		b.Buses, b.Routes, b.Schedules, b.Drivers, b.Maintenance, b.Performance)
	return b
}

// Summary is the dashboard overview.
type Summary struct {
	Status      Status                     `json:"status"`
	Buses       analytics.BusStats         `json:"buses"`
	Routes      analytics.RouteStats       `json:"routes"`
	Schedules   analytics.ScheduleStats    `json:"schedules"`
	Drivers     analytics.DriverStats      `json:"drivers"`
	Maintenance analytics.MaintenanceStats `json:"maintenance"`
	Performance analytics.PerformanceStats `json:"performance"`
}

// Summary computes the overview from the currently loaded collections.
func (b *Board) Summary() Summary {
	return Summary{
		Status:      b.Status(),
		Buses:       analytics.Buses(b.Buses.Items()),
		Routes:      analytics.Routes(b.Routes.Items()),
		Schedules:   analytics.Schedules(b.Schedules.Items()),
		Drivers:     analytics.Drivers(b.Drivers.Items()),
		Maintenance: analytics.Maintenance(b.Maintenance.Items()),
		Performance: analytics.Performance(b.Performance.Items()),
	}
}

// Close detaches every controller so late results are discarded.
func (b *Board) Close() {
	b.Buses.Close()
	b.Routes.Close()
	b.Schedules.Close()
	b.Drivers.Close()
	b.Maintenance.Close()
	b.Performance.Close()
}
