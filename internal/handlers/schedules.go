package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/syncer"
)

// ActiveScheduleFinder looks up the running schedules of a route.
type ActiveScheduleFinder interface {
	ActiveForRoute(ctx context.Context, routeID string) ([]models.Schedule, error)
}

// ScheduleHandler serves the schedule operations beyond plain editing.
type ScheduleHandler struct {
	ctl     *syncer.Controller[models.Schedule]
	finder  ActiveScheduleFinder
	timeout time.Duration
}

// NewScheduleHandler creates a schedule handler
func NewScheduleHandler(ctl *syncer.Controller[models.Schedule], finder ActiveScheduleFinder, timeout time.Duration) *ScheduleHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScheduleHandler{ctl: ctl, finder: finder, timeout: timeout}
}

// Toggle flips the active flag of a schedule through the normal update path.
func (h *ScheduleHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := h.ctl.Find(id)
	if !ok {
		respondError(w, &apperr.NotFoundError{Entity: "schedule", ID: id}, nil)
		return
	}
	rec.IsActive = !rec.IsActive

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saved, err := h.ctl.Update(ctx, id, rec)
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, MutationResponse[models.Schedule]{Item: &saved, Flash: h.ctl.Snapshot().Flash})
}

// ForRoute lists the active schedules of a route by departure time.
func (h *ScheduleHandler) ForRoute(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	schedules, err := h.finder.ActiveForRoute(ctx, r.PathValue("id"))
	if err != nil {
		respondError(w, err, nil)
		return
	}
	respondJSON(w, http.StatusOK, schedules)
}
