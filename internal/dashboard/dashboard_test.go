package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"github.com/ukydev/fleet-dashboard/internal/syncer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// listRepo serves a fixed list, or fails every List with err.
type listRepo[T models.Record] struct {
	items []T
	err   error
	loads atomic.Int32
}

func (r *listRepo[T]) List(context.Context) ([]T, error) {
	r.loads.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return r.items, nil
}

func (r *listRepo[T]) Add(_ context.Context, rec T) (T, error) { return rec, nil }

func (r *listRepo[T]) Update(_ context.Context, _ string, _ bson.M) (T, error) {
	var zero T
	return zero, nil
}

func (r *listRepo[T]) Remove(context.Context, string) error { return nil }

type fixture struct {
	buses       *listRepo[models.Bus]
	routes      *listRepo[models.Route]
	schedules   *listRepo[models.Schedule]
	drivers     *listRepo[models.Driver]
	maintenance *listRepo[models.MaintenanceRecord]
	performance *listRepo[models.DriverPerformanceRecord]
}

func newFixture() *fixture {
	return &fixture{
		buses: &listRepo[models.Bus]{items: []models.Bus{
			{ID: primitive.NewObjectID(), BusNumber: "B1", Capacity: 50, Status: models.BusActive},
			{ID: primitive.NewObjectID(), BusNumber: "B2", Capacity: 40, Status: models.BusMaintenance},
		}},
		routes:      &listRepo[models.Route]{items: []models.Route{{ID: primitive.NewObjectID(), Name: "Loop", DistanceKm: 12}}},
		schedules:   &listRepo[models.Schedule]{items: []models.Schedule{{ID: primitive.NewObjectID(), IsActive: true}}},
		drivers:     &listRepo[models.Driver]{items: []models.Driver{{ID: primitive.NewObjectID(), FullName: "John Smith", Status: models.DriverActive}}},
		maintenance: &listRepo[models.MaintenanceRecord]{},
		performance: &listRepo[models.DriverPerformanceRecord]{},
	}
}

func (f *fixture) board(interval time.Duration) *Board {
	return NewBoard(Repositories{
		Buses:       f.buses,
		Routes:      f.routes,
		Schedules:   f.schedules,
		Drivers:     f.drivers,
		Maintenance: f.maintenance,
		Performance: f.performance,
	}, Options{ReloadInterval: interval})
}

func TestLoadAll_OneFailureDoesNotBlockOthers(t *testing.T) {
	f := newFixture()
	f.schedules.err = &apperr.StoreError{Op: "list schedules", Err: errors.New("boom")}
	b := f.board(time.Minute)

	err := b.LoadAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedules")

	assert.Len(t, b.Buses.Items(), 2)
	assert.Len(t, b.Routes.Items(), 1)
	assert.Len(t, b.Drivers.Items(), 1)
	assert.Empty(t, b.Schedules.Items())

	assert.Equal(t, syncer.Idle, b.Buses.State())
	assert.Equal(t, syncer.Error, b.Schedules.State())

	status := b.Status()
	assert.Len(t, status.Failures, 1)
	assert.Contains(t, status.Failures, "schedules")
	assert.NotEmpty(t, status.Error)
	assert.True(t, status.LastUpdate.IsZero())
	assert.False(t, status.LastAttempt.IsZero())
}

func TestLoadAll_SuccessClearsError(t *testing.T) {
	f := newFixture()
	f.routes.err = errors.New("flaky")
	b := f.board(time.Minute)

	require.Error(t, b.LoadAll(context.Background()))
	f.routes.err = nil
	require.NoError(t, b.LoadAll(context.Background()))

	status := b.Status()
	assert.Empty(t, status.Error)
	assert.Empty(t, status.Failures)
	assert.False(t, status.LastUpdate.IsZero())
}

func TestRun_ReloadsUntilCancelled(t *testing.T) {
	f := newFixture()
	b := f.board(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		b.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return f.buses.loads.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reload loop did not stop")
	}
}

func TestSummary(t *testing.T) {
	f := newFixture()
	b := f.board(time.Minute)
	require.NoError(t, b.LoadAll(context.Background()))

	s := b.Summary()
	assert.Equal(t, 2, s.Buses.Total)
	assert.Equal(t, 1, s.Buses.Maintenance)
	assert.Equal(t, 1, s.Routes.Total)
	assert.Equal(t, 1, s.Schedules.Active)
	assert.Equal(t, 1, s.Drivers.Active)
	assert.Equal(t, 0, s.Performance.Evaluations)
}

func TestClose_StopsLoads(t *testing.T) {
	f := newFixture()
	b := f.board(time.Minute)
	b.Close()

	err := b.LoadAll(context.Background())
	assert.ErrorIs(t, err, syncer.ErrClosed)
}
