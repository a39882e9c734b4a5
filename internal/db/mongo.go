package db

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/config"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names in the fleet database.
const (
	CollectionBuses       = "buses"
	CollectionRoutes      = "routes"
	CollectionSchedules   = "schedules"
	CollectionDrivers     = "drivers"
	CollectionMaintenance = "maintenance_records"
	CollectionPerformance = "driver_performance_records"
	CollectionUsers       = "users"
	CollectionSessions    = "user_sessions"
)

// ConnectMongo connects to the store at cfg.StoreURL using cfg.StoreKey as the
// credential. A missing URL or key is reported before any network call.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	if cfg == nil {
		return nil, &apperr.ConfigurationError{Setting: "STORE_URL", Reason: "is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(cfg.StoreURL).
		SetAuth(options.Credential{Username: cfg.StoreUser, Password: cfg.StoreKey}).
		SetServerSelectionTimeout(cfg.StoreTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &apperr.StoreError{Op: "connect", Err: err}
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &apperr.StoreError{Op: "ping", Err: err}
	}
	return client, nil
}

// Store bundles the per-entity repositories over one database. It is built
// once at process start and passed to everything that needs store access.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Buses       *Repository[models.Bus]
	Routes      *Repository[models.Route]
	Schedules   *ScheduleRepository
	Drivers     *Repository[models.Driver]
	Maintenance *Repository[models.MaintenanceRecord]
	Performance *Repository[models.DriverPerformanceRecord]

	Users    *MongoUserCollection
	Sessions *MongoSessionCollection
}

// NewStore wires repositories for every collection of database.
func NewStore(client *mongo.Client, database string, logger *log.Entry, opts ...Option) *Store {
	d := client.Database(database)
	opts = append([]Option{WithLogger(logger)}, opts...)
	return &Store{
		client:      client,
		db:          d,
		Buses:       NewRepository[models.Bus](d.Collection(CollectionBuses), BusEntity, opts...),
		Routes:      NewRepository[models.Route](d.Collection(CollectionRoutes), RouteEntity, opts...),
		Schedules:   NewScheduleRepository(d.Collection(CollectionSchedules), opts...),
		Drivers:     NewRepository[models.Driver](d.Collection(CollectionDrivers), DriverEntity, opts...),
		Maintenance: NewRepository[models.MaintenanceRecord](d.Collection(CollectionMaintenance), MaintenanceEntity, opts...),
		Performance: NewRepository[models.DriverPerformanceRecord](d.Collection(CollectionPerformance), PerformanceEntity, opts...),
		Users:       &MongoUserCollection{Collection: d.Collection(CollectionUsers)},
		Sessions:    &MongoSessionCollection{Collection: d.Collection(CollectionSessions)},
	}
}

// Ping verifies the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return &apperr.StoreError{Op: "ping", Err: err}
	}
	return nil
}

// Disconnect closes the underlying client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and ordering indexes every entity relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for _, e := range Entities {
		idx := IndexModels(e)
		if len(idx) == 0 {
			continue
		}
		if _, err := s.db.Collection(e.Collection).Indexes().CreateMany(ctx, idx); err != nil {
			return &apperr.StoreError{Op: fmt.Sprintf("create indexes on %s", e.Collection), Err: err}
		}
	}

	users := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	}}
	if _, err := s.db.Collection(CollectionUsers).Indexes().CreateMany(ctx, users); err != nil {
		return &apperr.StoreError{Op: "create indexes on users", Err: err}
	}

	sessions := []mongo.IndexModel{{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}}
	if _, err := s.db.Collection(CollectionSessions).Indexes().CreateMany(ctx, sessions); err != nil {
		return &apperr.StoreError{Op: "create indexes on user_sessions", Err: err}
	}
	return nil
}

// IndexModels returns the index definitions for e: a descending creation
// index for listing plus one named unique index per unique field.
func IndexModels(e Entity) []mongo.IndexModel {
	out := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName(e.Collection + "_created_at_idx"),
	}}
	for _, u := range e.Uniques {
		opts := options.Index().SetUnique(true).SetName(u.IndexName(e.Collection))
		if u.Optional {
			opts.SetPartialFilterExpression(bson.M{u.Field: bson.M{"$gt": ""}})
		}
		out = append(out, mongo.IndexModel{Keys: bson.D{{Key: u.Field, Value: 1}}, Options: opts})
	}
	return out
}
