package db

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the part of *mongo.Collection the repositories use.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

var _ Collection = (*mongo.Collection)(nil)

// Lookup expands a foreign key into an embedded document of the referenced
// collection. Unmatched keys leave the field empty.
type Lookup struct {
	From       string
	LocalField string
	As         string
}

// Unique names a field backed by a unique index. Optional fields are only
// unique when non-empty.
type Unique struct {
	Field    string
	Label    string
	Optional bool
}

// IndexName follows the <collection>_<field>_key convention.
func (u Unique) IndexName(collection string) string {
	return collection + "_" + u.Field + "_key"
}

// Entity describes how one record type is stored.
type Entity struct {
	Name       string
	Collection string
	Lookups    []Lookup
	Uniques    []Unique
}

var (
	BusEntity = Entity{Name: "bus", Collection: CollectionBuses}

	RouteEntity = Entity{Name: "route", Collection: CollectionRoutes}

	ScheduleEntity = Entity{
		Name:       "schedule",
		Collection: CollectionSchedules,
		Lookups: []Lookup{
			{From: CollectionRoutes, LocalField: "route_id", As: "route"},
			{From: CollectionBuses, LocalField: "bus_id", As: "bus"},
		},
	}

	DriverEntity = Entity{
		Name:       "driver",
		Collection: CollectionDrivers,
		Lookups:    []Lookup{{From: CollectionBuses, LocalField: "current_bus_id", As: "current_bus"}},
		Uniques: []Unique{
			{Field: "employee_id", Label: "employee ID"},
			{Field: "license_number", Label: "license number"},
			{Field: "email", Label: "email", Optional: true},
		},
	}

	MaintenanceEntity = Entity{
		Name:       "maintenance record",
		Collection: CollectionMaintenance,
		Lookups:    []Lookup{{From: CollectionBuses, LocalField: "bus_id", As: "bus"}},
	}

	PerformanceEntity = Entity{
		Name:       "performance record",
		Collection: CollectionPerformance,
		Lookups:    []Lookup{{From: CollectionDrivers, LocalField: "driver_id", As: "driver"}},
	}

	// Entities lists every managed entity.
	Entities = []Entity{BusEntity, RouteEntity, ScheduleEntity, DriverEntity, MaintenanceEntity, PerformanceEntity}
)
