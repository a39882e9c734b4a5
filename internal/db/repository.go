package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settings struct {
	now    func() time.Time
	logger *log.Entry
}

// Option configures a Repository.
type Option func(*settings)

// WithClock overrides the clock used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLogger sets the logger used for non-fatal repository events.
func WithLogger(logger *log.Entry) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Repository provides typed CRUD for one entity. Each call is a single
// round trip to the store, except add and update on entities with lookups,
// which re-read the record so foreign keys come back expanded.
type Repository[T models.Record] struct {
	coll   Collection
	entity Entity
	now    func() time.Time
	logger *log.Entry
}

// NewRepository returns a repository for entity stored in coll.
func NewRepository[T models.Record](coll Collection, entity Entity, opts ...Option) *Repository[T] {
	s := settings{
		now:    time.Now,
		logger: log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Repository[T]{
		coll:   coll,
		entity: entity,
		now:    s.now,
		logger: s.logger.WithField("collection", entity.Collection),
	}
}

// Entity returns the storage description of the repository.
func (r *Repository[T]) Entity() Entity { return r.entity }

// List returns all records, most recently created first. Zero rows yield an
// empty, non-nil slice.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return r.Query(ctx, nil, bson.D{{Key: "created_at", Value: -1}})
}

// Query returns records matching match, ordered by sort, with foreign keys
// expanded.
func (r *Repository[T]) Query(ctx context.Context, match bson.M, sort bson.D) ([]T, error) {
	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	if len(sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	pipeline = append(pipeline, r.lookupStages()...)

	items, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return nil, &apperr.StoreError{Op: "list " + r.entity.Collection, Err: err}
	}
	return items, nil
}

// GetByID returns the record with the given hex id.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, &apperr.NotFoundError{Entity: r.entity.Name, ID: id}
	}

	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.M{"_id": oid}}}}
	pipeline = append(pipeline, r.lookupStages()...)
	pipeline = append(pipeline, bson.D{{Key: "$limit", Value: 1}})

	items, err := r.aggregate(ctx, pipeline)
	if err != nil {
		return zero, &apperr.StoreError{Op: "get " + r.entity.Name, Err: err}
	}
	if len(items) == 0 {
		return zero, &apperr.NotFoundError{Entity: r.entity.Name, ID: id}
	}
	return items[0], nil
}

// Add persists rec as a new record. The store assigns the identity; any id
// set on rec is ignored. The returned record is the authoritative copy.
func (r *Repository[T]) Add(ctx context.Context, rec T) (T, error) {
	var zero T
	fields, err := models.FieldsOf(rec)
	if err != nil {
		return zero, &apperr.StoreError{Op: "encode " + r.entity.Name, Err: err}
	}
	r.stripReadOnly(fields)
	now := r.now().UTC()
	fields["created_at"] = now
	fields["updated_at"] = now

	res, err := r.coll.InsertOne(ctx, fields)
	if err != nil {
		return zero, r.writeError("add", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok || oid.IsZero() {
		return zero, &apperr.StoreError{Op: "add " + r.entity.Name, Err: errors.New("response lacked a valid identity")}
	}

	if len(r.entity.Lookups) > 0 {
		return r.GetByID(ctx, oid.Hex())
	}
	fields["_id"] = oid
	return decodeFields[T](fields)
}

// Update merges fields into the record with the given id and refreshes its
// updated timestamp. Identity, creation time and expanded relations cannot be
// changed through fields.
func (r *Repository[T]) Update(ctx context.Context, id string, fields bson.M) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, &apperr.NotFoundError{Entity: r.entity.Name, ID: id}
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	r.stripReadOnly(set)
	delete(set, "created_at")
	set["updated_at"] = r.now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, &apperr.NotFoundError{Entity: r.entity.Name, ID: id}
	}
	if err != nil {
		return zero, r.writeError("update", err)
	}

	if len(r.entity.Lookups) > 0 {
		return r.GetByID(ctx, id)
	}
	return out, nil
}

// Remove deletes the record with the given id. A record that is already gone
// is not an error.
func (r *Repository[T]) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.WithField("id", id).Debug("remove skipped: not an object id")
		return nil
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return &apperr.StoreError{Op: "remove " + r.entity.Name, Err: err}
	}
	if res.DeletedCount == 0 {
		r.logger.WithField("id", id).Debug("remove matched no rows")
	}
	return nil
}

func (r *Repository[T]) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]T, error) {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.entity.Collection, err)
	}
	return items, nil
}

func (r *Repository[T]) lookupStages() []bson.D {
	stages := make([]bson.D, 0, 2*len(r.entity.Lookups))
	for _, l := range r.entity.Lookups {
		stages = append(stages,
			bson.D{{Key: "$lookup", Value: bson.M{
				"from":         l.From,
				"localField":   l.LocalField,
				"foreignField": "_id",
				"as":           l.As,
			}}},
			bson.D{{Key: "$unwind", Value: bson.M{
				"path":                       "$" + l.As,
				"preserveNullAndEmptyArrays": true,
			}}},
		)
	}
	return stages
}

func (r *Repository[T]) stripReadOnly(fields bson.M) {
	delete(fields, "_id")
	for _, l := range r.entity.Lookups {
		delete(fields, l.As)
	}
}

// writeError translates a failed write. Duplicate keys become a
// ConstraintError naming the colliding field.
func (r *Repository[T]) writeError(op string, err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return &apperr.StoreError{Op: op + " " + r.entity.Name, Err: err}
	}
	msg := err.Error()
	for _, u := range r.entity.Uniques {
		if strings.Contains(msg, u.IndexName(r.entity.Collection)) {
			return &apperr.ConstraintError{Entity: r.entity.Name, Field: u.Field, Label: u.Label, Err: err}
		}
	}
	for _, u := range r.entity.Uniques {
		if strings.Contains(msg, "{ "+u.Field+":") {
			return &apperr.ConstraintError{Entity: r.entity.Name, Field: u.Field, Label: u.Label, Err: err}
		}
	}
	return &apperr.ConstraintError{Entity: r.entity.Name, Label: "value", Err: err}
}

func decodeFields[T any](fields bson.M) (T, error) {
	var out T
	data, err := bson.Marshal(fields)
	if err != nil {
		return out, &apperr.StoreError{Op: "decode", Err: err}
	}
	if err := bson.Unmarshal(data, &out); err != nil {
		return out, &apperr.StoreError{Op: "decode", Err: err}
	}
	return out, nil
}

// ScheduleRepository adds route-scoped queries to the schedule repository.
type ScheduleRepository struct {
	*Repository[models.Schedule]
}

// NewScheduleRepository returns the schedule repository over coll.
func NewScheduleRepository(coll Collection, opts ...Option) *ScheduleRepository {
	return &ScheduleRepository{Repository: NewRepository[models.Schedule](coll, ScheduleEntity, opts...)}
}

// ActiveForRoute returns the active schedules of a route ordered by
// departure time.
func (r *ScheduleRepository) ActiveForRoute(ctx context.Context, routeID string) ([]models.Schedule, error) {
	oid, err := primitive.ObjectIDFromHex(routeID)
	if err != nil {
		return nil, &apperr.NotFoundError{Entity: "route", ID: routeID}
	}
	return r.Query(ctx,
		bson.M{"route_id": oid, "is_active": true},
		bson.D{{Key: "departure_time", Value: 1}},
	)
}
