package db

import (
	"context"
	"errors"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	UpdateLastLogin(ctx context.Context, id string) error
}

// MongoUserCollection implements UserCollection for MongoDB
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new, active user and returns it with its identity
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	now := time.Now().UTC()
	user.ID = primitive.NilObjectID
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true

	res, err := c.Collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &apperr.ConstraintError{Entity: "user", Field: "email", Label: "email", Err: err}
		}
		return nil, &apperr.StoreError{Op: "add user", Err: err}
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok || oid.IsZero() {
		return nil, &apperr.StoreError{Op: "add user", Err: errors.New("response lacked a valid identity")}
	}
	user.ID = oid
	return &user, nil
}

// FindUserByID finds a user by their ID
func (c *MongoUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &apperr.NotFoundError{Entity: "user", ID: id}
	}
	return c.findOne(ctx, bson.M{"_id": objectID}, id)
}

// FindUserByEmail finds a user by their email
func (c *MongoUserCollection) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return c.findOne(ctx, bson.M{"email": email}, email)
}

func (c *MongoUserCollection) findOne(ctx context.Context, filter bson.M, key string) (*models.User, error) {
	var user models.User
	err := c.Collection.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &apperr.NotFoundError{Entity: "user", ID: key}
	}
	if err != nil {
		return nil, &apperr.StoreError{Op: "get user", Err: err}
	}
	return &user, nil
}

// ListUsers returns all users, newest first
func (c *MongoUserCollection) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, &apperr.StoreError{Op: "list users", Err: err}
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, &apperr.StoreError{Op: "list users", Err: err}
	}
	return users, nil
}

// UpdateUser replaces a user in the database
func (c *MongoUserCollection) UpdateUser(ctx context.Context, id string, user models.User) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &apperr.NotFoundError{Entity: "user", ID: id}
	}

	user.UpdatedAt = time.Now().UTC()
	user.ID = objectID

	res, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": objectID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &apperr.ConstraintError{Entity: "user", Field: "email", Label: "email", Err: err}
		}
		return &apperr.StoreError{Op: "update user", Err: err}
	}
	if res.MatchedCount == 0 {
		return &apperr.NotFoundError{Entity: "user", ID: id}
	}
	return nil
}

// UpdateLastLogin updates the last login time for a user
func (c *MongoUserCollection) UpdateLastLogin(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &apperr.NotFoundError{Entity: "user", ID: id}
	}

	now := time.Now().UTC()
	_, err = c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"last_login": now, "updated_at": now}},
	)
	if err != nil {
		return &apperr.StoreError{Op: "update last login", Err: err}
	}
	return nil
}

// SessionCollection records sign-in sessions
type SessionCollection interface {
	StartSession(ctx context.Context, session models.Session) error
	EndSessions(ctx context.Context, userID string) error
}

// MongoSessionCollection implements SessionCollection for MongoDB
type MongoSessionCollection struct {
	Collection *mongo.Collection
}

// StartSession stores a new open session
func (c *MongoSessionCollection) StartSession(ctx context.Context, session models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if _, err := c.Collection.InsertOne(ctx, session); err != nil {
		return &apperr.StoreError{Op: "start session", Err: err}
	}
	return nil
}

// EndSessions closes every open session of a user
func (c *MongoSessionCollection) EndSessions(ctx context.Context, userID string) error {
	objectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return &apperr.NotFoundError{Entity: "user", ID: userID}
	}
	_, err = c.Collection.UpdateMany(
		ctx,
		bson.M{"user_id": objectID, "ended_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"ended_at": time.Now().UTC()}},
	)
	if err != nil {
		return &apperr.StoreError{Op: "end sessions", Err: err}
	}
	return nil
}
