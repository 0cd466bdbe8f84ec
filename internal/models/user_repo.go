package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const UsersColName = "users"

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	// GetUserByEmail returns the user including the password hash.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

func (mdb *MongodbRepo) EnsureUserIndexes(ctx context.Context) error {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %v", err)
	}

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("error creating user indexes: %v", err)
	}
	return nil
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ValidationError("Email already exists")
		}
		return nil, fmt.Errorf("failed to insert user into database: %w", err)
	}
	return user, nil
}

func (mdb *MongodbRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return mdb.findUser(ctx, bson.D{{Key: "_id", Value: id}})
}

func (mdb *MongodbRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return mdb.findUser(ctx, bson.D{{Key: "email", Value: strings.ToLower(strings.TrimSpace(email))}})
}

func (mdb *MongodbRepo) findUser(ctx context.Context, filter bson.D) (*User, error) {
	col, err := mdb.GetCollection(ctx, UsersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var user User
	if err := col.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NewError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return &user, nil
}
