package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = validator.New()

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the event and user indexes. Safe to call on every start.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	if err := mdb.EnsureEventIndexes(ctx); err != nil {
		return err
	}
	return mdb.EnsureUserIndexes(ctx)
}
