package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

/*
* Open the client with the given uri
* Ping the primary so a bad uri fails at startup instead of first request
* Return the client and the named database
 */
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	log.Info().Str("db", dbName).Msg("MongoDB connected")
	return client, client.Database(dbName), nil
}

func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

func OpenCollections(database *mongo.Database, name string) *mongo.Collection {
	return database.Collection(name)
}

func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func FindOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts ...*options.FindOneOptions) error {
	return coll.FindOne(ctx, filter, opts...).Decode(out)
}

/*
* Nil filters match everything
* Decode every document of the cursor into T
 */
func FindAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := make([]T, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func CreateOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// FindOneAndUpdate applies update and decodes the document as it is after the write.
func FindOneAndUpdate(ctx context.Context, coll *mongo.Collection, filter, update, out interface{}) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
}

func FindOneAndDelete(ctx context.Context, coll *mongo.Collection, filter, out interface{}) error {
	return coll.FindOneAndDelete(ctx, filter).Decode(out)
}

func Count(ctx context.Context, coll *mongo.Collection, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return coll.CountDocuments(ctx, filter)
}
