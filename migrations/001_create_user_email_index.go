package migrations

import (
	"context"

	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique bool   `bson:"unique"`
}

func (s indexSpec) isAscendingEmail() bool {
	if len(s.Key) != 1 || s.Key[0].Key != "email" {
		return false
	}
	switch v := s.Key[0].Value.(type) {
	case int32:
		return v == 1
	case int64:
		return v == 1
	case float64:
		return v == 1
	}
	return false
}

/*
* Look for a unique {email: 1} index under any name and keep it
* Otherwise create one under the default name
 */
func CreateUserEmailIndex(ctx context.Context, database *mongo.Database) error {
	indexes := database.Collection(util.UserCollection).Indexes()
	cursor, err := indexes.List(ctx)
	if err != nil {
		return err
	}
	var specs []indexSpec
	if err := cursor.All(ctx, &specs); err != nil {
		return err
	}
	for _, spec := range specs {
		if spec.isAscendingEmail() && spec.Unique {
			log.Info().Str("index", spec.Name).Msg("Migration skipped: user email index exists")
			return nil
		}
	}

	name, err := indexes.CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	log.Info().Str("index", name).Msg("Migration applied: user email index")
	return nil
}
