package migrations

import (
	"context"
	"strings"
	"time"

	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// clashingEmails returns the lower-cased addresses held by more than one account.
func clashingEmails(ctx context.Context, coll *mongo.Collection) (map[string]bool, error) {
	cursor, err := coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toLower", Value: "$email"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "count", Value: bson.D{{Key: "$gt", Value: 1}}}}}},
	})
	if err != nil {
		return nil, err
	}
	var groups []struct {
		Email string `bson:"_id"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(groups))
	for _, g := range groups {
		out[g.Email] = true
	}
	return out, nil
}

/*
* Collect the addresses that would collide once lower-cased
* Rewrite every other email holding an upper case letter
* Colliding accounts are logged and left for manual cleanup
 */
func LowercaseUserEmails(ctx context.Context, database *mongo.Database) error {
	coll := database.Collection(util.UserCollection)
	clashes, err := clashingEmails(ctx, coll)
	if err != nil {
		return err
	}

	cursor, err := coll.Find(ctx, bson.M{"email": bson.M{"$regex": "[A-Z]"}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var updated, skipped int
	for cursor.Next(ctx) {
		var doc struct {
			ID    primitive.ObjectID `bson:"_id"`
			Email string             `bson:"email"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		email := util.NormalizeEmail(doc.Email)
		if clashes[email] || clashes[strings.ToLower(doc.Email)] {
			log.Warn().Str("userId", doc.ID.Hex()).Msg("email clashes after lower-casing, skipped")
			skipped++
			continue
		}
		_, err := coll.UpdateOne(ctx, bson.M{"_id": doc.ID},
			bson.M{"$set": bson.M{"email": email, "updatedAt": time.Now().UTC()}})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				log.Warn().Str("userId", doc.ID.Hex()).Msg("email clashes after lower-casing, skipped")
				skipped++
				continue
			}
			return err
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	log.Info().Int("modified", updated).Int("skipped", skipped).Msg("Migration applied: lower-case emails")
	return nil
}
