package migrations

import (
	"context"
	"time"

	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func BackfillAppointmentStatus(ctx context.Context, database *mongo.Database) error {
	result, err := database.Collection(util.AppointmentCollection).UpdateMany(
		ctx,
		bson.M{"$or": bson.A{
			bson.M{"status": bson.M{"$exists": false}},
			bson.M{"status": ""},
		}},
		bson.M{"$set": bson.M{"status": util.StatusPending, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	log.Info().Int64("modified", result.ModifiedCount).Msg("Migration applied: appointment status backfill")
	return nil
}
