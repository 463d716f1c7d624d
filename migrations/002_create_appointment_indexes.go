package migrations

import (
	"context"

	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateAppointmentIndexes backs the per patient and per doctor listings,
// both sorted by preferred date and time.
func CreateAppointmentIndexes(ctx context.Context, database *mongo.Database) error {
	names, err := database.Collection(util.AppointmentCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "patient", Value: 1}, {Key: "preferredDate", Value: 1}, {Key: "preferredTime", Value: 1}},
			Options: options.Index().SetName("patient_schedule"),
		},
		{
			Keys:    bson.D{{Key: "doctorId", Value: 1}, {Key: "preferredDate", Value: 1}, {Key: "preferredTime", Value: 1}},
			Options: options.Index().SetName("doctor_schedule"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "preferredDate", Value: 1}},
			Options: options.Index().SetName("status_date"),
		},
	})
	if err != nil {
		return err
	}
	log.Info().Strs("indexes", names).Msg("Migration applied: appointment indexes")
	return nil
}
