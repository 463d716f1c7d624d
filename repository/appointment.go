package repository

import (
	"context"
	"time"

	"CareDesk/config/db"
	"CareDesk/models"
	"CareDesk/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AppointmentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAppointmentRepository(database *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.OpenCollections(database, util.AppointmentCollection), now: time.Now}
}

func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	now := r.now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	id, err := db.CreateOne(ctx, r.coll, appt)
	if err != nil {
		return err
	}
	appt.ID = id
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	appt := &models.Appointment{}
	if err := db.FindOne(ctx, r.coll, bson.M{"_id": id}, appt); err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return appt, nil
}

func listFilter(f models.AppointmentFilter) bson.M {
	filter := bson.M{}
	if f.PatientID != nil {
		filter["patient"] = *f.PatientID
	}
	if f.DoctorID != nil {
		filter["doctorId"] = *f.DoctorID
	}
	return filter
}

// List sorts by preferred date then preferred time, both ascending.
func (r *AppointmentRepository) List(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "preferredDate", Value: 1},
		{Key: "preferredTime", Value: 1},
	})
	return db.FindAll[models.Appointment](ctx, r.coll, listFilter(f), opts)
}

func (r *AppointmentRepository) Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Appointment, error) {
	return r.update(ctx, bson.M{"_id": id}, fields)
}

// UpdateWhereStatus writes only while the stored status is still expected,
// so two concurrent transitions cannot both succeed.
func (r *AppointmentRepository) UpdateWhereStatus(ctx context.Context, id primitive.ObjectID, expected string, fields map[string]interface{}) (*models.Appointment, error) {
	return r.update(ctx, bson.M{"_id": id, "status": expected}, fields)
}

func (r *AppointmentRepository) update(ctx context.Context, filter bson.M, fields map[string]interface{}) (*models.Appointment, error) {
	set := bson.M{"updatedAt": r.now().UTC()}
	for k, v := range fields {
		set[k] = v
	}
	appt := &models.Appointment{}
	err := db.FindOneAndUpdate(ctx, r.coll, filter, bson.M{"$set": set}, appt)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return appt, nil
}

// CountStalePending counts pending appointments whose preferred date is before cutoff.
func (r *AppointmentRepository) CountStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	return db.Count(ctx, r.coll, bson.M{
		"status":        util.StatusPending,
		"preferredDate": bson.M{"$lt": cutoff},
	})
}
