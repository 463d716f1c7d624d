package services

import (
	"context"
	"time"

	"CareDesk/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the persistence the services need for user records.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	ListDoctorSummaries(ctx context.Context) ([]models.DoctorSummary, error)
	DeleteByIDAndRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error)
}

// AppointmentStore is the persistence the services need for bookings.
type AppointmentStore interface {
	Create(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Appointment, error)
	List(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error)
	Update(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Appointment, error)
	UpdateWhereStatus(ctx context.Context, id primitive.ObjectID, expected string, fields map[string]interface{}) (*models.Appointment, error)
	CountStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
