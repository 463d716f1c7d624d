package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID                    primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name                  string             `json:"name" bson:"name"`
	Email                 string             `json:"email" bson:"email"`
	Password              string             `json:"-" bson:"password"`
	Role                  string             `json:"role" bson:"role"`
	PhoneNumber           string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Specialty             string             `json:"specialty,omitempty" bson:"specialty,omitempty"`
	DateOfBirth           *time.Time         `json:"dateOfBirth,omitempty" bson:"dateOfBirth,omitempty"`
	Gender                string             `json:"gender,omitempty" bson:"gender,omitempty"`
	BloodType             string             `json:"bloodType,omitempty" bson:"bloodType,omitempty"`
	HeightCm              *float64           `json:"heightCm,omitempty" bson:"heightCm,omitempty"`
	WeightKg              *float64           `json:"weightKg,omitempty" bson:"weightKg,omitempty"`
	StreetAddress         string             `json:"streetAddress,omitempty" bson:"streetAddress,omitempty"`
	City                  string             `json:"city,omitempty" bson:"city,omitempty"`
	State                 string             `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode               string             `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	EmergencyContactName  string             `json:"emergencyContactName,omitempty" bson:"emergencyContactName,omitempty"`
	EmergencyContactPhone string             `json:"emergencyContactPhone,omitempty" bson:"emergencyContactPhone,omitempty"`
	EmergencyRelationship string             `json:"emergencyRelationship,omitempty" bson:"emergencyRelationship,omitempty"`
	CreatedAt             time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DoctorSummary is the public roster projection used by the booking form.
type DoctorSummary struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Email       string             `json:"email" bson:"email"`
	Specialty   string             `json:"specialty,omitempty" bson:"specialty,omitempty"`
	PhoneNumber string             `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
}
