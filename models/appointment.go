package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Appointment struct {
	ID                 primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Patient            primitive.ObjectID  `json:"patient" bson:"patient"`
	PatientName        string              `json:"patientName,omitempty" bson:"patientName,omitempty"`
	PatientEmail       string              `json:"patientEmail,omitempty" bson:"patientEmail,omitempty"`
	PatientPhone       string              `json:"patientPhone,omitempty" bson:"patientPhone,omitempty"`
	PatientGender      string              `json:"patientGender,omitempty" bson:"patientGender,omitempty"`
	PatientDateOfBirth *time.Time          `json:"patientDateOfBirth,omitempty" bson:"patientDateOfBirth,omitempty"`
	Specialty          string              `json:"specialty" bson:"specialty"`
	Doctor             string              `json:"doctor,omitempty" bson:"doctor,omitempty"`
	DoctorID           *primitive.ObjectID `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	PreferredDate      time.Time           `json:"preferredDate" bson:"preferredDate"`
	PreferredTime      string              `json:"preferredTime" bson:"preferredTime"`
	Reason             string              `json:"reason" bson:"reason"`
	ContactMethod      string              `json:"contactMethod" bson:"contactMethod"`
	Notes              string              `json:"notes,omitempty" bson:"notes,omitempty"`
	Status             string              `json:"status" bson:"status"`
	DoctorNote         string              `json:"doctorNote,omitempty" bson:"doctorNote,omitempty"`
	CreatedAt          time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AppointmentFilter narrows a listing; zero values mean "any".
type AppointmentFilter struct {
	PatientID *primitive.ObjectID
	DoctorID  *primitive.ObjectID
}
