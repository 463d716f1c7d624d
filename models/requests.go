package models

import "CareDesk/util"

type CheckEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name                  string         `json:"name" binding:"required"`
	Email                 string         `json:"email" binding:"required,email"`
	Password              string         `json:"password" binding:"required,min=8"`
	PhoneNumber           string         `json:"phoneNumber"`
	DateOfBirth           string         `json:"dateOfBirth"`
	Gender                string         `json:"gender"`
	BloodType             string         `json:"bloodType"`
	HeightCm              util.FlexFloat `json:"heightCm"`
	WeightKg              util.FlexFloat `json:"weightKg"`
	StreetAddress         string         `json:"streetAddress"`
	City                  string         `json:"city"`
	State                 string         `json:"state"`
	ZipCode               string         `json:"zipCode"`
	EmergencyContactName  string         `json:"emergencyContactName"`
	EmergencyContactPhone string         `json:"emergencyContactPhone"`
	EmergencyRelationship string         `json:"emergencyRelationship"`
}

type CreateDoctorRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phoneNumber"`
	Specialty   string `json:"specialty"`
}

type BookAppointmentRequest struct {
	PatientID     string `json:"patientId" binding:"required"`
	Specialty     string `json:"specialty" binding:"required"`
	Doctor        string `json:"doctor"`
	DoctorID      string `json:"doctorId"`
	PreferredDate string `json:"preferredDate" binding:"required"`
	PreferredTime string `json:"preferredTime" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
	ContactMethod string `json:"contactMethod" binding:"required"`
	Notes         string `json:"notes"`
}

// UpdateStatusRequest uses pointers so an omitted field differs from "".
type UpdateStatusRequest struct {
	Status     *string `json:"status"`
	DoctorNote *string `json:"doctorNote"`
}

type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type SymptomRequest struct {
	Symptoms         string     `json:"symptoms"`
	PreviousMessages []ChatTurn `json:"previousMessages"`
}

type CreateAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
