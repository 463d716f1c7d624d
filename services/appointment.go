package services

import (
	"context"
	"errors"
	"strings"

	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/util"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validStatuses = map[string]bool{
	util.StatusPending:   true,
	util.StatusAccepted:  true,
	util.StatusRejected:  true,
	util.StatusCompleted: true,
}

// transitions lists where each status may move. Rejected and completed are terminal.
var transitions = map[string][]string{
	util.StatusPending:  {util.StatusAccepted, util.StatusRejected},
	util.StatusAccepted: {util.StatusCompleted, util.StatusRejected},
}

func IsValidStatus(status string) bool {
	return validStatuses[status]
}

// CanTransition reports whether from may move to to. Staying put is allowed.
func CanTransition(from, to string) bool {
	if from == "" {
		from = util.StatusPending
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type AppointmentService struct {
	appointments AppointmentStore
	users        UserStore
}

func NewAppointmentService(appointments AppointmentStore, users UserStore) *AppointmentService {
	return &AppointmentService{appointments: appointments, users: users}
}

func trimBooking(req *models.BookAppointmentRequest) {
	req.PatientID = strings.TrimSpace(req.PatientID)
	req.Specialty = strings.TrimSpace(req.Specialty)
	req.Doctor = strings.TrimSpace(req.Doctor)
	req.DoctorID = strings.TrimSpace(req.DoctorID)
	req.PreferredDate = strings.TrimSpace(req.PreferredDate)
	req.PreferredTime = strings.TrimSpace(req.PreferredTime)
	req.Reason = strings.TrimSpace(req.Reason)
	req.ContactMethod = strings.TrimSpace(req.ContactMethod)
	req.Notes = strings.TrimSpace(req.Notes)
}

func (s *AppointmentService) findUser(ctx context.Context, id primitive.ObjectID, notFound string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NotFound(notFound)
		}
		log.Error().Err(err).Msg("fetch user failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	return user, nil
}

/*
* Check the required fields after trimming
* A patient may only book for themself
* Load the patient and copy the contact fields onto the booking
* When a doctorId is given it must be a doctor, its name fills a blank doctor field
* Save with status pending
 */
func (s *AppointmentService) Book(ctx context.Context, p models.Principal, req models.BookAppointmentRequest) (*models.Appointment, error) {
	trimBooking(&req)
	if req.PatientID == "" || req.Specialty == "" || req.PreferredDate == "" ||
		req.PreferredTime == "" || req.Reason == "" || req.ContactMethod == "" {
		return nil, util.BadRequest(util.MISSING_REQUIRED_FIELDS)
	}
	if p.Is(util.RolePatient) && p.UserID != req.PatientID {
		return nil, util.Forbidden(util.PATIENT_CAN_ONLY_BOOK_SELF)
	}

	patientID, err := primitive.ObjectIDFromHex(req.PatientID)
	if err != nil {
		return nil, util.BadRequest(util.INVALID_USER_ID)
	}
	preferredDate, err := util.ParseDate(req.PreferredDate)
	if err != nil {
		return nil, err
	}

	patient, err := s.findUser(ctx, patientID, util.PATIENT_NOT_FOUND)
	if err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		Patient:            patient.ID,
		PatientName:        patient.Name,
		PatientEmail:       patient.Email,
		PatientPhone:       patient.PhoneNumber,
		PatientGender:      patient.Gender,
		PatientDateOfBirth: patient.DateOfBirth,
		Specialty:          req.Specialty,
		Doctor:             req.Doctor,
		PreferredDate:      preferredDate,
		PreferredTime:      req.PreferredTime,
		Reason:             req.Reason,
		ContactMethod:      req.ContactMethod,
		Notes:              req.Notes,
		Status:             util.StatusPending,
	}

	if req.DoctorID != "" {
		doctorID, err := primitive.ObjectIDFromHex(req.DoctorID)
		if err != nil {
			return nil, util.BadRequest(util.INVALID_DOCTOR_ID)
		}
		doctor, err := s.findUser(ctx, doctorID, util.DOCTOR_NOT_FOUND)
		if err != nil {
			return nil, err
		}
		if doctor.Role != util.RoleDoctor {
			return nil, util.NotFound(util.DOCTOR_NOT_FOUND)
		}
		appt.DoctorID = &doctor.ID
		if appt.Doctor == "" {
			appt.Doctor = doctor.Name
		}
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		log.Error().Err(err).Msg("save appointment failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	log.Info().Str("appointmentId", appt.ID.Hex()).Str("patientId", req.PatientID).Msg("appointment booked")
	return appt, nil
}

func parseOptionalID(raw, msg string) (*primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	oid, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return nil, util.BadRequest(msg)
	}
	return &oid, nil
}

/*
* Patients only see their own bookings, doctors only the ones assigned to them
* Admins may filter freely
 */
func (s *AppointmentService) listFilter(p models.Principal, userID, doctorID string) (models.AppointmentFilter, error) {
	switch p.Role {
	case util.RolePatient:
		if userID != "" && userID != p.UserID {
			return models.AppointmentFilter{}, util.Forbidden(util.ACCESS_DENIED)
		}
		userID = p.UserID
	case util.RoleDoctor:
		if doctorID != "" && doctorID != p.UserID {
			return models.AppointmentFilter{}, util.Forbidden(util.ACCESS_DENIED)
		}
		doctorID = p.UserID
	case util.RoleAdmin:
	default:
		return models.AppointmentFilter{}, util.Forbidden(util.ACCESS_DENIED)
	}

	patient, err := parseOptionalID(userID, util.INVALID_USER_ID)
	if err != nil {
		return models.AppointmentFilter{}, err
	}
	doctor, err := parseOptionalID(doctorID, util.INVALID_DOCTOR_ID)
	if err != nil {
		return models.AppointmentFilter{}, err
	}
	return models.AppointmentFilter{PatientID: patient, DoctorID: doctor}, nil
}

// List returns the visible appointments ordered by preferred date and time.
func (s *AppointmentService) List(ctx context.Context, p models.Principal, userID, doctorID string) ([]models.Appointment, error) {
	filter, err := s.listFilter(p, userID, doctorID)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.List(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("list appointments failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	return appts, nil
}

/*
* Reject an unknown status before touching the db
* Load the appointment, a doctor may only update bookings assigned to them
* Check the transition from the stored status
* Write only while the stored status is unchanged
 */
func (s *AppointmentService) UpdateStatus(ctx context.Context, p models.Principal, id string, req models.UpdateStatusRequest) (*models.Appointment, error) {
	status := ""
	if req.Status != nil {
		status = strings.TrimSpace(*req.Status)
		if status != "" && !IsValidStatus(status) {
			return nil, util.BadRequest(util.INVALID_STATUS_VALUE)
		}
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, util.NotFound(util.APPOINTMENT_NOT_FOUND)
	}
	appt, err := s.appointments.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NotFound(util.APPOINTMENT_NOT_FOUND)
		}
		log.Error().Err(err).Msg("fetch appointment failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}

	if p.Is(util.RoleDoctor) && (appt.DoctorID == nil || appt.DoctorID.Hex() != p.UserID) {
		return nil, util.Forbidden(util.DOCTOR_NOT_ASSIGNED)
	}

	fields := make(map[string]interface{})
	if status != "" {
		if !CanTransition(appt.Status, status) {
			return nil, util.Conflict(util.INVALID_STATUS_TRANSITION, "")
		}
		fields["status"] = status
	}
	if req.DoctorNote != nil {
		fields["doctorNote"] = *req.DoctorNote
	}
	if len(fields) == 0 {
		return appt, nil
	}

	var updated *models.Appointment
	if appt.Status == "" {
		updated, err = s.appointments.Update(ctx, oid, fields)
	} else {
		updated, err = s.appointments.UpdateWhereStatus(ctx, oid, appt.Status, fields)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.Conflict(util.APPOINTMENT_CHANGED, "")
		}
		log.Error().Err(err).Msg("update appointment status failed")
		return nil, util.Internal(util.GENERIC_ERROR, err)
	}
	log.Info().Str("appointmentId", id).Str("status", updated.Status).Msg("appointment updated")
	return updated, nil
}
