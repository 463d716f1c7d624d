package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"CareDesk/models"
	"CareDesk/util"
)

// Status is the loading/success/error triple every state holder carries.
type Status struct {
	IsLoading    bool
	IsSuccess    bool
	IsError      bool
	ErrorMessage string
}

func (s *Status) begin() {
	s.IsLoading = true
	s.IsError = false
	s.ErrorMessage = ""
}

func (s *Status) succeed() {
	s.IsLoading = false
	s.IsSuccess = true
}

func (s *Status) fail(err error, fallback string) {
	s.IsLoading = false
	s.IsError = true
	s.ErrorMessage = fallback
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		s.ErrorMessage = apiErr.Message
	}
}

type UserState struct {
	Status
	User *models.User
}

type AppointmentState struct {
	Status
	Appointments []models.Appointment
}

type SymptomState struct {
	Status
	Messages []models.ChatTurn
}

// Session pairs a Client with the state holders a front end renders from.
// Every method moves its holder through loading and then success or error.
type Session struct {
	api *Client

	mu           sync.RWMutex
	user         UserState
	appointments AppointmentState
	symptoms     SymptomState
}

func NewSession(api *Client) *Session {
	return &Session{api: api}
}

func (s *Session) User() UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Appointments() AppointmentState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.appointments
	out.Appointments = append([]models.Appointment(nil), s.appointments.Appointments...)
	return out
}

func (s *Session) Symptoms() SymptomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.symptoms
	out.Messages = append([]models.ChatTurn(nil), s.symptoms.Messages...)
	return out
}

func (s *Session) userCall(fallback string, call func() (*models.User, error)) error {
	s.mu.Lock()
	s.user.begin()
	s.mu.Unlock()

	user, err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.user.fail(err, fallback)
		return err
	}
	s.user.User = user
	s.user.succeed()
	return nil
}

func (s *Session) Register(ctx context.Context, req models.RegisterRequest) error {
	return s.userCall("Registration failed", func() (*models.User, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	return s.userCall("Login failed", func() (*models.User, error) {
		return s.api.Login(ctx, email, password)
	})
}

func (s *Session) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.userCall("Update profile failed", func() (*models.User, error) {
		return s.api.UpdateProfile(ctx, id, updates)
	})
}

// Logout clears every holder, even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.mu.Lock()
	s.user = UserState{}
	s.appointments = AppointmentState{}
	s.symptoms = SymptomState{}
	s.mu.Unlock()
	return err
}

func (s *Session) appointmentCall(fallback string, call func() error) error {
	s.mu.Lock()
	s.appointments.begin()
	s.mu.Unlock()

	err := call()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.appointments.fail(err, fallback)
		return err
	}
	s.appointments.succeed()
	return nil
}

func (s *Session) BookAppointment(ctx context.Context, req models.BookAppointmentRequest) error {
	return s.appointmentCall("Failed to create appointment", func() error {
		appt, err := s.api.BookAppointment(ctx, req)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.appointments.Appointments = append(s.appointments.Appointments, *appt)
		s.mu.Unlock()
		return nil
	})
}

func (s *Session) LoadPatientAppointments(ctx context.Context, userID string) error {
	return s.loadAppointments(ctx, "Failed to load appointments", userID, "")
}

func (s *Session) LoadDoctorAppointments(ctx context.Context, doctorID string) error {
	return s.loadAppointments(ctx, "Failed to load doctor appointments", "", doctorID)
}

func (s *Session) loadAppointments(ctx context.Context, fallback, userID, doctorID string) error {
	return s.appointmentCall(fallback, func() error {
		appts, err := s.api.Appointments(ctx, userID, doctorID)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.appointments.Appointments = appts
		s.mu.Unlock()
		return nil
	})
}

// UpdateAppointmentStatus replaces the cached copy with the server's answer.
func (s *Session) UpdateAppointmentStatus(ctx context.Context, id string, req models.UpdateStatusRequest) error {
	return s.appointmentCall("Failed to update appointment", func() error {
		updated, err := s.api.UpdateAppointmentStatus(ctx, id, req)
		if err != nil {
			return err
		}
		s.mu.Lock()
		for i := range s.appointments.Appointments {
			if s.appointments.Appointments[i].ID == updated.ID {
				s.appointments.Appointments[i] = *updated
			}
		}
		s.mu.Unlock()
		return nil
	})
}

/*
* Blank input is ignored
* Send the prior turns with the new symptoms, then record both turns
* A failed call keeps the user turn and sets the error message
 */
func (s *Session) AskSymptoms(ctx context.Context, symptoms string) error {
	trimmed := strings.TrimSpace(symptoms)
	if trimmed == "" {
		return nil
	}

	s.mu.Lock()
	previous := append([]models.ChatTurn(nil), s.symptoms.Messages...)
	s.symptoms.Messages = append(s.symptoms.Messages, models.ChatTurn{Role: "user", Content: trimmed})
	s.symptoms.begin()
	s.mu.Unlock()

	reply, err := s.api.AskSymptoms(ctx, models.SymptomRequest{Symptoms: trimmed, PreviousMessages: previous})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.symptoms.fail(err, "There was a problem talking to the AI assistant. Please try again later.")
		return err
	}
	if strings.TrimSpace(reply) == "" {
		reply = util.AI_FALLBACK_REPLY
	}
	s.symptoms.Messages = append(s.symptoms.Messages, models.ChatTurn{Role: "assistant", Content: reply})
	s.symptoms.succeed()
	return nil
}
