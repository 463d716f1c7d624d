package services

import (
	"CareDesk/config/jwt"
	"CareDesk/config/redis"
	"CareDesk/llm"
)

// Services bundles every service the controllers and jobs use.
type Services struct {
	Auth         *AuthService
	Users        *UserService
	Doctors      *DoctorService
	Appointments *AppointmentService
	Symptoms     *SymptomService
}

// New wires the services. A nil ai client disables the symptom relay.
func New(users UserStore, appointments AppointmentStore, cache redis.Cache, tokens *jwt.Manager, ai llm.Client) *Services {
	doctors := NewDoctorService(users, cache, tokens.TTL())
	return &Services{
		Auth:         NewAuthService(users, tokens, cache),
		Users:        NewUserService(users, doctors),
		Doctors:      doctors,
		Appointments: NewAppointmentService(appointments, users),
		Symptoms:     NewSymptomService(ai),
	}
}
