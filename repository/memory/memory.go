// Package memory holds map backed stores with the same behaviour as the
// MongoDB repositories, for tests that exercise services and handlers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// applySet merges fields into doc the way a $set would.
func applySet(doc interface{}, fields map[string]interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range fields {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, doc)
}

type Users struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]*models.User
	// Writes counts Update and roster reads.
	Writes int
}

func NewUsers() *Users {
	return &Users{byID: make(map[primitive.ObjectID]*models.User)}
}

// Add stores u as is, assigning an id when it has none.
func (s *Users) Add(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.byID[u.ID] = &u
	cp := u
	return &cp
}

// Get returns a copy of the stored user or nil.
func (s *Users) Get(id primitive.ObjectID) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u := s.Get(id); u != nil {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Users) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *Users) Create(ctx context.Context, user *models.User) error {
	if exists, _ := s.ExistsByEmail(ctx, user.Email); exists {
		return util.ErrEmailExists
	}
	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	s.Add(*user)
	return nil
}

func (s *Users) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := applySet(u, fields); err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *Users) ListByRole(_ context.Context, role string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for _, u := range s.byID {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Users) ListDoctorSummaries(ctx context.Context) ([]models.DoctorSummary, error) {
	doctors, _ := s.ListByRole(ctx, util.RoleDoctor)
	s.mu.Lock()
	s.Writes++
	s.mu.Unlock()
	out := make([]models.DoctorSummary, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, models.DoctorSummary{ID: d.ID, Name: d.Name, Email: d.Email, Specialty: d.Specialty, PhoneNumber: d.PhoneNumber})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Users) DeleteByIDAndRole(_ context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok || u.Role != role {
		return nil, repository.ErrNotFound
	}
	delete(s.byID, id)
	return u, nil
}

type Appointments struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]*models.Appointment
	order []primitive.ObjectID
}

func NewAppointments() *Appointments {
	return &Appointments{byID: make(map[primitive.ObjectID]*models.Appointment)}
}

func (s *Appointments) Add(a models.Appointment) *models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.byID[a.ID] = &a
	s.order = append(s.order, a.ID)
	cp := a
	return &cp
}

func (s *Appointments) Get(id primitive.ObjectID) *models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (s *Appointments) Create(_ context.Context, appt *models.Appointment) error {
	now := time.Now().UTC()
	appt.ID = primitive.NewObjectID()
	appt.CreatedAt, appt.UpdatedAt = now, now
	s.Add(*appt)
	return nil
}

func (s *Appointments) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	if a := s.Get(id); a != nil {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Appointments) List(_ context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Appointment{}
	for _, id := range s.order {
		a := s.byID[id]
		if f.PatientID != nil && a.Patient != *f.PatientID {
			continue
		}
		if f.DoctorID != nil && (a.DoctorID == nil || *a.DoctorID != *f.DoctorID) {
			continue
		}
		out = append(out, *a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PreferredDate.Equal(out[j].PreferredDate) {
			return out[i].PreferredDate.Before(out[j].PreferredDate)
		}
		return out[i].PreferredTime < out[j].PreferredTime
	})
	return out, nil
}

func (s *Appointments) Update(_ context.Context, id primitive.ObjectID, fields map[string]interface{}) (*models.Appointment, error) {
	return s.update(id, "", false, fields)
}

func (s *Appointments) UpdateWhereStatus(_ context.Context, id primitive.ObjectID, expected string, fields map[string]interface{}) (*models.Appointment, error) {
	return s.update(id, expected, true, fields)
}

func (s *Appointments) update(id primitive.ObjectID, expected string, guarded bool, fields map[string]interface{}) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if guarded && a.Status != expected {
		return nil, repository.ErrNotFound
	}
	if err := applySet(a, fields); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

func (s *Appointments) CountStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, a := range s.byID {
		if a.Status == util.StatusPending && a.PreferredDate.Before(cutoff) {
			n++
		}
	}
	return n, nil
}
