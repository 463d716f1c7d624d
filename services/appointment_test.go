package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"CareDesk/models"
	"CareDesk/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func bookingFor(patient *models.User) models.BookAppointmentRequest {
	return models.BookAppointmentRequest{
		PatientID:     patient.ID.Hex(),
		Specialty:     "Cardiology",
		PreferredDate: "2025-07-01",
		PreferredTime: "10:00",
		Reason:        "Chest pain",
		ContactMethod: "phone",
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{util.StatusPending, util.StatusAccepted, true},
		{util.StatusPending, util.StatusRejected, true},
		{util.StatusPending, util.StatusCompleted, false},
		{util.StatusAccepted, util.StatusCompleted, true},
		{util.StatusAccepted, util.StatusRejected, true},
		{util.StatusAccepted, util.StatusPending, false},
		{util.StatusRejected, util.StatusAccepted, false},
		{util.StatusCompleted, util.StatusRejected, false},
		{util.StatusCompleted, util.StatusCompleted, true},
		{"", util.StatusAccepted, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.ok, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
	assert.False(t, IsValidStatus("cancelled"))
}

func TestBook_SnapshotsPatient(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	jane := f.users.Add(models.User{Name: "Jane", Email: "j@x.io", PhoneNumber: "555-0100", Gender: "female", DateOfBirth: &dob, Role: util.RolePatient})
	doctor := f.users.Add(models.User{Name: "Dr. Adams", Email: "a@clinic.io", Role: util.RoleDoctor})

	req := bookingFor(jane)
	req.DoctorID = doctor.ID.Hex()
	appt, err := f.svc.Appointments.Book(ctx, principalOf(jane), req)
	require.NoError(t, err)
	assert.Equal(t, util.StatusPending, appt.Status)
	assert.Equal(t, "Jane", appt.PatientName)
	assert.Equal(t, "555-0100", appt.PatientPhone)
	assert.Equal(t, "Dr. Adams", appt.Doctor)
	require.NotNil(t, appt.DoctorID)
	assert.Equal(t, doctor.ID, *appt.DoctorID)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), appt.PreferredDate)

	// a later profile edit leaves the booking as it was
	_, err = f.svc.Users.UpdateProfile(ctx, principalOf(jane), jane.ID.Hex(), map[string]interface{}{"phoneNumber": "555-9999"})
	require.NoError(t, err)
	assert.Equal(t, "555-0100", f.appts.Get(appt.ID).PatientPhone)
}

func TestBook_Validation(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	jane := f.users.Add(models.User{Name: "Jane", Email: "j@x.io", Role: util.RolePatient})
	john := f.users.Add(models.User{Name: "John", Email: "john@x.io", Role: util.RolePatient})
	nurse := f.users.Add(models.User{Name: "Not a doctor", Email: "n@x.io", Role: util.RolePatient})

	req := bookingFor(jane)
	req.Reason = "   "
	_, err := f.svc.Appointments.Book(ctx, principalOf(jane), req)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	_, err = f.svc.Appointments.Book(ctx, principalOf(john), bookingFor(jane))
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	req = bookingFor(jane)
	req.PreferredDate = "someday"
	_, err = f.svc.Appointments.Book(ctx, principalOf(jane), req)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	req = bookingFor(jane)
	req.DoctorID = nurse.ID.Hex()
	_, err = f.svc.Appointments.Book(ctx, principalOf(jane), req)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}
	req = bookingFor(jane)
	req.PatientID = primitive.NewObjectID().Hex()
	_, err = f.svc.Appointments.Book(ctx, admin, req)
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	appts, _ := f.appts.List(ctx, models.AppointmentFilter{})
	assert.Empty(t, appts)
}

func TestList_ScopedAndSorted(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	jane := f.users.Add(models.User{Name: "Jane", Email: "j@x.io", Role: util.RolePatient})
	john := f.users.Add(models.User{Name: "John", Email: "john@x.io", Role: util.RolePatient})

	book := func(p *models.User, date, at string) {
		req := bookingFor(p)
		req.PreferredDate, req.PreferredTime = date, at
		_, err := f.svc.Appointments.Book(ctx, principalOf(p), req)
		require.NoError(t, err)
	}
	book(jane, "2025-07-03", "09:00")
	book(john, "2025-07-01", "08:00")
	book(jane, "2025-07-01", "14:00")
	book(jane, "2025-07-01", "09:30")

	appts, err := f.svc.Appointments.List(ctx, principalOf(jane), jane.ID.Hex(), "")
	require.NoError(t, err)
	require.Len(t, appts, 3)
	for _, a := range appts {
		assert.Equal(t, jane.ID, a.Patient)
	}
	assert.Equal(t, "09:30", appts[0].PreferredTime)
	assert.Equal(t, "14:00", appts[1].PreferredTime)
	assert.Equal(t, "09:00", appts[2].PreferredTime)

	// patients are pinned to themselves
	appts, err = f.svc.Appointments.List(ctx, principalOf(jane), "", "")
	require.NoError(t, err)
	assert.Len(t, appts, 3)

	_, err = f.svc.Appointments.List(ctx, principalOf(jane), john.ID.Hex(), "")
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}
	appts, err = f.svc.Appointments.List(ctx, admin, "", "")
	require.NoError(t, err)
	assert.Len(t, appts, 4)

	_, err = f.svc.Appointments.List(ctx, admin, "bad-id", "")
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestList_DoctorSeesAssigned(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	jane := f.users.Add(models.User{Name: "Jane", Email: "j@x.io", Role: util.RolePatient})
	adams := f.users.Add(models.User{Name: "Dr. Adams", Email: "a@clinic.io", Role: util.RoleDoctor})
	baker := f.users.Add(models.User{Name: "Dr. Baker", Email: "b@clinic.io", Role: util.RoleDoctor})

	req := bookingFor(jane)
	req.DoctorID = adams.ID.Hex()
	_, err := f.svc.Appointments.Book(ctx, principalOf(jane), req)
	require.NoError(t, err)
	_, err = f.svc.Appointments.Book(ctx, principalOf(jane), bookingFor(jane))
	require.NoError(t, err)

	appts, err := f.svc.Appointments.List(ctx, principalOf(adams), "", "")
	require.NoError(t, err)
	assert.Len(t, appts, 1)

	_, err = f.svc.Appointments.List(ctx, principalOf(adams), "", baker.ID.Hex())
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	jane := f.users.Add(models.User{Name: "Jane", Email: "j@x.io", Role: util.RolePatient})
	adams := f.users.Add(models.User{Name: "Dr. Adams", Email: "a@clinic.io", Role: util.RoleDoctor})
	baker := f.users.Add(models.User{Name: "Dr. Baker", Email: "b@clinic.io", Role: util.RoleDoctor})

	req := bookingFor(jane)
	req.DoctorID = adams.ID.Hex()
	appt, err := f.svc.Appointments.Book(ctx, principalOf(jane), req)
	require.NoError(t, err)
	id := appt.ID.Hex()

	updated, err := f.svc.Appointments.UpdateStatus(ctx, principalOf(adams), id, models.UpdateStatusRequest{
		Status: strPtr(util.StatusAccepted), DoctorNote: strPtr("Bring prior ECG"),
	})
	require.NoError(t, err)
	assert.Equal(t, util.StatusAccepted, updated.Status)
	assert.Equal(t, "Bring prior ECG", updated.DoctorNote)

	_, err = f.svc.Appointments.UpdateStatus(ctx, principalOf(baker), id, models.UpdateStatusRequest{Status: strPtr(util.StatusCompleted)})
	assert.Equal(t, http.StatusForbidden, util.StatusOf(err))

	_, err = f.svc.Appointments.UpdateStatus(ctx, principalOf(adams), id, models.UpdateStatusRequest{Status: strPtr(util.StatusPending)})
	assert.Equal(t, http.StatusConflict, util.StatusOf(err))

	updated, err = f.svc.Appointments.UpdateStatus(ctx, principalOf(adams), id, models.UpdateStatusRequest{Status: strPtr(util.StatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, util.StatusCompleted, updated.Status)
	assert.Equal(t, "Bring prior ECG", updated.DoctorNote)
}

func TestUpdateStatus_InvalidValueLeavesRecord(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}
	appt := f.appts.Add(models.Appointment{Patient: primitive.NewObjectID(), Status: util.StatusPending, DoctorNote: "keep"})

	_, err := f.svc.Appointments.UpdateStatus(ctx, admin, appt.ID.Hex(), models.UpdateStatusRequest{
		Status: strPtr("cancelled"), DoctorNote: strPtr("changed"),
	})
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))

	stored := f.appts.Get(appt.ID)
	assert.Equal(t, util.StatusPending, stored.Status)
	assert.Equal(t, "keep", stored.DoctorNote)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture(nil)
	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}

	_, err := f.svc.Appointments.UpdateStatus(context.Background(), admin, primitive.NewObjectID().Hex(), models.UpdateStatusRequest{Status: strPtr(util.StatusAccepted)})
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))

	_, err = f.svc.Appointments.UpdateStatus(context.Background(), admin, "nope", models.UpdateStatusRequest{Status: strPtr(util.StatusAccepted)})
	assert.Equal(t, http.StatusNotFound, util.StatusOf(err))
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	f := newFixture(nil)
	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}
	appt := f.appts.Add(models.Appointment{Patient: primitive.NewObjectID(), Status: util.StatusPending})
	appts := NewAppointmentService(&racingAppointments{Appointments: f.appts, next: util.StatusRejected}, f.users)

	_, err := appts.UpdateStatus(context.Background(), admin, appt.ID.Hex(), models.UpdateStatusRequest{Status: strPtr(util.StatusAccepted)})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, util.StatusOf(err))
	assert.Equal(t, util.APPOINTMENT_CHANGED, util.FailedResponse(err)["error"])
	assert.Equal(t, util.StatusRejected, f.appts.Get(appt.ID).Status)
}

func TestUpdateStatus_NoteOnlyAndLegacyStatus(t *testing.T) {
	f := newFixture(nil)
	ctx := context.Background()
	admin := models.Principal{UserID: "admin", Role: util.RoleAdmin}
	legacy := f.appts.Add(models.Appointment{Patient: primitive.NewObjectID()})

	updated, err := f.svc.Appointments.UpdateStatus(ctx, admin, legacy.ID.Hex(), models.UpdateStatusRequest{DoctorNote: strPtr("seen")})
	require.NoError(t, err)
	assert.Equal(t, "seen", updated.DoctorNote)

	updated, err = f.svc.Appointments.UpdateStatus(ctx, admin, legacy.ID.Hex(), models.UpdateStatusRequest{Status: strPtr(util.StatusAccepted)})
	require.NoError(t, err)
	assert.Equal(t, util.StatusAccepted, updated.Status)
}
