package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"CareDesk/models"
	"CareDesk/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeAPI answers just enough of the HTTP surface for the client.
type fakeAPI struct {
	mu       sync.Mutex
	auth     []string
	queries  []string
	symptoms []models.SymptomRequest
	reply    string
	apptID   primitive.ObjectID
	userID   primitive.ObjectID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()

	user := models.User{ID: f.userID, Name: "Jane", Email: "jane@example.com", Role: util.RolePatient}
	appt := models.Appointment{ID: f.apptID, Patient: f.userID, Specialty: "Cardiology", Status: util.StatusPending}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/checkEmail":
		var req models.CheckEmailRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, map[string]bool{"exists": req.Email == "jane@example.com"})
	case r.Method == http.MethodPost && r.URL.Path == "/registerUser":
		writeJSON(w, http.StatusConflict, map[string]string{"error": util.EMAIL_ALREADY_REGISTERED, "code": util.EMAIL_EXISTS})
	case r.Method == http.MethodPost && r.URL.Path == "/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "password123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": util.AUTHENTICATION_FAILED})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": "tok-1"})
	case r.Method == http.MethodPost && r.URL.Path == "/logout":
		writeJSON(w, http.StatusOK, map[string]string{"msg": util.LOGGED_OUT})
	case r.Method == http.MethodPut && r.URL.Path == "/users/"+f.userID.Hex():
		var updates map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&updates)
		user.City, _ = updates["city"].(string)
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
	case r.Method == http.MethodGet && r.URL.Path == "/doctors":
		writeJSON(w, http.StatusOK, []models.DoctorSummary{{Name: "Dr. Who", Specialty: "Cardiology"}})
	case r.Method == http.MethodGet && r.URL.Path == "/appointments":
		f.mu.Lock()
		f.queries = append(f.queries, r.URL.RawQuery)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, []models.Appointment{appt})
	case r.Method == http.MethodPost && r.URL.Path == "/appointments":
		writeJSON(w, http.StatusCreated, map[string]interface{}{"appointment": appt, "msg": util.APPOINTMENT_BOOKED})
	case r.Method == http.MethodPut && r.URL.Path == "/appointments/"+f.apptID.Hex()+"/status":
		appt.Status = util.StatusAccepted
		writeJSON(w, http.StatusOK, map[string]interface{}{"appointment": appt})
	case r.Method == http.MethodPut && r.URL.Path == "/appointments/missing/status":
		w.WriteHeader(http.StatusBadGateway)
	case r.Method == http.MethodPost && r.URL.Path == "/ai/symptoms":
		var req models.SymptomRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.symptoms = append(f.symptoms, req)
		reply := f.reply
		f.mu.Unlock()
		if reply == "fail" {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": util.AI_DISABLED})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

func (f *fakeAPI) setReply(reply string) {
	f.mu.Lock()
	f.reply = reply
	f.mu.Unlock()
}

func (f *fakeAPI) sent() ([]string, []string, []models.SymptomRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.auth...), append([]string(nil), f.queries...), append([]models.SymptomRequest(nil), f.symptoms...)
}

func newFake(t *testing.T) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{apptID: primitive.NewObjectID(), userID: primitive.NewObjectID(), reply: "Rest and hydrate."}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, New(srv.URL+"/", srv.Client())
}

func TestClient_TokenLifecycle(t *testing.T) {
	f, c := newFake(t)
	ctx := context.Background()

	exists, err := c.CheckEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	user, err := c.Login(ctx, "jane@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Jane", user.Name)
	assert.Equal(t, "tok-1", c.Token())

	_, err = c.PublicDoctors(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())

	auth, _, _ := f.sent()
	assert.Equal(t, []string{"", "", "Bearer tok-1", "Bearer tok-1"}, auth)
}

func TestClient_APIError(t *testing.T) {
	_, c := newFake(t)

	_, err := c.Register(context.Background(), models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, util.EMAIL_EXISTS, apiErr.Code)
	assert.Equal(t, util.EMAIL_ALREADY_REGISTERED, apiErr.Error())
	assert.Empty(t, c.Token())

	_, err = c.UpdateAppointmentStatus(context.Background(), "missing", models.UpdateStatusRequest{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "request failed with status 502", apiErr.Error())
}

func TestClient_AppointmentsQuery(t *testing.T) {
	f, c := newFake(t)
	ctx := context.Background()

	_, err := c.Appointments(ctx, "u1", "")
	require.NoError(t, err)
	_, err = c.Appointments(ctx, "", "d1")
	require.NoError(t, err)
	_, err = c.Appointments(ctx, "", "")
	require.NoError(t, err)

	_, queries, _ := f.sent()
	assert.Equal(t, []string{"userId=u1", "doctorId=d1", ""}, queries)
}

func TestSession_LoginAndProfile(t *testing.T) {
	f, c := newFake(t)
	s := NewSession(c)
	ctx := context.Background()

	err := s.Login(ctx, "jane@example.com", "wrong")
	require.Error(t, err)
	state := s.User()
	assert.True(t, state.IsError)
	assert.False(t, state.IsLoading)
	assert.Equal(t, util.AUTHENTICATION_FAILED, state.ErrorMessage)
	assert.Nil(t, state.User)

	require.NoError(t, s.Login(ctx, "jane@example.com", "password123"))
	state = s.User()
	assert.True(t, state.IsSuccess)
	assert.False(t, state.IsError)
	assert.Empty(t, state.ErrorMessage)
	require.NotNil(t, state.User)

	require.NoError(t, s.UpdateProfile(ctx, f.userID.Hex(), map[string]interface{}{"city": "Pune"}))
	assert.Equal(t, "Pune", s.User().User.City)

	require.Error(t, s.Register(ctx, models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"}))
	assert.Equal(t, util.EMAIL_ALREADY_REGISTERED, s.User().ErrorMessage)

	require.NoError(t, s.Logout(ctx))
	assert.Equal(t, UserState{}, s.User())
	assert.Empty(t, c.Token())
}

func TestSession_Appointments(t *testing.T) {
	f, c := newFake(t)
	s := NewSession(c)
	ctx := context.Background()

	require.NoError(t, s.LoadPatientAppointments(ctx, f.userID.Hex()))
	require.Len(t, s.Appointments().Appointments, 1)

	require.NoError(t, s.BookAppointment(ctx, models.BookAppointmentRequest{PatientID: f.userID.Hex()}))
	state := s.Appointments()
	assert.True(t, state.IsSuccess)
	assert.Len(t, state.Appointments, 2)

	require.NoError(t, s.UpdateAppointmentStatus(ctx, f.apptID.Hex(), models.UpdateStatusRequest{}))
	for _, a := range s.Appointments().Appointments {
		assert.Equal(t, util.StatusAccepted, a.Status)
	}

	require.Error(t, s.UpdateAppointmentStatus(ctx, "missing", models.UpdateStatusRequest{}))
	state = s.Appointments()
	assert.True(t, state.IsError)
	assert.Equal(t, "Failed to update appointment", state.ErrorMessage)
	assert.Len(t, state.Appointments, 2)

	require.NoError(t, s.LoadDoctorAppointments(ctx, "d1"))
	state = s.Appointments()
	assert.False(t, state.IsError)
	assert.Len(t, state.Appointments, 1)
}

func TestSession_AskSymptoms(t *testing.T) {
	f, c := newFake(t)
	s := NewSession(c)
	ctx := context.Background()

	require.NoError(t, s.AskSymptoms(ctx, "   "))
	_, _, sent := f.sent()
	assert.Empty(t, sent)

	require.NoError(t, s.AskSymptoms(ctx, " headache "))
	f.setReply("")
	require.NoError(t, s.AskSymptoms(ctx, "and nausea"))

	msgs := s.Symptoms().Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, models.ChatTurn{Role: "user", Content: "headache"}, msgs[0])
	assert.Equal(t, models.ChatTurn{Role: "assistant", Content: "Rest and hydrate."}, msgs[1])
	assert.Equal(t, util.AI_FALLBACK_REPLY, msgs[3].Content)

	_, _, sent = f.sent()
	require.Len(t, sent, 2)
	assert.Empty(t, sent[0].PreviousMessages)
	assert.Equal(t, msgs[:2], sent[1].PreviousMessages)

	f.setReply("fail")
	require.Error(t, s.AskSymptoms(ctx, "still sick"))
	state := s.Symptoms()
	assert.True(t, state.IsError)
	assert.Equal(t, util.AI_DISABLED, state.ErrorMessage)
	assert.Len(t, state.Messages, 5)
}
