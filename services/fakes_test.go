package services

import (
	"context"
	"time"

	"CareDesk/config/jwt"
	"CareDesk/config/redis"
	"CareDesk/llm"
	"CareDesk/models"
	"CareDesk/repository/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	hashCost = bcrypt.MinCost
}

type fakeLLM struct {
	reply    string
	err      error
	calls    int
	messages []llm.Message
}

func (f *fakeLLM) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

// racingAppointments moves the stored status to next right before every
// guarded write, the way a concurrent request would.
type racingAppointments struct {
	*memory.Appointments
	next string
}

func (r *racingAppointments) UpdateWhereStatus(ctx context.Context, id primitive.ObjectID, expected string, fields map[string]interface{}) (*models.Appointment, error) {
	if _, err := r.Appointments.Update(ctx, id, map[string]interface{}{"status": r.next}); err != nil {
		return nil, err
	}
	return r.Appointments.UpdateWhereStatus(ctx, id, expected, fields)
}

type fixture struct {
	users  *memory.Users
	appts  *memory.Appointments
	cache  *redis.MemoryCache
	tokens *jwt.Manager
	svc    *Services
}

func newFixture(ai llm.Client) *fixture {
	f := &fixture{
		users:  memory.NewUsers(),
		appts:  memory.NewAppointments(),
		cache:  redis.NewMemoryCache(),
		tokens: jwt.NewManager("test-secret", time.Hour),
	}
	f.svc = New(f.users, f.appts, f.cache, f.tokens, ai)
	return f
}

func principalOf(u *models.User) models.Principal {
	return models.Principal{UserID: u.ID.Hex(), Email: u.Email, Role: u.Role}
}

func mustHash(password string) string {
	h, err := HashPassword(password)
	if err != nil {
		panic(err)
	}
	return h
}
