package routes

import (
	"net/http"
	"testing"
	"time"

	"CareDesk/config/authorization"
	"CareDesk/config/jwt"
	"CareDesk/config/redis"
	"CareDesk/controllers"
	"CareDesk/repository/memory"
	"CareDesk/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cache := redis.NewMemoryCache()
	tokens := jwt.NewManager("secret", time.Hour)
	svc := services.New(memory.NewUsers(), memory.NewAppointments(), cache, tokens, nil)

	r := gin.New()
	Routes(r, controllers.New(svc, authorization.NewGuard(tokens, cache), nil))

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		http.MethodGet + " /healthz",
		http.MethodPost + " /checkEmail",
		http.MethodPost + " /registerUser",
		http.MethodPost + " /login",
		http.MethodPost + " /logout",
		http.MethodGet + " /users/:id",
		http.MethodPut + " /users/:id",
		http.MethodGet + " /doctors",
		http.MethodPost + " /doctors",
		http.MethodGet + " /admin/doctors",
		http.MethodPost + " /admin/doctors",
		http.MethodDelete + " /admin/doctors/:id",
		http.MethodPost + " /appointments",
		http.MethodGet + " /appointments",
		http.MethodPut + " /appointments/:id/status",
		http.MethodGet + " /admin/appointments/export",
		http.MethodPost + " /ai/symptoms",
	} {
		assert.True(t, registered[want], want)
	}
}
