package routes

import (
	"CareDesk/controllers"

	"github.com/gin-gonic/gin"
)

// Routes registers every resource. Each resource attaches its own
// authentication, so public and private routes can share a path prefix.
func Routes(r *gin.Engine, ctl *controllers.Controller) {

	//public
	ctl.Health(r)
	ctl.Auth(r)
	ctl.Doctor(r)
	//private
	ctl.User(r)
	ctl.Appointment(r)
	ctl.Symptom(r)
}
