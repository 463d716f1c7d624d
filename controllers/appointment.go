package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"CareDesk/config/authorization"
	"CareDesk/models"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) Appointment(router *gin.Engine) {
	appointment := router.Group("/appointments", ctl.guard.JWTAuth())
	{
		appointment.POST("", authorization.Authorize(util.RolePatient, util.RoleAdmin), ctl.CreateAppointment)
		appointment.GET("", ctl.FetchAppointments)
		appointment.PUT("/:id/status", authorization.Authorize(util.RoleDoctor, util.RoleAdmin), ctl.UpdateAppointmentStatus)
	}
	router.GET("/admin/appointments/export", ctl.guard.JWTAuth(), authorization.Authorize(util.RoleAdmin), ctl.ExportAppointments)
}

/*
* Bind JSON
* And pass to the service
 */
func (ctl *Controller) CreateAppointment(c *gin.Context) {
	var req models.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BindError(err))
		return
	}
	appt, err := ctl.svc.Appointments.Book(c.Request.Context(), principal(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"appointment": appt, "msg": util.APPOINTMENT_BOOKED})
}

/*
* Read userId and doctorId from the query
* Pass to the service
 */
func (ctl *Controller) FetchAppointments(c *gin.Context) {
	appts, err := ctl.svc.Appointments.List(c.Request.Context(), principal(c), c.Query("userId"), c.Query("doctorId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

/*
* Get id from param
* Bind status and doctor note, an empty body changes nothing
* Pass to the service
 */
func (ctl *Controller) UpdateAppointmentStatus(c *gin.Context) {
	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, util.BindError(err))
		return
	}
	appt, err := ctl.svc.Appointments.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}

func (ctl *Controller) ExportAppointments(c *gin.Context) {
	file, err := ctl.svc.Appointments.Export(c.Request.Context(), principal(c), c.Query("userId"), c.Query("doctorId"))
	if err != nil {
		fail(c, err)
		return
	}
	name := fmt.Sprintf("appointments-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("write export failed")
	}
}
