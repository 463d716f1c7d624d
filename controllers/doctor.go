package controllers

import (
	"net/http"

	"CareDesk/config/authorization"
	"CareDesk/models"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Doctor(router *gin.Engine) {
	router.GET("/doctors", ctl.FetchPublicDoctors)
	router.POST("/doctors", ctl.guard.JWTAuth(), authorization.Authorize(util.RoleAdmin), ctl.CreateDoctor)

	admin := router.Group("/admin", ctl.guard.JWTAuth(), authorization.Authorize(util.RoleAdmin))
	admin.GET("/doctors", ctl.FetchAllDoctors)
	admin.POST("/doctors", ctl.CreateDoctor)
	admin.DELETE("/doctors/:id", ctl.DeleteDoctor)
}

// FetchPublicDoctors serves the reduced roster used by the booking form.
func (ctl *Controller) FetchPublicDoctors(c *gin.Context) {
	doctors, err := ctl.svc.Doctors.ListPublic(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

func (ctl *Controller) FetchAllDoctors(c *gin.Context) {
	doctors, err := ctl.svc.Doctors.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doctors)
}

/*
* Bind JSON
* And pass to the service
 */
func (ctl *Controller) CreateDoctor(c *gin.Context) {
	var req models.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BindError(err))
		return
	}
	doctor, err := ctl.svc.Doctors.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"doctor": doctor, "msg": util.DOCTOR_CREATED})
}

/*
* Extract id from the parameter
* Pass the id to the service
 */
func (ctl *Controller) DeleteDoctor(c *gin.Context) {
	doctor, err := ctl.svc.Doctors.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": util.DOCTOR_DELETED, "doctor": doctor})
}
