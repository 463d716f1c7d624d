package controllers

import (
	"net/http"

	"CareDesk/models"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Symptom(router *gin.Engine) {
	router.POST("/ai/symptoms", ctl.guard.JWTAuth(), ctl.RelaySymptoms)
}

/*
* A disabled relay answers before the body is read
* Bind the symptoms and previous turns and pass to the service
 */
func (ctl *Controller) RelaySymptoms(c *gin.Context) {
	if !ctl.svc.Symptoms.Enabled() {
		fail(c, util.Unavailable(util.AI_DISABLED))
		return
	}
	var req models.SymptomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BadRequest(util.SYMPTOMS_REQUIRED))
		return
	}
	reply, err := ctl.svc.Symptoms.Relay(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
