package controllers

import (
	"net/http"

	"CareDesk/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) User(router *gin.Engine) {
	users := router.Group("/users", ctl.guard.JWTAuth())
	users.GET("/:id", ctl.FetchUser)
	users.PUT("/:id", ctl.UpdateUser)
}

func (ctl *Controller) FetchUser(c *gin.Context) {
	user, err := ctl.svc.Users.GetProfile(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

/*
* Get id from params
* Bind the fields which need to be updated
* Pass to the service, only allow-listed fields are written
 */
func (ctl *Controller) UpdateUser(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		fail(c, util.BindError(err))
		return
	}
	user, err := ctl.svc.Users.UpdateProfile(c.Request.Context(), principal(c), c.Param("id"), data)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
