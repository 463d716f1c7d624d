package controllers

import (
	"net/http"

	"CareDesk/models"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) Auth(router *gin.Engine) {
	router.POST("/checkEmail", ctl.CheckEmail)
	router.POST("/registerUser", ctl.RegisterUser)
	router.POST("/login", ctl.Login)
	router.POST("/logout", ctl.guard.JWTAuth(), ctl.Logout)
}

/*
* Bind the email and report whether it is taken
 */
func (ctl *Controller) CheckEmail(c *gin.Context) {
	var req models.CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BadRequest(util.EMAIL_REQUIRED))
		return
	}
	exists, err := ctl.svc.Auth.CheckEmail(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

/*
* Bind the profile fields and pass them to the service
* Respond with the new user and its token
 */
func (ctl *Controller) RegisterUser(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BindError(err))
		return
	}
	user, token, err := ctl.svc.Auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token, "msg": util.USER_ADDED})
}

/*
* Bind credentials and pass to the service
 */
func (ctl *Controller) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, util.BindError(err))
		return
	}
	user, token, err := ctl.svc.Auth.Login(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token, "message": util.LOGIN_SUCCESS})
}

func (ctl *Controller) Logout(c *gin.Context) {
	if err := ctl.svc.Auth.Logout(c.Request.Context(), principal(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(util.LOGGED_OUT))
}
