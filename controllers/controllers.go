package controllers

import (
	"context"

	"CareDesk/config/authorization"
	"CareDesk/models"
	"CareDesk/services"
	"CareDesk/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Controller holds what the handlers need; routes are registered per resource.
type Controller struct {
	svc    *services.Services
	guard  *authorization.Guard
	health func(ctx context.Context) error
}

func New(svc *services.Services, guard *authorization.Guard, health func(ctx context.Context) error) *Controller {
	return &Controller{svc: svc, guard: guard, health: health}
}

/*
* Map the error to its status and public body
* Server side failures are logged with their cause
 */
func fail(c *gin.Context, err error) {
	status := util.StatusOf(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, util.FailedResponse(err))
}

func principal(c *gin.Context) models.Principal {
	p, _ := authorization.CurrentPrincipal(c)
	return p
}
