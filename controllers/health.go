package controllers

import (
	"context"
	"net/http"
	"time"

	"CareDesk/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func (ctl *Controller) Health(router *gin.Engine) {
	router.GET("/healthz", ctl.CheckHealth)
}

func (ctl *Controller) CheckHealth(c *gin.Context) {
	if ctl.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ctl.health(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": util.SERVICE_UNHEALTHY})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
