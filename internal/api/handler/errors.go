package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qs3c/demostar_server/internal/api/middleware"
	"github.com/qs3c/demostar_server/internal/pkg/log"
	"github.com/qs3c/demostar_server/internal/pkg/response"
	"github.com/qs3c/demostar_server/internal/service"
)

// respondError 将 service 层错误映射为响应码
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDemoStarNotFound),
		errors.Is(err, service.ErrActorNotFound),
		errors.Is(err, service.ErrImageNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.AuthError(c, err.Error())
	case errors.Is(err, service.ErrNotImageOwner):
		response.PermissionError(c, err.Error())
	case service.IsTransient(err):
		log.L.Warn("transient failure",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		response.ServiceBusyError(c, "")
	default:
		log.L.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		response.ServerError(c, "")
	}
}
