package handlers

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/hospital_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// respondError переводит ошибку сервиса в HTTP-ответ
func (h *Handlers) respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		abortWithError(c, statusOf(svcErr.Kind), svcErr.Message)
		return
	}

	h.logger.Error("Request handling failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString(ctxRequestID)),
		zap.Error(err),
	)
	_ = c.Error(err)
	abortWithError(c, http.StatusInternalServerError, "internal server error")
}

func statusOf(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
