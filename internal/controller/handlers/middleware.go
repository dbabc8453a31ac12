package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDMaxLen = 64

// RequestID берёт X-Request-ID из запроса или генерирует новый
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(ctxRequestID, rid)
		c.Header("X-Request-ID", rid)

		c.Next()
	}
}

// Logger логирует каждый запрос
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(ctxRequestID)),
		}

		switch {
		case status >= 500:
			logger.Error("Request failed", fields...)
		case status >= 400:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// JWTAuth проверяет Authorization: Bearer <token> и кладёт пользователя в контекст
func (h *Handlers) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortWithError(c, http.StatusUnauthorized, "missing or malformed authorization header")
			return
		}

		claims, err := h.tokens.ParseToken(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil || userID <= 0 {
			abortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRoles, claims.ModelRoles())

		c.Next()
	}
}

// RoleAuth пропускает только пользователей с одной из ролей
func RoleAuth(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := currentCaller(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "unauthenticated")
			return
		}

		for _, role := range allowed {
			for _, has := range caller.Roles {
				if role == has {
					c.Next()
					return
				}
			}
		}

		abortWithError(c, http.StatusForbidden, "access denied")
	}
}

// currentCaller достаёт пользователя, положенного в контекст JWTAuth
func currentCaller(c *gin.Context) (service.Caller, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		return service.Caller{}, false
	}
	userID, ok := v.(int64)
	if !ok || userID <= 0 {
		return service.Caller{}, false
	}

	roles, _ := c.Get(ctxRoles)
	modelRoles, _ := roles.([]model.Role)

	return service.Caller{UserID: userID, Roles: modelRoles}, true
}

// requireCaller как currentCaller, но сам отвечает 401
func requireCaller(c *gin.Context) (service.Caller, bool) {
	caller, ok := currentCaller(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "unauthenticated")
	}
	return caller, ok
}
