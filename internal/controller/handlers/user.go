package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Register регистрирует пользователя
// POST /api/user
func (h *Handlers) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: user.ID})
}

// Login выдаёт токен доступа
// POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// AssignRole выдаёт пользователю роль
// POST /api/user/:id/roles
func (h *Handlers) AssignRole(c *gin.Context) {
	userID, ok := positiveID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req roleRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.AssignRole(c.Request.Context(), userID, req.Role); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
