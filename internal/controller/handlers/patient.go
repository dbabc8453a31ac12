package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreatePatient создаёт профиль пациента вызывающему пользователю
// POST /api/patient
func (h *Handlers) CreatePatient(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req patientRequest
	if !bindJSON(c, &req) {
		return
	}

	patient := req.Patient()
	if err := h.patientService.CreateProfile(c.Request.Context(), caller.UserID, patient); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: patient.ID})
}

// MyPatient профиль пациента вызывающего пользователя
// GET /api/patient/me
func (h *Handlers) MyPatient(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	patient, err := h.patientService.GetMine(c.Request.Context(), caller.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, patient)
}
