package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Book записывает пациента на слот
// POST /api/appointment
func (h *Handlers) Book(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req appointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appointment, err := h.bookingService.Book(c.Request.Context(), caller.UserID, req.DoctorID, req.SlotID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: appointment.ID})
}

// Rebook переносит запись на другой слот
// PUT /api/appointment/:id
func (h *Handlers) Rebook(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	appointmentID, ok := positiveID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var req appointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.bookingService.Rebook(c.Request.Context(), caller, appointmentID, req.DoctorID, req.SlotID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Cancel отменяет запись
// DELETE /api/appointment/:id
func (h *Handlers) Cancel(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	appointmentID, ok := positiveID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	if err := h.bookingService.Cancel(c.Request.Context(), caller, appointmentID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAvailableSlots список свободных слотов врача
// GET /api/appointment/GetAvailableSlots?doctorId=
func (h *Handlers) GetAvailableSlots(c *gin.Context) {
	doctorID, ok := positiveID(c, c.Query("doctorId"), "doctorId")
	if !ok {
		return
	}

	slots, err := h.bookingService.ListAvailable(c.Request.Context(), doctorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Debug("Available slots served", zap.Int64("doctor_id", doctorID), zap.Int("count", len(slots)))
	c.JSON(http.StatusOK, slots)
}

// MyAppointments записи вызывающего пациента
// GET /api/appointment/me
func (h *Handlers) MyAppointments(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	appointments, err := h.bookingService.ListMine(c.Request.Context(), caller.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}
