package handlers

import (
	"net/http"
	"strings"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/gin-gonic/gin"
)

// CreateDoctor POST /api/doctor
func (h *Handlers) CreateDoctor(c *gin.Context) {
	var req doctorRequest
	if !bindJSON(c, &req) {
		return
	}

	doctor := &model.Doctor{
		UserID:       req.UserID,
		DepartmentID: req.DepartmentID,
		Title:        strings.TrimSpace(req.Title),
		Salary:       req.Salary,
	}
	if err := h.doctorService.CreateDoctor(c.Request.Context(), doctor); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: doctor.ID})
}

// GetDoctor GET /api/doctor/:id
func (h *Handlers) GetDoctor(c *gin.Context) {
	id, ok := positiveID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	doctor, err := h.doctorService.GetDoctor(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctor)
}

// ListDoctors GET /api/doctor
func (h *Handlers) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorService.ListDoctors(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// CreateDepartment POST /api/department
func (h *Handlers) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if !bindJSON(c, &req) {
		return
	}

	department, err := h.doctorService.CreateDepartment(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, idResponse{ID: department.ID})
}

// ListDepartments GET /api/department
func (h *Handlers) ListDepartments(c *gin.Context) {
	departments, err := h.doctorService.ListDepartments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, departments)
}
