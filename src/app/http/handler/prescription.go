package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pharmarx/src/app/http/dto"
	"pharmarx/src/app/http/response"
	"pharmarx/src/app/middleware"
	"pharmarx/src/core/domain"
	"pharmarx/src/core/usecase"
)

// PrescriptionHandler handles prescription lifecycle endpoints.
type PrescriptionHandler struct {
	prescriptionService *usecase.PrescriptionService
}

func NewPrescriptionHandler(prescriptionService *usecase.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptionService: prescriptionService}
}

// Create validates and persists a new prescription aggregate.
// POST /api/pharmacy/prescriptions
func (h *PrescriptionHandler) Create(c *gin.Context) {
	var req dto.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	input := usecase.CreateInput{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Note:      req.Note,
	}
	for _, it := range req.Items {
		input.Items = append(input.Items, usecase.CreateItemInput{
			MedicineID: it.MedicineID,
			Qty:        it.Qty,
		})
	}

	id, err := h.prescriptionService.Create(c.Request.Context(), input, middleware.GetSubject(c))
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}

	response.Created(c, gin.H{"id": id})
}

// Get returns the composed view of a prescription.
// GET /api/pharmacy/prescriptions/:id
func (h *PrescriptionHandler) Get(c *gin.Context) {
	view, err := h.prescriptionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, view)
}

// UpdateStatus applies a status change to an existing prescription.
// PATCH /api/pharmacy/prescriptions/:id/status
func (h *PrescriptionHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "missing status", middleware.GetRequestID(c))
		return
	}

	result, err := h.prescriptionService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, result)
}

// Latest returns the composed view of the patient's most recent prescription.
// GET /api/pharmacy/patients/:patient_id/prescriptions/latest
func (h *PrescriptionHandler) Latest(c *gin.Context) {
	view, err := h.prescriptionService.GetLatestForPatient(c.Request.Context(), c.Param("patient_id"))
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, view)
}

// ListForPatient returns lightweight summaries for a patient, newest first.
// GET /api/pharmacy/patients/:patient_id/prescriptions?limit=N
func (h *PrescriptionHandler) ListForPatient(c *gin.Context) {
	// Absent or non-numeric limit falls back to the default; numeric values
	// are clamped by the service.
	limit := domain.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	summaries, err := h.prescriptionService.ListForPatient(c.Request.Context(), c.Param("patient_id"), limit)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, gin.H{"items": summaries})
}
