// Package dto defines request payloads for the API.
package dto

// CreatePrescriptionRequest is the payload for POST /api/pharmacy/prescriptions.
// Item quantities bind as floats so non-integer values reach domain
// validation instead of failing JSON binding with a generic error.
type CreatePrescriptionRequest struct {
	DoctorID  string                  `json:"doctor_id"`
	PatientID string                  `json:"patient_id"`
	Note      *string                 `json:"note"`
	Items     []PrescriptionItemEntry `json:"items"`
}

// PrescriptionItemEntry is a single requested line item.
type PrescriptionItemEntry struct {
	MedicineID string  `json:"medicine_id"`
	Qty        float64 `json:"qty"`
}

// UpdateStatusRequest is the payload for PATCH /api/pharmacy/prescriptions/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
