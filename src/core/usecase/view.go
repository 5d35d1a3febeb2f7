package usecase

import (
	"time"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

// PrescriptionItemView is a prescription line enriched from the joined
// catalog record at read time. Prices are not snapshotted at creation: a
// later catalog price change is reflected in every subsequent read.
type PrescriptionItemView struct {
	MedicineID string  `json:"medicine_id"`
	Qty        int     `json:"qty"`
	Name       *string `json:"name,omitempty"`
	Strength   *string `json:"strength,omitempty"`
	Form       *string `json:"form,omitempty"`
	Unit       *string `json:"unit,omitempty"`
	Price      float64 `json:"price"`
}

// PrescriptionView is the denormalized response shape assembled from a
// prescription, its items, the joined catalog entries, and the doctor and
// patient identity records.
type PrescriptionView struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctor_id"`
	PatientID string `json:"patient_id"`

	DoctorName      *string `json:"doctor_name,omitempty"`
	DoctorLastname  *string `json:"doctor_lastname,omitempty"`
	PatientName     *string `json:"patient_name,omitempty"`
	PatientLastname *string `json:"patient_lastname,omitempty"`
	PatientUsername *string `json:"patient_username,omitempty"`

	Note      *string                `json:"note,omitempty"`
	Status    domain.Status          `json:"status"`
	Total     float64                `json:"total"`
	CreatedAt *string                `json:"createdAt,omitempty"`
	Items     []PrescriptionItemView `json:"items"`
}

// PrescriptionSummary is the lightweight listing shape.
type PrescriptionSummary struct {
	ID        string        `json:"id"`
	Status    domain.Status `json:"status"`
	CreatedAt *string       `json:"createdAt,omitempty"`
	Total     float64       `json:"total"`
	ItemCount int           `json:"item_count"`
}

// composeView is the single place the API response shape is assembled.
func composeView(rx ports.PrescriptionWithRelations) PrescriptionView {
	items := make([]PrescriptionItemView, 0, len(rx.Items))
	total := 0.0
	for _, it := range rx.Items {
		v := PrescriptionItemView{
			MedicineID: it.Item.MedicationID,
			Qty:        it.Item.Amount,
		}
		if m := it.Medicine; m != nil {
			name := m.Name
			v.Name = &name
			v.Strength = m.Strength
			v.Form = m.Form
			v.Unit = m.Unit
			v.Price = m.Price
		}
		total += v.Price * float64(v.Qty)
		items = append(items, v)
	}

	view := PrescriptionView{
		ID:        rx.Prescription.ID,
		DoctorID:  rx.Prescription.DoctorID,
		PatientID: rx.Prescription.PatientID,
		Note:      rx.Prescription.Note,
		Status:    rx.Prescription.Status,
		Total:     total,
		CreatedAt: formatCreatedAt(rx.Prescription.CreatedAt),
		Items:     items,
	}

	if rx.Doctor != nil && rx.Doctor.User != nil {
		view.DoctorName = optional(rx.Doctor.User.Name)
		view.DoctorLastname = optional(rx.Doctor.User.LastName)
	}
	if p := rx.Patient; p != nil {
		if p.UserByID != nil {
			view.PatientName = optional(p.UserByID.Name)
			view.PatientLastname = optional(p.UserByID.LastName)
		}
		// Username precedence: primary link first, hospital-number link as
		// fallback.
		switch {
		case p.UserByID != nil && p.UserByID.Username != "":
			view.PatientUsername = optional(p.UserByID.Username)
		case p.UserByHospitalNo != nil && p.UserByHospitalNo.Username != "":
			view.PatientUsername = optional(p.UserByHospitalNo.Username)
		}
	}

	return view
}

func summarize(rx ports.PrescriptionWithRelations) PrescriptionSummary {
	total := 0.0
	for _, it := range rx.Items {
		if it.Medicine != nil {
			total += it.Medicine.Price * float64(it.Item.Amount)
		}
	}
	return PrescriptionSummary{
		ID:        rx.Prescription.ID,
		Status:    rx.Prescription.Status,
		CreatedAt: formatCreatedAt(rx.Prescription.CreatedAt),
		Total:     total,
		ItemCount: len(rx.Items),
	}
}

// formatCreatedAt normalizes the stored timestamp to RFC 3339, or reports
// absence when the column was null.
func formatCreatedAt(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func clampLimit(limit int) int {
	if limit < domain.MinListLimit {
		return domain.MinListLimit
	}
	if limit > domain.MaxListLimit {
		return domain.MaxListLimit
	}
	return limit
}
