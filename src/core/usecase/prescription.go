package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

// PrescriptionService handles the prescription lifecycle: validated creation
// of the aggregate, status changes, and composed reads.
type PrescriptionService struct {
	repo  ports.PharmacyRepository
	owner *OwnershipValidator
	log   *slog.Logger
}

func NewPrescriptionService(repo ports.PharmacyRepository, owner *OwnershipValidator, log *slog.Logger) *PrescriptionService {
	return &PrescriptionService{repo: repo, owner: owner, log: log}
}

// CreateItemInput is a single requested line. Qty arrives as a float so
// that non-integer values can be rejected instead of silently truncated.
type CreateItemInput struct {
	MedicineID string
	Qty        float64
}

// CreateInput is the creation request for a prescription aggregate.
type CreateInput struct {
	DoctorID  string
	PatientID string
	Note      *string
	Items     []CreateItemInput
}

// Create validates the request, verifies ownership and item references, and
// persists the new aggregate atomically. It returns the new prescription id;
// callers needing the composed view issue a separate read.
func (s *PrescriptionService) Create(ctx context.Context, input CreateInput, subjectID string) (string, error) {
	if strings.TrimSpace(input.DoctorID) == "" {
		return "", domain.NewValidationError("doctor_id", "doctor_id is required")
	}
	if strings.TrimSpace(input.PatientID) == "" {
		return "", domain.NewValidationError("patient_id", "patient_id is required")
	}

	if err := s.owner.AuthorizeCreate(ctx, subjectID, input.DoctorID, input.PatientID); err != nil {
		return "", err
	}

	if len(input.Items) == 0 {
		return "", domain.NewValidationError("items", "items must be a non-empty array")
	}
	for i, it := range input.Items {
		if strings.TrimSpace(it.MedicineID) == "" {
			return "", domain.NewValidationError("items", fmt.Sprintf("item %d: medicine_id is required", i))
		}
		if err := validateQty(it.Qty); err != nil {
			return "", domain.NewValidationError("items", fmt.Sprintf("item %d (%s): %v", i, it.MedicineID, err))
		}
	}

	if unknown, err := s.unknownMedicineIDs(ctx, input.Items); err != nil {
		return "", err
	} else if len(unknown) > 0 {
		return "", domain.NewValidationError("items",
			"unknown medicine ids: "+strings.Join(unknown, ", "))
	}

	now := time.Now().UTC()
	rx := &domain.Prescription{
		ID:        uuid.New().String(),
		DoctorID:  input.DoctorID,
		PatientID: input.PatientID,
		Note:      input.Note,
		Status:    domain.StatusReady,
		CreatedAt: &now,
	}
	for _, it := range input.Items {
		rx.Items = append(rx.Items, domain.PrescriptionItem{
			ID:           uuid.New().String(),
			MedicationID: it.MedicineID,
			Amount:       int(it.Qty),
		})
	}

	if err := s.repo.CreatePrescription(ctx, rx); err != nil {
		return "", err
	}

	s.log.Info("prescription created",
		"prescription_id", rx.ID,
		"patient_id", rx.PatientID,
		"items", len(rx.Items),
	)
	return rx.ID, nil
}

// validateQty enforces that a quantity is a finite integral number in
// [1, MaxItemQty]. Out-of-range values are rejected, never clamped. The
// upper bound keeps the value safely convertible to int; without it a
// huge float would survive validation and overflow the conversion.
func validateQty(qty float64) error {
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return fmt.Errorf("qty must be a finite number")
	}
	if qty != math.Trunc(qty) {
		return fmt.Errorf("qty must be an integer")
	}
	if qty < 1 {
		return fmt.Errorf("qty must be at least 1")
	}
	if qty > domain.MaxItemQty {
		return fmt.Errorf("qty must be at most %d", domain.MaxItemQty)
	}
	return nil
}

// unknownMedicineIDs batch-checks item references against the catalog and
// returns the distinct ids that do not resolve, in request order.
func (s *PrescriptionService) unknownMedicineIDs(ctx context.Context, items []CreateItemInput) ([]string, error) {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.MedicineID] {
			seen[it.MedicineID] = true
			ids = append(ids, it.MedicineID)
		}
	}

	meds, err := s.repo.FindMedicinesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool, len(meds))
	for _, m := range meds {
		found[m.ID] = true
	}

	var unknown []string
	for _, id := range ids {
		if !found[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

// StatusUpdate confirms an applied status change.
type StatusUpdate struct {
	ID     string        `json:"id"`
	Status domain.Status `json:"status"`
}

// UpdateStatus validates and applies a status change. Membership in the
// recognized set is the only rule: any recognized status may be set from any
// other. Concurrent updates to the same prescription race and the later
// write wins.
func (s *PrescriptionService) UpdateStatus(ctx context.Context, id, status string) (*StatusUpdate, error) {
	next := domain.Status(status)
	if !domain.IsKnownStatus(next) {
		return nil, domain.NewValidationError("status", "invalid status")
	}
	if err := s.repo.UpdatePrescriptionStatus(ctx, id, next); err != nil {
		return nil, err
	}
	return &StatusUpdate{ID: id, Status: next}, nil
}

// GetByID returns the composed view of a single prescription.
func (s *PrescriptionService) GetByID(ctx context.Context, id string) (*PrescriptionView, error) {
	rx, err := s.repo.GetPrescription(ctx, id)
	if err != nil {
		return nil, err
	}
	view := composeView(*rx)
	return &view, nil
}

// GetLatestForPatient returns the composed view of the patient's most
// recent prescription: maximum created_at, ties broken by maximum id.
func (s *PrescriptionService) GetLatestForPatient(ctx context.Context, patientID string) (*PrescriptionView, error) {
	rx, err := s.repo.GetLatestForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	view := composeView(*rx)
	return &view, nil
}

// ListForPatient returns lightweight summaries for a patient, newest first,
// truncated to limit. The limit is clamped into [MinListLimit, MaxListLimit]
// before use; the transport layer substitutes DefaultListLimit when the
// caller supplied no usable value at all.
func (s *PrescriptionService) ListForPatient(ctx context.Context, patientID string, limit int) ([]PrescriptionSummary, error) {
	limit = clampLimit(limit)
	rxs, err := s.repo.ListByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]PrescriptionSummary, 0, len(rxs))
	for _, rx := range rxs {
		out = append(out, summarize(rx))
	}
	return out, nil
}
