// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"pharmarx/src/core/domain"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add entity-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// ItemWithMedicine bundles a prescription line with its joined catalog entry.
// Medicine is nil when the referenced catalog row no longer resolves; read
// composition treats that as an unenriched line with price 0.
type ItemWithMedicine struct {
	Item     domain.PrescriptionItem
	Medicine *domain.Medicine
}

// PrescriptionWithRelations is a stored prescription expanded with every
// record read composition needs: line items joined with their catalog
// entries, the doctor's linked user, and the patient's linked users.
type PrescriptionWithRelations struct {
	Prescription domain.Prescription
	Items        []ItemWithMedicine
	Doctor       *domain.Doctor
	Patient      *domain.Patient
}

// PharmacyRepository covers all persistence operations of the prescription
// core: the read-only medicine catalog, the prescription aggregate, and the
// identity links used for ownership checks and view composition.
type PharmacyRepository interface {
	Repository

	// Catalog (read-only)
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	// FindMedicinesByIDs returns the subset of catalog entries whose id is
	// in ids. Used for existence checks during creation, not for read
	// enrichment.
	FindMedicinesByIDs(ctx context.Context, ids []string) ([]domain.Medicine, error)

	// Prescriptions
	//
	// CreatePrescription persists the header and all items atomically:
	// either every item is stored with the header, or nothing is stored.
	CreatePrescription(ctx context.Context, rx *domain.Prescription) error
	GetPrescription(ctx context.Context, id string) (*PrescriptionWithRelations, error)
	// GetLatestForPatient returns the patient's prescription with the
	// maximum created_at, breaking ties by maximum id.
	GetLatestForPatient(ctx context.Context, patientID string) (*PrescriptionWithRelations, error)
	// ListByPatient returns up to limit prescriptions for the patient with
	// their items joined, ordered created_at desc, id desc. The caller
	// clamps limit. Doctor and patient identity links may be omitted;
	// listing consumers must not rely on them.
	ListByPatient(ctx context.Context, patientID string, limit int) ([]PrescriptionWithRelations, error)
	// UpdatePrescriptionStatus mutates only the status column. Two
	// concurrent updates race and the later write wins; there is no
	// conflict signal to the loser.
	UpdatePrescriptionStatus(ctx context.Context, id string, status domain.Status) error

	// Identity links
	//
	// PatientOwnedByUser reports whether the patient record's primary user
	// link equals userID.
	PatientOwnedByUser(ctx context.Context, patientID, userID string) (bool, error)
}
