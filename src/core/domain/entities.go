package domain

import "time"

// Status represents the lifecycle state of a prescription.
type Status string

const (
	StatusReady           Status = "ready"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusCancelled       Status = "cancelled"
	StatusUnpaid          Status = "unpaid"
)

// KnownStatuses is the recognized status set. Any recognized status may be
// set from any other; there is no transition graph.
var KnownStatuses = map[Status]bool{
	StatusReady:           true,
	StatusAwaitingPayment: true,
	StatusPaid:            true,
	StatusCancelled:       true,
	StatusUnpaid:          true,
}

// IsKnownStatus reports whether s is in the recognized status set.
func IsKnownStatus(s Status) bool {
	return KnownStatuses[s]
}

// Medicine is a read-only catalog entry. Strength, Form and Unit are
// optional; Form is derived from the catalog description column. A missing
// price is represented as 0.
type Medicine struct {
	ID       string
	Name     string
	Strength *string
	Form     *string
	Unit     *string
	Price    float64
}

// Prescription is the aggregate header plus its ordered line items.
// Items are non-empty at creation time and immutable afterwards; only the
// status field changes over the lifetime of a prescription.
type Prescription struct {
	ID        string
	DoctorID  string
	PatientID string
	Note      *string
	Status    Status
	CreatedAt *time.Time
	Items     []PrescriptionItem
}

// PrescriptionItem is a single line of a prescription. Amount is a positive
// integer; MedicationID references an existing catalog entry at creation
// time (catalog entries are never deleted, only edited).
type PrescriptionItem struct {
	ID           string
	MedicationID string
	Amount       int
}

// UserIdentity is the user account record carrying display names.
type UserIdentity struct {
	ID       string
	Name     string
	LastName string
	Username string
}

// Doctor links a doctor business identifier to a user account.
type Doctor struct {
	ID   string
	User *UserIdentity
}

// Patient links a patient business identifier to a user account via one or
// two join keys: the primary user id and a secondary hospital-number key.
// When both resolve, the primary link wins for display purposes.
type Patient struct {
	ID               string
	UserByID         *UserIdentity
	UserByHospitalNo *UserIdentity
}
