package usecase

import (
	"context"
	"log/slog"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

// OwnershipValidator decides whether the authenticated subject may create a
// prescription for a given doctor/patient pair.
//
// Active policy: patient-linked-user. The subject must be the user account
// linked to the patient record by its primary user id. The alternative
// doctor-identity policy (subject == doctor id) is intentionally not
// implemented; exactly one policy is active and it is not data-driven.
type OwnershipValidator struct {
	repo ports.PharmacyRepository
	log  *slog.Logger
}

func NewOwnershipValidator(repo ports.PharmacyRepository, log *slog.Logger) *OwnershipValidator {
	return &OwnershipValidator{repo: repo, log: log}
}

// AuthorizeCreate fails with a forbidden error unless subjectID is the user
// account linked to patientID. The doctor id takes no part in the decision
// under the active policy.
func (v *OwnershipValidator) AuthorizeCreate(ctx context.Context, subjectID, doctorID, patientID string) error {
	if subjectID == "" {
		return domain.NewUnauthorizedError("missing authenticated subject")
	}
	owned, err := v.repo.PatientOwnedByUser(ctx, patientID, subjectID)
	if err != nil {
		return err
	}
	if !owned {
		v.log.Warn("prescription create denied",
			"subject_id", subjectID,
			"patient_id", patientID,
		)
		return domain.NewForbiddenError("you do not own this prescription")
	}
	return nil
}
