package usecase

import (
	"context"
	"sort"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

// memRepo is an in-memory PharmacyRepository for exercising the services
// without a database.
type memRepo struct {
	meds     map[string]domain.Medicine
	rxs      map[string]*domain.Prescription
	doctors  map[string]*domain.Doctor
	patients map[string]*domain.Patient

	// captured inputs
	gotListLimit int
}

func newMemRepo() *memRepo {
	return &memRepo{
		meds:     make(map[string]domain.Medicine),
		rxs:      make(map[string]*domain.Prescription),
		doctors:  make(map[string]*domain.Doctor),
		patients: make(map[string]*domain.Patient),
	}
}

func (r *memRepo) Health(ctx context.Context) error { return nil }

func (r *memRepo) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	out := make([]domain.Medicine, 0, len(r.meds))
	for _, m := range r.meds {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memRepo) FindMedicinesByIDs(ctx context.Context, ids []string) ([]domain.Medicine, error) {
	var out []domain.Medicine
	for _, id := range ids {
		if m, ok := r.meds[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memRepo) CreatePrescription(ctx context.Context, rx *domain.Prescription) error {
	cp := *rx
	cp.Items = append([]domain.PrescriptionItem(nil), rx.Items...)
	r.rxs[rx.ID] = &cp
	return nil
}

func (r *memRepo) GetPrescription(ctx context.Context, id string) (*ports.PrescriptionWithRelations, error) {
	rx, ok := r.rxs[id]
	if !ok {
		return nil, domain.NewNotFoundError("prescription")
	}
	return r.expand(rx), nil
}

func (r *memRepo) GetLatestForPatient(ctx context.Context, patientID string) (*ports.PrescriptionWithRelations, error) {
	ordered := r.orderedByPatient(patientID)
	if len(ordered) == 0 {
		return nil, domain.NewNotFoundError("prescription for patient")
	}
	return r.expand(ordered[0]), nil
}

func (r *memRepo) ListByPatient(ctx context.Context, patientID string, limit int) ([]ports.PrescriptionWithRelations, error) {
	r.gotListLimit = limit
	ordered := r.orderedByPatient(patientID)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	out := make([]ports.PrescriptionWithRelations, 0, len(ordered))
	for _, rx := range ordered {
		out = append(out, *r.expand(rx))
	}
	return out, nil
}

func (r *memRepo) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.Status) error {
	rx, ok := r.rxs[id]
	if !ok {
		return domain.NewNotFoundError("prescription")
	}
	rx.Status = status
	return nil
}

func (r *memRepo) PatientOwnedByUser(ctx context.Context, patientID, userID string) (bool, error) {
	p, ok := r.patients[patientID]
	if !ok {
		return false, nil
	}
	return p.UserByID != nil && p.UserByID.ID == userID, nil
}

// orderedByPatient sorts created_at desc, id desc, matching the SQL the
// real repository runs.
func (r *memRepo) orderedByPatient(patientID string) []*domain.Prescription {
	var out []*domain.Prescription
	for _, rx := range r.rxs {
		if rx.PatientID == patientID {
			out = append(out, rx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return a.ID > b.ID
		case a.CreatedAt == nil:
			return false
		case b.CreatedAt == nil:
			return true
		case a.CreatedAt.Equal(*b.CreatedAt):
			return a.ID > b.ID
		default:
			return a.CreatedAt.After(*b.CreatedAt)
		}
	})
	return out
}

func (r *memRepo) expand(rx *domain.Prescription) *ports.PrescriptionWithRelations {
	out := &ports.PrescriptionWithRelations{Prescription: *rx}
	for _, it := range rx.Items {
		iw := ports.ItemWithMedicine{Item: it}
		if m, ok := r.meds[it.MedicationID]; ok {
			med := m
			iw.Medicine = &med
		}
		out.Items = append(out.Items, iw)
	}
	out.Doctor = r.doctors[rx.DoctorID]
	out.Patient = r.patients[rx.PatientID]
	return out
}
