package usecase

import (
	"context"
	"log/slog"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

// CatalogService exposes the read-only medicine catalog.
type CatalogService struct {
	repo ports.PharmacyRepository
	log  *slog.Logger
}

func NewCatalogService(repo ports.PharmacyRepository, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// MedicineView is the catalog entry shape returned to callers. Optional
// columns are omitted when absent; a missing price is reported as 0.
type MedicineView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Strength *string `json:"strength,omitempty"`
	Form     *string `json:"form,omitempty"`
	Unit     *string `json:"unit,omitempty"`
	Price    float64 `json:"price"`
}

// List returns all catalog entries sorted by name ascending.
func (s *CatalogService) List(ctx context.Context) ([]MedicineView, error) {
	meds, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MedicineView, 0, len(meds))
	for _, m := range meds {
		out = append(out, medicineView(m))
	}
	return out, nil
}

func medicineView(m domain.Medicine) MedicineView {
	return MedicineView{
		ID:       m.ID,
		Name:     m.Name,
		Strength: m.Strength,
		Form:     m.Form,
		Unit:     m.Unit,
		Price:    m.Price,
	}
}
