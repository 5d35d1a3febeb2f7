package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
)

func TestComposeViewIdentityFields(t *testing.T) {
	created := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	rx := ports.PrescriptionWithRelations{
		Prescription: domain.Prescription{
			ID:        "rx-1",
			DoctorID:  "doc-1",
			PatientID: "patient-1",
			Status:    domain.StatusReady,
			CreatedAt: &created,
		},
		Doctor: &domain.Doctor{
			ID:   "doc-1",
			User: &domain.UserIdentity{ID: "u-d", Name: "Gregory", LastName: "House"},
		},
		Patient: &domain.Patient{
			ID:       "patient-1",
			UserByID: &domain.UserIdentity{ID: "u-p", Name: "John", LastName: "Doe", Username: "jdoe"},
			UserByHospitalNo: &domain.UserIdentity{
				ID: "u-hn", Name: "Johnny", LastName: "D", Username: "hn-4711",
			},
		},
	}

	view := composeView(rx)
	require.Equal(t, "rx-1", view.ID)
	require.Equal(t, "Gregory", *view.DoctorName)
	require.Equal(t, "House", *view.DoctorLastname)
	require.Equal(t, "John", *view.PatientName)
	require.Equal(t, "Doe", *view.PatientLastname)
	// Primary link takes precedence over the hospital-number link.
	require.Equal(t, "jdoe", *view.PatientUsername)
	require.Equal(t, "2024-05-10T08:30:00Z", *view.CreatedAt)
}

func TestComposeViewUsernameFallsBackToHospitalNumberLink(t *testing.T) {
	rx := ports.PrescriptionWithRelations{
		Prescription: domain.Prescription{ID: "rx-2", PatientID: "patient-1", Status: domain.StatusReady},
		Patient: &domain.Patient{
			ID:               "patient-1",
			UserByID:         &domain.UserIdentity{ID: "u-p", Name: "John"},
			UserByHospitalNo: &domain.UserIdentity{ID: "u-hn", Username: "hn-4711"},
		},
	}

	view := composeView(rx)
	require.Equal(t, "hn-4711", *view.PatientUsername)
}

func TestComposeViewMissingRelations(t *testing.T) {
	rx := ports.PrescriptionWithRelations{
		Prescription: domain.Prescription{ID: "rx-3", Status: domain.StatusReady},
		Items: []ports.ItemWithMedicine{
			// No joined catalog record: unenriched line, price 0.
			{Item: domain.PrescriptionItem{ID: "it-1", MedicationID: "med_gone", Amount: 3}},
		},
	}

	view := composeView(rx)
	require.Nil(t, view.DoctorName)
	require.Nil(t, view.PatientUsername)
	require.Nil(t, view.CreatedAt)
	require.Len(t, view.Items, 1)
	require.Nil(t, view.Items[0].Name)
	require.Zero(t, view.Items[0].Price)
	require.Zero(t, view.Total)
}

func TestSummarizeWithoutIdentityRelations(t *testing.T) {
	// Listing reads skip the doctor/patient joins; summaries must not
	// depend on them.
	created := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	rx := ports.PrescriptionWithRelations{
		Prescription: domain.Prescription{ID: "rx-5", Status: domain.StatusPaid, CreatedAt: &created},
		Items: []ports.ItemWithMedicine{
			{
				Item:     domain.PrescriptionItem{ID: "it-1", MedicationID: "med_amoxicillin_500", Amount: 2},
				Medicine: &domain.Medicine{ID: "med_amoxicillin_500", Name: "Amoxicillin", Price: 5.5},
			},
		},
	}

	s := summarize(rx)
	require.Equal(t, "rx-5", s.ID)
	require.Equal(t, domain.StatusPaid, s.Status)
	require.Equal(t, 1, s.ItemCount)
	require.InDelta(t, 11.0, s.Total, 1e-9)
	require.Equal(t, "2024-05-10T08:30:00Z", *s.CreatedAt)
}

func TestComposeViewTotalTreatsMissingPriceAsZero(t *testing.T) {
	price := 7.0
	rx := ports.PrescriptionWithRelations{
		Prescription: domain.Prescription{ID: "rx-4", Status: domain.StatusReady},
		Items: []ports.ItemWithMedicine{
			{
				Item:     domain.PrescriptionItem{ID: "it-1", MedicationID: "med_omeprazole_20", Amount: 2},
				Medicine: &domain.Medicine{ID: "med_omeprazole_20", Name: "Omeprazole", Price: price},
			},
			{
				Item:     domain.PrescriptionItem{ID: "it-2", MedicationID: "med_free", Amount: 5},
				Medicine: &domain.Medicine{ID: "med_free", Name: "Sample"},
			},
		},
	}

	view := composeView(rx)
	require.InDelta(t, 14.0, view.Total, 1e-9)
}
