// Package repo implements the core repository ports on PostgreSQL.
package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmarx/src/core/domain"
	"pharmarx/src/core/ports"
	"pharmarx/src/infra/db"
)

// PostgresRepository implements PharmacyRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pg.Pool,
		log:  log,
	}
}

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Catalog

func (r *PostgresRepository) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	const q = `
		SELECT id, name, description, strength, unit, price
		FROM medication
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []domain.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, *m)
	}
	return meds, rows.Err()
}

func (r *PostgresRepository) FindMedicinesByIDs(ctx context.Context, ids []string) ([]domain.Medicine, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `
		SELECT id, name, description, strength, unit, price
		FROM medication
		WHERE id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []domain.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, *m)
	}
	return meds, rows.Err()
}

// scanMedicine maps a medication row to the domain shape. All optional-field
// normalization lives here: form is derived from the description column,
// strength is coerced to text whatever the stored representation, and a null
// price becomes 0.
func scanMedicine(row pgx.Row) (*domain.Medicine, error) {
	var (
		m        domain.Medicine
		desc     *string
		strength any
		price    *float64
	)
	if err := row.Scan(&m.ID, &m.Name, &desc, &strength, &m.Unit, &price); err != nil {
		return nil, err
	}
	m.Form = desc
	m.Strength = strengthText(strength)
	if price != nil {
		m.Price = *price
	}
	return &m, nil
}

// strengthText coerces a strength value to its display string. Source rows
// carry either text ("500 mg") or a bare numeric, depending on how the
// catalog was imported.
func strengthText(v any) *string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return &s
	case []byte:
		out := string(s)
		return &out
	case float64:
		out := strconv.FormatFloat(s, 'f', -1, 64)
		return &out
	case int64:
		out := strconv.FormatInt(s, 10)
		return &out
	default:
		out := fmt.Sprint(s)
		return &out
	}
}

// Prescriptions

func (r *PostgresRepository) CreatePrescription(ctx context.Context, rx *domain.Prescription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const headerQ = `
		INSERT INTO prescription (id, doctor_id, patient_id, note, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, headerQ,
		rx.ID, rx.DoctorID, rx.PatientID, rx.Note, rx.Status, rx.CreatedAt,
	); err != nil {
		return err
	}

	const itemQ = `
		INSERT INTO prescription_item (id, prescription_id, medication_id, amount)
		VALUES ($1, $2, $3, $4)
	`
	for _, it := range rx.Items {
		if _, err := tx.Exec(ctx, itemQ, it.ID, rx.ID, it.MedicationID, it.Amount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) GetPrescription(ctx context.Context, id string) (*ports.PrescriptionWithRelations, error) {
	const q = `
		SELECT id, doctor_id, patient_id, note, status, created_at
		FROM prescription
		WHERE id = $1
	`
	var rx domain.Prescription
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&rx.ID, &rx.DoctorID, &rx.PatientID, &rx.Note, &rx.Status, &rx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("prescription")
		}
		return nil, err
	}
	return r.expand(ctx, rx)
}

func (r *PostgresRepository) GetLatestForPatient(ctx context.Context, patientID string) (*ports.PrescriptionWithRelations, error) {
	const q = `
		SELECT id
		FROM prescription
		WHERE patient_id = $1
		ORDER BY created_at DESC NULLS LAST, id DESC
		LIMIT 1
	`
	var id string
	if err := r.pool.QueryRow(ctx, q, patientID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("prescription for patient")
		}
		return nil, err
	}
	return r.GetPrescription(ctx, id)
}

// ListByPatient loads the page of headers and then all their items in one
// batched join. Doctor and patient identity links are not loaded here;
// listing reads never use them.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]ports.PrescriptionWithRelations, error) {
	const q = `
		SELECT id, doctor_id, patient_id, note, status, created_at
		FROM prescription
		WHERE patient_id = $1
		ORDER BY created_at DESC NULLS LAST, id DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, q, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var headers []domain.Prescription
	for rows.Next() {
		var rx domain.Prescription
		if err := rows.Scan(&rx.ID, &rx.DoctorID, &rx.PatientID, &rx.Note, &rx.Status, &rx.CreatedAt); err != nil {
			return nil, err
		}
		headers = append(headers, rx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(headers))
	for _, rx := range headers {
		ids = append(ids, rx.ID)
	}
	itemsByRx, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.PrescriptionWithRelations, 0, len(headers))
	for _, rx := range headers {
		items := itemsByRx[rx.ID]
		for _, iw := range items {
			rx.Items = append(rx.Items, iw.Item)
		}
		out = append(out, ports.PrescriptionWithRelations{
			Prescription: rx,
			Items:        items,
		})
	}
	return out, nil
}

// loadItems fetches the lines of every listed prescription in a single
// query, joined with their catalog entries, keyed by prescription id.
func (r *PostgresRepository) loadItems(ctx context.Context, prescriptionIDs []string) (map[string][]ports.ItemWithMedicine, error) {
	const q = `
		SELECT pi.prescription_id, pi.id, pi.medication_id, pi.amount,
		       m.id, m.name, m.description, m.strength, m.unit, m.price
		FROM prescription_item pi
		LEFT JOIN medication m ON m.id = pi.medication_id
		WHERE pi.prescription_id = ANY($1)
		ORDER BY pi.id
	`
	rows, err := r.pool.Query(ctx, q, prescriptionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRx := make(map[string][]ports.ItemWithMedicine, len(prescriptionIDs))
	for rows.Next() {
		var (
			rxID     string
			it       domain.PrescriptionItem
			medID    *string
			medName  *string
			desc     *string
			strength any
			unit     *string
			price    *float64
		)
		if err := rows.Scan(&rxID, &it.ID, &it.MedicationID, &it.Amount,
			&medID, &medName, &desc, &strength, &unit, &price); err != nil {
			return nil, err
		}
		iw := ports.ItemWithMedicine{Item: it}
		if medID != nil {
			m := domain.Medicine{
				ID:       *medID,
				Strength: strengthText(strength),
				Form:     desc,
				Unit:     unit,
			}
			if medName != nil {
				m.Name = *medName
			}
			if price != nil {
				m.Price = *price
			}
			iw.Medicine = &m
		}
		byRx[rxID] = append(byRx[rxID], iw)
	}
	return byRx, rows.Err()
}

// UpdatePrescriptionStatus is a single-row write with no concurrency token;
// the later of two racing updates wins.
func (r *PostgresRepository) UpdatePrescriptionStatus(ctx context.Context, id string, status domain.Status) error {
	const q = `
		UPDATE prescription
		SET status = $2
		WHERE id = $1
	`
	res, err := r.pool.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.NewNotFoundError("prescription")
	}
	return nil
}

// Identity links

func (r *PostgresRepository) PatientOwnedByUser(ctx context.Context, patientID, userID string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM patient
			WHERE id = $1 AND user_id = $2
		)
	`
	var owned bool
	if err := r.pool.QueryRow(ctx, q, patientID, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

// expand joins the prescription header with its items, their catalog
// entries, and the doctor and patient identity records.
func (r *PostgresRepository) expand(ctx context.Context, rx domain.Prescription) (*ports.PrescriptionWithRelations, error) {
	out := &ports.PrescriptionWithRelations{Prescription: rx}

	const itemsQ = `
		SELECT pi.id, pi.medication_id, pi.amount,
		       m.id, m.name, m.description, m.strength, m.unit, m.price
		FROM prescription_item pi
		LEFT JOIN medication m ON m.id = pi.medication_id
		WHERE pi.prescription_id = $1
		ORDER BY pi.id
	`
	rows, err := r.pool.Query(ctx, itemsQ, rx.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it       domain.PrescriptionItem
			medID    *string
			medName  *string
			desc     *string
			strength any
			unit     *string
			price    *float64
		)
		if err := rows.Scan(&it.ID, &it.MedicationID, &it.Amount,
			&medID, &medName, &desc, &strength, &unit, &price); err != nil {
			return nil, err
		}
		iw := ports.ItemWithMedicine{Item: it}
		if medID != nil {
			m := domain.Medicine{
				ID:       *medID,
				Strength: strengthText(strength),
				Form:     desc,
				Unit:     unit,
			}
			if medName != nil {
				m.Name = *medName
			}
			if price != nil {
				m.Price = *price
			}
			iw.Medicine = &m
		}
		out.Items = append(out.Items, iw)
		out.Prescription.Items = append(out.Prescription.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	doctor, err := r.loadDoctor(ctx, rx.DoctorID)
	if err != nil {
		return nil, err
	}
	out.Doctor = doctor

	patient, err := r.loadPatient(ctx, rx.PatientID)
	if err != nil {
		return nil, err
	}
	out.Patient = patient

	return out, nil
}

func (r *PostgresRepository) loadDoctor(ctx context.Context, doctorID string) (*domain.Doctor, error) {
	const q = `
		SELECT d.id, u.id, u.name, u.lastname, u.username
		FROM doctor d
		LEFT JOIN users u ON u.id = d.user_id
		WHERE d.id = $1
	`
	var (
		d      domain.Doctor
		userID *string
		name   *string
		last   *string
		uname  *string
	)
	err := r.pool.QueryRow(ctx, q, doctorID).Scan(&d.ID, &userID, &name, &last, &uname)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if userID != nil {
		d.User = newUserIdentity(*userID, name, last, uname)
	}
	return &d, nil
}

func (r *PostgresRepository) loadPatient(ctx context.Context, patientID string) (*domain.Patient, error) {
	const q = `
		SELECT p.id,
		       u1.id, u1.name, u1.lastname, u1.username,
		       u2.id, u2.name, u2.lastname, u2.username
		FROM patient p
		LEFT JOIN users u1 ON u1.id = p.user_id
		LEFT JOIN users u2 ON u2.id = p.hospital_number
		WHERE p.id = $1
	`
	var (
		p                         domain.Patient
		id1, name1, last1, uname1 *string
		id2, name2, last2, uname2 *string
	)
	err := r.pool.QueryRow(ctx, q, patientID).Scan(&p.ID,
		&id1, &name1, &last1, &uname1,
		&id2, &name2, &last2, &uname2,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if id1 != nil {
		p.UserByID = newUserIdentity(*id1, name1, last1, uname1)
	}
	if id2 != nil {
		p.UserByHospitalNo = newUserIdentity(*id2, name2, last2, uname2)
	}
	return &p, nil
}

func newUserIdentity(id string, name, last, username *string) *domain.UserIdentity {
	u := &domain.UserIdentity{ID: id}
	if name != nil {
		u.Name = *name
	}
	if last != nil {
		u.LastName = *last
	}
	if username != nil {
		u.Username = *username
	}
	return u
}
