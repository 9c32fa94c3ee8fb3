package patient

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hospitalon/hospital-api/internal/model"
	apperrors "github.com/hospitalon/hospital-api/pkg/errors"
)

type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPatientRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Patient
}

func newMemPatientRepo() *memPatientRepo {
	return &memPatientRepo{items: make(map[uuid.UUID]*model.Patient)}
}

func (r *memPatientRepo) Create(ctx context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	r.items[p.ID] = &copied
	return nil
}

func (r *memPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("patient", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *memPatientRepo) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.Email == email {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

func (r *memPatientRepo) Update(ctx context.Context, p *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	p.UpdatedAt = time.Now()
	copied := *p
	r.items[p.ID] = &copied
	return nil
}

func (r *memPatientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFound("patient", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memPatientRepo) List(ctx context.Context) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Patient, 0, len(r.items))
	for _, p := range r.items {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memPatientRepo) ListByBirthDateRange(ctx context.Context, start, end time.Time) ([]*model.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Patient
	for _, p := range r.items {
		if !p.BirthDate.Before(start) && !p.BirthDate.After(end) {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memPatientRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *memPatientRepo) ExistsByNameAndBirthDate(ctx context.Context, name string, birthDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.Name == name && p.BirthDate.Equal(birthDate) {
			return true, nil
		}
	}
	return false, nil
}

type memInsuranceRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Insurance
}

func newMemInsuranceRepo() *memInsuranceRepo {
	return &memInsuranceRepo{items: make(map[uuid.UUID]*model.Insurance)}
}

func (r *memInsuranceRepo) Create(ctx context.Context, ins *model.Insurance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ins.ID = uuid.New()
	ins.CreatedAt = time.Now()
	ins.UpdatedAt = ins.CreatedAt
	copied := *ins
	r.items[ins.ID] = &copied
	return nil
}

func (r *memInsuranceRepo) Get(ctx context.Context, id uuid.UUID) (*model.Insurance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ins, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("insurance", nil)
	}
	copied := *ins
	return &copied, nil
}

func (r *memInsuranceRepo) GetByPolicyNumber(ctx context.Context, policyNumber string) (*model.Insurance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ins := range r.items {
		if ins.PolicyNumber == policyNumber {
			copied := *ins
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("insurance", nil)
}

func (r *memInsuranceRepo) Update(ctx context.Context, ins *model.Insurance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ins.ID]; !ok {
		return apperrors.NewNotFound("insurance", nil)
	}
	copied := *ins
	r.items[ins.ID] = &copied
	return nil
}

func (r *memInsuranceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFound("insurance", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memInsuranceRepo) ExistsByPolicyNumber(ctx context.Context, policyNumber string) (bool, error) {
	_, err := r.GetByPolicyNumber(ctx, policyNumber)
	return err == nil, nil
}

func (r *memInsuranceRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*model.Insurance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Insurance
	for _, ins := range r.items {
		if ins.ValidUntil.Before(cutoff) {
			copied := *ins
			out = append(out, &copied)
		}
	}
	return out, nil
}

// stubAppointmentRepo only tracks per-patient counts; patient deletion is the
// sole appointment query this package makes.
type stubAppointmentRepo struct {
	counts map[uuid.UUID]int64
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{counts: make(map[uuid.UUID]int64)}
}

func (s *stubAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error { return nil }
func (s *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return nil, apperrors.NewNotFound("appointment", nil)
}
func (s *stubAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error { return nil }
func (s *stubAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }
func (s *stubAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, after time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) CountByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int64, error) {
	return 0, nil
}
func (s *stubAppointmentRepo) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	return s.counts[patientID], nil
}
func (s *stubAppointmentRepo) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	return 0, nil
}
func (s *stubAppointmentRepo) FindInConflictWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) LockDoctor(ctx context.Context, doctorID uuid.UUID) error { return nil }
