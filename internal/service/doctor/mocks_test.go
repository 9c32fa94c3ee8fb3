package doctor

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

type memDoctorRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Doctor
}

func newMemDoctorRepo() *memDoctorRepo {
	return &memDoctorRepo{items: make(map[uuid.UUID]*model.Doctor)}
}

func (r *memDoctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	copied := *d
	r.items[d.ID] = &copied
	return nil
}

func (r *memDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("doctor", nil)
	}
	copied := *d
	return &copied, nil
}

func (r *memDoctorRepo) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.Email == email {
			copied := *d
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("doctor", nil)
}

func (r *memDoctorRepo) Update(ctx context.Context, d *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return apperrors.NewNotFound("doctor", nil)
	}
	copied := *d
	r.items[d.ID] = &copied
	return nil
}

func (r *memDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFound("doctor", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memDoctorRepo) List(ctx context.Context) ([]*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Doctor, 0, len(r.items))
	for _, d := range r.items {
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memDoctorRepo) ListBySpecialization(ctx context.Context, specialization string) ([]*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Doctor
	for _, d := range r.items {
		if d.Specialization == specialization {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memDoctorRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

type membership struct {
	departmentID uuid.UUID
	doctorID     uuid.UUID
}

type memDepartmentRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]*model.Department
	members map[membership]bool
}

func newMemDepartmentRepo() *memDepartmentRepo {
	return &memDepartmentRepo{
		items:   make(map[uuid.UUID]*model.Department),
		members: make(map[membership]bool),
	}
}

func (r *memDepartmentRepo) Create(ctx context.Context, d *model.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	copied := *d
	r.items[d.ID] = &copied
	return nil
}

func (r *memDepartmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("department", nil)
	}
	copied := *d
	return &copied, nil
}

func (r *memDepartmentRepo) GetByName(ctx context.Context, name string) (*model.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.Name == name {
			copied := *d
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("department", nil)
}

func (r *memDepartmentRepo) Update(ctx context.Context, d *model.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return apperrors.NewNotFound("department", nil)
	}
	copied := *d
	r.items[d.ID] = &copied
	return nil
}

func (r *memDepartmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFound("department", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memDepartmentRepo) List(ctx context.Context) ([]*model.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Department, 0, len(r.items))
	for _, d := range r.items {
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memDepartmentRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByName(ctx, name)
	return err == nil, nil
}

func (r *memDepartmentRepo) AddMember(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[membership{departmentID, doctorID}] = true
	return nil
}

func (r *memDepartmentRepo) RemoveMember(ctx context.Context, departmentID, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, membership{departmentID, doctorID})
	return nil
}

func (r *memDepartmentRepo) IsMember(ctx context.Context, departmentID, doctorID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.members[membership{departmentID, doctorID}], nil
}

func (r *memDepartmentRepo) ListMembers(ctx context.Context, departmentID uuid.UUID) ([]*model.Doctor, error) {
	return nil, nil
}

func (r *memDepartmentRepo) CountMembers(ctx context.Context, departmentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for m := range r.members {
		if m.departmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *memDepartmentRepo) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Department
	for m := range r.members {
		if m.doctorID == doctorID {
			if d, ok := r.items[m.departmentID]; ok {
				copied := *d
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (r *memDepartmentRepo) RemoveDoctorFromAll(ctx context.Context, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for m := range r.members {
		if m.doctorID == doctorID {
			delete(r.members, m)
		}
	}
	return nil
}

func (r *memDepartmentRepo) ClearHeadDoctor(ctx context.Context, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.HeadDoctorID != nil && *d.HeadDoctorID == doctorID {
			d.HeadDoctorID = nil
		}
	}
	return nil
}

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
	return 0, nil
}
func (s *stubAppointmentRepo) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	return s.counts[doctorID], nil
}
func (s *stubAppointmentRepo) FindInConflictWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	return nil, nil
}
func (s *stubAppointmentRepo) LockDoctor(ctx context.Context, doctorID uuid.UUID) error { return nil }
