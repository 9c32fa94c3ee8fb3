package appointment

import (
	"context"
	"sort"
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

type memAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*model.Appointment
	seq   map[uuid.UUID]int
	next  int
}

func newMemAppointmentRepo() *memAppointmentRepo {
	return &memAppointmentRepo{
		items: make(map[uuid.UUID]*model.Appointment),
		seq:   make(map[uuid.UUID]int),
	}
}

func (r *memAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	r.items[apt.ID] = apt
	r.seq[apt.ID] = r.next
	r.next++
	return nil
}

func (r *memAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFound("appointment", nil)
	}
	copied := *apt
	return &copied, nil
}

func (r *memAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[apt.ID]; !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	apt.UpdatedAt = time.Now()
	copied := *apt
	r.items[apt.ID] = &copied
	return nil
}

func (r *memAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFound("appointment", nil)
	}
	delete(r.items, id)
	return nil
}

func (r *memAppointmentRepo) all() []*model.Appointment {
	out := make([]*model.Appointment, 0, len(r.items))
	for _, apt := range r.items {
		copied := *apt
		out = append(out, &copied)
	}
	return out
}

func (r *memAppointmentRepo) sortAsc(list []*model.Appointment) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].AppointmentTime.Equal(list[j].AppointmentTime) {
			return list[i].AppointmentTime.Before(list[j].AppointmentTime)
		}
		return r.seq[list[i].ID] < r.seq[list[j].ID]
	})
}

func (r *memAppointmentRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if apt.PatientID == patientID {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *memAppointmentRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if apt.DoctorID == doctorID {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	return out, nil
}

func (r *memAppointmentRepo) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if !apt.AppointmentTime.Before(start) && !apt.AppointmentTime.After(end) {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	return out, nil
}

func (r *memAppointmentRepo) ListByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if apt.DoctorID == doctorID && !apt.AppointmentTime.Before(start) && !apt.AppointmentTime.After(end) {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	return out, nil
}

func (r *memAppointmentRepo) ListUpcomingByPatient(ctx context.Context, patientID uuid.UUID, after time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if apt.PatientID == patientID && apt.AppointmentTime.After(after) {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	return out, nil
}

func (r *memAppointmentRepo) CountByDoctorAndTimeRange(ctx context.Context, doctorID uuid.UUID, start, end time.Time) (int64, error) {
	list, err := r.ListByDoctorAndTimeRange(ctx, doctorID, start, end)
	return int64(len(list)), err
}

func (r *memAppointmentRepo) CountByPatient(ctx context.Context, patientID uuid.UUID) (int64, error) {
	list, err := r.ListByPatient(ctx, patientID)
	return int64(len(list)), err
}

func (r *memAppointmentRepo) CountByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	list, err := r.ListByDoctor(ctx, doctorID)
	return int64(len(list)), err
}

func (r *memAppointmentRepo) FindInConflictWindow(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range r.all() {
		if apt.DoctorID == doctorID && apt.AppointmentTime.After(from) && apt.AppointmentTime.Before(to) {
			out = append(out, apt)
		}
	}
	r.sortAsc(out)
	return out, nil
}

func (r *memAppointmentRepo) LockDoctor(ctx context.Context, doctorID uuid.UUID) error {
	return nil
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
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.items[p.ID] = p
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
	if err != nil {
		return false, nil
	}
	return true, nil
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
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.items[d.ID] = d
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
	if err != nil {
		return false, nil
	}
	return true, nil
}

type memOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func newMemOutboxRepo() *memOutboxRepo {
	return &memOutboxRepo{}
}

func (r *memOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	r.events = append(r.events, event)
	return nil
}

func (r *memOutboxRepo) GetPendingWithLock(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if e.Status == model.OutboxStatusPending && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memOutboxRepo) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = model.OutboxStatusProcessed
			now := time.Now()
			e.ProcessedAt = &now
			return nil
		}
	}
	return apperrors.NewNotFound("outbox event", nil)
}

func (r *memOutboxRepo) MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, retryAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == id {
			e.Status = model.OutboxStatusFailed
			e.ErrorMessage = &errorMessage
			e.RetryAt = retryAt
			e.RetryCount++
			return nil
		}
	}
	return apperrors.NewNotFound("outbox event", nil)
}

func (r *memOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*model.OutboxEvent
	var deleted int64
	for _, e := range r.events {
		if e.Status == model.OutboxStatusProcessed && e.ProcessedAt != nil && e.ProcessedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return deleted, nil
}

func (r *memOutboxRepo) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type recordingNotifier struct {
	mu        sync.Mutex
	scheduled []uuid.UUID
	cancelled []uuid.UUID
}

func (n *recordingNotifier) AppointmentScheduled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.scheduled = append(n.scheduled, apt.ID)
	return nil
}

func (n *recordingNotifier) AppointmentCancelled(ctx context.Context, patient *model.Patient, doctor *model.Doctor, apt *model.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, apt.ID)
	return nil
}
