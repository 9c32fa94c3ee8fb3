package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotDuration is the fixed appointment length used for conflict detection.
// TODO: make this a per-appointment field once variable-length visits land.
const SlotDuration = 30 * time.Minute

// window is the busy interval around an appointment time.
type window struct {
	start time.Time
	end   time.Time
}

func conflictWindow(t time.Time) window {
	return window{start: t.Add(-SlotDuration), end: t.Add(SlotDuration)}
}

// overlaps reports whether two windows share more than a single instant.
// Windows that only touch at a boundary (appointments exactly one hour
// apart) do not conflict.
func (w window) overlaps(other window) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// IsDoctorAvailable reports whether booking the doctor at the given time
// would conflict with any other committed appointment. The appointment with
// excludeID, when set, is ignored so an existing booking can be re-checked
// against its own slot while being moved.
func (s *Service) IsDoctorAvailable(ctx context.Context, doctorID uuid.UUID, at time.Time, excludeID *uuid.UUID) (bool, error) {
	candidate := conflictWindow(at)

	// Fetch every appointment whose own window could reach the candidate's.
	existing, err := s.repo.FindInConflictWindow(ctx, doctorID,
		candidate.start.Add(-SlotDuration),
		candidate.end.Add(SlotDuration),
	)
	if err != nil {
		return false, fmt.Errorf("failed to load doctor schedule: %w", err)
	}

	for _, apt := range existing {
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if candidate.overlaps(conflictWindow(apt.AppointmentTime)) {
			return false, nil
		}
	}
	return true, nil
}
