package doctor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	gocache "github.com/patrickmn/go-cache"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/schedule"
)

var (
	// ErrAlreadyExists means the email is taken; callers must not read it
	// as a transient failure.
	ErrAlreadyExists = errors.New("doctor already exists")
	ErrNotFound      = errors.New("doctor not found")
)

type Service struct {
	repo         repository.DoctorRepository
	appointments repository.AppointmentRepository
	// cache holds doctor profiles by id; invalidated on every write.
	cache *gocache.Cache
}

func NewService(repo repository.DoctorRepository, appointments repository.AppointmentRepository) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		cache:        gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Service) Create(ctx context.Context, doctor *model.Doctor) error {
	if len(doctor.AvailableTimes) == 0 {
		doctor.AvailableTimes = append([]string(nil), schedule.Catalog...)
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

// Get returns a private copy of the profile; callers may edit it freely
// without those edits leaking to other readers through the cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return copyDoctor(cached.(*model.Doctor)), nil
	}

	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	s.cache.SetDefault(id.String(), copyDoctor(doctor))
	return copyDoctor(doctor), nil
}

func copyDoctor(d *model.Doctor) *model.Doctor {
	copied := *d
	copied.AvailableTimes = append(pq.StringArray(nil), d.AvailableTimes...)
	return &copied
}

// GetByEmail resolves the profile behind a credential subject.
func (s *Service) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	doctor, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, doctor *model.Doctor) error {
	if err := s.repo.Update(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	s.cache.Delete(doctor.ID.String())
	return nil
}

// Delete removes the doctor and every appointment booked with them.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.appointments.DeleteAllForDoctor(ctx, id); err != nil {
		return fmt.Errorf("failed to delete doctor appointments: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	s.cache.Delete(id.String())
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.List(ctx)
}

// predicate is one active search criterion.
type predicate func(*model.Doctor) bool

// Filter lists doctors matching every criterion present in f. Criteria
// compose as a predicate chain, so any combination of name, specialty and
// AM/PM period works without enumerating the combinations.
func (s *Service) Filter(ctx context.Context, f model.DoctorFilter) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	preds := buildPredicates(f)
	matched := make([]*model.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if matchesAll(d, preds) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

func buildPredicates(f model.DoctorFilter) []predicate {
	var preds []predicate

	if f.Name != "" {
		name := strings.ToLower(f.Name)
		preds = append(preds, func(d *model.Doctor) bool {
			return strings.Contains(strings.ToLower(d.Name), name)
		})
	}
	if f.Specialty != "" {
		preds = append(preds, func(d *model.Doctor) bool {
			return strings.EqualFold(d.Specialty, f.Specialty)
		})
	}
	if f.Period != "" {
		period := strings.ToLower(f.Period)
		preds = append(preds, func(d *model.Doctor) bool {
			for _, slot := range d.AvailableTimes {
				if slotPeriod(slot) == period {
					return true
				}
			}
			return false
		})
	}
	return preds
}

func matchesAll(d *model.Doctor, preds []predicate) bool {
	for _, p := range preds {
		if !p(d) {
			return false
		}
	}
	return true
}

func slotPeriod(slot string) string {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return ""
	}
	if t.Hour() < 12 {
		return "am"
	}
	return "pm"
}
