package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/auth"
)

var (
	// ErrAlreadyExists means the email or phone number is already
	// registered to another patient.
	ErrAlreadyExists = errors.New("patient already exists")
	ErrNotFound      = errors.New("patient not found")
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Register creates a patient account. Uniqueness runs across both email and
// phone so one person cannot hold two accounts under different addresses.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	taken, err := s.repo.ExistsByEmailOrPhone(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to check patient uniqueness: %w", err)
	}
	if taken {
		return nil, ErrAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// GetByEmail resolves the profile behind a credential subject.
func (s *Service) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	patient, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}
