package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

// ErrInvalidCredentials covers both unknown identities and wrong passwords
// so a caller cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

const bcryptCost = 12

type Service struct {
	admins   repository.AdminRepository
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
	tokens   *token.Service
}

func NewService(
	admins repository.AdminRepository,
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	tokens *token.Service,
) *Service {
	return &Service{
		admins:   admins,
		doctors:  doctors,
		patients: patients,
		tokens:   tokens,
	}
}

func (s *Service) LoginAdmin(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		return nil, loginErr(err)
	}
	return s.grant(admin.Username, admin.PasswordHash, password, model.RoleAdmin)
}

func (s *Service) LoginDoctor(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return nil, loginErr(err)
	}
	return s.grant(doctor.Email, doctor.PasswordHash, password, model.RoleDoctor)
}

func (s *Service) LoginPatient(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	patient, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		return nil, loginErr(err)
	}
	return s.grant(patient.Email, patient.PasswordHash, password, model.RolePatient)
}

func (s *Service) grant(subject, hash, password string, role model.Role) (*model.TokenResponse, error) {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	credential, err := s.tokens.Issue(subject, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &model.TokenResponse{AccessToken: credential, Role: role}, nil
}

// HashPassword is used by registration and seeding paths.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func loginErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("failed to load account: %w", err)
}
