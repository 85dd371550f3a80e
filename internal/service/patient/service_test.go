package patient_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/patient"
)

type fakePatientRepo struct {
	patients []*model.Patient
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	p.ID = uuid.New()
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	for _, p := range f.patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatientRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	for _, p := range f.patients {
		if p.Email == email || p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func TestRegister(t *testing.T) {
	svc := patient.NewService(&fakePatientRepo{})

	p, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:     "Jane Doe",
		Email:    "jane@clinic.local",
		Phone:    "+15550100",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)

	// The stored credential must be a hash of the password, never the
	// password itself.
	assert.NotEqual(t, "hunter2hunter2", p.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := patient.NewService(&fakePatientRepo{})

	req := &model.RegisterPatientRequest{
		Name: "Jane Doe", Email: "jane@clinic.local", Phone: "+15550100", Password: "hunter2hunter2",
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name: "Other Jane", Email: "jane@clinic.local", Phone: "+15550199", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, patient.ErrAlreadyExists)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := patient.NewService(&fakePatientRepo{})

	_, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name: "Jane Doe", Email: "jane@clinic.local", Phone: "+15550100", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name: "John Doe", Email: "john@clinic.local", Phone: "+15550100", Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, patient.ErrAlreadyExists)
}

func TestGetByEmailNotFound(t *testing.T) {
	svc := patient.NewService(&fakePatientRepo{})

	_, err := svc.GetByEmail(context.Background(), "nobody@clinic.local")
	assert.ErrorIs(t, err, patient.ErrNotFound)
}
