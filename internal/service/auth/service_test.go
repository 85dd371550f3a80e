package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/internal/repository"
	"github.com/SameepSkillup/clinic-api/internal/service/auth"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

type fakeAdmins struct {
	admin *model.Admin
}

func (f *fakeAdmins) GetByUsername(_ context.Context, username string) (*model.Admin, error) {
	if f.admin != nil && f.admin.Username == username {
		return f.admin, nil
	}
	return nil, repository.ErrNotFound
}

type fakeDoctors struct {
	doctor *model.Doctor
}

func (f *fakeDoctors) Create(_ context.Context, _ *model.Doctor) error { return nil }

func (f *fakeDoctors) Get(_ context.Context, _ uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeDoctors) GetByEmail(_ context.Context, email string) (*model.Doctor, error) {
	if f.doctor != nil && f.doctor.Email == email {
		return f.doctor, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctors) Update(_ context.Context, _ *model.Doctor) error { return nil }
func (f *fakeDoctors) Delete(_ context.Context, _ uuid.UUID) error     { return nil }

func (f *fakeDoctors) List(_ context.Context) ([]*model.Doctor, error) { return nil, nil }

type fakePatients struct {
	patient *model.Patient
}

func (f *fakePatients) Create(_ context.Context, _ *model.Patient) error { return nil }

func (f *fakePatients) Get(_ context.Context, _ uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (f *fakePatients) GetByEmail(_ context.Context, email string) (*model.Patient, error) {
	if f.patient != nil && f.patient.Email == email {
		return f.patient, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakePatients) ExistsByEmailOrPhone(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func newService(t *testing.T, admins *fakeAdmins, doctors *fakeDoctors, patients *fakePatients) (*auth.Service, *token.Service) {
	t.Helper()
	tokens := token.NewService("test-secret", time.Hour)
	return auth.NewService(admins, doctors, patients, tokens), tokens
}

func TestLoginAdmin(t *testing.T) {
	admins := &fakeAdmins{admin: &model.Admin{
		Username:     "root",
		PasswordHash: mustHash(t, "correct horse"),
	}}
	svc, tokens := newService(t, admins, &fakeDoctors{}, &fakePatients{})

	resp, err := svc.LoginAdmin(context.Background(), "root", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)

	subject, err := tokens.Validate(resp.AccessToken, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "root", subject)
}

func TestLoginDoctor(t *testing.T) {
	doctors := &fakeDoctors{doctor: &model.Doctor{
		Email:        "doc@clinic.local",
		PasswordHash: mustHash(t, "stethoscope"),
	}}
	svc, tokens := newService(t, &fakeAdmins{}, doctors, &fakePatients{})

	resp, err := svc.LoginDoctor(context.Background(), "doc@clinic.local", "stethoscope")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, resp.Role)

	// The credential carries the doctor role only.
	_, err = tokens.Validate(resp.AccessToken, model.RoleAdmin)
	assert.ErrorIs(t, err, token.ErrRoleMismatch)
}

func TestLoginPatientWrongPassword(t *testing.T) {
	patients := &fakePatients{patient: &model.Patient{
		Email:        "pat@clinic.local",
		PasswordHash: mustHash(t, "right"),
	}}
	svc, _ := newService(t, &fakeAdmins{}, &fakeDoctors{}, patients)

	_, err := svc.LoginPatient(context.Background(), "pat@clinic.local", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

// An unknown account and a wrong password must be indistinguishable.
func TestLoginUnknownAccount(t *testing.T) {
	svc, _ := newService(t, &fakeAdmins{}, &fakeDoctors{}, &fakePatients{})

	_, err := svc.LoginPatient(context.Background(), "nobody@clinic.local", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.LoginAdmin(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestHashPasswordNotPlaintext(t *testing.T) {
	hash := mustHash(t, "secret password")
	assert.NotEqual(t, "secret password", hash)
	assert.NotContains(t, hash, "secret password")
}
