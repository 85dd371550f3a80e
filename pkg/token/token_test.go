package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameepSkillup/clinic-api/internal/model"
	"github.com/SameepSkillup/clinic-api/pkg/token"
)

func TestIssueAndValidate(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	credential, err := svc.Issue("doc@clinic.local", model.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	subject, err := svc.Validate(credential, model.RoleDoctor)
	require.NoError(t, err)
	assert.Equal(t, "doc@clinic.local", subject)
}

func TestIssueUnknownRole(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	_, err := svc.Issue("someone", model.Role("superuser"))
	assert.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	svc := token.NewService("test-secret", -time.Minute)

	credential, err := svc.Issue("pat@clinic.local", model.RolePatient)
	require.NoError(t, err)

	_, err = svc.Validate(credential, model.RolePatient)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestValidateMalformed(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	for _, credential := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(credential, model.RoleAdmin)
		assert.ErrorIs(t, err, token.ErrMalformed, "credential %q", credential)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := token.NewService("secret-one", time.Hour)
	verifier := token.NewService("secret-two", time.Hour)

	credential, err := issuer.Issue("doc@clinic.local", model.RoleDoctor)
	require.NoError(t, err)

	_, err = verifier.Validate(credential, model.RoleDoctor)
	assert.ErrorIs(t, err, token.ErrMalformed)
}

func TestValidateRoleMismatch(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	credential, err := svc.Issue("doc@clinic.local", model.RoleDoctor)
	require.NoError(t, err)

	_, err = svc.Validate(credential, model.RoleAdmin)
	assert.ErrorIs(t, err, token.ErrRoleMismatch)

	_, err = svc.Validate(credential, model.RolePatient)
	assert.ErrorIs(t, err, token.ErrRoleMismatch)
}
