package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutorhub/internal/domain"
	"tutorhub/internal/service"
)

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		in      service.RegisterInput
		message string
		fields  []string
	}{
		{
			name:    "missing fields",
			in:      service.RegisterInput{Email: "a@sfsu.edu"},
			message: "Missing required fields",
			fields:  []string{"password", "confirmPassword"},
		},
		{
			name:    "wrong domain",
			in:      service.RegisterInput{Email: "a@gmail.com", Password: "p", ConfirmPassword: "p", AcceptTerms: true},
			message: "Email must be an SFSU email address",
			fields:  []string{"email"},
		},
		{
			name:    "password mismatch",
			in:      service.RegisterInput{Email: "a@sfsu.edu", Password: "p1", ConfirmPassword: "p2", AcceptTerms: true},
			message: "Passwords do not match",
			fields:  []string{"confirmPassword"},
		},
		{
			name:    "terms",
			in:      service.RegisterInput{Email: "a@sfsu.edu", Password: "p", ConfirmPassword: "p"},
			message: "You must accept the terms and conditions",
			fields:  []string{"acceptTerms"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.message, ve.Message)
			assert.Equal(t, tt.fields, ve.Fields)
		})
	}
}

func TestRegister_CreatesUserAndToken(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.auth.Register(context.Background(), service.RegisterInput{
		Email:           "  Ana.Lee@SFSU.edu ",
		Password:        "password123",
		ConfirmPassword: "password123",
		AcceptTerms:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.lee@sfsu.edu", res.User.Email)
	assert.Equal(t, "ana.lee", res.User.Username)
	assert.Empty(t, res.User.PasswordHash)

	claims, err := env.sessions.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "dup@sfsu.edu")

	_, err := env.auth.Register(context.Background(), service.RegisterInput{
		Email:           "DUP@sfsu.edu",
		Password:        "x",
		ConfirmPassword: "x",
		AcceptTerms:     true,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.register(t, "ana@sfsu.edu")

	res, err := env.auth.SignIn(ctx, "ANA@sfsu.edu", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
	assert.NotNil(t, res.User.LastLogin)

	_, wrongPassword := env.auth.SignIn(ctx, "ana@sfsu.edu", "nope")
	_, unknownEmail := env.auth.SignIn(ctx, "ghost@sfsu.edu", "password123")
	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	got, err := env.auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLogin)
}
