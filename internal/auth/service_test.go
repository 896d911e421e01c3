package auth

import (
	"context"
	"testing"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/apperr"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}
}

func validSignup() SignupInput {
	return SignupInput{
		Email:           "Amine@Example.com",
		Password:        "Passw0rd!",
		ConfirmPassword: "Passw0rd!",
		FirstName:       "أمين",
		LastName:        "بوعلام",
		UserType:        "helper",
	}
}

func TestSignupValidate_WeakPassword(t *testing.T) {
	in := validSignup()
	in.Password = "short"
	in.ConfirmPassword = "short"
	errs := in.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "password")
}

func TestSignupValidate_PasswordMismatch(t *testing.T) {
	in := validSignup()
	in.ConfirmPassword = "Different1!"
	errs := in.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "confirmPassword")
}

func TestSignup_LowercasesEmail(t *testing.T) {
	s := setupAuthTest(t)
	user, err := s.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.Equal(t, "amine@example.com", user.Email)
	assert.Equal(t, "أمين بوعلام", user.Name)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.False(t, user.ProfileCompleted)
}

func TestSignup_DuplicateEmailConflict(t *testing.T) {
	s := setupAuthTest(t)
	_, err := s.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	in := validSignup()
	in.Email = "AMINE@example.com"
	_, err = s.Signup(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	s := setupAuthTest(t)
	_, err := s.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = s.Login(context.Background(), LoginInput{Email: "amine@example.com", Password: "wrong"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s := setupAuthTest(t)
	_, err := s.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "Passw0rd!"})
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_DisabledAccount(t *testing.T) {
	s := setupAuthTest(t)
	user, err := s.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	require.NoError(t, s.DB.Model(user).Update("is_active", false).Error)

	_, err = s.Login(context.Background(), LoginInput{Email: "amine@example.com", Password: "Passw0rd!"})
	assert.Equal(t, ErrAccountDisabled, err)
}

func TestLogin_Success(t *testing.T) {
	s := setupAuthTest(t)
	_, err := s.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	user, err := s.Login(context.Background(), LoginInput{Email: "amine@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "amine@example.com", user.Email)
}

func TestCompleteProfileRoute(t *testing.T) {
	assert.Equal(t, "/complete-profile/organization", CompleteProfileRoute(domain.UserTypeOrganization))
	assert.Equal(t, "/complete-profile/user", CompleteProfileRoute(domain.UserTypeHelper))
}
