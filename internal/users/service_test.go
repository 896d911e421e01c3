package users

import (
	"context"
	"testing"
	"time"

	"badir-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUsersTest(t *testing.T) (*Service, *domain.User) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.UserQualification{}))

	user := &domain.User{
		Email:        "samir@example.com",
		PasswordHash: "x",
		FirstName:    "سمير",
		LastName:     "عمراني",
		Name:         "سمير عمراني",
		UserType:     domain.UserTypeBoth,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return &Service{DB: db}, user
}

func validComplete() CompleteProfileInput {
	return CompleteProfileInput{
		DateOfBirth:      time.Now().AddDate(-20, 0, 0),
		Sex:              "male",
		Phone:            "0551234567",
		State:            "وهران",
		UserType:         "helper",
		Specification:    "إعلام آلي",
		EducationalLevel: "university",
	}
}

func TestCompleteProfileValidate_Underage(t *testing.T) {
	in := validComplete()
	in.DateOfBirth = time.Now().AddDate(-12, 0, 0)
	errs := in.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs["dateOfBirth"], "يجب أن يكون عمرك 13 عاماً على الأقل")
}

func TestCompleteProfileValidate_CustomLevelRequired(t *testing.T) {
	in := validComplete()
	in.EducationalLevel = "other"
	errs := in.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "customEducationalLevel")
}

func TestCompleteProfile_SetsFlagAndQualification(t *testing.T) {
	s, user := setupUsersTest(t)

	_, err := s.CompleteProfile(context.Background(), user.ID, validComplete())
	require.NoError(t, err)

	var reloaded domain.User
	require.NoError(t, s.DB.First(&reloaded, "id = ?", user.ID).Error)
	assert.True(t, reloaded.ProfileCompleted)
	assert.Equal(t, domain.UserTypeHelper, reloaded.UserType)
	require.NotNil(t, reloaded.Phone)
	assert.Equal(t, "+213551234567", *reloaded.Phone)

	var qual domain.UserQualification
	require.NoError(t, s.DB.First(&qual, "user_id = ?", user.ID).Error)
	assert.Equal(t, "إعلام آلي", qual.Specification)
	assert.Equal(t, "university", qual.EducationalLevel)
}

func TestCompleteProfile_UpsertsQualification(t *testing.T) {
	s, user := setupUsersTest(t)

	_, err := s.CompleteProfile(context.Background(), user.ID, validComplete())
	require.NoError(t, err)

	in := validComplete()
	in.Specification = "هندسة مدنية"
	custom := "تكوين مهني"
	in.EducationalLevel = "other"
	in.CustomEducationalLevel = &custom
	_, err = s.CompleteProfile(context.Background(), user.ID, in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, s.DB.Model(&domain.UserQualification{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var qual domain.UserQualification
	require.NoError(t, s.DB.First(&qual, "user_id = ?", user.ID).Error)
	assert.Equal(t, "هندسة مدنية", qual.Specification)
	assert.Equal(t, "تكوين مهني", qual.EducationalLevel)
}

func TestUpdateProfile_PartialAndNameRebuild(t *testing.T) {
	s, user := setupUsersTest(t)

	last := "بن عمر"
	bio := "متطوع منذ 2020"
	_, err := s.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{
		LastName: &last,
		Bio:      &bio,
	})
	require.NoError(t, err)

	var reloaded domain.User
	require.NoError(t, s.DB.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, "سمير بن عمر", reloaded.Name)
	assert.Equal(t, "بن عمر", reloaded.LastName)
	require.NotNil(t, reloaded.Bio)
	assert.Equal(t, "متطوع منذ 2020", *reloaded.Bio)
}

func TestUpdateProfileValidate_InvalidPhone(t *testing.T) {
	phone := "abc123"
	errs := UpdateProfileInput{Phone: &phone}.Validate()
	require.NotNil(t, errs)
	assert.Contains(t, errs, "phone")
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+213551234567", formatPhone("0551234567"))
	assert.Equal(t, "+213551234567", formatPhone("551234567"))
	assert.Equal(t, "+213700000000", formatPhone("+213700000000"))
}
