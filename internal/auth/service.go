package auth

import (
	"context"
	"errors"
	"strings"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service handles account creation and credential verification.
type Service struct {
	DB *gorm.DB
}

// SignupInput is the initial signup payload; profile completion happens later.
type SignupInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	UserType        string `json:"userType"`
}

// Validate returns the per-field Arabic error map; nil when the input is clean.
func (in SignupInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if !validation.IsValidEmail(strings.TrimSpace(in.Email)) {
		errs.Add("email", "الرجاء إدخال بريد إلكتروني صحيح")
	}
	if !validation.IsValidPassword(in.Password) {
		errs.Add("password", "كلمة المرور يجب أن تكون 8 أحرف على الأقل وتحتوي على حرف ورقم ورمز")
	}
	if in.Password != in.ConfirmPassword {
		errs.Add("confirmPassword", "كلمتا المرور غير متطابقتين")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		errs.Add("firstName", "الاسم الأول مطلوب")
	}
	if strings.TrimSpace(in.LastName) == "" {
		errs.Add("lastName", "اسم العائلة مطلوب")
	}
	switch domain.UserType(in.UserType) {
	case domain.UserTypeHelper, domain.UserTypeParticipant, domain.UserTypeOrganization, domain.UserTypeBoth:
	default:
		errs.Add("userType", "نوع المستخدم مطلوب")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// Signup creates the account. Duplicate email is a Conflict.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var existing domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperr.New(apperr.Conflict, "هذا البريد الإلكتروني مستخدم بالفعل. يرجى استخدام بريد إلكتروني آخر.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Name:         firstName + " " + lastName,
		UserType:     domain.UserType(in.UserType),
		Role:         domain.RoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// LoginInput for the login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login finds the user by email and verifies the password.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// CompleteProfileRoute is where signup redirects based on account type.
func CompleteProfileRoute(userType domain.UserType) string {
	if userType == domain.UserTypeOrganization {
		return "/complete-profile/organization"
	}
	return "/complete-profile/user"
}
