package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/validation"
	"badir-backend/internal/uploads"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const minAge = 13

var ErrNotFound = apperr.New(apperr.NotFound, "المستخدم غير موجود")

// Service handles profile completion and updates. Uploads is optional; when
// nil, avatar handling is skipped.
type Service struct {
	DB      *gorm.DB
	Uploads *uploads.Service
}

// CompleteProfileInput carries the multi-step onboarding form.
type CompleteProfileInput struct {
	DateOfBirth            time.Time `json:"dateOfBirth"`
	Sex                    string    `json:"sex"`
	Phone                  string    `json:"phone"`
	State                  string    `json:"state"`
	City                   *string   `json:"city"`
	UserType               string    `json:"userType"`
	Specification          string    `json:"specification"`
	EducationalLevel       string    `json:"educationalLevel"`
	CustomEducationalLevel *string   `json:"customEducationalLevel"`
	CurrentJob             *string   `json:"currentJob"`
	Bio                    *string   `json:"bio"`
}

var userTypes = map[string]bool{
	string(domain.UserTypeHelper):      true,
	string(domain.UserTypeParticipant): true,
	string(domain.UserTypeBoth):        true,
}

func (in CompleteProfileInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if in.DateOfBirth.IsZero() {
		errs.Add("dateOfBirth", "تاريخ الميلاد مطلوب")
	} else if !validation.IsAtLeastYearsOld(in.DateOfBirth, minAge) {
		errs.Add("dateOfBirth", "يجب أن يكون عمرك 13 عاماً على الأقل")
	}
	if in.Sex != "male" && in.Sex != "female" {
		errs.Add("sex", "الرجاء اختيار الجنس")
	}
	if !validation.IsValidPhone(in.Phone) {
		errs.Add("phone", "الرجاء إدخال رقم هاتف صحيح (أرقام فقط)")
	}
	if strings.TrimSpace(in.State) == "" {
		errs.Add("state", "الرجاء إدخال الولاية")
	}
	if !userTypes[in.UserType] {
		errs.Add("userType", "الرجاء اختيار نوع المشاركة")
	}
	if strings.TrimSpace(in.Specification) == "" {
		errs.Add("specification", "التخصص مطلوب")
	}
	if strings.TrimSpace(in.EducationalLevel) == "" {
		errs.Add("educationalLevel", "المستوى التعليمي مطلوب")
	}
	if in.EducationalLevel == "other" && (in.CustomEducationalLevel == nil || strings.TrimSpace(*in.CustomEducationalLevel) == "") {
		errs.Add("customEducationalLevel", "الرجاء تحديد المستوى التعليمي")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// CompleteProfile fills in the onboarding fields, upserts the qualification
// record and marks the profile complete.
func (s *Service) CompleteProfile(ctx context.Context, userID uuid.UUID, in CompleteProfileInput) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	level := in.EducationalLevel
	if level == "other" && in.CustomEducationalLevel != nil {
		level = strings.TrimSpace(*in.CustomEducationalLevel)
	}
	phone := formatPhone(in.Phone)
	state := strings.TrimSpace(in.State)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"date_of_birth":     in.DateOfBirth,
			"sex":               in.Sex,
			"phone":             phone,
			"state":             state,
			"user_type":         in.UserType,
			"profile_completed": true,
		}
		if in.City != nil {
			updates["city"] = strings.TrimSpace(*in.City)
		}
		if in.Bio != nil {
			updates["bio"] = strings.TrimSpace(*in.Bio)
		}
		if err := tx.Model(&user).Updates(updates).Error; err != nil {
			return err
		}

		var qual domain.UserQualification
		err := tx.Where("user_id = ?", userID).First(&qual).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			qual = domain.UserQualification{
				UserID:           userID,
				Specification:    strings.TrimSpace(in.Specification),
				EducationalLevel: level,
			}
			if in.CurrentJob != nil {
				qual.CurrentJob = strings.TrimSpace(*in.CurrentJob)
			}
			return tx.Create(&qual).Error
		case err != nil:
			return err
		}
		qualUpdates := map[string]interface{}{
			"specification":     strings.TrimSpace(in.Specification),
			"educational_level": level,
		}
		if in.CurrentJob != nil {
			qualUpdates["current_job"] = strings.TrimSpace(*in.CurrentJob)
		}
		return tx.Model(&qual).Updates(qualUpdates).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfileInput is the settings-page payload; only provided fields change.
type UpdateProfileInput struct {
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Phone     *string  `json:"phone"`
	City      *string  `json:"city"`
	State     *string  `json:"state"`
	Bio       *string  `json:"bio"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Image     *string  `json:"image"`
}

func (in UpdateProfileInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if in.FirstName != nil && len(strings.TrimSpace(*in.FirstName)) < 2 {
		errs.Add("firstName", "الاسم الأول يجب أن يحتوي على حرفين على الأقل")
	}
	if in.LastName != nil && len(strings.TrimSpace(*in.LastName)) < 2 {
		errs.Add("lastName", "اسم العائلة يجب أن يحتوي على حرفين على الأقل")
	}
	if in.Phone != nil && !validation.IsValidPhone(*in.Phone) {
		errs.Add("phone", "الرجاء إدخال رقم هاتف صحيح (أرقام فقط)")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// UpdateProfile applies partial profile changes. A new image replaces the old
// one in storage; deletion failures are logged, not surfaced.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil || in.LastName != nil {
		first, last := user.FirstName, user.LastName
		if in.FirstName != nil {
			first = strings.TrimSpace(*in.FirstName)
			updates["first_name"] = first
		}
		if in.LastName != nil {
			last = strings.TrimSpace(*in.LastName)
			updates["last_name"] = last
		}
		updates["name"] = first + " " + last
	}
	if in.Phone != nil {
		updates["phone"] = formatPhone(*in.Phone)
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		updates["state"] = strings.TrimSpace(*in.State)
	}
	if in.Bio != nil {
		updates["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Image != nil && *in.Image != "" {
		if s.Uploads != nil && user.Image != nil && *user.Image != "" && *user.Image != *in.Image {
			if err := s.Uploads.DeleteFile(ctx, uploads.BucketAvatars, *user.Image); err != nil {
				log.Warn().Err(err).Str("user_id", userID.String()).Msg("old avatar delete failed")
			}
		}
		updates["image"] = *in.Image
	}

	if len(updates) == 0 {
		return &user, nil
	}
	if err := s.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ImageURL returns the public avatar URL for a user, empty when none is set.
func (s *Service) ImageURL(ctx context.Context, userID uuid.UUID) (string, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).Select("image").Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if user.Image == nil || *user.Image == "" {
		return "", nil
	}
	if strings.HasPrefix(*user.Image, "http") || s.Uploads == nil {
		return *user.Image, nil
	}
	return s.Uploads.GetPublicURL(uploads.BucketAvatars, *user.Image), nil
}

// formatPhone normalizes a local number to the +213 international form.
func formatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+213" + strings.TrimPrefix(phone, "0")
}
