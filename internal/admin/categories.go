package admin

import (
	"context"
	"errors"
	"strings"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/authctx"
	"badir-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryInput is the create/update payload for initiative categories.
type CategoryInput struct {
	NameAr        string  `json:"nameAr"`
	NameEn        *string `json:"nameEn"`
	DescriptionAr *string `json:"descriptionAr"`
	DescriptionEn *string `json:"descriptionEn"`
	BgColor       *string `json:"bgColor"`
	TextColor     *string `json:"textColor"`
	IsActive      *bool   `json:"isActive"`
}

func (in CategoryInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if strings.TrimSpace(in.NameAr) == "" {
		errs.Add("nameAr", "اسم الفئة بالعربية مطلوب")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// ListCategories returns every category, active or not, for management.
func (s *Service) ListCategories(ctx context.Context, actor authctx.Context) ([]domain.InitiativeCategory, error) {
	var categories []domain.InitiativeCategory
	if err := s.DB.WithContext(ctx).Order("created_at ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a new initiative category.
func (s *Service) CreateCategory(ctx context.Context, actor authctx.Context, in CategoryInput) (*domain.InitiativeCategory, error) {
	category := &domain.InitiativeCategory{
		NameAr:        strings.TrimSpace(in.NameAr),
		NameEn:        in.NameEn,
		DescriptionAr: in.DescriptionAr,
		DescriptionEn: in.DescriptionEn,
		BgColor:       in.BgColor,
		TextColor:     in.TextColor,
		IsActive:      true,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.DB.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory edits an existing category.
func (s *Service) UpdateCategory(ctx context.Context, actor authctx.Context, id uuid.UUID, in CategoryInput) (*domain.InitiativeCategory, error) {
	var category domain.InitiativeCategory
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"name_ar": strings.TrimSpace(in.NameAr),
	}
	if in.NameEn != nil {
		updates["name_en"] = *in.NameEn
	}
	if in.DescriptionAr != nil {
		updates["description_ar"] = *in.DescriptionAr
	}
	if in.DescriptionEn != nil {
		updates["description_en"] = *in.DescriptionEn
	}
	if in.BgColor != nil {
		updates["bg_color"] = *in.BgColor
	}
	if in.TextColor != nil {
		updates["text_color"] = *in.TextColor
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if err := s.DB.WithContext(ctx).Model(&category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category that no initiative references.
func (s *Service) DeleteCategory(ctx context.Context, actor authctx.Context, id uuid.UUID) error {
	var category domain.InitiativeCategory
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	var inUse int64
	err := s.DB.WithContext(ctx).Model(&domain.Initiative{}).
		Where("category_id = ?", id).
		Count(&inUse).Error
	if err != nil {
		return err
	}
	if inUse > 0 {
		return ErrCategoryInUse
	}
	return s.DB.WithContext(ctx).Delete(&category).Error
}
