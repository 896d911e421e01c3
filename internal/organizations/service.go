package organizations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/authctx"
	"badir-backend/internal/pkg/pagination"
	"badir-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	partnersCacheKey = "cache:featured_partners"
	partnersCacheTTL = 5 * time.Minute
	// MaxFeaturedPartners is the system-wide cap on homepage partners.
	MaxFeaturedPartners = 5
)

var (
	ErrNotFound      = apperr.New(apperr.NotFound, "المنظمة غير موجودة")
	ErrAlreadyExists = apperr.New(apperr.Conflict, "لديك منظمة مسجلة بالفعل")
)

// Service encapsulates organization operations. Rdb is optional; when set,
// featured partners are served from cache.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// RegisterInput is the multi-step organization registration payload.
type RegisterInput struct {
	Name                string     `json:"name"`
	ShortName           *string    `json:"shortName"`
	ContactEmail        string     `json:"contactEmail"`
	ContactPhone        *string    `json:"contactPhone"`
	OrganizationType    string     `json:"organizationType"`
	WorkAreas           []string   `json:"workAreas"`
	ShortDescription    string     `json:"shortDescription"`
	PreviousInitiatives *string    `json:"previousInitiatives"`
	Headquarters        *string    `json:"headquarters"`
	City                *string    `json:"city"`
	State               string     `json:"state"`
	Country             string     `json:"country"`
	FoundingDate        *time.Time `json:"foundingDate"`
	MembersCount        *int       `json:"membersCount"`
	Logo                string     `json:"logo"`
	OfficialLicense     *string    `json:"officialLicense"`
	IdentificationCard  *string    `json:"identificationCard"`
	SocialLinks         map[string]string `json:"socialLinks"`
	AcceptConditions    bool       `json:"acceptConditions"`
}

var organizationTypes = map[string]bool{
	"charity": true, "youth": true, "educational": true, "cultural": true,
	"health": true, "religious": true, "other": true,
}

// Validate returns the per-field Arabic error map; nil when clean.
func (in RegisterInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if len(strings.TrimSpace(in.Name)) < 2 {
		errs.Add("name", "اسم المنظمة يجب أن يحتوي على حرفين على الأقل")
	}
	if !validation.IsValidEmail(in.ContactEmail) {
		errs.Add("contactEmail", "الرجاء إدخال بريد إلكتروني صحيح")
	}
	if in.ContactPhone != nil && !validation.IsValidPhone(*in.ContactPhone) {
		errs.Add("contactPhone", "الرجاء إدخال رقم هاتف صحيح (أرقام فقط)")
	}
	if !organizationTypes[in.OrganizationType] {
		errs.Add("organizationType", "الرجاء اختيار نوع المنظمة")
	}
	if len(in.WorkAreas) == 0 {
		errs.Add("workAreas", "الرجاء اختيار مجال عمل واحد على الأقل")
	}
	if len(strings.TrimSpace(in.ShortDescription)) < 20 {
		errs.Add("shortDescription", "الوصف المختصر يجب أن يكون 20 حرفاً على الأقل")
	}
	if strings.TrimSpace(in.State) == "" {
		errs.Add("state", "الرجاء إدخال الولاية")
	}
	if in.FoundingDate != nil && in.FoundingDate.After(time.Now()) {
		errs.Add("foundingDate", "تاريخ التأسيس لا يمكن أن يكون في المستقبل")
	}
	if in.MembersCount != nil && *in.MembersCount <= 0 {
		errs.Add("membersCount", "يجب أن يكون عدد الأعضاء عدداً موجباً")
	}
	if strings.TrimSpace(in.Logo) == "" {
		errs.Add("logo", "مطلوب تحميل الشعار")
	}
	if !in.AcceptConditions {
		errs.Add("acceptConditions", "يجب قبول الشروط والأحكام")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// Register creates the actor's organization in pending state. One organization
// per owner.
func (s *Service) Register(ctx context.Context, actor authctx.Context, in RegisterInput) (*domain.Organization, error) {
	var existing domain.Organization
	err := s.DB.WithContext(ctx).Where("user_id = ?", actor.UserID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	workAreas, _ := json.Marshal(in.WorkAreas)
	socialLinks, _ := json.Marshal(in.SocialLinks)
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = "Algeria"
	}
	state := strings.TrimSpace(in.State)
	logo := strings.TrimSpace(in.Logo)
	org := &domain.Organization{
		Name:                strings.TrimSpace(in.Name),
		ShortName:           in.ShortName,
		ContactEmail:        strings.ToLower(strings.TrimSpace(in.ContactEmail)),
		ContactPhone:        in.ContactPhone,
		OrganizationType:    in.OrganizationType,
		WorkAreas:           datatypes.JSON(workAreas),
		ShortDescription:    &in.ShortDescription,
		PreviousInitiatives: in.PreviousInitiatives,
		Headquarters:        in.Headquarters,
		City:                in.City,
		State:               &state,
		Country:             &country,
		FoundingDate:        in.FoundingDate,
		MembersCount:        in.MembersCount,
		Logo:                &logo,
		OfficialLicense:     in.OfficialLicense,
		IdentificationCard:  in.IdentificationCard,
		SocialLinks:         datatypes.JSON(socialLinks),
		IsVerified:          domain.OrgPending,
		UserID:              actor.UserID,
	}
	if err := s.DB.WithContext(ctx).Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

// Filters for the public organization listing.
type Filters struct {
	Search            string
	IsVerified        domain.OrganizationStatus
	IsFeaturedPartner *bool
}

// List is the public paginated listing; search OR across short name, name and
// description; other filters AND; newest first.
func (s *Service) List(ctx context.Context, f Filters, p pagination.Params) ([]domain.Organization, pagination.Meta, error) {
	p = p.Normalize(12)

	q := s.DB.WithContext(ctx).Model(&domain.Organization{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(short_name) LIKE ? OR LOWER(name) LIKE ? OR LOWER(short_description) LIKE ?",
			like, like, like,
		)
	}
	if f.IsVerified != "" {
		q = q.Where("is_verified = ?", f.IsVerified)
	}
	if f.IsFeaturedPartner != nil {
		q = q.Where("is_featured_partner = ?", *f.IsFeaturedPartner)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var orgs []domain.Organization
	if err := q.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&orgs).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return orgs, pagination.NewMeta(p, total), nil
}

// GetByID returns one organization with its owner.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := s.DB.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// GetByOwner returns the organization owned by userID.
func (s *Service) GetByOwner(ctx context.Context, userID uuid.UUID) (*domain.Organization, error) {
	var org domain.Organization
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FeaturedPartners returns approved featured organizations (at most 5),
// cache-first when Redis is available.
func (s *Service) FeaturedPartners(ctx context.Context) ([]domain.Organization, error) {
	if s.Rdb != nil {
		if b, err := s.Rdb.Get(ctx, partnersCacheKey).Bytes(); err == nil {
			var cached []domain.Organization
			if json.Unmarshal(b, &cached) == nil {
				return cached, nil
			}
		}
	}

	var orgs []domain.Organization
	err := s.DB.WithContext(ctx).
		Where("is_featured_partner = ? AND is_verified = ?", true, domain.OrgApproved).
		Order("created_at DESC").
		Limit(MaxFeaturedPartners).
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}

	if s.Rdb != nil {
		if b, err := json.Marshal(orgs); err == nil {
			if err := s.Rdb.Set(ctx, partnersCacheKey, b, partnersCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("featured partners cache write failed")
			}
		}
	}
	return orgs, nil
}

// InvalidatePartnersCache drops the cached partner list after curation changes.
func InvalidatePartnersCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, partnersCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("featured partners cache invalidation failed")
	}
}
