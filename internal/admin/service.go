package admin

import (
	"context"
	"errors"
	"strings"

	"badir-backend/internal/config"
	"badir-backend/internal/domain"
	"badir-backend/internal/emails"
	"badir-backend/internal/notifications"
	"badir-backend/internal/organizations"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/authctx"
	"badir-backend/internal/pkg/pagination"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrOrgNotFound        = apperr.New(apperr.NotFound, "المنظمة غير موجودة")
	ErrInitiativeNotFound = apperr.New(apperr.NotFound, "المبادرة غير موجودة")
	ErrCategoryNotFound   = apperr.New(apperr.NotFound, "الفئة غير موجودة")
	ErrReasonRequired     = apperr.New(apperr.Validation, "سبب الرفض مطلوب عند رفض الطلب")
	ErrCategoryInUse      = apperr.New(apperr.Conflict, "لا يمكن حذف هذه الفئة لأنها مرتبطة بمبادرات حالية")
	ErrPartnerCap         = apperr.New(apperr.Conflict, "لا يمكن إضافة أكثر من 5 شركاء مميزين")
	ErrPartnerNotApproved = apperr.New(apperr.Validation, "يمكن تمييز المنظمات المعتمدة فقط")
	ErrInvalidStatus      = apperr.New(apperr.Validation, "الحالة المطلوبة غير صالحة")
)

// Service is the back-office: review queues, status decisions, category and
// partner curation, platform stats.
type Service struct {
	DB            *gorm.DB
	Rdb           *redis.Client
	Notifications *notifications.Service
	Config        *config.Config
}

// OrgFilters narrows the organization review queue.
type OrgFilters struct {
	Status           domain.OrganizationStatus
	Search           string
	OrganizationType string
	Country          string
}

// ListOrganizations returns the review queue: pending first, then newest.
// Search also covers the owner's name and email.
func (s *Service) ListOrganizations(ctx context.Context, actor authctx.Context, f OrgFilters, p pagination.Params) ([]domain.Organization, pagination.Meta, error) {
	p = p.Normalize(20)

	q := s.DB.WithContext(ctx).Model(&domain.Organization{}).Preload("Owner")
	if f.Status != "" {
		q = q.Where("organizations.is_verified = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Joins("LEFT JOIN users ON users.id = organizations.user_id").
			Where(
				"LOWER(organizations.name) LIKE ? OR LOWER(organizations.short_name) LIKE ? OR LOWER(organizations.contact_email) LIKE ? OR LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?",
				like, like, like, like, like,
			)
	}
	if f.OrganizationType != "" {
		q = q.Where("organizations.organization_type = ?", f.OrganizationType)
	}
	if f.Country != "" {
		q = q.Where("organizations.country = ?", f.Country)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var orgs []domain.Organization
	err := q.
		Order("CASE WHEN organizations.is_verified = 'pending' THEN 0 ELSE 1 END").
		Order("organizations.created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&orgs).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return orgs, pagination.NewMeta(p, total), nil
}

// OrgDetail is the full review view of one organization.
type OrgDetail struct {
	domain.Organization
	RecentInitiatives []domain.Initiative `json:"recentInitiatives"`
	InitiativeCount   int64               `json:"initiativeCount"`
	PublishedCount    int64               `json:"publishedCount"`
}

// GetOrganization returns one organization with its owner, its last five
// initiatives and initiative counts.
func (s *Service) GetOrganization(ctx context.Context, actor authctx.Context, id uuid.UUID) (*OrgDetail, error) {
	var org domain.Organization
	err := s.DB.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	detail := &OrgDetail{Organization: org}
	err = s.DB.WithContext(ctx).
		Where("organizer_type = ? AND organizer_org_id = ?", domain.OrganizerOrganization, id).
		Order("created_at DESC").
		Limit(5).
		Find(&detail.RecentInitiatives).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(&domain.Initiative{}).
		Where("organizer_type = ? AND organizer_org_id = ?", domain.OrganizerOrganization, id).
		Count(&detail.InitiativeCount).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(&domain.Initiative{}).
		Where("organizer_type = ? AND organizer_org_id = ? AND status = ?",
			domain.OrganizerOrganization, id, domain.InitiativePublished).
		Count(&detail.PublishedCount).Error
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateOrganizationStatus overwrites the verification status. Any target
// status is accepted regardless of the current one. Rejection requires a
// reason. The status write commits first; the owner email goes through the
// outbox so a mail outage never undoes the decision.
func (s *Service) UpdateOrganizationStatus(ctx context.Context, actor authctx.Context, id uuid.UUID, status domain.OrganizationStatus, rejectionReason string) (*domain.Organization, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status == domain.OrgRejected && strings.TrimSpace(rejectionReason) == "" {
		return nil, ErrReasonRequired
	}

	var org domain.Organization
	err := s.DB.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{"is_verified": status}
	if status == domain.OrgRejected {
		updates["rejection_reason"] = strings.TrimSpace(rejectionReason)
	} else {
		updates["rejection_reason"] = nil
	}
	if err := s.DB.WithContext(ctx).Model(&org).Updates(updates).Error; err != nil {
		return nil, err
	}

	log.Info().
		Str("admin_id", actor.UserID.String()).
		Str("org_id", org.ID.String()).
		Str("status", string(status)).
		Msg("organization verification updated")

	if status != domain.OrgPending && org.Owner != nil {
		msg := emails.OrganizationStatus(emails.OrganizationStatusInput{
			OrganizationName: org.Name,
			OwnerName:        org.Owner.Name,
			OwnerEmail:       org.Owner.Email,
			Approved:         status == domain.OrgApproved,
			RejectionReason:  strings.TrimSpace(rejectionReason),
			DashboardLink:    s.Config.AppURL + "/dashboard/organization",
		})
		s.Notifications.EnqueueAndSend(ctx, msg)
	}
	return &org, nil
}

// InitiativeFilters narrows the initiative review queue.
type InitiativeFilters struct {
	Status     domain.InitiativeStatus
	Search     string
	CategoryID *uuid.UUID
	City       string
}

// ListInitiatives returns user-organized initiatives for review: drafts
// first, then newest. Organization-run initiatives never pass through here.
func (s *Service) ListInitiatives(ctx context.Context, actor authctx.Context, f InitiativeFilters, p pagination.Params) ([]domain.Initiative, pagination.Meta, error) {
	p = p.Normalize(20)

	q := s.DB.WithContext(ctx).Model(&domain.Initiative{}).
		Preload("Category").
		Preload("OrganizerUser").
		Where("organizer_type = ?", domain.OrganizerUser)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title_ar) LIKE ? OR LOWER(title_en) LIKE ?", like, like)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}

	var initiatives []domain.Initiative
	err := q.
		Order("CASE WHEN status = 'draft' THEN 0 ELSE 1 END").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&initiatives).Error
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return initiatives, pagination.NewMeta(p, total), nil
}

// InitiativeDetail is the review view of one initiative.
type InitiativeDetail struct {
	domain.Initiative
	RecentParticipants []domain.Participant `json:"recentParticipants"`
	ParticipantCount   int64                `json:"participantCount"`
}

// GetInitiative returns one initiative with organizer, category, the last ten
// registrations and the total count.
func (s *Service) GetInitiative(ctx context.Context, actor authctx.Context, id uuid.UUID) (*InitiativeDetail, error) {
	var initiative domain.Initiative
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("OrganizerUser").
		Preload("OrganizerOrg").
		Where("id = ?", id).
		First(&initiative).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}

	detail := &InitiativeDetail{Initiative: initiative}
	err = s.DB.WithContext(ctx).
		Preload("User").
		Where("initiative_id = ?", id).
		Order("created_at DESC").
		Limit(10).
		Find(&detail.RecentParticipants).Error
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Model(&domain.Participant{}).
		Where("initiative_id = ?", id).
		Count(&detail.ParticipantCount).Error
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateInitiativeStatus overwrites the publication status. The organizer is
// emailed only when the initiative is organized by an individual user;
// organization-run initiatives publish themselves and get no status mail.
func (s *Service) UpdateInitiativeStatus(ctx context.Context, actor authctx.Context, id uuid.UUID, status domain.InitiativeStatus, rejectionReason string) (*domain.Initiative, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status == domain.InitiativeCancelled && strings.TrimSpace(rejectionReason) == "" {
		return nil, ErrReasonRequired
	}

	var initiative domain.Initiative
	err := s.DB.WithContext(ctx).Preload("OrganizerUser").Where("id = ?", id).First(&initiative).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}

	if err := s.DB.WithContext(ctx).Model(&initiative).Update("status", status).Error; err != nil {
		return nil, err
	}

	log.Info().
		Str("admin_id", actor.UserID.String()).
		Str("initiative_id", initiative.ID.String()).
		Str("status", string(status)).
		Msg("initiative status updated")

	if status != domain.InitiativeDraft &&
		initiative.OrganizerType == domain.OrganizerUser &&
		initiative.OrganizerUser != nil {
		msg := emails.InitiativeStatus(emails.InitiativeStatusInput{
			InitiativeName:  initiative.TitleAr,
			OrganizerName:   initiative.OrganizerUser.Name,
			OrganizerEmail:  initiative.OrganizerUser.Email,
			Published:       status == domain.InitiativePublished,
			RejectionReason: strings.TrimSpace(rejectionReason),
			InitiativeLink:  s.Config.AppURL + "/initiatives/" + initiative.ID.String(),
		})
		s.Notifications.EnqueueAndSend(ctx, msg)
	}
	return &initiative, nil
}

// Stats is the dashboard summary.
type Stats struct {
	PendingOrganizations  int64 `json:"pendingOrganizations"`
	ApprovedOrganizations int64 `json:"approvedOrganizations"`
	RejectedOrganizations int64 `json:"rejectedOrganizations"`
	DraftInitiatives      int64 `json:"draftInitiatives"`
	PublishedInitiatives  int64 `json:"publishedInitiatives"`
	CancelledInitiatives  int64 `json:"cancelledInitiatives"`
}

// GetStats runs the six dashboard counts concurrently. Draft counts only
// cover user-organized initiatives, matching the review queue.
func (s *Service) GetStats(ctx context.Context, actor authctx.Context) (*Stats, error) {
	stats := &Stats{}
	g, gctx := errgroup.WithContext(ctx)

	countOrgs := func(status domain.OrganizationStatus, dst *int64) func() error {
		return func() error {
			return s.DB.WithContext(gctx).Model(&domain.Organization{}).
				Where("is_verified = ?", status).Count(dst).Error
		}
	}
	countInitiatives := func(q *gorm.DB, dst *int64) func() error {
		return func() error {
			return q.Count(dst).Error
		}
	}

	g.Go(countOrgs(domain.OrgPending, &stats.PendingOrganizations))
	g.Go(countOrgs(domain.OrgApproved, &stats.ApprovedOrganizations))
	g.Go(countOrgs(domain.OrgRejected, &stats.RejectedOrganizations))
	g.Go(countInitiatives(
		s.DB.WithContext(gctx).Model(&domain.Initiative{}).
			Where("status = ? AND organizer_type = ?", domain.InitiativeDraft, domain.OrganizerUser),
		&stats.DraftInitiatives,
	))
	g.Go(countInitiatives(
		s.DB.WithContext(gctx).Model(&domain.Initiative{}).
			Where("status = ?", domain.InitiativePublished),
		&stats.PublishedInitiatives,
	))
	g.Go(countInitiatives(
		s.DB.WithContext(gctx).Model(&domain.Initiative{}).
			Where("status = ?", domain.InitiativeCancelled),
		&stats.CancelledInitiatives,
	))

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// ListApprovedOrganizations returns approved organizations for partner
// curation: featured first, then alphabetical.
func (s *Service) ListApprovedOrganizations(ctx context.Context, actor authctx.Context, search string) ([]domain.Organization, error) {
	q := s.DB.WithContext(ctx).Where("is_verified = ?", domain.OrgApproved)
	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(short_name) LIKE ?", like, like)
	}
	var orgs []domain.Organization
	err := q.Order("is_featured_partner DESC").Order("name ASC").Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// ToggleFeaturedPartner flips the homepage-partner flag. The cap check counts
// first and sets second without a transaction; concurrent toggles can briefly
// exceed the cap, which curation tolerates.
func (s *Service) ToggleFeaturedPartner(ctx context.Context, actor authctx.Context, id uuid.UUID, featured bool) (*domain.Organization, error) {
	var org domain.Organization
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	if featured {
		if org.IsVerified != domain.OrgApproved {
			return nil, ErrPartnerNotApproved
		}
		var count int64
		err := s.DB.WithContext(ctx).Model(&domain.Organization{}).
			Where("is_featured_partner = ? AND id <> ?", true, id).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		if count >= organizations.MaxFeaturedPartners {
			return nil, ErrPartnerCap
		}
	}

	if err := s.DB.WithContext(ctx).Model(&org).Update("is_featured_partner", featured).Error; err != nil {
		return nil, err
	}
	organizations.InvalidatePartnersCache(ctx, s.Rdb)

	log.Info().
		Str("admin_id", actor.UserID.String()).
		Str("org_id", org.ID.String()).
		Bool("featured", featured).
		Msg("featured partner toggled")
	return &org, nil
}
