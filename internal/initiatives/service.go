package initiatives

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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = apperr.New(apperr.NotFound, "المبادرة غير موجودة")
	ErrNotOwner        = apperr.New(apperr.Forbidden, "غير مصرح لك بتعديل هذه المبادرة")
	ErrOrgNotApproved  = apperr.New(apperr.Forbidden, "يجب أن تكون منظمتك معتمدة لنشر المبادرات")
	ErrOrgRequired     = apperr.New(apperr.Forbidden, "يجب تسجيل منظمة أولاً")
	ErrCategoryUnknown = apperr.New(apperr.Validation, "الفئة المحددة غير موجودة")
)

// Service encapsulates initiative lifecycle and discovery.
type Service struct {
	DB *gorm.DB
}

// CreateInput is the initiative creation payload.
type CreateInput struct {
	CategoryID           uuid.UUID        `json:"categoryId"`
	TitleAr              string           `json:"titleAr"`
	TitleEn              *string          `json:"titleEn"`
	ShortDescriptionAr   *string          `json:"shortDescriptionAr"`
	ShortDescriptionEn   *string          `json:"shortDescriptionEn"`
	DescriptionAr        string           `json:"descriptionAr"`
	DescriptionEn        *string          `json:"descriptionEn"`
	IsOnline             bool             `json:"isOnline"`
	Location             string           `json:"location"`
	City                 string           `json:"city"`
	State                *string          `json:"state"`
	Country              *string          `json:"country"`
	StartDate            time.Time        `json:"startDate"`
	EndDate              time.Time        `json:"endDate"`
	RegistrationDeadline *time.Time       `json:"registrationDeadline"`
	MaxParticipants      *int             `json:"maxParticipants"`
	IsOpenParticipation  bool             `json:"isOpenParticipation"`
	TargetAudience       string           `json:"targetAudience"`
	ParticipationQstForm json.RawMessage  `json:"participationQstForm"`
	CoverImage           *string          `json:"coverImage"`
	Publish              bool             `json:"publish"`
}

// Validate runs all date and location checks before any write happens.
func (in CreateInput) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if in.CategoryID == uuid.Nil {
		errs.Add("categoryId", "الفئة مطلوبة")
	}
	if len(strings.TrimSpace(in.TitleAr)) < 3 {
		errs.Add("titleAr", "عنوان المبادرة يجب أن يحتوي على 3 أحرف على الأقل")
	}
	if len(strings.TrimSpace(in.DescriptionAr)) < 20 {
		errs.Add("descriptionAr", "وصف المبادرة يجب أن يكون 20 حرفاً على الأقل")
	}
	if in.StartDate.IsZero() {
		errs.Add("startDate", "تاريخ البدء مطلوب")
	}
	if in.EndDate.IsZero() {
		errs.Add("endDate", "تاريخ الانتهاء مطلوب")
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && !in.EndDate.After(in.StartDate) {
		errs.Add("endDate", "تاريخ الانتهاء يجب أن يكون بعد تاريخ البدء")
	}
	if in.RegistrationDeadline != nil && !in.EndDate.IsZero() && in.RegistrationDeadline.After(in.EndDate) {
		errs.Add("registrationDeadline", "الموعد النهائي للتسجيل يجب أن يكون قبل تاريخ الانتهاء")
	}
	if !in.IsOnline {
		if len(strings.TrimSpace(in.Location)) < 3 {
			errs.Add("location", "الموقع يجب أن يحتوي على 3 أحرف على الأقل")
		}
		if strings.TrimSpace(in.City) == "" {
			errs.Add("city", "المدينة مطلوبة")
		}
	}
	if !domain.TargetAudience(in.TargetAudience).Valid() {
		errs.Add("targetAudience", "الرجاء اختيار الفئة المستهدفة")
	}
	if in.MaxParticipants != nil && *in.MaxParticipants <= 0 {
		errs.Add("maxParticipants", "يجب أن يكون الحد الأقصى للمشاركين عدداً موجباً")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}

// resolveOrganizer decides who organizes based on the actor's account type.
// Organization accounts organize through their approved organization;
// everyone else organizes as themselves.
func (s *Service) resolveOrganizer(ctx context.Context, actor authctx.Context) (domain.Organizer, error) {
	if actor.UserType != string(domain.UserTypeOrganization) {
		return domain.UserOrganizer(actor.UserID), nil
	}
	var org domain.Organization
	err := s.DB.WithContext(ctx).Where("user_id = ?", actor.UserID).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Organizer{}, ErrOrgRequired
	}
	if err != nil {
		return domain.Organizer{}, err
	}
	if org.IsVerified != domain.OrgApproved {
		return domain.Organizer{}, ErrOrgNotApproved
	}
	return domain.OrgOrganizer(org.ID), nil
}

// Create creates an initiative. Individually organized initiatives always
// start as drafts; only organization organizers may publish directly.
func (s *Service) Create(ctx context.Context, actor authctx.Context, in CreateInput) (*domain.Initiative, error) {
	organizer, err := s.resolveOrganizer(ctx, actor)
	if err != nil {
		return nil, err
	}

	var category domain.InitiativeCategory
	if err := s.DB.WithContext(ctx).Where("id = ?", in.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryUnknown
		}
		return nil, err
	}

	status := domain.InitiativeDraft
	if in.Publish && organizer.Type == domain.OrganizerOrganization {
		status = domain.InitiativePublished
	}

	initiative := &domain.Initiative{
		OrganizerType:        organizer.Type,
		OrganizerUserID:      organizer.UserID,
		OrganizerOrgID:       organizer.OrgID,
		CategoryID:           in.CategoryID,
		TitleAr:              strings.TrimSpace(in.TitleAr),
		TitleEn:              in.TitleEn,
		ShortDescriptionAr:   in.ShortDescriptionAr,
		ShortDescriptionEn:   in.ShortDescriptionEn,
		DescriptionAr:        strings.TrimSpace(in.DescriptionAr),
		DescriptionEn:        in.DescriptionEn,
		IsOnline:             in.IsOnline,
		Location:             strings.TrimSpace(in.Location),
		City:                 strings.TrimSpace(in.City),
		State:                in.State,
		Country:              in.Country,
		StartDate:            in.StartDate,
		EndDate:              in.EndDate,
		RegistrationDeadline: in.RegistrationDeadline,
		MaxParticipants:      in.MaxParticipants,
		IsOpenParticipation:  in.IsOpenParticipation,
		TargetAudience:       domain.TargetAudience(in.TargetAudience),
		CoverImage:           in.CoverImage,
		Status:               status,
	}
	if len(in.ParticipationQstForm) > 0 {
		initiative.ParticipationQstForm = datatypes.JSON(in.ParticipationQstForm)
	}
	if err := s.DB.WithContext(ctx).Create(initiative).Error; err != nil {
		return nil, err
	}
	return initiative, nil
}

// Filters for the public initiative listing.
type Filters struct {
	Search            string
	CategoryID        *uuid.UUID
	City              string
	Status            string // published | ongoing | completed | "" (any non-draft)
	TargetAudience    string
	OrganizerType     string
	HasAvailableSpots bool
	StartAfter        *time.Time
	EndBefore         *time.Time
}

// List is the public discovery query: drafts never appear; pseudo-statuses
// ongoing/completed derive from published rows and the current time.
func (s *Service) List(ctx context.Context, f Filters, p pagination.Params) ([]domain.Initiative, pagination.Meta, error) {
	p = p.Normalize(12)
	now := time.Now()

	q := s.DB.WithContext(ctx).Model(&domain.Initiative{}).
		Preload("Category").
		Preload("OrganizerUser").
		Preload("OrganizerOrg")

	switch f.Status {
	case "published":
		q = q.Where("status = ?", domain.InitiativePublished)
	case "ongoing":
		q = q.Where("status = ? AND start_date <= ? AND end_date >= ?", domain.InitiativePublished, now, now)
	case "completed":
		q = q.Where("status = ? AND end_date < ?", domain.InitiativePublished, now)
	case "":
		q = q.Where("status <> ?", domain.InitiativeDraft)
	default:
		status := domain.InitiativeStatus(f.Status)
		if !status.Valid() {
			return nil, pagination.Meta{}, apperr.New(apperr.Validation, "حالة المبادرة غير صالحة")
		}
		q = q.Where("status = ?", status)
	}

	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where(
			"LOWER(title_ar) LIKE ? OR LOWER(title_en) LIKE ? OR LOWER(short_description_ar) LIKE ? OR LOWER(short_description_en) LIKE ?",
			like, like, like, like,
		)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(f.City)+"%")
	}
	if f.TargetAudience != "" {
		q = q.Where("target_audience IN ?", []string{f.TargetAudience, string(domain.AudienceBoth)})
	}
	if f.OrganizerType != "" {
		q = q.Where("organizer_type = ?", f.OrganizerType)
	}
	if f.HasAvailableSpots {
		q = q.Where("max_participants IS NULL OR current_participants < max_participants")
	}
	if f.StartAfter != nil {
		q = q.Where("start_date >= ?", *f.StartAfter)
	}
	if f.EndBefore != nil {
		q = q.Where("end_date <= ?", *f.EndBefore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	var initiatives []domain.Initiative
	if err := q.Order("created_at DESC").Offset(p.Offset()).Limit(p.Limit).Find(&initiatives).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return initiatives, pagination.NewMeta(p, total), nil
}

// Details is an initiative with the caller's own participation, when any.
type Details struct {
	domain.Initiative
	ParticipantCount int64               `json:"participantCount"`
	MyParticipation  *domain.Participant `json:"myParticipation,omitempty"`
}

// GetByID returns full details. callerID may be uuid.Nil for anonymous reads.
func (s *Service) GetByID(ctx context.Context, id, callerID uuid.UUID) (*Details, error) {
	var initiative domain.Initiative
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("OrganizerUser").
		Preload("OrganizerOrg").
		Where("id = ?", id).
		First(&initiative).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d := &Details{Initiative: initiative}
	if err := s.DB.WithContext(ctx).Model(&domain.Participant{}).
		Where("initiative_id = ?", id).
		Count(&d.ParticipantCount).Error; err != nil {
		return nil, err
	}

	if callerID != uuid.Nil {
		var participation domain.Participant
		err := s.DB.WithContext(ctx).
			Where("initiative_id = ? AND user_id = ?", id, callerID).
			First(&participation).Error
		if err == nil {
			d.MyParticipation = &participation
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return d, nil
}

// canEdit reports whether the actor owns the initiative, either directly or
// through the organizing organization.
func (s *Service) canEdit(ctx context.Context, actor authctx.Context, initiative *domain.Initiative) (bool, error) {
	organizer, err := domain.OrganizerOf(initiative)
	if err != nil {
		return false, err
	}
	switch organizer.Type {
	case domain.OrganizerUser:
		return *organizer.UserID == actor.UserID, nil
	case domain.OrganizerOrganization:
		var org domain.Organization
		err := s.DB.WithContext(ctx).Where("id = ?", *organizer.OrgID).First(&org).Error
		if err != nil {
			return false, err
		}
		return org.UserID == actor.UserID, nil
	}
	return false, nil
}

// UpdateInput is the partial update payload; nil fields are untouched.
type UpdateInput struct {
	CategoryID           *uuid.UUID       `json:"categoryId"`
	TitleAr              *string          `json:"titleAr"`
	TitleEn              *string          `json:"titleEn"`
	ShortDescriptionAr   *string          `json:"shortDescriptionAr"`
	ShortDescriptionEn   *string          `json:"shortDescriptionEn"`
	DescriptionAr        *string          `json:"descriptionAr"`
	DescriptionEn        *string          `json:"descriptionEn"`
	IsOnline             *bool            `json:"isOnline"`
	Location             *string          `json:"location"`
	City                 *string          `json:"city"`
	State                *string          `json:"state"`
	Country              *string          `json:"country"`
	StartDate            *time.Time       `json:"startDate"`
	EndDate              *time.Time       `json:"endDate"`
	RegistrationDeadline *time.Time       `json:"registrationDeadline"`
	MaxParticipants      *int             `json:"maxParticipants"`
	IsOpenParticipation  *bool            `json:"isOpenParticipation"`
	TargetAudience       *string          `json:"targetAudience"`
	ParticipationQstForm json.RawMessage  `json:"participationQstForm"`
	CoverImage           *string          `json:"coverImage"`
	Status               *string          `json:"status"`
}

// Update edits an initiative after the ownership check. Edits by non-
// organization organizers force the initiative back to draft.
func (s *Service) Update(ctx context.Context, actor authctx.Context, id uuid.UUID, in UpdateInput) (*domain.Initiative, error) {
	var initiative domain.Initiative
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&initiative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ok, err := s.canEdit(ctx, actor, &initiative)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotOwner
	}

	errs := validation.FieldErrors{}
	start, end := initiative.StartDate, initiative.EndDate
	if in.StartDate != nil {
		start = *in.StartDate
	}
	if in.EndDate != nil {
		end = *in.EndDate
	}
	if !end.After(start) {
		errs.Add("endDate", "تاريخ الانتهاء يجب أن يكون بعد تاريخ البدء")
	}
	deadline := initiative.RegistrationDeadline
	if in.RegistrationDeadline != nil {
		deadline = in.RegistrationDeadline
	}
	if deadline != nil && deadline.After(end) {
		errs.Add("registrationDeadline", "الموعد النهائي للتسجيل يجب أن يكون قبل تاريخ الانتهاء")
	}
	if in.TargetAudience != nil && !domain.TargetAudience(*in.TargetAudience).Valid() {
		errs.Add("targetAudience", "الرجاء اختيار الفئة المستهدفة")
	}
	if in.Status != nil && !domain.InitiativeStatus(*in.Status).Valid() {
		errs.Add("status", "حالة المبادرة غير صالحة")
	}
	if !errs.Empty() {
		return nil, apperr.New(apperr.Validation, "البيانات المدخلة غير صحيحة")
	}

	updates := map[string]interface{}{}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.TitleAr != nil {
		updates["title_ar"] = strings.TrimSpace(*in.TitleAr)
	}
	if in.TitleEn != nil {
		updates["title_en"] = *in.TitleEn
	}
	if in.ShortDescriptionAr != nil {
		updates["short_description_ar"] = *in.ShortDescriptionAr
	}
	if in.ShortDescriptionEn != nil {
		updates["short_description_en"] = *in.ShortDescriptionEn
	}
	if in.DescriptionAr != nil {
		updates["description_ar"] = strings.TrimSpace(*in.DescriptionAr)
	}
	if in.DescriptionEn != nil {
		updates["description_en"] = *in.DescriptionEn
	}
	if in.IsOnline != nil {
		updates["is_online"] = *in.IsOnline
	}
	if in.Location != nil {
		updates["location"] = strings.TrimSpace(*in.Location)
	}
	if in.City != nil {
		updates["city"] = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		updates["state"] = *in.State
	}
	if in.Country != nil {
		updates["country"] = *in.Country
	}
	if in.StartDate != nil {
		updates["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		updates["end_date"] = *in.EndDate
	}
	if in.RegistrationDeadline != nil {
		updates["registration_deadline"] = *in.RegistrationDeadline
	}
	if in.MaxParticipants != nil {
		updates["max_participants"] = *in.MaxParticipants
	}
	if in.IsOpenParticipation != nil {
		updates["is_open_participation"] = *in.IsOpenParticipation
	}
	if in.TargetAudience != nil {
		updates["target_audience"] = *in.TargetAudience
	}
	if len(in.ParticipationQstForm) > 0 {
		updates["participation_qst_form"] = datatypes.JSON(in.ParticipationQstForm)
	}
	if in.CoverImage != nil {
		updates["cover_image"] = *in.CoverImage
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}

	// Individual organizers cannot self-publish; every edit returns to draft.
	if initiative.OrganizerType == domain.OrganizerUser {
		updates["status"] = domain.InitiativeDraft
	}

	if err := s.DB.WithContext(ctx).Model(&initiative).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &initiative, nil
}

// OrgInitiative is an initiative row with its average rating.
type OrgInitiative struct {
	domain.Initiative
	AverageRating float64 `json:"averageRating"`
	RatingCount   int64   `json:"ratingCount"`
}

// ByOrganization lists an organization's non-draft initiatives with average
// ratings, newest first.
func (s *Service) ByOrganization(ctx context.Context, orgID uuid.UUID) ([]OrgInitiative, error) {
	var initiatives []domain.Initiative
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Where("organizer_type = ? AND organizer_org_id = ? AND status <> ?",
			domain.OrganizerOrganization, orgID, domain.InitiativeDraft).
		Order("created_at DESC").
		Find(&initiatives).Error
	if err != nil {
		return nil, err
	}

	out := make([]OrgInitiative, 0, len(initiatives))
	for _, initiative := range initiatives {
		row := OrgInitiative{Initiative: initiative}
		var agg struct {
			Avg   float64
			Count int64
		}
		err := s.DB.WithContext(ctx).Model(&domain.Rating{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("initiative_id = ?", initiative.ID).
			Scan(&agg).Error
		if err != nil {
			return nil, err
		}
		row.AverageRating = agg.Avg
		row.RatingCount = agg.Count
		out = append(out, row)
	}
	return out, nil
}
