package participants

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/authctx"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInitiativeNotFound  = apperr.New(apperr.NotFound, "المبادرة غير موجودة")
	ErrParticipantNotFound = apperr.New(apperr.NotFound, "المشارك غير موجود")
	ErrNotPublished        = apperr.New(apperr.Forbidden, "المبادرة غير متاحة للتسجيل")
	ErrDeadlinePassed      = apperr.New(apperr.Forbidden, "انتهى الموعد النهائي للتسجيل")
	ErrFull                = apperr.New(apperr.Conflict, "اكتمل عدد المشاركين في هذه المبادرة")
	ErrAlreadyJoined       = apperr.New(apperr.Conflict, "أنت مسجل بالفعل في هذه المبادرة")
	ErrNotOrganizer        = apperr.New(apperr.Forbidden, "غير مصرح لك بإدارة مشاركي هذه المبادرة")
	ErrNotParticipant      = apperr.New(apperr.Forbidden, "يجب أن تكون مشاركاً في المبادرة لتقييمها")
	ErrAlreadyRated        = apperr.New(apperr.Conflict, "لقد قمت بتقييم هذه المبادرة بالفعل")
	ErrInvalidRating       = apperr.New(apperr.Validation, "التقييم يجب أن يكون بين 1 و 5")
	ErrInvalidStatus       = apperr.New(apperr.Validation, "حالة المشاركة غير صالحة")
)

// Service handles joining, moderating and rating initiative participation.
type Service struct {
	DB *gorm.DB
}

// JoinInput carries the registration answers.
type JoinInput struct {
	ParticipantRole *string         `json:"participantRole"`
	Answers         json.RawMessage `json:"answers"`
}

// Join registers the actor on a published initiative. Open-participation
// initiatives auto-approve the registration.
func (s *Service) Join(ctx context.Context, actor authctx.Context, initiativeID uuid.UUID, in JoinInput) (*domain.Participant, error) {
	var initiative domain.Initiative
	if err := s.DB.WithContext(ctx).Where("id = ?", initiativeID).First(&initiative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}

	if initiative.Status != domain.InitiativePublished {
		return nil, ErrNotPublished
	}
	if initiative.RegistrationDeadline != nil && time.Now().After(*initiative.RegistrationDeadline) {
		return nil, ErrDeadlinePassed
	}
	if !initiative.HasAvailableSpots() {
		return nil, ErrFull
	}

	var existing domain.Participant
	err := s.DB.WithContext(ctx).
		Where("initiative_id = ? AND user_id = ?", initiativeID, actor.UserID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyJoined
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	participant := &domain.Participant{
		InitiativeID:    initiativeID,
		UserID:          actor.UserID,
		Status:          domain.ParticipantRegistered,
		ParticipantRole: in.ParticipantRole,
	}
	if len(in.Answers) > 0 {
		participant.Answers = datatypes.JSON(in.Answers)
	}

	if initiative.IsOpenParticipation {
		participant.Status = domain.ParticipantApproved
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(participant).Error; err != nil {
			return err
		}
		if participant.Status == domain.ParticipantApproved {
			return tx.Model(&domain.Initiative{}).
				Where("id = ?", initiativeID).
				UpdateColumn("current_participants", gorm.Expr("current_participants + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// organizerOwns reports whether the actor organizes the initiative.
func (s *Service) organizerOwns(ctx context.Context, actor authctx.Context, initiative *domain.Initiative) (bool, error) {
	organizer, err := domain.OrganizerOf(initiative)
	if err != nil {
		return false, err
	}
	switch organizer.Type {
	case domain.OrganizerUser:
		return *organizer.UserID == actor.UserID, nil
	case domain.OrganizerOrganization:
		var org domain.Organization
		if err := s.DB.WithContext(ctx).Where("id = ?", *organizer.OrgID).First(&org).Error; err != nil {
			return false, err
		}
		return org.UserID == actor.UserID, nil
	}
	return false, nil
}

// SetStatus lets the organizer approve or reject one registration. Moving into
// approved increments the participant counter; moving out decrements it.
func (s *Service) SetStatus(ctx context.Context, actor authctx.Context, initiativeID, participantID uuid.UUID, status domain.ParticipantStatus) (*domain.Participant, error) {
	if status != domain.ParticipantApproved && status != domain.ParticipantRejected {
		return nil, ErrInvalidStatus
	}

	var initiative domain.Initiative
	if err := s.DB.WithContext(ctx).Where("id = ?", initiativeID).First(&initiative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}

	ok, err := s.organizerOwns(ctx, actor, &initiative)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotOrganizer
	}

	var participant domain.Participant
	err = s.DB.WithContext(ctx).
		Where("id = ? AND initiative_id = ?", participantID, initiativeID).
		First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if participant.Status == status {
		return &participant, nil
	}
	if status == domain.ParticipantApproved && !initiative.HasAvailableSpots() {
		return nil, ErrFull
	}

	wasApproved := participant.Status == domain.ParticipantApproved
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&participant).Update("status", status).Error; err != nil {
			return err
		}
		switch {
		case status == domain.ParticipantApproved:
			return tx.Model(&domain.Initiative{}).
				Where("id = ?", initiativeID).
				UpdateColumn("current_participants", gorm.Expr("current_participants + 1")).Error
		case wasApproved:
			return tx.Model(&domain.Initiative{}).
				Where("id = ? AND current_participants > 0", initiativeID).
				UpdateColumn("current_participants", gorm.Expr("current_participants - 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	participant.Status = status
	return &participant, nil
}

// ListByInitiative returns registrations for the organizer's review.
func (s *Service) ListByInitiative(ctx context.Context, actor authctx.Context, initiativeID uuid.UUID) ([]domain.Participant, error) {
	var initiative domain.Initiative
	if err := s.DB.WithContext(ctx).Where("id = ?", initiativeID).First(&initiative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}
	ok, err := s.organizerOwns(ctx, actor, &initiative)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotOrganizer
	}

	var participants []domain.Participant
	err = s.DB.WithContext(ctx).
		Preload("User").
		Where("initiative_id = ?", initiativeID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// RateInput carries a rating submission.
type RateInput struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// Rate records a 1..5 rating. Only participants of published initiatives may
// rate, and only once.
func (s *Service) Rate(ctx context.Context, actor authctx.Context, initiativeID uuid.UUID, in RateInput) (*domain.Rating, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var initiative domain.Initiative
	if err := s.DB.WithContext(ctx).Where("id = ?", initiativeID).First(&initiative).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInitiativeNotFound
		}
		return nil, err
	}
	if initiative.Status != domain.InitiativePublished {
		return nil, ErrNotPublished
	}

	var participation domain.Participant
	err := s.DB.WithContext(ctx).
		Where("initiative_id = ? AND user_id = ?", initiativeID, actor.UserID).
		First(&participation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}

	var existing domain.Rating
	err = s.DB.WithContext(ctx).
		Where("initiative_id = ? AND user_id = ?", initiativeID, actor.UserID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyRated
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rating := &domain.Rating{
		InitiativeID: initiativeID,
		UserID:       actor.UserID,
		Rating:       in.Rating,
		Comment:      in.Comment,
	}
	if err := s.DB.WithContext(ctx).Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}
