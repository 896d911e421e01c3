package participants

import (
	"context"
	"fmt"
	"testing"
	"time"

	"badir-backend/internal/domain"
	"badir-backend/internal/pkg/authctx"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupParticipantTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Organization{}, &domain.InitiativeCategory{},
		&domain.Initiative{}, &domain.Participant{}, &domain.Rating{},
	))
	return &Service{DB: db}
}

func seedUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("u-%s@example.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		FirstName:    "ليلى",
		LastName:     "مرابط",
		Name:         "ليلى مرابط",
		UserType:     domain.UserTypeHelper,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedInitiative(t *testing.T, db *gorm.DB, organizer *domain.User, mutate func(*domain.Initiative)) *domain.Initiative {
	t.Helper()
	category := &domain.InitiativeCategory{NameAr: "البيئة", IsActive: true}
	require.NoError(t, db.Create(category).Error)

	initiative := &domain.Initiative{
		OrganizerType:   domain.OrganizerUser,
		OrganizerUserID: &organizer.ID,
		CategoryID:      category.ID,
		TitleAr:         "مبادرة تجريبية",
		DescriptionAr:   "وصف كافٍ للمبادرة التجريبية في الاختبارات",
		City:            "وهران",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(48 * time.Hour),
		TargetAudience:  domain.AudienceBoth,
		Status:          domain.InitiativePublished,
	}
	if mutate != nil {
		mutate(initiative)
	}
	require.NoError(t, db.Create(initiative).Error)
	return initiative
}

func TestJoin_Registered(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, nil)

	participant, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, initiative.ID, JoinInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantRegistered, participant.Status)

	var reloaded domain.Initiative
	require.NoError(t, s.DB.First(&reloaded, "id = ?", initiative.ID).Error)
	assert.Equal(t, 0, reloaded.CurrentParticipants)
}

func TestJoin_OpenParticipationAutoApproves(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, func(i *domain.Initiative) {
		i.IsOpenParticipation = true
	})

	participant, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, initiative.ID, JoinInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantApproved, participant.Status)

	var reloaded domain.Initiative
	require.NoError(t, s.DB.First(&reloaded, "id = ?", initiative.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentParticipants)
}

func TestJoin_Guards(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)

	draft := seedInitiative(t, s.DB, organizer, func(i *domain.Initiative) {
		i.Status = domain.InitiativeDraft
	})
	_, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, draft.ID, JoinInput{})
	assert.Equal(t, ErrNotPublished, err)

	past := time.Now().Add(-time.Hour)
	closed := seedInitiative(t, s.DB, organizer, func(i *domain.Initiative) {
		i.RegistrationDeadline = &past
	})
	_, err = s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, closed.ID, JoinInput{})
	assert.Equal(t, ErrDeadlinePassed, err)

	max := 1
	full := seedInitiative(t, s.DB, organizer, func(i *domain.Initiative) {
		i.MaxParticipants = &max
		i.CurrentParticipants = 1
	})
	_, err = s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, full.ID, JoinInput{})
	assert.Equal(t, ErrFull, err)
}

func TestJoin_Twice(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, nil)
	actor := authctx.Context{UserID: joiner.ID}

	_, err := s.Join(context.Background(), actor, initiative.ID, JoinInput{})
	require.NoError(t, err)
	_, err = s.Join(context.Background(), actor, initiative.ID, JoinInput{})
	assert.Equal(t, ErrAlreadyJoined, err)
}

func TestSetStatus_ApproveIncrementsCounter(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, nil)

	participant, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, initiative.ID, JoinInput{})
	require.NoError(t, err)

	updated, err := s.SetStatus(context.Background(), authctx.Context{UserID: organizer.ID}, initiative.ID, participant.ID, domain.ParticipantApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantApproved, updated.Status)

	var reloaded domain.Initiative
	require.NoError(t, s.DB.First(&reloaded, "id = ?", initiative.ID).Error)
	assert.Equal(t, 1, reloaded.CurrentParticipants)

	// Rejecting an approved participant frees the spot.
	_, err = s.SetStatus(context.Background(), authctx.Context{UserID: organizer.ID}, initiative.ID, participant.ID, domain.ParticipantRejected)
	require.NoError(t, err)
	require.NoError(t, s.DB.First(&reloaded, "id = ?", initiative.ID).Error)
	assert.Equal(t, 0, reloaded.CurrentParticipants)
}

func TestSetStatus_OnlyOrganizer(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	stranger := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, nil)

	participant, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, initiative.ID, JoinInput{})
	require.NoError(t, err)

	_, err = s.SetStatus(context.Background(), authctx.Context{UserID: stranger.ID}, initiative.ID, participant.ID, domain.ParticipantApproved)
	assert.Equal(t, ErrNotOrganizer, err)
}

func TestSetStatus_OrgOwnerModerates(t *testing.T) {
	s := setupParticipantTest(t)
	owner := seedUser(t, s.DB)
	desc := "منظمة"
	org := &domain.Organization{
		Name:             "منظمة",
		ContactEmail:     "org@example.com",
		OrganizationType: "charity",
		ShortDescription: &desc,
		IsVerified:       domain.OrgApproved,
		UserID:           owner.ID,
	}
	require.NoError(t, s.DB.Create(org).Error)

	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, owner, func(i *domain.Initiative) {
		i.OrganizerType = domain.OrganizerOrganization
		i.OrganizerUserID = nil
		i.OrganizerOrgID = &org.ID
	})

	participant, err := s.Join(context.Background(), authctx.Context{UserID: joiner.ID}, initiative.ID, JoinInput{})
	require.NoError(t, err)

	updated, err := s.SetStatus(context.Background(), authctx.Context{UserID: owner.ID}, initiative.ID, participant.ID, domain.ParticipantApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.ParticipantApproved, updated.Status)
}

func TestRate_Guards(t *testing.T) {
	s := setupParticipantTest(t)
	organizer := seedUser(t, s.DB)
	joiner := seedUser(t, s.DB)
	initiative := seedInitiative(t, s.DB, organizer, nil)
	actor := authctx.Context{UserID: joiner.ID}

	_, err := s.Rate(context.Background(), actor, initiative.ID, RateInput{Rating: 6})
	assert.Equal(t, ErrInvalidRating, err)

	// Not a participant yet.
	_, err = s.Rate(context.Background(), actor, initiative.ID, RateInput{Rating: 4})
	assert.Equal(t, ErrNotParticipant, err)

	_, err = s.Join(context.Background(), actor, initiative.ID, JoinInput{})
	require.NoError(t, err)

	rating, err := s.Rate(context.Background(), actor, initiative.ID, RateInput{Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)

	_, err = s.Rate(context.Background(), actor, initiative.ID, RateInput{Rating: 5})
	assert.Equal(t, ErrAlreadyRated, err)
}
