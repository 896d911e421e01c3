package admin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"badir-backend/internal/config"
	"badir-backend/internal/domain"
	"badir-backend/internal/emails"
	"badir-backend/internal/notifications"
	"badir-backend/internal/pkg/apperr"
	"badir-backend/internal/pkg/authctx"
	"badir-backend/internal/pkg/pagination"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []emails.Message
	fail bool
}

func (f *fakeSender) Send(ctx context.Context, msg emails.Message) error {
	if f.fail {
		return errors.New("resend unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func setupAdminTest(t *testing.T) (*Service, *fakeSender) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Organization{}, &domain.InitiativeCategory{},
		&domain.Initiative{}, &domain.Participant{}, &domain.EmailOutbox{},
	))
	sender := &fakeSender{}
	svc := &Service{
		DB:            db,
		Notifications: &notifications.Service{DB: db, Sender: sender},
		Config:        &config.Config{AppURL: "https://badir.space"},
	}
	return svc, sender
}

func adminActor() authctx.Context {
	return authctx.Context{UserID: uuid.New(), Role: domain.RoleAdmin}
}

func seedOwner(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        fmt.Sprintf("owner-%s@example.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		FirstName:    "كريم",
		LastName:     "زيتوني",
		Name:         "كريم زيتوني",
		UserType:     domain.UserTypeOrganization,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedAdminOrg(t *testing.T, db *gorm.DB, name string, status domain.OrganizationStatus) *domain.Organization {
	t.Helper()
	owner := seedOwner(t, db)
	desc := "وصف المنظمة للاختبارات"
	org := &domain.Organization{
		Name:             name,
		ContactEmail:     fmt.Sprintf("org-%s@example.com", uuid.New().String()[:8]),
		OrganizationType: "charity",
		ShortDescription: &desc,
		IsVerified:       status,
		UserID:           owner.ID,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func outboxCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.EmailOutbox{}).Count(&n).Error)
	return n
}

func TestUpdateOrganizationStatus_ApproveEnqueuesOneEmail(t *testing.T) {
	s, sender := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "جمعية النور", domain.OrgPending)

	updated, err := s.UpdateOrganizationStatus(context.Background(), adminActor(), org.ID, domain.OrgApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgApproved, updated.IsVerified)

	assert.Equal(t, int64(1), outboxCount(t, s.DB))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "تم قبول منظمتك")
}

func TestUpdateOrganizationStatus_RepeatApproveAccepted(t *testing.T) {
	s, _ := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "جمعية النور", domain.OrgPending)
	actor := adminActor()

	_, err := s.UpdateOrganizationStatus(context.Background(), actor, org.ID, domain.OrgApproved, "")
	require.NoError(t, err)
	updated, err := s.UpdateOrganizationStatus(context.Background(), actor, org.ID, domain.OrgApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgApproved, updated.IsVerified)

	// Each decision sends its own notification.
	assert.Equal(t, int64(2), outboxCount(t, s.DB))
}

func TestUpdateOrganizationStatus_RejectRequiresReason(t *testing.T) {
	s, sender := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "جمعية النور", domain.OrgPending)

	_, err := s.UpdateOrganizationStatus(context.Background(), adminActor(), org.ID, domain.OrgRejected, "  ")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	var reloaded domain.Organization
	require.NoError(t, s.DB.First(&reloaded, "id = ?", org.ID).Error)
	assert.Equal(t, domain.OrgPending, reloaded.IsVerified)
	assert.Equal(t, int64(0), outboxCount(t, s.DB))
	assert.Empty(t, sender.sent)
}

func TestUpdateOrganizationStatus_RejectStoresReason(t *testing.T) {
	s, sender := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "جمعية النور", domain.OrgPending)

	updated, err := s.UpdateOrganizationStatus(context.Background(), adminActor(), org.ID, domain.OrgRejected, "الوثائق غير مكتملة")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgRejected, updated.IsVerified)

	var reloaded domain.Organization
	require.NoError(t, s.DB.First(&reloaded, "id = ?", org.ID).Error)
	require.NotNil(t, reloaded.RejectionReason)
	assert.Equal(t, "الوثائق غير مكتملة", *reloaded.RejectionReason)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "الوثائق غير مكتملة")
}

func TestUpdateOrganizationStatus_SendFailureStillSucceeds(t *testing.T) {
	s, sender := setupAdminTest(t)
	sender.fail = true
	org := seedAdminOrg(t, s.DB, "جمعية النور", domain.OrgPending)

	updated, err := s.UpdateOrganizationStatus(context.Background(), adminActor(), org.ID, domain.OrgApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgApproved, updated.IsVerified)

	// The decision stands; the email waits in the outbox for retry.
	var row domain.EmailOutbox
	require.NoError(t, s.DB.First(&row).Error)
	assert.Equal(t, domain.OutboxPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.NotEmpty(t, row.LastError)
}

func TestListOrganizations_PendingFirst(t *testing.T) {
	s, _ := setupAdminTest(t)
	approved := seedAdminOrg(t, s.DB, "معتمدة", domain.OrgApproved)
	require.NoError(t, s.DB.Model(approved).Update("created_at", time.Now().Add(time.Hour)).Error)
	seedAdminOrg(t, s.DB, "معلقة", domain.OrgPending)

	orgs, meta, err := s.ListOrganizations(context.Background(), adminActor(), OrgFilters{}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "معلقة", orgs[0].Name)
	assert.Equal(t, int64(2), meta.Total)
}

func TestListOrganizations_SearchByOwnerEmail(t *testing.T) {
	s, _ := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "جمعية البحث", domain.OrgPending)
	var owner domain.User
	require.NoError(t, s.DB.First(&owner, "id = ?", org.UserID).Error)
	seedAdminOrg(t, s.DB, "جمعية أخرى", domain.OrgPending)

	orgs, _, err := s.ListOrganizations(context.Background(), adminActor(), OrgFilters{Search: owner.Email}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, org.ID, orgs[0].ID)
}

func seedAdminInitiative(t *testing.T, db *gorm.DB, organizer *domain.User, category *domain.InitiativeCategory, status domain.InitiativeStatus) *domain.Initiative {
	t.Helper()
	initiative := &domain.Initiative{
		OrganizerType:   domain.OrganizerUser,
		OrganizerUserID: &organizer.ID,
		CategoryID:      category.ID,
		TitleAr:         "مبادرة للمراجعة",
		DescriptionAr:   "وصف كافٍ للمبادرة قيد المراجعة الإدارية",
		City:            "قسنطينة",
		StartDate:       time.Now().Add(24 * time.Hour),
		EndDate:         time.Now().Add(48 * time.Hour),
		TargetAudience:  domain.AudienceBoth,
		Status:          status,
	}
	require.NoError(t, db.Create(initiative).Error)
	return initiative
}

func TestUpdateInitiativeStatus_PublishEmailsIndividualOrganizer(t *testing.T) {
	s, sender := setupAdminTest(t)
	organizer := seedOwner(t, s.DB)
	category := &domain.InitiativeCategory{NameAr: "الصحة", IsActive: true}
	require.NoError(t, s.DB.Create(category).Error)
	initiative := seedAdminInitiative(t, s.DB, organizer, category, domain.InitiativeDraft)

	updated, err := s.UpdateInitiativeStatus(context.Background(), adminActor(), initiative.ID, domain.InitiativePublished, "")
	require.NoError(t, err)
	assert.Equal(t, domain.InitiativePublished, updated.Status)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "تم نشر مبادرتك")
}

func TestUpdateInitiativeStatus_NoEmailForOrgInitiative(t *testing.T) {
	s, sender := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "منظمة منظمة", domain.OrgApproved)
	category := &domain.InitiativeCategory{NameAr: "الصحة", IsActive: true}
	require.NoError(t, s.DB.Create(category).Error)
	initiative := &domain.Initiative{
		OrganizerType:  domain.OrganizerOrganization,
		OrganizerOrgID: &org.ID,
		CategoryID:     category.ID,
		TitleAr:        "مبادرة منظمة",
		DescriptionAr:  "وصف كافٍ لمبادرة تنظمها منظمة معتمدة",
		City:           "عنابة",
		StartDate:      time.Now().Add(24 * time.Hour),
		EndDate:        time.Now().Add(48 * time.Hour),
		TargetAudience: domain.AudienceBoth,
		Status:         domain.InitiativePublished,
	}
	require.NoError(t, s.DB.Create(initiative).Error)

	_, err := s.UpdateInitiativeStatus(context.Background(), adminActor(), initiative.ID, domain.InitiativeCancelled, "مخالفة الشروط")
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
	assert.Equal(t, int64(0), outboxCount(t, s.DB))
}

func TestDeleteCategory_RefusesWhileReferenced(t *testing.T) {
	s, _ := setupAdminTest(t)
	actor := adminActor()
	category, err := s.CreateCategory(context.Background(), actor, CategoryInput{NameAr: "التضامن"})
	require.NoError(t, err)

	organizer := seedOwner(t, s.DB)
	seedAdminInitiative(t, s.DB, organizer, category, domain.InitiativeDraft)

	err = s.DeleteCategory(context.Background(), actor, category.ID)
	assert.Equal(t, ErrCategoryInUse, err)

	// Remove the reference and deletion goes through.
	require.NoError(t, s.DB.Unscoped().Where("category_id = ?", category.ID).Delete(&domain.Initiative{}).Error)
	require.NoError(t, s.DeleteCategory(context.Background(), actor, category.ID))
}

func TestGetStats_Counts(t *testing.T) {
	s, _ := setupAdminTest(t)
	seedAdminOrg(t, s.DB, "أ", domain.OrgPending)
	seedAdminOrg(t, s.DB, "ب", domain.OrgApproved)
	seedAdminOrg(t, s.DB, "ج", domain.OrgApproved)

	organizer := seedOwner(t, s.DB)
	category := &domain.InitiativeCategory{NameAr: "الرياضة", IsActive: true}
	require.NoError(t, s.DB.Create(category).Error)
	seedAdminInitiative(t, s.DB, organizer, category, domain.InitiativeDraft)
	seedAdminInitiative(t, s.DB, organizer, category, domain.InitiativePublished)

	// Org-organized drafts stay out of the draft count.
	org := seedAdminOrg(t, s.DB, "د", domain.OrgApproved)
	orgDraft := &domain.Initiative{
		OrganizerType:  domain.OrganizerOrganization,
		OrganizerOrgID: &org.ID,
		CategoryID:     category.ID,
		TitleAr:        "مسودة منظمة",
		DescriptionAr:  "وصف كافٍ لمسودة مبادرة تنظمها منظمة",
		City:           "سطيف",
		StartDate:      time.Now().Add(24 * time.Hour),
		EndDate:        time.Now().Add(48 * time.Hour),
		TargetAudience: domain.AudienceBoth,
		Status:         domain.InitiativeDraft,
	}
	require.NoError(t, s.DB.Create(orgDraft).Error)

	stats, err := s.GetStats(context.Background(), adminActor())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingOrganizations)
	assert.Equal(t, int64(3), stats.ApprovedOrganizations)
	assert.Equal(t, int64(0), stats.RejectedOrganizations)
	assert.Equal(t, int64(1), stats.DraftInitiatives)
	assert.Equal(t, int64(1), stats.PublishedInitiatives)
	assert.Equal(t, int64(0), stats.CancelledInitiatives)
}

func TestToggleFeaturedPartner_CapAtFive(t *testing.T) {
	s, _ := setupAdminTest(t)
	actor := adminActor()

	for i := 0; i < 5; i++ {
		org := seedAdminOrg(t, s.DB, fmt.Sprintf("شريك %d", i), domain.OrgApproved)
		_, err := s.ToggleFeaturedPartner(context.Background(), actor, org.ID, true)
		require.NoError(t, err)
	}

	sixth := seedAdminOrg(t, s.DB, "الشريك السادس", domain.OrgApproved)
	_, err := s.ToggleFeaturedPartner(context.Background(), actor, sixth.ID, true)
	assert.Equal(t, ErrPartnerCap, err)

	// Unfeaturing one frees a slot.
	var featured domain.Organization
	require.NoError(t, s.DB.Where("is_featured_partner = ?", true).First(&featured).Error)
	_, err = s.ToggleFeaturedPartner(context.Background(), actor, featured.ID, false)
	require.NoError(t, err)
	_, err = s.ToggleFeaturedPartner(context.Background(), actor, sixth.ID, true)
	require.NoError(t, err)
}

func TestToggleFeaturedPartner_ApprovedOnly(t *testing.T) {
	s, _ := setupAdminTest(t)
	org := seedAdminOrg(t, s.DB, "معلقة", domain.OrgPending)
	_, err := s.ToggleFeaturedPartner(context.Background(), adminActor(), org.ID, true)
	assert.Equal(t, ErrPartnerNotApproved, err)
}

func TestToggleFeaturedPartner_RetoggleIdempotentUnderCap(t *testing.T) {
	s, _ := setupAdminTest(t)
	actor := adminActor()
	org := seedAdminOrg(t, s.DB, "شريك", domain.OrgApproved)

	_, err := s.ToggleFeaturedPartner(context.Background(), actor, org.ID, true)
	require.NoError(t, err)
	// The cap count excludes the organization itself, so re-featuring an
	// already featured organization never trips the limit.
	_, err = s.ToggleFeaturedPartner(context.Background(), actor, org.ID, true)
	require.NoError(t, err)
}

func TestListApprovedOrganizations_FeaturedFirst(t *testing.T) {
	s, _ := setupAdminTest(t)
	actor := adminActor()
	seedAdminOrg(t, s.DB, "ألف", domain.OrgApproved)
	featured := seedAdminOrg(t, s.DB, "ياء", domain.OrgApproved)
	_, err := s.ToggleFeaturedPartner(context.Background(), actor, featured.ID, true)
	require.NoError(t, err)
	seedAdminOrg(t, s.DB, "معلقة", domain.OrgPending)

	orgs, err := s.ListApprovedOrganizations(context.Background(), actor, "")
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "ياء", orgs[0].Name)
}
