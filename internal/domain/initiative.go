package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Organizer is the sum type behind the organizer discriminator: an initiative
// is organized by exactly one of a user or an organization. Constructing it
// through UserOrganizer/OrgOrganizer rules out the both-set and both-nil rows.
type Organizer struct {
	Type   OrganizerType
	UserID *uuid.UUID
	OrgID  *uuid.UUID
}

func UserOrganizer(userID uuid.UUID) Organizer {
	return Organizer{Type: OrganizerUser, UserID: &userID}
}

func OrgOrganizer(orgID uuid.UUID) Organizer {
	return Organizer{Type: OrganizerOrganization, OrgID: &orgID}
}

// OrganizerOf rebuilds the sum type from a stored row.
func OrganizerOf(i *Initiative) (Organizer, error) {
	switch i.OrganizerType {
	case OrganizerUser:
		if i.OrganizerUserID == nil {
			return Organizer{}, errors.New("initiative has user organizer type but no organizer user")
		}
		return UserOrganizer(*i.OrganizerUserID), nil
	case OrganizerOrganization:
		if i.OrganizerOrgID == nil {
			return Organizer{}, errors.New("initiative has organization organizer type but no organizer org")
		}
		return OrgOrganizer(*i.OrganizerOrgID), nil
	}
	return Organizer{}, errors.New("unknown organizer type")
}

// Initiative is a volunteer event organized by a user or an organization.
type Initiative struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizerType        OrganizerType       `gorm:"column:organizer_type;not null" json:"organizerType"`
	OrganizerUserID      *uuid.UUID          `gorm:"column:organizer_user_id;type:uuid" json:"organizerUserId"`
	OrganizerOrgID       *uuid.UUID          `gorm:"column:organizer_org_id;type:uuid" json:"organizerOrgId"`
	OrganizerUser        *User               `gorm:"foreignKey:OrganizerUserID" json:"organizerUser,omitempty"`
	OrganizerOrg         *Organization       `gorm:"foreignKey:OrganizerOrgID" json:"organizerOrg,omitempty"`
	CategoryID           uuid.UUID           `gorm:"column:category_id;type:uuid;not null" json:"categoryId"`
	Category             *InitiativeCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	TitleAr              string              `gorm:"column:title_ar;not null" json:"titleAr"`
	TitleEn              *string             `gorm:"column:title_en" json:"titleEn"`
	ShortDescriptionAr   *string             `gorm:"column:short_description_ar" json:"shortDescriptionAr"`
	ShortDescriptionEn   *string             `gorm:"column:short_description_en" json:"shortDescriptionEn"`
	DescriptionAr        string              `gorm:"column:description_ar;not null" json:"descriptionAr"`
	DescriptionEn        *string             `gorm:"column:description_en" json:"descriptionEn"`
	IsOnline             bool                `gorm:"column:is_online;not null;default:false" json:"isOnline"`
	Location             string              `gorm:"column:location" json:"location"`
	City                 string              `gorm:"column:city" json:"city"`
	State                *string             `gorm:"column:state" json:"state"`
	Country              *string             `gorm:"column:country" json:"country"`
	StartDate            time.Time           `gorm:"column:start_date;not null" json:"startDate"`
	EndDate              time.Time           `gorm:"column:end_date;not null" json:"endDate"`
	RegistrationDeadline *time.Time          `gorm:"column:registration_deadline" json:"registrationDeadline"`
	MaxParticipants      *int                `gorm:"column:max_participants" json:"maxParticipants"`
	CurrentParticipants  int                 `gorm:"column:current_participants;not null;default:0" json:"currentParticipants"`
	IsOpenParticipation  bool                `gorm:"column:is_open_participation;not null;default:false" json:"isOpenParticipation"`
	TargetAudience       TargetAudience      `gorm:"column:target_audience;not null" json:"targetAudience"`
	ParticipationQstForm datatypes.JSON      `gorm:"column:participation_qst_form" json:"participationQstForm"`
	CoverImage           *string             `gorm:"column:cover_image" json:"coverImage"`
	Status               InitiativeStatus    `gorm:"column:status;not null;default:'draft'" json:"status"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (Initiative) TableName() string {
	return "initiatives"
}

func (i *Initiative) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// HasAvailableSpots reports whether the initiative still accepts participants.
func (i *Initiative) HasAvailableSpots() bool {
	return i.MaxParticipants == nil || i.CurrentParticipants < *i.MaxParticipants
}

// InitiativeCategory is label/color metadata shown on initiative cards.
type InitiativeCategory struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	NameAr        string    `gorm:"column:name_ar;not null" json:"nameAr"`
	NameEn        *string   `gorm:"column:name_en" json:"nameEn"`
	DescriptionAr *string   `gorm:"column:description_ar" json:"descriptionAr"`
	DescriptionEn *string   `gorm:"column:description_en" json:"descriptionEn"`
	BgColor       *string   `gorm:"column:bg_color" json:"bgColor"`
	TextColor     *string   `gorm:"column:text_color" json:"textColor"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (InitiativeCategory) TableName() string {
	return "initiative_categories"
}

func (c *InitiativeCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
