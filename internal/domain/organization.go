package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Organization is a vetted entity that can publish initiatives once
// admin-approved. At most 5 organizations may be featured partners.
type Organization struct {
	ID                  uuid.UUID          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name                string             `gorm:"column:name;not null" json:"name"`
	ShortName           *string            `gorm:"column:short_name" json:"shortName"`
	ContactEmail        string             `gorm:"column:contact_email;not null" json:"contactEmail"`
	ContactPhone        *string            `gorm:"column:contact_phone" json:"contactPhone"`
	OrganizationType    string             `gorm:"column:organization_type;not null" json:"organizationType"`
	WorkAreas           datatypes.JSON     `gorm:"column:work_areas" json:"workAreas"`
	ShortDescription    *string            `gorm:"column:short_description" json:"shortDescription"`
	PreviousInitiatives *string            `gorm:"column:previous_initiatives" json:"previousInitiatives"`
	Headquarters        *string            `gorm:"column:headquarters" json:"headquarters"`
	City                *string            `gorm:"column:city" json:"city"`
	State               *string            `gorm:"column:state" json:"state"`
	Country             *string            `gorm:"column:country" json:"country"`
	FoundingDate        *time.Time         `gorm:"column:founding_date" json:"foundingDate"`
	MembersCount        *int               `gorm:"column:members_count" json:"membersCount"`
	Logo                *string            `gorm:"column:logo" json:"logo"`
	OfficialLicense     *string            `gorm:"column:official_license" json:"officialLicense"`
	IdentificationCard  *string            `gorm:"column:identification_card" json:"identificationCard"`
	SocialLinks         datatypes.JSON     `gorm:"column:social_links" json:"socialLinks"`
	IsVerified          OrganizationStatus `gorm:"column:is_verified;not null;default:'pending'" json:"isVerified"`
	RejectionReason     *string            `gorm:"column:rejection_reason" json:"rejectionReason"`
	IsFeaturedPartner   bool               `gorm:"column:is_featured_partner;not null;default:false" json:"isFeaturedPartner"`
	UserID              uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Owner               *User              `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
