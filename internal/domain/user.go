package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a platform account: an individual volunteer, an organization owner,
// or an admin, distinguished by UserType and Role.
type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email            string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash     string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName        string         `gorm:"column:first_name;not null" json:"firstName"`
	LastName         string         `gorm:"column:last_name;not null" json:"lastName"`
	Name             string         `gorm:"column:name;not null" json:"name"`
	Phone            *string        `gorm:"column:phone" json:"phone"`
	DateOfBirth      *time.Time     `gorm:"column:date_of_birth" json:"dateOfBirth"`
	Sex              *string        `gorm:"column:sex" json:"sex"`
	City             *string        `gorm:"column:city" json:"city"`
	State            *string        `gorm:"column:state" json:"state"`
	Country          *string        `gorm:"column:country" json:"country"`
	Latitude         *float64       `gorm:"column:latitude" json:"latitude"`
	Longitude        *float64       `gorm:"column:longitude" json:"longitude"`
	Bio              *string        `gorm:"column:bio" json:"bio"`
	Image            *string        `gorm:"column:image" json:"image"`
	UserType         UserType       `gorm:"column:user_type;not null;default:'both'" json:"userType"`
	Role             string         `gorm:"column:role;not null;default:'user'" json:"role"`
	ProfileCompleted bool           `gorm:"column:profile_completed;not null;default:false" json:"profileCompleted"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true" json:"isActive"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserQualification is the 1:1 education/occupation record collected during
// profile completion.
type UserQualification struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Specification    string    `gorm:"column:specification;not null" json:"specification"`
	EducationalLevel string    `gorm:"column:educational_level;not null" json:"educationalLevel"`
	CurrentJob       string    `gorm:"column:current_job" json:"currentJob"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (UserQualification) TableName() string {
	return "user_qualifications"
}

func (q *UserQualification) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
