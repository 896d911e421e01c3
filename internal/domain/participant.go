package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Participant links a user to an initiative with its own approval state.
type Participant struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InitiativeID    uuid.UUID         `gorm:"column:initiative_id;type:uuid;not null;uniqueIndex:idx_participant_once" json:"initiativeId"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_participant_once" json:"userId"`
	User            *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status          ParticipantStatus `gorm:"column:status;not null;default:'registered'" json:"status"`
	ParticipantRole *string           `gorm:"column:participant_role" json:"participantRole"`
	Answers         datatypes.JSON    `gorm:"column:answers" json:"answers"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

func (Participant) TableName() string {
	return "participants"
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Rating is a participant's 1..5 rating of a published initiative.
type Rating struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InitiativeID uuid.UUID `gorm:"column:initiative_id;type:uuid;not null;uniqueIndex:idx_rating_once" json:"initiativeId"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_rating_once" json:"userId"`
	Rating       int       `gorm:"column:rating;not null" json:"rating"`
	Comment      *string   `gorm:"column:comment" json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Rating) TableName() string {
	return "user_initiative_ratings"
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
