package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Outbox email states.
const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// EmailOutbox persists a notification email before dispatch so a mail-provider
// outage never turns a committed status write into a reported failure. Rows
// stay pending until the dispatcher sends them or gives up.
type EmailOutbox struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ToEmail   string         `gorm:"column:to_email;not null" json:"toEmail"`
	ToName    string         `gorm:"column:to_name" json:"toName"`
	Subject   string         `gorm:"column:subject;not null" json:"subject"`
	HTML      string         `gorm:"column:html;not null" json:"-"`
	Headers   datatypes.JSON `gorm:"column:headers" json:"headers"`
	Tags      datatypes.JSON `gorm:"column:tags" json:"tags"`
	Status    string         `gorm:"column:status;not null;default:'pending';index" json:"status"`
	Attempts  int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	LastError *string        `gorm:"column:last_error" json:"lastError"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (EmailOutbox) TableName() string {
	return "email_outbox"
}

func (o *EmailOutbox) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
