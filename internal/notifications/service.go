package notifications

import (
	"context"
	"encoding/json"
	"time"

	"badir-backend/internal/domain"
	"badir-backend/internal/emails"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxAttempts = 5

// Service persists notification emails before dispatch and retries failures.
// The status write and the email send are deliberately decoupled: enqueue is
// part of the caller's flow, delivery is a separate retryable step.
type Service struct {
	DB     *gorm.DB
	Sender emails.Sender
}

// Enqueue stores the message as a pending outbox row.
func (s *Service) Enqueue(ctx context.Context, msg emails.Message) (*domain.EmailOutbox, error) {
	headers, _ := json.Marshal(msg.Headers)
	tags, _ := json.Marshal(msg.Tags)
	row := &domain.EmailOutbox{
		ToEmail: msg.ToEmail,
		ToName:  msg.ToName,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Headers: headers,
		Tags:    tags,
		Status:  domain.OutboxPending,
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// EnqueueAndSend enqueues and immediately attempts one delivery. A send
// failure is logged and left for the dispatcher; it never fails the caller.
func (s *Service) EnqueueAndSend(ctx context.Context, msg emails.Message) {
	row, err := s.Enqueue(ctx, msg)
	if err != nil {
		log.Error().Err(err).Str("to", msg.ToEmail).Msg("outbox enqueue failed")
		return
	}
	if err := s.dispatch(ctx, row); err != nil {
		log.Error().Err(err).Str("to", msg.ToEmail).Str("outbox_id", row.ID.String()).Msg("email dispatch failed, will retry")
	}
}

// DispatchPending sends every pending row that has not exhausted its attempts.
// Called by the cron dispatcher.
func (s *Service) DispatchPending(ctx context.Context) error {
	var rows []domain.EmailOutbox
	err := s.DB.WithContext(ctx).
		Where("status = ? AND attempts < ?", domain.OutboxPending, maxAttempts).
		Order("created_at ASC").
		Limit(50).
		Find(&rows).Error
	if err != nil {
		return err
	}
	for i := range rows {
		if err := s.dispatch(ctx, &rows[i]); err != nil {
			log.Error().Err(err).Str("outbox_id", rows[i].ID.String()).Msg("email dispatch failed")
		}
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, row *domain.EmailOutbox) error {
	var headers, tags map[string]string
	_ = json.Unmarshal(row.Headers, &headers)
	_ = json.Unmarshal(row.Tags, &tags)

	sendErr := s.Sender.Send(ctx, emails.Message{
		ToEmail: row.ToEmail,
		ToName:  row.ToName,
		Subject: row.Subject,
		HTML:    row.HTML,
		Headers: headers,
		Tags:    tags,
	})

	updates := map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"updated_at": time.Now(),
	}
	if sendErr != nil {
		msg := sendErr.Error()
		updates["last_error"] = msg
		if row.Attempts+1 >= maxAttempts {
			updates["status"] = domain.OutboxFailed
		}
	} else {
		updates["status"] = domain.OutboxSent
		updates["last_error"] = nil
	}
	if err := s.DB.WithContext(ctx).Model(&domain.EmailOutbox{}).
		Where("id = ?", row.ID).
		Updates(updates).Error; err != nil {
		return err
	}
	return sendErr
}
