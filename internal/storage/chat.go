package storage

import (
	"context"

	"flightclaim/backend/internal/models"

	"gorm.io/gorm"
)

func (s *Service) CreateChatSession(ctx context.Context, session *models.ChatSession) error {
	return create(ctx, s.DB, session)
}

// GetChatSession loads a session with its messages, oldest first.
func (s *Service) GetChatSession(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.DB.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, translate(err)
	}
	session.MessageCount = int64(len(session.Messages))
	return &session, nil
}

// ListChatSessions returns sessions by last activity, each with its message count.
func (s *Service) ListChatSessions(ctx context.Context, page, limit int) ([]models.ChatSession, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.ChatSession{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sessions []models.ChatSession
	err := s.DB.WithContext(ctx).Model(&models.ChatSession{}).
		Select("chat_sessions.*, (SELECT COUNT(*) FROM chat_messages m WHERE m.session_id = chat_sessions.id) AS message_count").
		Order("updated_at DESC").
		Offset(offset(page, limit)).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// AppendChatMessage stores a message and bumps the session's updated_at.
func (s *Service) AppendChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return translate(err)
		}
		res := tx.Model(&models.ChatSession{}).Where("id = ?", msg.SessionID).Update("updated_at", gorm.Expr("NOW()"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// RecentChatMessages returns the last n messages of a session in chronological order.
func (s *Service) RecentChatMessages(ctx context.Context, sessionID string, n int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}
