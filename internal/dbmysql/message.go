package dbmysql

import (
	"fmt"
	"time"

	"parallel/internal/common"
	"parallel/internal/model"
)

type Message struct {
	ID               string    `gorm:"primaryKey;size:36"`
	SenderID         string    `gorm:"index:idx_messages_pair;size:36;not null"`
	RecipientID      string    `gorm:"index:idx_messages_pair;size:36;not null"`
	Content          string    `gorm:"type:text"`
	Type             string    `gorm:"size:20;not null"`
	Status           string    `gorm:"size:20;not null;default:'sending'"`
	Timestamp        time.Time `gorm:"index;not null"`
	MediaData        []byte    `gorm:"type:longblob"`
	MediaURL         *string   `gorm:"size:512"`
	IsEncrypted      bool      `gorm:"not null"`
	CorrelationToken *string   `gorm:"size:64;uniqueIndex"`
}

func (Message) TableName() string {
	return "messages"
}

// newMessage seals the content when the message is flagged encrypted.
func newMessage(m *model.Message, cipher *common.MessageCipher) (*Message, error) {
	content := m.Content
	if m.IsEncrypted {
		sealed, err := cipher.Seal(content)
		if err != nil {
			return nil, fmt.Errorf("seal message content: %w", err)
		}
		content = sealed
	}

	return &Message{
		ID:               m.ID,
		SenderID:         m.SenderID,
		RecipientID:      m.RecipientID,
		Content:          content,
		Type:             string(m.Type),
		Status:           string(m.Status),
		Timestamp:        m.Timestamp,
		MediaData:        m.MediaData,
		MediaURL:         m.MediaURL,
		IsEncrypted:      m.IsEncrypted,
		CorrelationToken: m.CorrelationToken,
	}, nil
}

func (r *Message) toModel(cipher *common.MessageCipher) (*model.Message, error) {
	content, err := cipher.Open(r.Content)
	if err != nil {
		return nil, fmt.Errorf("open message %s: %w", r.ID, err)
	}

	return &model.Message{
		ID:               r.ID,
		SenderID:         r.SenderID,
		RecipientID:      r.RecipientID,
		Content:          content,
		Type:             model.MessageType(r.Type),
		Status:           model.MessageStatus(r.Status),
		Timestamp:        r.Timestamp,
		MediaData:        r.MediaData,
		MediaURL:         r.MediaURL,
		IsEncrypted:      r.IsEncrypted,
		CorrelationToken: r.CorrelationToken,
	}, nil
}
