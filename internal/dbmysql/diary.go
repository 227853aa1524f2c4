package dbmysql

import (
	"time"

	"parallel/internal/model"
)

type DiaryEntry struct {
	ID          string    `gorm:"primaryKey;size:36"`
	AuthorID    string    `gorm:"index:idx_diary_pair_day;size:36;not null"`
	RecipientID string    `gorm:"index:idx_diary_pair_day;size:36;not null"`
	Title       string    `gorm:"size:255"`
	Content     string    `gorm:"type:text;not null"`
	Status      string    `gorm:"size:20;not null"`
	CreatedAt   time.Time `gorm:"index:idx_diary_pair_day;not null"`
	SharedAt    *time.Time
	ReadAt      *time.Time
	Weather     *string  `gorm:"size:50"`
	Mood        *string  `gorm:"size:50"`
	CoverStyle  string   `gorm:"size:50;not null"`
	Images      [][]byte `gorm:"type:json;serializer:json"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}

func newDiaryEntry(e *model.DiaryEntry) *DiaryEntry {
	return &DiaryEntry{
		ID:          e.ID,
		AuthorID:    e.AuthorID,
		RecipientID: e.RecipientID,
		Title:       e.Title,
		Content:     e.Content,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		SharedAt:    e.SharedAt,
		ReadAt:      e.ReadAt,
		Weather:     e.Weather,
		Mood:        e.Mood,
		CoverStyle:  e.CoverStyle,
		Images:      e.Images,
	}
}

func (r *DiaryEntry) toModel() *model.DiaryEntry {
	images := r.Images
	if images == nil {
		images = [][]byte{}
	}
	return &model.DiaryEntry{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		RecipientID: r.RecipientID,
		Title:       r.Title,
		Content:     r.Content,
		Status:      model.DiaryStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		SharedAt:    r.SharedAt,
		ReadAt:      r.ReadAt,
		Weather:     r.Weather,
		Mood:        r.Mood,
		CoverStyle:  r.CoverStyle,
		Images:      images,
	}
}
