// Package diary enforces the shared diary protocol: an entry is written,
// locked by its author, shared with the partner and finally read. Each author
// gets one new entry per calendar day toward a given recipient.
package diary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"parallel/internal/common"
	"parallel/internal/model"
)

const (
	DefaultCoverStyle = "default"

	StatusTextWriting   = "writing in progress"
	StatusTextAwaiting  = "awaiting recipient"
	StatusTextYourTurn  = "your turn"
	StatusTextFirstPage = "write your first entry"
)

type DiaryService interface {
	StartEntry(ctx context.Context, authorID, recipientID, title, content string, weather, mood *string, coverStyle string) (*model.DiaryEntry, error)
	AddImage(ctx context.Context, entry *model.DiaryEntry, image []byte) (*model.DiaryEntry, error)
	Lock(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error)
	Share(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error)
	MarkRead(ctx context.Context, entry *model.DiaryEntry, readerID string) (*model.DiaryEntry, error)
	CanAuthorWriteToday(ctx context.Context, authorID, recipientID string) (bool, error)
	GetEntry(ctx context.Context, id string) (*model.DiaryEntry, error)
	Entries(ctx context.Context, userID, partnerID string, limit int) ([]*model.DiaryEntry, error)
	StatusText(ctx context.Context, userID, partnerID string) (string, error)
}

type diaryService struct {
	store    common.RelationshipStore
	clock    common.Clock
	loc      *time.Location
	recorder common.TransitionRecorder
	logger   *slog.Logger
}

// NewDiaryService builds the turn engine. loc decides where a calendar day
// starts; nil means time.Local.
func NewDiaryService(store common.RelationshipStore, clock common.Clock, loc *time.Location, recorder common.TransitionRecorder, logger *slog.Logger) DiaryService {
	if clock == nil {
		clock = common.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	if recorder == nil {
		recorder = common.NopRecorder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &diaryService{store: store, clock: clock, loc: loc, recorder: recorder, logger: logger}
}

func (s *diaryService) StartEntry(
	ctx context.Context,
	authorID, recipientID, title, content string,
	weather, mood *string,
	coverStyle string,
) (*model.DiaryEntry, error) {
	if err := common.ValidatePair(authorID, recipientID); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.Validationf("diary content cannot be empty")
	}
	if strings.TrimSpace(coverStyle) == "" {
		coverStyle = DefaultCoverStyle
	}

	canWrite, err := s.CanAuthorWriteToday(ctx, authorID, recipientID)
	if err != nil {
		return nil, err
	}
	if !canWrite {
		s.recorder.Rejected("diary", common.ErrAlreadyWrittenToday)
		return nil, fmt.Errorf("%w: %s already wrote to %s today", common.ErrAlreadyWrittenToday, authorID, recipientID)
	}

	entry := &model.DiaryEntry{
		ID:          uuid.New().String(),
		AuthorID:    authorID,
		RecipientID: recipientID,
		Title:       strings.TrimSpace(title),
		Content:     content,
		Status:      model.DiaryStatusWriting,
		CreatedAt:   s.clock.Now(),
		Weather:     weather,
		Mood:        mood,
		CoverStyle:  coverStyle,
		Images:      [][]byte{},
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		return nil, common.WrapStorage("insert diary entry", err)
	}

	s.recorder.Transition("diary", string(entry.Status))
	s.logger.DebugContext(ctx, "diary entry started", "id", entry.ID, "author", authorID)
	return entry, nil
}

// AddImage attaches a picture to a page that is still being written.
func (s *diaryService) AddImage(ctx context.Context, entry *model.DiaryEntry, image []byte) (*model.DiaryEntry, error) {
	if entry == nil {
		return nil, common.Validationf("diary entry is required")
	}
	if len(image) == 0 {
		return nil, common.Validationf("image payload cannot be empty")
	}
	if entry.Status != model.DiaryStatusWriting {
		return nil, common.Transitionf("images can only be added while writing, entry %s is %s", entry.ID, entry.Status)
	}

	updated := *entry
	updated.Images = append(append([][]byte{}, entry.Images...), image)
	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save diary entry", err)
	}
	return &updated, nil
}

func (s *diaryService) Lock(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error) {
	return s.transition(ctx, entry, model.DiaryStatusWriting, nil)
}

func (s *diaryService) Share(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error) {
	return s.transition(ctx, entry, model.DiaryStatusLocked, func(e *model.DiaryEntry, now time.Time) {
		e.SharedAt = &now
	})
}

// MarkRead is only allowed for the entry's recipient.
func (s *diaryService) MarkRead(ctx context.Context, entry *model.DiaryEntry, readerID string) (*model.DiaryEntry, error) {
	if entry == nil {
		return nil, common.Validationf("diary entry is required")
	}
	if readerID != entry.RecipientID {
		s.recorder.Rejected("diary", common.ErrNotAuthorized)
		return nil, fmt.Errorf("%w: %s is not the recipient of entry %s", common.ErrNotAuthorized, readerID, entry.ID)
	}
	return s.transition(ctx, entry, model.DiaryStatusShared, func(e *model.DiaryEntry, now time.Time) {
		e.ReadAt = &now
	})
}

// transition moves entry one step forward from the required status.
func (s *diaryService) transition(
	ctx context.Context,
	entry *model.DiaryEntry,
	from model.DiaryStatus,
	stamp func(*model.DiaryEntry, time.Time),
) (*model.DiaryEntry, error) {
	if entry == nil {
		return nil, common.Validationf("diary entry is required")
	}
	to, _ := from.Next()
	if entry.Status != from {
		err := common.Transitionf("diary entry %s cannot move from %s to %s", entry.ID, entry.Status, to)
		s.recorder.Rejected("diary", err)
		return nil, err
	}

	updated := *entry
	updated.Status = to
	if stamp != nil {
		stamp(&updated, s.clock.Now())
	}

	if err := s.store.Save(ctx, &updated); err != nil {
		return nil, common.WrapStorage("save diary entry", err)
	}

	s.recorder.Transition("diary", string(to))
	return &updated, nil
}

// CanAuthorWriteToday is false once the author created any entry for this
// recipient today, whatever its status. Partners do not have to alternate.
func (s *diaryService) CanAuthorWriteToday(ctx context.Context, authorID, recipientID string) (bool, error) {
	start := common.StartOfDay(s.clock.Now(), s.loc)
	end := start.AddDate(0, 0, 1)

	rows, err := s.store.Fetch(ctx, common.KindDiaryEntry, common.Filter{
		Equals: map[string]interface{}{"author_id": authorID, "recipient_id": recipientID},
		Since:  &start,
		Until:  &end,
		Limit:  1,
	})
	if err != nil {
		return false, common.WrapStorage("fetch diary entries", err)
	}
	return len(rows) == 0, nil
}

func (s *diaryService) GetEntry(ctx context.Context, id string) (*model.DiaryEntry, error) {
	if id == "" {
		return nil, common.Validationf("diary entry ID is required")
	}
	entries, err := s.fetch(ctx, common.Filter{Equals: map[string]interface{}{"id": id}, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("diary entry %w", common.ErrNotFound)
	}
	return entries[0], nil
}

// Entries returns the pair's diary, newest first.
func (s *diaryService) Entries(ctx context.Context, userID, partnerID string, limit int) ([]*model.DiaryEntry, error) {
	if err := common.ValidatePair(userID, partnerID); err != nil {
		return nil, err
	}
	return s.fetch(ctx, common.Filter{
		AnyOf: []map[string]interface{}{
			{"author_id": userID, "recipient_id": partnerID},
			{"author_id": partnerID, "recipient_id": userID},
		},
		Descending: true,
		Limit:      limit,
	})
}

func (s *diaryService) StatusText(ctx context.Context, userID, partnerID string) (string, error) {
	entries, err := s.Entries(ctx, userID, partnerID, 1)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return TurnStatusText(nil), nil
	}
	return TurnStatusText(entries[0]), nil
}

// TurnStatusText projects the latest entry of a pair onto a display string.
func TurnStatusText(latest *model.DiaryEntry) string {
	if latest == nil {
		return StatusTextFirstPage
	}
	switch latest.Status {
	case model.DiaryStatusWriting:
		return StatusTextWriting
	case model.DiaryStatusLocked:
		return StatusTextAwaiting
	}
	return StatusTextYourTurn
}

func (s *diaryService) fetch(ctx context.Context, filter common.Filter) ([]*model.DiaryEntry, error) {
	rows, err := s.store.Fetch(ctx, common.KindDiaryEntry, filter)
	if err != nil {
		return nil, common.WrapStorage("fetch diary entries", err)
	}
	entries := make([]*model.DiaryEntry, 0, len(rows))
	for _, row := range rows {
		entry, ok := row.(*model.DiaryEntry)
		if !ok {
			return nil, common.WrapStorage("fetch diary entries", fmt.Errorf("unexpected row type %T", row))
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
