package api

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"parallel/internal/calendar"
	"parallel/internal/common"
	"parallel/internal/model"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) CreateMessage(ctx context.Context, senderID, recipientID, content string, msgType model.MessageType, media []byte) (*model.Message, error) {
	args := m.Called(ctx, senderID, recipientID, content, msgType, media)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *MockChatService) SendMissYou(ctx context.Context, senderID, recipientID string) (*model.Message, error) {
	args := m.Called(ctx, senderID, recipientID)
	msg, _ := args.Get(0).(*model.Message)
	return msg, args.Error(1)
}

func (m *MockChatService) Send(ctx context.Context, msg *model.Message) (*model.Message, error) {
	args := m.Called(ctx, msg)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *MockChatService) Advance(ctx context.Context, msg *model.Message, target model.MessageStatus) (*model.Message, error) {
	args := m.Called(ctx, msg, target)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *MockChatService) HandleAck(ctx context.Context, token string, status model.MessageStatus) (*model.Message, error) {
	args := m.Called(ctx, token, status)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *MockChatService) GetMessage(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.Message)
	return out, args.Error(1)
}

func (m *MockChatService) GetMessageHistory(ctx context.Context, userID, partnerID string, limit int) ([]*model.Message, error) {
	args := m.Called(ctx, userID, partnerID, limit)
	out, _ := args.Get(0).([]*model.Message)
	return out, args.Error(1)
}

type MockDiaryService struct {
	mock.Mock
}

func (m *MockDiaryService) StartEntry(ctx context.Context, authorID, recipientID, title, content string, weather, mood *string, coverStyle string) (*model.DiaryEntry, error) {
	args := m.Called(ctx, authorID, recipientID, title, content, weather, mood, coverStyle)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) AddImage(ctx context.Context, entry *model.DiaryEntry, image []byte) (*model.DiaryEntry, error) {
	args := m.Called(ctx, entry, image)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) Lock(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error) {
	args := m.Called(ctx, entry)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) Share(ctx context.Context, entry *model.DiaryEntry) (*model.DiaryEntry, error) {
	args := m.Called(ctx, entry)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) MarkRead(ctx context.Context, entry *model.DiaryEntry, readerID string) (*model.DiaryEntry, error) {
	args := m.Called(ctx, entry, readerID)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) CanAuthorWriteToday(ctx context.Context, authorID, recipientID string) (bool, error) {
	args := m.Called(ctx, authorID, recipientID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiaryService) GetEntry(ctx context.Context, id string) (*model.DiaryEntry, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) Entries(ctx context.Context, userID, partnerID string, limit int) ([]*model.DiaryEntry, error) {
	args := m.Called(ctx, userID, partnerID, limit)
	out, _ := args.Get(0).([]*model.DiaryEntry)
	return out, args.Error(1)
}

func (m *MockDiaryService) StatusText(ctx context.Context, userID, partnerID string) (string, error) {
	args := m.Called(ctx, userID, partnerID)
	return args.String(0), args.Error(1)
}

type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) StartSharing(ctx context.Context, userID, partnerID string, coords model.Coordinates, accuracy float64, battery *float64, duration model.SharingDuration) (*model.LocationShare, error) {
	args := m.Called(ctx, userID, partnerID, coords, accuracy, battery, duration)
	out, _ := args.Get(0).(*model.LocationShare)
	return out, args.Error(1)
}

func (m *MockLocationService) UpdatePosition(ctx context.Context, share *model.LocationShare, coords model.Coordinates, accuracy float64, battery *float64) (*model.LocationShare, error) {
	args := m.Called(ctx, share, coords, accuracy, battery)
	out, _ := args.Get(0).(*model.LocationShare)
	return out, args.Error(1)
}

func (m *MockLocationService) Revoke(ctx context.Context, share *model.LocationShare) (*model.LocationShare, error) {
	args := m.Called(ctx, share)
	out, _ := args.Get(0).(*model.LocationShare)
	return out, args.Error(1)
}

func (m *MockLocationService) ChangeDuration(ctx context.Context, share *model.LocationShare, duration model.SharingDuration) (*model.LocationShare, error) {
	args := m.Called(ctx, share, duration)
	out, _ := args.Get(0).(*model.LocationShare)
	return out, args.Error(1)
}

func (m *MockLocationService) Current(ctx context.Context, userID string) (*model.LocationShare, bool, error) {
	args := m.Called(ctx, userID)
	out, _ := args.Get(0).(*model.LocationShare)
	return out, args.Bool(1), args.Error(2)
}

func (m *MockLocationService) IsActive(share *model.LocationShare) bool {
	args := m.Called(share)
	return args.Bool(0)
}

type MockEventService struct {
	mock.Mock
	scheduler *calendar.Scheduler
}

func (m *MockEventService) CreateEvent(ctx context.Context, in calendar.EventInput) (*model.CalendarEvent, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*model.CalendarEvent)
	return out, args.Error(1)
}

func (m *MockEventService) PairEvents(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error) {
	args := m.Called(ctx, userID, partnerID)
	out, _ := args.Get(0).([]*model.CalendarEvent)
	return out, args.Error(1)
}

func (m *MockEventService) Upcoming(ctx context.Context, userID, partnerID string, limit int) ([]*model.CalendarEvent, error) {
	args := m.Called(ctx, userID, partnerID, limit)
	out, _ := args.Get(0).([]*model.CalendarEvent)
	return out, args.Error(1)
}

func (m *MockEventService) NextAnniversary(ctx context.Context, userID, partnerID string) (*model.CalendarEvent, error) {
	args := m.Called(ctx, userID, partnerID)
	out, _ := args.Get(0).(*model.CalendarEvent)
	return out, args.Error(1)
}

func (m *MockEventService) DueReminders(ctx context.Context, userID, partnerID string) ([]*model.CalendarEvent, error) {
	args := m.Called(ctx, userID, partnerID)
	out, _ := args.Get(0).([]*model.CalendarEvent)
	return out, args.Error(1)
}

func (m *MockEventService) Scheduler() *calendar.Scheduler {
	return m.scheduler
}

type MockPositionPublisher struct {
	mock.Mock
}

func (m *MockPositionPublisher) PublishLocation(ctx context.Context, share *model.LocationShare, active bool) error {
	args := m.Called(ctx, share, active)
	return args.Error(0)
}

type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) Schedule(ctx context.Context, at time.Time, payload common.NotificationPayload) (string, error) {
	args := m.Called(ctx, at, payload)
	return args.String(0), args.Error(1)
}

func (m *MockReminderService) Cancel(ctx context.Context, handle string) error {
	args := m.Called(ctx, handle)
	return args.Error(0)
}

func (m *MockReminderService) CancelFor(ctx context.Context, handle, userID string) error {
	args := m.Called(ctx, handle, userID)
	return args.Error(0)
}

func (m *MockReminderService) Reminders(ctx context.Context, userID string, limit, offset int) ([]*common.Reminder, error) {
	args := m.Called(ctx, userID, limit, offset)
	out, _ := args.Get(0).([]*common.Reminder)
	return out, args.Error(1)
}
