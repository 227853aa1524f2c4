package diary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallel/internal/common"
	"parallel/internal/common/mocks"
	"parallel/internal/model"
)

var taipei = time.FixedZone("Asia/Taipei", 8*3600)

func newTestDiary(t *testing.T, now time.Time) (DiaryService, *mocks.MockRelationshipStore) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockRelationshipStore(ctrl)
	svc := NewDiaryService(mockStore, &common.FixedClock{T: now}, taipei, nil, nil)
	return svc, mockStore
}

func TestDiaryService_StartEntry(t *testing.T) {
	now := time.Date(2025, 7, 15, 21, 0, 0, 0, taipei)

	t.Run("first entry of the day", func(t *testing.T) {
		svc, mockStore := newTestDiary(t, now)

		mockStore.EXPECT().
			Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ common.EntityKind, f common.Filter) ([]interface{}, error) {
				assert.Equal(t, "author", f.Equals["author_id"])
				assert.Equal(t, "partner", f.Equals["recipient_id"])
				assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, taipei), *f.Since)
				assert.Equal(t, time.Date(2025, 7, 16, 0, 0, 0, 0, taipei), *f.Until)
				return []interface{}{}, nil
			})
		mockStore.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		weather := "sunny"
		entry, err := svc.StartEntry(context.Background(), "author", "partner", "Day one", "We walked by the river.", &weather, nil, "")
		require.NoError(t, err)
		assert.Equal(t, model.DiaryStatusWriting, entry.Status)
		assert.Equal(t, DefaultCoverStyle, entry.CoverStyle)
		assert.Equal(t, now, entry.CreatedAt)
		assert.Nil(t, entry.SharedAt)
		assert.Nil(t, entry.ReadAt)
		assert.Equal(t, "sunny", *entry.Weather)
	})

	t.Run("second entry on the same day", func(t *testing.T) {
		svc, mockStore := newTestDiary(t, now)

		existing := &model.DiaryEntry{ID: "e1", AuthorID: "author", RecipientID: "partner", Status: model.DiaryStatusRead}
		mockStore.EXPECT().
			Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).
			Return([]interface{}{existing}, nil)

		entry, err := svc.StartEntry(context.Background(), "author", "partner", "Again", "More words", nil, nil, "kraft")
		assert.ErrorIs(t, err, common.ErrAlreadyWrittenToday)
		assert.Nil(t, entry)
	})

	t.Run("validation happens before any storage call", func(t *testing.T) {
		svc, _ := newTestDiary(t, now)

		_, err := svc.StartEntry(context.Background(), "author", "author", "t", "c", nil, nil, "")
		assert.ErrorIs(t, err, common.ErrValidation)

		_, err = svc.StartEntry(context.Background(), "author", "partner", "t", "   ", nil, nil, "")
		assert.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("storage failure on lookup", func(t *testing.T) {
		svc, mockStore := newTestDiary(t, now)
		mockStore.EXPECT().Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).Return(nil, errors.New("db is down"))

		_, err := svc.StartEntry(context.Background(), "author", "partner", "t", "c", nil, nil, "")
		assert.ErrorIs(t, err, common.ErrStorage)
		assert.Contains(t, err.Error(), "db is down")
	})
}

func TestDiaryService_SameDayTwice(t *testing.T) {
	now := time.Date(2025, 7, 15, 8, 0, 0, 0, taipei)
	svc, mockStore := newTestDiary(t, now)

	var inserted []interface{}
	mockStore.EXPECT().
		Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).
		DoAndReturn(func(context.Context, common.EntityKind, common.Filter) ([]interface{}, error) {
			return inserted, nil
		}).
		Times(2)
	mockStore.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entity interface{}) error {
			inserted = append(inserted, entity)
			return nil
		}).
		Times(1)

	_, err := svc.StartEntry(context.Background(), "author", "partner", "one", "first", nil, nil, "")
	require.NoError(t, err)

	_, err = svc.StartEntry(context.Background(), "author", "partner", "two", "second", nil, nil, "")
	assert.ErrorIs(t, err, common.ErrAlreadyWrittenToday)
}

func TestDiaryService_Lifecycle(t *testing.T) {
	now := time.Date(2025, 7, 15, 21, 0, 0, 0, taipei)
	svc, mockStore := newTestDiary(t, now)
	ctx := context.Background()

	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	entry := &model.DiaryEntry{ID: "e1", AuthorID: "author", RecipientID: "partner", Status: model.DiaryStatusWriting}

	// read before share fails
	_, err := svc.MarkRead(ctx, entry, "partner")
	assert.ErrorIs(t, err, common.ErrInvalidStateTransition)

	// share before lock fails
	_, err = svc.Share(ctx, entry)
	assert.ErrorIs(t, err, common.ErrInvalidStateTransition)

	locked, err := svc.Lock(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, model.DiaryStatusLocked, locked.Status)
	assert.Equal(t, model.DiaryStatusWriting, entry.Status)

	_, err = svc.Lock(ctx, locked)
	assert.ErrorIs(t, err, common.ErrInvalidStateTransition)

	shared, err := svc.Share(ctx, locked)
	require.NoError(t, err)
	assert.Equal(t, model.DiaryStatusShared, shared.Status)
	require.NotNil(t, shared.SharedAt)
	assert.Equal(t, now, *shared.SharedAt)
	assert.Nil(t, shared.ReadAt)

	_, err = svc.MarkRead(ctx, shared, "author")
	assert.ErrorIs(t, err, common.ErrNotAuthorized)

	read, err := svc.MarkRead(ctx, shared, "partner")
	require.NoError(t, err)
	assert.Equal(t, model.DiaryStatusRead, read.Status)
	require.NotNil(t, read.ReadAt)
	assert.False(t, read.ReadAt.Before(*read.SharedAt))

	// terminal
	_, err = svc.MarkRead(ctx, read, "partner")
	assert.ErrorIs(t, err, common.ErrInvalidStateTransition)
}

func TestDiaryService_MarkRead_AuthorizationFirst(t *testing.T) {
	svc, _ := newTestDiary(t, time.Now())

	entry := &model.DiaryEntry{ID: "e1", AuthorID: "author", RecipientID: "partner", Status: model.DiaryStatusWriting}
	_, err := svc.MarkRead(context.Background(), entry, "stranger")
	assert.ErrorIs(t, err, common.ErrNotAuthorized)
}

func TestDiaryService_SaveFailureLeavesEntryUnchanged(t *testing.T) {
	svc, mockStore := newTestDiary(t, time.Now())
	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("lock wait timeout"))

	entry := &model.DiaryEntry{ID: "e1", RecipientID: "partner", Status: model.DiaryStatusLocked}
	shared, err := svc.Share(context.Background(), entry)
	assert.ErrorIs(t, err, common.ErrStorage)
	assert.Nil(t, shared)
	assert.Equal(t, model.DiaryStatusLocked, entry.Status)
	assert.Nil(t, entry.SharedAt)
}

func TestDiaryService_AddImage(t *testing.T) {
	svc, mockStore := newTestDiary(t, time.Now())
	mockStore.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	entry := &model.DiaryEntry{ID: "e1", Status: model.DiaryStatusWriting}
	updated, err := svc.AddImage(context.Background(), entry, []byte("jpeg"))
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
	assert.Len(t, entry.Images, 0)

	locked := &model.DiaryEntry{ID: "e2", Status: model.DiaryStatusLocked}
	_, err = svc.AddImage(context.Background(), locked, []byte("jpeg"))
	assert.ErrorIs(t, err, common.ErrInvalidStateTransition)

	_, err = svc.AddImage(context.Background(), entry, nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTurnStatusText(t *testing.T) {
	assert.Equal(t, StatusTextFirstPage, TurnStatusText(nil))
	assert.Equal(t, StatusTextWriting, TurnStatusText(&model.DiaryEntry{Status: model.DiaryStatusWriting}))
	assert.Equal(t, StatusTextAwaiting, TurnStatusText(&model.DiaryEntry{Status: model.DiaryStatusLocked}))
	assert.Equal(t, StatusTextYourTurn, TurnStatusText(&model.DiaryEntry{Status: model.DiaryStatusShared}))
	assert.Equal(t, StatusTextYourTurn, TurnStatusText(&model.DiaryEntry{Status: model.DiaryStatusRead}))
}

func TestDiaryService_StatusText(t *testing.T) {
	svc, mockStore := newTestDiary(t, time.Now())

	mockStore.EXPECT().
		Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ common.EntityKind, f common.Filter) ([]interface{}, error) {
			assert.True(t, f.Descending)
			assert.Equal(t, 1, f.Limit)
			return []interface{}{&model.DiaryEntry{Status: model.DiaryStatusLocked}}, nil
		})

	text, err := svc.StatusText(context.Background(), "author", "partner")
	require.NoError(t, err)
	assert.Equal(t, StatusTextAwaiting, text)
}

func TestDiaryService_GetEntry(t *testing.T) {
	svc, mockStore := newTestDiary(t, time.Now())
	mockStore.EXPECT().Fetch(gomock.Any(), common.KindDiaryEntry, gomock.Any()).Return([]interface{}{}, nil)

	_, err := svc.GetEntry(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
