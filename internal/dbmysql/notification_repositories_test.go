package dbmysql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parallel/internal/common"
)

func TestReminderRepository_Create(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `reminders`")).
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	repo := NewReminderRepository(db)
	err := repo.Create(context.Background(),
		&common.Reminder{Handle: "h1", UserID: "u1", Type: common.EventReminderType, Header: "Trip", Content: "Pack", Status: common.StatusScheduled, ScheduledAt: at},
		&common.Reminder{Handle: "h1", UserID: "u2", Type: common.EventReminderType, Header: "Trip", Content: "Pack", Status: common.StatusScheduled, ScheduledAt: at},
	)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	// nothing to write
	assert.NoError(t, repo.Create(context.Background()))
}

func TestReminderRepository_Due(t *testing.T) {
	tests := []struct {
		name          string
		mockSetup     func(sqlmock.Sqlmock, time.Time)
		expectedCount int
		expectError   bool
	}{
		{
			name: "due reminders",
			mockSetup: func(mock sqlmock.Sqlmock, now time.Time) {
				rows := sqlmock.NewRows([]string{"id", "handle", "user_id", "header", "content", "type", "status", "scheduled_at", "metadata"}).
					AddRow(1, "h1", "u1", "Trip", "Pack", "event_reminder", "scheduled", now.Add(-time.Minute), []byte(`{"event_id":"e1"}`)).
					AddRow(2, "h1", "u2", "Trip", "Pack", "event_reminder", "scheduled", now.Add(-time.Minute), nil)
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reminders` WHERE status = ? AND scheduled_at <= ? ORDER BY scheduled_at ASC")).
					WithArgs("scheduled", now).
					WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock, now time.Time) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reminders`")).WillReturnError(assert.AnError)
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			now := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
			tt.mockSetup(mock, now)

			got, err := NewReminderRepository(db).Due(context.Background(), now)
			if tt.expectError {
				assert.ErrorIs(t, err, common.ErrStorage)
			} else {
				require.NoError(t, err)
				assert.Len(t, got, tt.expectedCount)
				assert.Equal(t, "e1", got[0].Metadata["event_id"])
				assert.Equal(t, common.StatusScheduled, got[0].Status)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReminderRepository_ByHandle_NotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `reminders` WHERE handle = ?")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewReminderRepository(db).ByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_UpdateStatus(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		wantError error
	}{
		{"updated", 1, nil},
		{"unknown reminder", 0, common.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, cleanup := setupTestDB(t)
			defer cleanup()

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta("UPDATE `reminders` SET")).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := NewReminderRepository(db).UpdateStatus(context.Background(), "h1", "u1", common.StatusSent)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReminderRepository_Cancel(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `reminders` SET")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := NewReminderRepository(db).Cancel(context.Background(), "h1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
