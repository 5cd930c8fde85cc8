package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/drivedesk-api/internal/models"
)

func TestBlockedSlotRepositoryListByInstructor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlockedSlotRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "instructor_id", "name", "start_at", "end_at", "recurrence", "created_at", "updated_at"}).
		AddRow("b1", "i1", "lunch", now, now.Add(time.Hour), string(models.RecurrenceDaily), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, instructor_id, name, start_at, end_at, recurrence, created_at, updated_at FROM blocked_slots WHERE instructor_id = $1 ORDER BY start_at")).
		WithArgs("i1").
		WillReturnRows(rows)

	slots, err := repo.ListByInstructor(context.Background(), "i1")
	require.NoError(t, err)
	assert.Len(t, slots, 1)
	assert.Equal(t, models.RecurrenceDaily, slots[0].Recurrence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockedSlotRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlockedSlotRepository(db)

	mock.ExpectExec("INSERT INTO blocked_slots").WillReturnResult(sqlmock.NewResult(1, 1))

	slot := &models.BlockedSlot{
		InstructorID: "i1",
		Name:         "lunch",
		StartAt:      time.Now(),
		EndAt:        time.Now().Add(time.Hour),
		Recurrence:   models.RecurrenceDaily,
	}
	err := repo.Create(context.Background(), slot)
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockedSlotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlockedSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM blocked_slots WHERE id = $1")).
		WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "b1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
