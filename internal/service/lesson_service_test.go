package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/drivedesk-api/internal/models"
	appErrors "github.com/drivedesk/drivedesk-api/pkg/errors"
)

type mockLessonRepo struct {
	lessons map[string]*models.Lesson
}

func newMockLessonRepo(lessons ...*models.Lesson) *mockLessonRepo {
	m := &mockLessonRepo{lessons: map[string]*models.Lesson{}}
	for _, l := range lessons {
		m.lessons[l.ID] = l
	}
	return m
}

func (m *mockLessonRepo) FindByID(_ context.Context, id string) (*models.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *l
	return &cp, nil
}

func (m *mockLessonRepo) List(_ context.Context, _ models.LessonFilter) ([]models.Lesson, int, error) {
	out := make([]models.Lesson, 0, len(m.lessons))
	for _, l := range m.lessons {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (m *mockLessonRepo) UpdateStatus(_ context.Context, id string, status models.LessonStatus, cancelledBy *string, cancelledAt *time.Time) error {
	l, ok := m.lessons[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	l.CancelledBy = cancelledBy
	l.CancelledAt = cancelledAt
	return nil
}

func TestLessonServiceConfirm(t *testing.T) {
	repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: models.LessonStatusRequested})
	svc := NewLessonService(repo, nil)

	lesson, err := svc.Confirm(context.Background(), "l1")
	require.NoError(t, err)

	assert.Equal(t, models.LessonStatusConfirmed, lesson.Status)
	assert.Equal(t, models.LessonStatusConfirmed, repo.lessons["l1"].Status)
}

func TestLessonServiceConfirmRejectsNonRequested(t *testing.T) {
	for _, status := range []models.LessonStatus{models.LessonStatusConfirmed, models.LessonStatusDeclined} {
		repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: status})
		svc := NewLessonService(repo, nil)

		_, err := svc.Confirm(context.Background(), "l1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	}
}

func TestLessonServiceDecline(t *testing.T) {
	repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: models.LessonStatusRequested})
	svc := NewLessonService(repo, nil)

	lesson, err := svc.Decline(context.Background(), "l1", "instructor-1")
	require.NoError(t, err)

	assert.Equal(t, models.LessonStatusDeclined, lesson.Status)
	require.NotNil(t, lesson.CancelledBy)
	assert.Equal(t, "instructor-1", *lesson.CancelledBy)
	assert.NotNil(t, lesson.CancelledAt)
}

func TestLessonServiceDeclineRejectsConfirmed(t *testing.T) {
	repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: models.LessonStatusConfirmed})
	svc := NewLessonService(repo, nil)

	_, err := svc.Decline(context.Background(), "l1", "instructor-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceCancel(t *testing.T) {
	for _, status := range []models.LessonStatus{models.LessonStatusRequested, models.LessonStatusConfirmed} {
		repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: status})
		svc := NewLessonService(repo, nil)

		lesson, err := svc.Cancel(context.Background(), "l1", "student-1")
		require.NoError(t, err)
		assert.Equal(t, models.LessonStatusDeclined, lesson.Status)
	}
}

func TestLessonServiceCancelAlreadyCancelled(t *testing.T) {
	repo := newMockLessonRepo(&models.Lesson{ID: "l1", Status: models.LessonStatusDeclined})
	svc := NewLessonService(repo, nil)

	_, err := svc.Cancel(context.Background(), "l1", "student-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLessonServiceGetNotFound(t *testing.T) {
	svc := NewLessonService(newMockLessonRepo(), nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
