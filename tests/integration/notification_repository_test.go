package integration

import (
	"context"
	"testing"
	"time"

	"github.com/agoramall/backend/internal/domain/engagement"
	"github.com/agoramall/backend/internal/domain/notification"
	"github.com/agoramall/backend/internal/domain/shared"
	"github.com/agoramall/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, repo *persistence.GormNotificationRepository, recipientID uuid.UUID, title string) *notification.Notification {
	t.Helper()

	n, err := notification.New(recipientID, notification.TypeSystem, title, "본문입니다", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func TestNotificationRepository_UnreadTracking(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormNotificationRepository(testDB.DB)
	ctx := context.Background()

	recipientID := uuid.New()
	first := seedNotification(t, repo, recipientID, "첫 번째 알림")
	seedNotification(t, repo, recipientID, "두 번째 알림")
	seedNotification(t, repo, uuid.New(), "남의 알림")

	count, err := repo.CountUnread(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Reading one decrements the unread count
	require.True(t, first.MarkRead())
	require.NoError(t, repo.Save(ctx, first))

	count, err = repo.CountUnread(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// MarkAllRead clears the rest, scoped to the recipient
	updated, err := repo.MarkAllRead(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	count, err = repo.CountUnread(ctx, recipientID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = repo.CountUnread(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNotificationRepository_RetentionSweep(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormNotificationRepository(testDB.DB)
	ctx := context.Background()

	recipientID := uuid.New()
	old := seedNotification(t, repo, recipientID, "오래된 알림")
	recent := seedNotification(t, repo, recipientID, "최근 알림")
	unreadOld := seedNotification(t, repo, recipientID, "읽지 않은 알림")

	// Backdate two notifications past the retention cutoff; only the read
	// one may be swept.
	require.True(t, old.MarkRead())
	require.NoError(t, repo.Save(ctx, old))
	stale := time.Now().Add(-notification.RetentionPeriod - time.Hour)
	require.NoError(t, testDB.DB.Exec(
		"UPDATE notifications SET read_at = ? WHERE id = ?", stale, old.ID).Error)
	require.NoError(t, testDB.DB.Exec(
		"UPDATE notifications SET created_at = ? WHERE id IN ?", stale,
		[]uuid.UUID{old.ID, unreadOld.ID}).Error)

	deleted, err := repo.DeleteReadBefore(ctx, time.Now().Add(-notification.RetentionPeriod))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	remaining, err := repo.CountForOwner(ctx, recipientID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)

	_, err = repo.FindByID(ctx, recent.ID)
	assert.NoError(t, err)
	_, err = repo.FindByID(ctx, unreadOld.ID)
	assert.NoError(t, err)
}

func TestLikeRepository_ToggleSemantics(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormLikeRepository(testDB.DB)
	ctx := context.Background()

	userID := uuid.New()
	targetID := uuid.New()

	like, err := engagement.NewLike(userID, engagement.TargetReview, targetID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, like))

	exists, err := repo.Exists(ctx, userID, engagement.TargetReview, targetID)
	require.NoError(t, err)
	assert.True(t, exists)

	// A second like from another user counts separately
	other, err := engagement.NewLike(uuid.New(), engagement.TargetReview, targetID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	count, err := repo.CountForTarget(ctx, engagement.TargetReview, targetID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Unlike removes only this user's row
	require.NoError(t, repo.Delete(ctx, userID, engagement.TargetReview, targetID))

	count, err = repo.CountForTarget(ctx, engagement.TargetReview, targetID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	exists, err = repo.Exists(ctx, userID, engagement.TargetReview, targetID)
	require.NoError(t, err)
	assert.False(t, exists)
}
