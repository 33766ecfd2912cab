package service

import (
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBadgeServiceForTest(t *testing.T, db *gorm.DB) *BadgeService {
	t.Helper()
	return NewBadgeService(repository.NewBadgeRepository(db), repository.NewUserRepository(db))
}

func TestBadgeName(t *testing.T) {
	assert.Equal(t, "XP 100 Badge", BadgeName(1))
	assert.Equal(t, "XP 300 Badge", BadgeName(3))
}

func TestEvaluateAwardsMissingBadges(t *testing.T) {
	db := setupTestDB(t)
	svc := newBadgeServiceForTest(t, db)

	user := createTestUser(t, db, "Rich", 250)

	require.NoError(t, svc.Evaluate(user.ID))

	badges, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, "XP 100 Badge", badges[0].Name)
	assert.Equal(t, "XP 200 Badge", badges[1].Name)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newBadgeServiceForTest(t, db)

	user := createTestUser(t, db, "Steady", 120)

	require.NoError(t, svc.Evaluate(user.ID))
	require.NoError(t, svc.Evaluate(user.ID))

	badges, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 1)
}

func TestEvaluateBelowFirstTier(t *testing.T) {
	db := setupTestDB(t)
	svc := newBadgeServiceForTest(t, db)

	user := createTestUser(t, db, "Fresh", 0)
	require.NoError(t, db.Model(user).Update("xp", 99).Error)

	require.NoError(t, svc.Evaluate(user.ID))

	badges, err := svc.ListForUser(user.ID)
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestEvaluateSharedBadgeRows(t *testing.T) {
	db := setupTestDB(t)
	svc := newBadgeServiceForTest(t, db)

	first := createTestUser(t, db, "First", 100)
	second := createTestUser(t, db, "Second", 100)

	require.NoError(t, svc.Evaluate(first.ID))
	require.NoError(t, svc.Evaluate(second.ID))

	// 同级徽章全局只有一行，按用户挂接
	var badgeRows int64
	require.NoError(t, db.Table("badges").Count(&badgeRows).Error)
	assert.EqualValues(t, 1, badgeRows)

	firstBadges, err := svc.ListForUser(first.ID)
	require.NoError(t, err)
	secondBadges, err := svc.ListForUser(second.ID)
	require.NoError(t, err)
	assert.Len(t, firstBadges, 1)
	assert.Len(t, secondBadges, 1)
}

func TestEvaluateUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newBadgeServiceForTest(t, db)

	assert.ErrorIs(t, svc.Evaluate(424242), util.ErrUserNotFound)
}
