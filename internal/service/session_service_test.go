package service

import (
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSessionServiceForTest(t *testing.T, db *gorm.DB) *SessionService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	badgeSvc := NewBadgeService(repository.NewBadgeRepository(db), userRepo)
	return NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewRatingRepository(db),
		userRepo,
		repository.NewSkillRepository(db),
		badgeSvc,
		db,
	)
}

func TestBookSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	teacher := createTestUser(t, db, "Teacher", 100)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Photography",
		At:         time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.False(t, session.IsCompleted)
	assert.False(t, session.IsRated)
	// 未指定教授技能时默认与学习技能一致
	assert.Equal(t, session.LearnSkillID, session.TeachSkillID)
}

func TestBookSessionUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)

	_, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  9999,
		LearnSkill: "Guitar",
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestBookSessionWithSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	user := createTestUser(t, db, "Solo", 100)

	_, err := svc.Book(BookSessionInput{
		LearnerID:  user.ID,
		TeacherID:  user.ID,
		LearnSkill: "Guitar",
		At:         time.Now(),
	})
	assert.ErrorIs(t, err, util.ErrSelfSession)
}

func TestCompleteAndRateSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	teacher := createTestUser(t, db, "Teacher", 100)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Cooking",
		At:         time.Now(),
	})
	require.NoError(t, err)

	already, err := svc.Complete(session.ID)
	require.NoError(t, err)
	assert.False(t, already)

	rating, err := svc.Rate(session.ID, 5, "great teacher")
	require.NoError(t, err)
	assert.Equal(t, 5, rating.Score)
	assert.Equal(t, teacher.ID, rating.TeacherID)
	assert.Equal(t, learner.ID, rating.LearnerID)

	var updated model.User
	require.NoError(t, db.First(&updated, teacher.ID).Error)
	assert.Equal(t, 5, updated.Credits)
	assert.Equal(t, 150, updated.XP)

	var stored model.ScheduledSession
	require.NoError(t, db.First(&stored, session.ID).Error)
	assert.True(t, stored.IsCompleted)
	assert.True(t, stored.IsRated)
}

func TestRateSessionTwiceCreditsOnce(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	teacher := createTestUser(t, db, "Teacher", 100)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Cooking",
		At:         time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Complete(session.ID)
	require.NoError(t, err)

	_, err = svc.Rate(session.ID, 4, "")
	require.NoError(t, err)

	_, err = svc.Rate(session.ID, 5, "trying again")
	assert.ErrorIs(t, err, util.ErrAlreadyRated)

	// 第二次评分不加积分、不加 XP、不多建评分记录
	var teacherRow model.User
	require.NoError(t, db.First(&teacherRow, teacher.ID).Error)
	assert.Equal(t, 4, teacherRow.Credits)
	assert.Equal(t, 140, teacherRow.XP)

	var ratings int64
	require.NoError(t, db.Model(&model.Rating{}).Where("session_id = ?", session.ID).Count(&ratings).Error)
	assert.EqualValues(t, 1, ratings)
}

func TestRateSessionBeforeCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	teacher := createTestUser(t, db, "Teacher", 100)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Cooking",
		At:         time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Rate(session.ID, 5, "")
	assert.ErrorIs(t, err, util.ErrSessionNotCompleted)

	var teacherRow model.User
	require.NoError(t, db.First(&teacherRow, teacher.ID).Error)
	assert.Equal(t, 0, teacherRow.Credits)
	assert.Equal(t, 100, teacherRow.XP)
}

func TestRateSessionInvalidScore(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	for _, score := range []int{0, -1, 6} {
		_, err := svc.Rate(1, score, "")
		assert.ErrorIs(t, err, util.ErrInvalidRating)
	}
}

func TestRateUnknownSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	_, err := svc.Rate(424242, 3, "")
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestCompleteSessionTwice(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	teacher := createTestUser(t, db, "Teacher", 100)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Cooking",
		At:         time.Now(),
	})
	require.NoError(t, err)

	already, err := svc.Complete(session.ID)
	require.NoError(t, err)
	assert.False(t, already)

	// 重复完成不是错误，但要告知上层
	already, err = svc.Complete(session.ID)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestCompleteUnknownSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	_, err := svc.Complete(424242)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestRatingAwardsBadges(t *testing.T) {
	db := setupTestDB(t)
	svc := newSessionServiceForTest(t, db)

	learner := createTestUser(t, db, "Learner", 100)
	// 150 XP + 50 XP 评分奖励 = 200 → 两枚徽章
	teacher := createTestUser(t, db, "Teacher", 150)

	session, err := svc.Book(BookSessionInput{
		LearnerID:  learner.ID,
		TeacherID:  teacher.ID,
		LearnSkill: "Cooking",
		At:         time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.Complete(session.ID)
	require.NoError(t, err)
	_, err = svc.Rate(session.ID, 5, "")
	require.NoError(t, err)

	badges, err := svc.BadgeSvc.ListForUser(teacher.ID)
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, "XP 100 Badge", badges[0].Name)
	assert.Equal(t, "XP 200 Badge", badges[1].Name)
}
