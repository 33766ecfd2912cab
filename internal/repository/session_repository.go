package repository

import (
	"skillbloom_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.ScheduledSession) error {
	return r.DB.Create(session).Error
}

func (r *SessionRepository) FindByID(id uint) (*model.ScheduledSession, error) {
	var session model.ScheduledSession
	err := r.DB.First(&session, id).Error
	return &session, err
}

// FindForUser 用户作为学习者或教师参与的全部会话
func (r *SessionRepository) FindForUser(userID uint) ([]model.ScheduledSession, error) {
	var sessions []model.ScheduledSession
	err := r.DB.
		Preload("User").
		Preload("Teacher").
		Preload("TeachSkill").
		Preload("LearnSkill").
		Where("user_id = ? OR teacher_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&sessions).Error
	return sessions, err
}

// MarkCompleted 条件更新 pending → completed。
// 返回是否真正发生了状态变更（false 表示早已完成）。
func (r *SessionRepository) MarkCompleted(tx *gorm.DB, sessionID uint) (bool, error) {
	res := tx.Model(&model.ScheduledSession{}).
		Where("id = ? AND is_completed = ?", sessionID, false).
		Update("is_completed", true)
	return res.RowsAffected > 0, res.Error
}

// MarkRated 条件更新 completed → rated，RowsAffected 为 0 说明
// 会话未完成或已被评分，由调用方读取当前行区分两种情况。
func (r *SessionRepository) MarkRated(tx *gorm.DB, sessionID uint) (bool, error) {
	res := tx.Model(&model.ScheduledSession{}).
		Where("id = ? AND is_completed = ? AND is_rated = ?", sessionID, true, false).
		Update("is_rated", true)
	return res.RowsAffected > 0, res.Error
}
