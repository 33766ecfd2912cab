package service

import (
	"errors"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// SessionService 会话生命周期：pending → completed → rated。
// 评分与积分发放在同一事务内完成，条件更新保证每个会话至多记一次积分。
type SessionService struct {
	SessionRepo *repository.SessionRepository
	RatingRepo  *repository.RatingRepository
	UserRepo    *repository.UserRepository
	SkillRepo   *repository.SkillRepository
	BadgeSvc    *BadgeService
	DB          *gorm.DB
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	ratingRepo *repository.RatingRepository,
	userRepo *repository.UserRepository,
	skillRepo *repository.SkillRepository,
	badgeSvc *BadgeService,
	db *gorm.DB,
) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		RatingRepo:  ratingRepo,
		UserRepo:    userRepo,
		SkillRepo:   skillRepo,
		BadgeSvc:    badgeSvc,
		DB:          db,
	}
}

type BookSessionInput struct {
	LearnerID  uint
	TeacherID  uint
	LearnSkill string
	TeachSkill string
	At         time.Time
}

func (s *SessionService) Book(input BookSessionInput) (*model.ScheduledSession, error) {
	if _, err := s.UserRepo.FindByID(input.LearnerID); err != nil {
		return nil, util.ErrUserNotFound
	}
	if _, err := s.UserRepo.FindByID(input.TeacherID); err != nil {
		return nil, util.ErrUserNotFound
	}
	if input.LearnerID == input.TeacherID {
		return nil, util.ErrSelfSession
	}

	learnSkill, err := s.SkillRepo.GetOrCreate(input.LearnSkill)
	if err != nil {
		return nil, err
	}

	// 未指定教授技能时默认与学习技能相同
	teachName := input.TeachSkill
	if teachName == "" {
		teachName = input.LearnSkill
	}
	teachSkill, err := s.SkillRepo.GetOrCreate(teachName)
	if err != nil {
		return nil, err
	}

	session := &model.ScheduledSession{
		UserID:       input.LearnerID,
		TeacherID:    input.TeacherID,
		LearnSkillID: learnSkill.ID,
		TeachSkillID: teachSkill.ID,
		ScheduledAt:  input.At,
	}
	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Complete 标记会话完成。重复调用不算错误，返回 alreadyCompleted=true 供上层提示。
func (s *SessionService) Complete(sessionID uint) (alreadyCompleted bool, err error) {
	if _, err := s.SessionRepo.FindByID(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrSessionNotFound
		}
		return false, err
	}

	changed, err := s.SessionRepo.MarkCompleted(s.DB, sessionID)
	if err != nil {
		return false, err
	}
	return !changed, nil
}

// Rate 为已完成且未评分的会话记录评分，并给教师加积分和 XP。
// 条件更新充当状态检查：并发的两次评分至多一次成功。
func (s *SessionService) Rate(sessionID uint, score int, feedback string) (*model.Rating, error) {
	if score < 1 || score > 5 {
		return nil, util.ErrInvalidRating
	}

	var rating *model.Rating
	var teacherID uint

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var session model.ScheduledSession
		if err := tx.First(&session, sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrSessionNotFound
			}
			return err
		}

		changed, err := s.SessionRepo.MarkRated(tx, sessionID)
		if err != nil {
			return err
		}
		if !changed {
			if !session.IsCompleted {
				return util.ErrSessionNotCompleted
			}
			return util.ErrAlreadyRated
		}

		rating = &model.Rating{
			SessionID: sessionID,
			LearnerID: session.UserID,
			TeacherID: session.TeacherID,
			Score:     score,
			Feedback:  feedback,
		}
		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		teacherID = session.TeacherID
		// 教师积分加评分值，XP 加十倍评分值
		return tx.Model(&model.User{}).
			Where("id = ?", session.TeacherID).
			Updates(map[string]interface{}{
				"credits": gorm.Expr("credits + ?", score),
				"xp":      gorm.Expr("xp + ?", score*10),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	// XP 变动后重算徽章
	if err := s.BadgeSvc.Evaluate(teacherID); err != nil {
		return rating, err
	}

	return rating, nil
}

func (s *SessionService) ListForUser(userID uint) ([]model.ScheduledSession, error) {
	return s.SessionRepo.FindForUser(userID)
}
