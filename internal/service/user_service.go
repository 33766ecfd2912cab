package service

import (
	"errors"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"

	"gorm.io/gorm"
)

// UserService 处理用户资料、XP 转账与排行榜
type UserService struct {
	UserRepo  *repository.UserRepository
	SkillRepo *repository.SkillRepository
	TxnRepo   *repository.XPTransactionRepository
	BadgeSvc  *BadgeService
	DB        *gorm.DB
}

func NewUserService(
	userRepo *repository.UserRepository,
	skillRepo *repository.SkillRepository,
	txnRepo *repository.XPTransactionRepository,
	badgeSvc *BadgeService,
	db *gorm.DB,
) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		SkillRepo: skillRepo,
		TxnRepo:   txnRepo,
		BadgeSvc:  badgeSvc,
		DB:        db,
	}
}

type ProfileUpdate struct {
	Name        string
	Phone       string
	Proficiency string
	Skills      []string
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByIDWithRelations(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 技能列表传入时整体替换（get-or-create 语义）
func (s *UserService) UpdateProfile(userID uint, upd ProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if upd.Name != "" {
		user.Name = upd.Name
	}
	if upd.Phone != "" {
		user.Phone = upd.Phone
	}
	if upd.Proficiency != "" {
		user.Proficiency = model.Proficiency(upd.Proficiency)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	if upd.Skills != nil {
		skills := make([]model.Skill, 0, len(upd.Skills))
		for _, name := range upd.Skills {
			skill, err := s.SkillRepo.GetOrCreate(name)
			if err != nil {
				return nil, err
			}
			skills = append(skills, *skill)
		}
		if err := s.UserRepo.ReplaceSkills(user, skills); err != nil {
			return nil, err
		}
	}

	return s.UserRepo.FindByIDWithRelations(userID)
}

func (s *UserService) SetAvatar(userID uint, url string) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}
	user.Avatar = url
	return s.UserRepo.Update(user)
}

// TransferXP 用户间转让 XP。扣减用条件更新兜底余额检查，
// 两侧变动和流水记录在同一事务内。
func (s *UserService) TransferXP(fromID, toID uint, amount int) (*model.XPTransaction, error) {
	if amount <= 0 {
		return nil, util.ErrMissingFields
	}
	if fromID == toID {
		return nil, util.ErrSelfTransfer
	}

	if _, err := s.UserRepo.FindByID(toID); err != nil {
		return nil, util.ErrUserNotFound
	}

	var txn *model.XPTransaction

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.User{}).
			Where("id = ? AND xp >= ?", fromID, amount).
			Update("xp", gorm.Expr("xp - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var from model.User
			if err := tx.First(&from, fromID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return util.ErrUserNotFound
				}
				return err
			}
			return util.ErrInsufficientXP
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", toID).
			Update("xp", gorm.Expr("xp + ?", amount)).Error; err != nil {
			return err
		}

		txn = &model.XPTransaction{
			FromUserID: fromID,
			ToUserID:   toID,
			Amount:     amount,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}

	// 收款方 XP 上涨，可能触发新徽章
	if err := s.BadgeSvc.Evaluate(toID); err != nil {
		return txn, err
	}

	return txn, nil
}

func (s *UserService) ListTransactions(userID uint) ([]model.XPTransaction, error) {
	return s.TxnRepo.FindForUser(userID)
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *UserService) GetLeaderboard(limit int) ([]LeaderboardEntry, error) {
	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	leaderboard := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		leaderboard[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.XP,
			Avatar: user.Avatar,
		}
	}

	return leaderboard, nil
}
