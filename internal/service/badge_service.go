package service

import (
	"fmt"
	"skillbloom_backend/internal/model"
	"skillbloom_backend/internal/repository"
	"skillbloom_backend/internal/util"
)

// BadgeService 徽章等级纯由 XP 推导：tier = XP / 100。
// Evaluate 幂等，XP 不变时重复执行不会发出新徽章。
type BadgeService struct {
	BadgeRepo *repository.BadgeRepository
	UserRepo  *repository.UserRepository
}

func NewBadgeService(badgeRepo *repository.BadgeRepository, userRepo *repository.UserRepository) *BadgeService {
	return &BadgeService{
		BadgeRepo: badgeRepo,
		UserRepo:  userRepo,
	}
}

// Evaluate 对比已持有徽章数和当前等级，补发缺少的徽章。
// 徽章按名称 get-or-create，授予前做成员检查。
func (s *BadgeService) Evaluate(userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}

	tier := user.XP / util.XPPerBadge

	held, err := s.BadgeRepo.CountForUser(userID)
	if err != nil {
		return err
	}

	for n := int(held); n < tier; n++ {
		badge, err := s.BadgeRepo.GetOrCreate(BadgeName(n + 1))
		if err != nil {
			return err
		}
		if err := s.BadgeRepo.Attach(badge, userID); err != nil {
			return err
		}
	}

	return nil
}

func (s *BadgeService) ListForUser(userID uint) ([]model.Badge, error) {
	return s.BadgeRepo.FindForUser(userID)
}

// BadgeName 第 n 级徽章的规范名称，n 从 1 开始
func BadgeName(n int) string {
	return fmt.Sprintf("XP %d Badge", n*util.XPPerBadge)
}
