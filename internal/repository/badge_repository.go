package repository

import (
	"errors"
	"skillbloom_backend/internal/model"

	"gorm.io/gorm"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

// GetOrCreate 按名称取回徽章，不存在则创建
func (r *BadgeRepository) GetOrCreate(name string) (*model.Badge, error) {
	var badge model.Badge
	err := r.DB.Where("name = ?", name).First(&badge).Error
	if err == nil {
		return &badge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	badge = model.Badge{Name: name}
	if err := r.DB.Create(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

// CountForUser 用户当前持有的徽章数
func (r *BadgeRepository) CountForUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Table("user_badges").Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// Attach 幂等地把徽章授予用户（先做成员检查）
func (r *BadgeRepository) Attach(badge *model.Badge, userID uint) error {
	var count int64
	if err := r.DB.Table("user_badges").
		Where("user_id = ? AND badge_id = ?", userID, badge.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user := model.User{BaseModel: model.BaseModel{ID: userID}}
	return r.DB.Model(&user).Association("Badges").Append(badge)
}

func (r *BadgeRepository) FindForUser(userID uint) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("badges.id").
		Find(&badges).Error
	return badges, err
}
