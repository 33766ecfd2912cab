package repository

import (
	"skillbloom_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// FindByIDWithRelations 预加载技能和徽章，用于个人主页
func (r *UserRepository) FindByIDWithRelations(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.Preload("Skills").Preload("Badges").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateXP(userID uint, xp int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("xp", gorm.Expr("xp + ?", xp)).
		Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).
		Error
}

func (r *UserRepository) FindTopByXP(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("xp DESC").Limit(limit).Find(&users).Error
	return users, err
}

// AddSkill 幂等地为用户追加一个可教授技能
func (r *UserRepository) AddSkill(user *model.User, skill *model.Skill) error {
	var count int64
	r.DB.Table("user_skills").
		Where("user_id = ? AND skill_id = ?", user.ID, skill.ID).
		Count(&count)
	if count > 0 {
		return nil
	}
	return r.DB.Model(user).Association("Skills").Append(skill)
}

// ReplaceSkills 用给定技能集合整体替换用户的技能
func (r *UserRepository) ReplaceSkills(user *model.User, skills []model.Skill) error {
	return r.DB.Model(user).Association("Skills").Replace(skills)
}
