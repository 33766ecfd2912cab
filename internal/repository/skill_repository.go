package repository

import (
	"errors"
	"skillbloom_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) Create(skill *model.Skill) error {
	return r.DB.Create(skill).Error
}

func (r *SkillRepository) FindAll() ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Order("name").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByID(id uint) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, id).Error
	return &skill, err
}

// FindByName 大小写不敏感查找（对应 Django 的 name__iexact）
func (r *SkillRepository) FindByName(name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("LOWER(name) = LOWER(?)", name).First(&skill).Error
	return &skill, err
}

// GetOrCreate 按名称取回技能，不存在则创建
func (r *SkillRepository) GetOrCreate(name string) (*model.Skill, error) {
	skill, err := r.FindByName(name)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	skill = &model.Skill{Name: name}
	if err := r.DB.Create(skill).Error; err != nil {
		return nil, err
	}
	return skill, nil
}

// FindTeachers 返回能教授该技能的用户，按加入顺序稳定排序（平分时先到先得）
func (r *SkillRepository) FindTeachers(skillID uint) ([]model.User, error) {
	var teachers []model.User
	err := r.DB.
		Joins("JOIN user_skills ON user_skills.user_id = users.id").
		Where("user_skills.skill_id = ?", skillID).
		Preload("Skills").
		Order("users.id").
		Find(&teachers).Error
	return teachers, err
}
