package repository

import (
	"skillbloom_backend/internal/model"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(rating *model.Rating) error {
	return r.DB.Create(rating).Error
}

func (r *RatingRepository) FindBySessionID(sessionID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.DB.Where("session_id = ?", sessionID).First(&rating).Error
	return &rating, err
}

func (r *RatingRepository) FindByTeacherID(teacherID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.DB.Where("teacher_id = ?", teacherID).Order("created_at DESC").Find(&ratings).Error
	return ratings, err
}

func (r *RatingRepository) CountBySessionID(sessionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Rating{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}
