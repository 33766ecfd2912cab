package repository

import (
	"skillbloom_backend/internal/model"

	"gorm.io/gorm"
)

type XPTransactionRepository struct {
	DB *gorm.DB
}

func NewXPTransactionRepository(db *gorm.DB) *XPTransactionRepository {
	return &XPTransactionRepository{DB: db}
}

func (r *XPTransactionRepository) Create(txn *model.XPTransaction) error {
	return r.DB.Create(txn).Error
}

// FindForUser 用户作为转出或转入方的全部流水
func (r *XPTransactionRepository) FindForUser(userID uint) ([]model.XPTransaction, error) {
	var txns []model.XPTransaction
	err := r.DB.
		Preload("FromUser").
		Preload("ToUser").
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}
