package model

// XPTransaction 用户间 XP 转账流水
// swagger:model XPTransaction
type XPTransaction struct {
	BaseModel
	FromUserID uint `gorm:"index;not null" json:"from_user_id"`
	ToUserID   uint `gorm:"index;not null" json:"to_user_id"`
	Amount     int  `gorm:"not null" json:"amount"`

	FromUser *User `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	ToUser   *User `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`
}

func (XPTransaction) TableName() string {
	return "xp_transactions"
}
