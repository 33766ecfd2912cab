package model

import (
	"time"
)

type Proficiency string

const (
	Beginner     Proficiency = "beginner"
	Intermediate Proficiency = "intermediate"
	Expert       Proficiency = "expert"
)

// swagger:model User
type User struct {
	BaseModel
	Name        string      `gorm:"size:100;not null" json:"name"`
	Email       string      `gorm:"size:100;unique;not null" json:"email"`
	Password    string      `gorm:"size:100;not null" json:"-"`
	Phone       string      `gorm:"size:20" json:"phone"`
	Proficiency Proficiency `gorm:"size:20;default:'beginner'" json:"proficiency"`
	XP          int         `gorm:"default:100" json:"xp"`      // 经验积分，驱动徽章等级
	Credits     int         `gorm:"default:0" json:"credits"`   // 授课获得的积分余额
	Avatar      string      `gorm:"size:255" json:"avatar"`
	LastLogin   time.Time   `json:"lastLogin"`
	LastSeen    time.Time   `json:"lastSeen"`

	Skills []Skill `gorm:"many2many:user_skills" json:"skills,omitempty"`
	Badges []Badge `gorm:"many2many:user_badges" json:"badges,omitempty"`
}

func (User) TableName() string {
	return "users"
}
