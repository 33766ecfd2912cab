package model

import "time"

// ScheduledSession 一次教/学配对。不变量：is_rated 为真时 is_completed 必为真。
// swagger:model ScheduledSession
type ScheduledSession struct {
	BaseModel
	UserID       uint      `gorm:"index;not null" json:"user_id"` // 学习者
	TeacherID    uint      `gorm:"index;not null" json:"teacher_id"`
	TeachSkillID uint      `gorm:"index;not null" json:"teach_skill_id"`
	LearnSkillID uint      `gorm:"index;not null" json:"learn_skill_id"`
	ScheduledAt  time.Time `json:"scheduled_date"`
	IsCompleted  bool      `gorm:"default:false" json:"is_completed"`
	IsRated      bool      `gorm:"default:false" json:"is_rated"`

	User       *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Teacher    *User  `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	TeachSkill *Skill `gorm:"foreignKey:TeachSkillID" json:"teach_skill,omitempty"`
	LearnSkill *Skill `gorm:"foreignKey:LearnSkillID" json:"learn_skill,omitempty"`
}

func (ScheduledSession) TableName() string {
	return "scheduled_sessions"
}
