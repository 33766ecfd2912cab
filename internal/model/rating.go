package model

// Rating 每个会话最多一条，创建即代表会话进入 rated 终态
// swagger:model Rating
type Rating struct {
	BaseModel
	SessionID uint   `gorm:"uniqueIndex;not null" json:"session_id"`
	LearnerID uint   `gorm:"index;not null" json:"learner_id"`
	TeacherID uint   `gorm:"index;not null" json:"teacher_id"`
	Score     int    `gorm:"not null" json:"rating"` // 1..5
	Feedback  string `gorm:"type:text" json:"feedback"`
}

func (Rating) TableName() string {
	return "ratings"
}
