package model

// swagger:model Skill
type Skill struct {
	BaseModel
	Name        string `gorm:"size:100;unique;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// 能教授该技能的用户，经 user_skills 关联表反向查询
	Teachers []User `gorm:"many2many:user_skills" json:"-"`
}

func (Skill) TableName() string {
	return "skills"
}
