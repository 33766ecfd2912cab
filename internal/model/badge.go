package model

// Badge 按 XP 等级懒创建，名称形如 "XP 100 Badge"
// swagger:model Badge
type Badge struct {
	BaseModel
	Name string `gorm:"size:100;unique;not null" json:"name"`
	Icon string `gorm:"size:255" json:"icon"`

	Users []User `gorm:"many2many:user_badges" json:"-"`
}

func (Badge) TableName() string {
	return "badges"
}
