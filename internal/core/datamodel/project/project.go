package project

import "time"

type Project struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null"`
	Name         string    `gorm:"column:name;not null"`
	BaseCurrency string    `gorm:"column:base_currency;default:RUB;not null"`
	IsActive     bool      `gorm:"column:is_active;default:false;not null"`
	IsDeleted    bool      `gorm:"column:is_deleted;default:false;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Project) TableName() string {
	return "projects"
}
