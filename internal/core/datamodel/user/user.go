package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	TelegramID   int64     `gorm:"column:telegram_id;uniqueIndex;not null"`
	Username     *string   `gorm:"column:username"`
	FirstName    *string   `gorm:"column:first_name"`
	LastName     *string   `gorm:"column:last_name"`
	BaseCurrency string    `gorm:"column:base_currency;default:RUB;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
