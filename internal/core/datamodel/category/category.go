package category

// Category is scoped to a user; a null user_id denotes a system-wide
// category shared by everyone.
type Category struct {
	ID       int64   `gorm:"primaryKey"`
	UserID   *int64  `gorm:"column:user_id;uniqueIndex:uq_categories_user_name"`
	Name     string  `gorm:"column:name;uniqueIndex:uq_categories_user_name;not null"`
	Slug     *string `gorm:"column:slug"`
	IsSystem bool    `gorm:"column:is_system;default:false;not null"`
}

func (Category) TableName() string {
	return "categories"
}
