package postgres

import (
	"gorm.io/gorm"

	userDatamodel "budgetbot/internal/core/datamodel/user"
	"budgetbot/internal/user"
)

// UserRepository implements the user.Repository interface using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByTelegramID(telegramID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}
