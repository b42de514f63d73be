package user

import (
	"log/slog"

	"budgetbot/internal"
	userDatamodel "budgetbot/internal/core/datamodel/user"
)

// Identity is what the chat transport knows about the sender.
type Identity struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

type Repository interface {
	GetByTelegramID(telegramID int64) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
}

type Service struct {
	repo            Repository
	defaultCurrency string
	logger          *slog.Logger
}

func NewService(repo Repository, defaultCurrency string, logger *slog.Logger) *Service {
	return &Service{
		repo:            repo,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// GetOrCreate resolves the sender to a stored user, registering them on
// first contact. Concurrent first messages may race on the insert; the
// unique telegram_id constraint decides the winner and the loser re-reads.
func (s *Service) GetOrCreate(id Identity) (*userDatamodel.User, error) {
	existing, err := s.repo.GetByTelegramID(id.TelegramID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return existing, nil
	}

	u := &userDatamodel.User{
		TelegramID:   id.TelegramID,
		Username:     optional(id.Username),
		FirstName:    optional(id.FirstName),
		LastName:     optional(id.LastName),
		BaseCurrency: s.defaultCurrency,
	}
	if err := s.repo.Create(u); err != nil {
		winner, readErr := s.repo.GetByTelegramID(id.TelegramID)
		if readErr == nil && winner != nil {
			return winner, nil
		}
		return nil, internal.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "telegram_id", id.TelegramID, "user_id", u.ID)
	return u, nil
}

// GetByTelegramID returns a stored user or ErrUserNotFound.
func (s *Service) GetByTelegramID(telegramID int64) (*userDatamodel.User, error) {
	u, err := s.repo.GetByTelegramID(telegramID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
