package project

import (
	"log/slog"
	"strings"

	"budgetbot/internal"
	projectDatamodel "budgetbot/internal/core/datamodel/project"
	"budgetbot/internal/currency"
)

// Repository abstracts project persistence. Implementations must make
// CreateAndActivate and Activate atomic so a user never ends up with
// two active projects.
type Repository interface {
	CreateAndActivate(p *projectDatamodel.Project) error
	ListByUser(userID int64) ([]*projectDatamodel.Project, error)
	GetByID(id int64) (*projectDatamodel.Project, error)
	GetActive(userID int64) (*projectDatamodel.Project, error)
	Activate(userID, projectID int64) error
	SoftDelete(projectID int64) error
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

// Create stores a new project and makes it the user's active one,
// deactivating whatever was active before.
func (s *Service) Create(userID int64, name, baseCurrency string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, internal.NewValidationError("project name must not be empty", internal.ErrCodeInvalidProjectName)
	}

	code := s.defaultCurrency
	if baseCurrency != "" {
		if normalized, ok := currency.Normalize(baseCurrency); ok {
			code = normalized
		} else {
			s.logger.Warn("unknown base currency for new project, using default",
				"currency", baseCurrency, "default", s.defaultCurrency)
		}
	}

	dm := &projectDatamodel.Project{
		UserID:       userID,
		Name:         name,
		BaseCurrency: code,
		IsActive:     true,
	}
	if err := s.repo.CreateAndActivate(dm); err != nil {
		s.logger.Error("failed to create project", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to create project", err)
	}

	s.logger.Info("project created", "user_id", userID, "project_id", dm.ID, "name", name)
	return FromDataModel(dm), nil
}

// List returns the user's projects, newest first, without deleted ones.
func (s *Service) List(userID int64) ([]*Project, error) {
	models, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list projects", err)
	}
	projects := make([]*Project, 0, len(models))
	for _, dm := range models {
		projects = append(projects, FromDataModel(dm))
	}
	return projects, nil
}

// Active returns the user's active project or ErrNoActiveProject.
func (s *Service) Active(userID int64) (*projectDatamodel.Project, error) {
	dm, err := s.repo.GetActive(userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up active project", err)
	}
	if dm == nil {
		return nil, internal.ErrNoActiveProject
	}
	return dm, nil
}

// SetActive switches the user's active project. Deleted projects and
// projects belonging to other users read as missing.
func (s *Service) SetActive(userID, projectID int64) (*Project, error) {
	dm, err := s.owned(userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Activate(userID, projectID); err != nil {
		return nil, internal.NewInternalError("failed to switch active project", err)
	}
	dm.IsActive = true
	return FromDataModel(dm), nil
}

// Delete soft-deletes a project. The deletion is terminal: the row stays
// for history but never resurfaces, and no other project is activated in
// its place.
func (s *Service) Delete(userID, projectID int64) (*Project, error) {
	dm, err := s.owned(userID, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SoftDelete(projectID); err != nil {
		return nil, internal.NewInternalError("failed to delete project", err)
	}
	s.logger.Info("project deleted", "user_id", userID, "project_id", projectID)
	return FromDataModel(dm), nil
}

func (s *Service) owned(userID, projectID int64) (*projectDatamodel.Project, error) {
	dm, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up project", err)
	}
	if dm == nil || dm.IsDeleted || dm.UserID != userID {
		return nil, internal.ErrProjectNotFound
	}
	return dm, nil
}
