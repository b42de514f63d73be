package project_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"budgetbot/internal"
	projectDatamodel "budgetbot/internal/core/datamodel/project"
	"budgetbot/internal/project"
)

func TestProject(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Suite")
}

// Mock repository for testing
type mockProjectRepository struct {
	projects  map[int64]*projectDatamodel.Project
	nextID    int64
	createErr error
}

func newMockProjectRepository() *mockProjectRepository {
	return &mockProjectRepository{
		projects: make(map[int64]*projectDatamodel.Project),
		nextID:   1,
	}
}

func (m *mockProjectRepository) CreateAndActivate(p *projectDatamodel.Project) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.projects {
		if existing.UserID == p.UserID {
			existing.IsActive = false
		}
	}
	p.ID = m.nextID
	m.nextID++
	p.IsActive = true
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepository) ListByUser(userID int64) ([]*projectDatamodel.Project, error) {
	var out []*projectDatamodel.Project
	for id := m.nextID - 1; id >= 1; id-- {
		p, ok := m.projects[id]
		if ok && p.UserID == userID && !p.IsDeleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProjectRepository) GetByID(id int64) (*projectDatamodel.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockProjectRepository) GetActive(userID int64) (*projectDatamodel.Project, error) {
	for _, p := range m.projects {
		if p.UserID == userID && p.IsActive && !p.IsDeleted {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProjectRepository) Activate(userID, projectID int64) error {
	for _, p := range m.projects {
		if p.UserID == userID {
			p.IsActive = p.ID == projectID
		}
	}
	return nil
}

func (m *mockProjectRepository) SoftDelete(projectID int64) error {
	if p, ok := m.projects[projectID]; ok {
		p.IsDeleted = true
		p.IsActive = false
	}
	return nil
}

func (m *mockProjectRepository) activeCount(userID int64) int {
	count := 0
	for _, p := range m.projects {
		if p.UserID == userID && p.IsActive {
			count++
		}
	}
	return count
}

var _ = Describe("ProjectService", func() {
	var (
		service  *project.Service
		mockRepo *mockProjectRepository
	)

	BeforeEach(func() {
		mockRepo = newMockProjectRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = project.NewService(mockRepo, "RUB", logger)
	})

	Describe("Create", func() {
		It("creates the project active and deactivates the previous one", func() {
			first, err := service.Create(1, "Китай", "CNY")
			Expect(err).ToNot(HaveOccurred())
			Expect(first.IsActive).To(BeTrue())
			Expect(first.BaseCurrency).To(Equal("CNY"))

			second, err := service.Create(1, "Ремонт", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(second.IsActive).To(BeTrue())
			Expect(second.BaseCurrency).To(Equal("RUB"))

			Expect(mockRepo.activeCount(1)).To(Equal(1))
			Expect(mockRepo.projects[first.ID].IsActive).To(BeFalse())
		})

		It("accepts a currency synonym as the base currency", func() {
			p, err := service.Create(1, "Отпуск", "юани")
			Expect(err).ToNot(HaveOccurred())
			Expect(p.BaseCurrency).To(Equal("CNY"))
		})

		It("falls back to the default for an unknown currency", func() {
			p, err := service.Create(1, "Отпуск", "GBP")
			Expect(err).ToNot(HaveOccurred())
			Expect(p.BaseCurrency).To(Equal("RUB"))
		})

		It("rejects an empty name", func() {
			_, err := service.Create(1, "   ", "")
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("wraps repository failures", func() {
			mockRepo.createErr = errors.New("connection lost")
			_, err := service.Create(1, "Китай", "")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("List", func() {
		It("omits deleted projects", func() {
			p1, _ := service.Create(1, "Первый", "")
			p2, _ := service.Create(1, "Второй", "")
			_, err := service.Delete(1, p1.ID)
			Expect(err).ToNot(HaveOccurred())

			list, err := service.List(1)
			Expect(err).ToNot(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(p2.ID))
		})
	})

	Describe("Active", func() {
		It("returns the active project", func() {
			created, _ := service.Create(1, "Китай", "")
			active, err := service.Active(1)
			Expect(err).ToNot(HaveOccurred())
			Expect(active.ID).To(Equal(created.ID))
		})

		It("returns a sentinel when no project is active", func() {
			_, err := service.Active(1)
			Expect(errors.Is(err, internal.ErrNoActiveProject)).To(BeTrue())
		})

		It("does not treat a deleted project as active", func() {
			created, _ := service.Create(1, "Китай", "")
			_, err := service.Delete(1, created.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Active(1)
			Expect(errors.Is(err, internal.ErrNoActiveProject)).To(BeTrue())
		})
	})

	Describe("SetActive", func() {
		It("keeps exactly one project active", func() {
			p1, _ := service.Create(1, "Первый", "")
			p2, _ := service.Create(1, "Второй", "")

			switched, err := service.SetActive(1, p1.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(switched.IsActive).To(BeTrue())
			Expect(mockRepo.activeCount(1)).To(Equal(1))
			Expect(mockRepo.projects[p2.ID].IsActive).To(BeFalse())
		})

		It("rejects a project id belonging to another user", func() {
			p, _ := service.Create(2, "Чужой", "")
			_, err := service.SetActive(1, p.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		It("rejects a deleted project", func() {
			p, _ := service.Create(1, "Китай", "")
			_, err := service.Delete(1, p.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.SetActive(1, p.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		It("rejects an unknown project id", func() {
			_, err := service.SetActive(1, 999)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("is terminal: deleting twice reads as not found", func() {
			p, _ := service.Create(1, "Китай", "")
			_, err := service.Delete(1, p.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Delete(1, p.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
		})

		It("leaves the user without an active project", func() {
			p, _ := service.Create(1, "Китай", "")
			_, err := service.Delete(1, p.ID)
			Expect(err).ToNot(HaveOccurred())
			Expect(mockRepo.activeCount(1)).To(Equal(0))
		})

		It("rejects deleting another user's project", func() {
			p, _ := service.Create(2, "Чужой", "")
			_, err := service.Delete(1, p.ID)
			Expect(errors.Is(err, internal.ErrProjectNotFound)).To(BeTrue())
			Expect(mockRepo.projects[p.ID].IsDeleted).To(BeFalse())
		})
	})
})
