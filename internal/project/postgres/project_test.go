package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	projectDatamodel "budgetbot/internal/core/datamodel/project"
	"budgetbot/internal/project"
	projectPostgres "budgetbot/internal/project/postgres"
)

func TestProjectPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Project Postgres Suite")
}

// SQLite-compatible model for testing
type SQLiteProject struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null"`
	Name         string    `gorm:"column:name;not null"`
	BaseCurrency string    `gorm:"column:base_currency;default:RUB"`
	IsActive     bool      `gorm:"column:is_active;default:false"`
	IsDeleted    bool      `gorm:"column:is_deleted;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (SQLiteProject) TableName() string {
	return "projects"
}

var _ = Describe("Project PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo project.Repository
	)

	create := func(userID int64, name string) *projectDatamodel.Project {
		p := &projectDatamodel.Project{UserID: userID, Name: name, BaseCurrency: "RUB"}
		Expect(repo.CreateAndActivate(p)).To(Succeed())
		return p
	}

	countActive := func(userID int64) int64 {
		var n int64
		err := db.Model(&projectDatamodel.Project{}).
			Where("user_id = ? AND is_active = ?", userID, true).
			Count(&n).Error
		Expect(err).NotTo(HaveOccurred())
		return n
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteProject{})
		Expect(err).NotTo(HaveOccurred())

		repo = projectPostgres.NewProjectRepository(db)
	})

	Describe("CreateAndActivate", func() {
		It("should activate the new project and deactivate the previous one", func() {
			first := create(1, "Первый")
			second := create(1, "Второй")

			Expect(countActive(1)).To(Equal(int64(1)))

			reloaded, err := repo.GetByID(first.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsActive).To(BeFalse())

			active, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active.ID).To(Equal(second.ID))
		})

		It("should not touch other users' projects", func() {
			mine := create(1, "Мой")
			create(2, "Чужой")

			active, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active.ID).To(Equal(mine.ID))
			Expect(countActive(2)).To(Equal(int64(1)))
		})
	})

	Describe("ListByUser", func() {
		It("should return non-deleted projects newest first", func() {
			old := create(1, "Старый")
			create(1, "Удалённый")
			deleted, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.SoftDelete(deleted.ID)).To(Succeed())
			newest := create(1, "Новый")

			projects, err := repo.ListByUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
			Expect(projects[0].ID).To(Equal(newest.ID))
			Expect(projects[1].ID).To(Equal(old.ID))
		})

		It("should return an empty list for a user without projects", func() {
			projects, err := repo.ListByUser(42)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(BeEmpty())
		})
	})

	Describe("Activate", func() {
		It("should move the active flag atomically", func() {
			first := create(1, "Первый")
			create(1, "Второй")

			Expect(repo.Activate(1, first.ID)).To(Succeed())
			Expect(countActive(1)).To(Equal(int64(1)))

			active, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active.ID).To(Equal(first.ID))
		})
	})

	Describe("GetActive", func() {
		It("should return nil when no project is active", func() {
			active, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeNil())
		})

		It("should not return a deleted project", func() {
			p := create(1, "Китай")
			Expect(repo.SoftDelete(p.ID)).To(Succeed())

			active, err := repo.GetActive(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(active).To(BeNil())
		})
	})

	Describe("SoftDelete", func() {
		It("should keep the row but mark it deleted and inactive", func() {
			p := create(1, "Китай")
			Expect(repo.SoftDelete(p.ID)).To(Succeed())

			reloaded, err := repo.GetByID(p.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded).NotTo(BeNil())
			Expect(reloaded.IsDeleted).To(BeTrue())
			Expect(reloaded.IsActive).To(BeFalse())
		})
	})
})
