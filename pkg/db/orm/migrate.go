package orm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"github.com/nexboard/nexboard/dao/model"
)

// SyncSchema migrates every table. Shared by the init migration and by tests
// running against an in-memory store.
func SyncSchema(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Team{},
		&model.Employee{},
		&model.Board{},
		&model.ProjectCategory{},
		&model.ProjectStatus{},
		&model.ProjectPriority{},
		&model.Project{},
		&model.ProjectOwner{},
		&model.ProjectBoard{},
		&model.Task{},
		&model.Comment{},
	)
}

// Migrate brings the schema up to date and seeds the master data tables when
// they are empty.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202508010001_seed_master_data",
			Migrate: func(tx *gorm.DB) error {
				return seedMasterData(tx)
			},
			Rollback: func(tx *gorm.DB) error {
				for _, table := range []any{
					&model.ProjectPriority{}, &model.ProjectStatus{},
					&model.Board{}, &model.Employee{}, &model.Team{},
				} {
					if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})
	m.InitSchema(func(tx *gorm.DB) error {
		return SyncSchema(tx)
	})

	if err := m.Migrate(); err != nil {
		return err
	}
	// InitSchema only runs on a fresh database; keep existing ones in sync.
	if err := SyncSchema(db); err != nil {
		return err
	}
	klog.Info("database schema is up to date")
	return nil
}

func strPtr(s string) *string { return &s }

func seedMasterData(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.Team{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	teams := []model.Team{
		{Name: "Marketing Team", Description: strPtr("Handles marketing and campaign initiatives")},
		{Name: "Product Development Team", Description: strPtr("Focuses on building and improving products")},
		{Name: "Customer Success Team", Description: strPtr("Ensures client satisfaction and retention")},
		{Name: "Operations Team", Description: strPtr("Manages logistics and internal efficiency")},
		{Name: "Finance & Strategy Team", Description: strPtr("Handles budgets, forecasts, and company strategy")},
	}
	if err := tx.Create(&teams).Error; err != nil {
		return err
	}

	employees := []model.Employee{
		{Name: "Amrutha", Email: strPtr("amrutha@company.com"), Role: strPtr("Designer")},
		{Name: "Arunima", Email: strPtr("arunima@company.com"), Role: strPtr("Developer")},
		{Name: "Amal", Email: strPtr("amal@company.com"), Role: strPtr("Product Analyst")},
		{Name: "Ananya", Email: strPtr("ananya@company.com"), Role: strPtr("Finance Manager")},
		{Name: "Ravi", Email: strPtr("ravi@company.com"), Role: strPtr("Customer Success Lead")},
	}
	if err := tx.Create(&employees).Error; err != nil {
		return err
	}

	boards := []model.Board{
		{Name: "Marketing Team Meetings"},
		{Name: "Social Media"},
		{Name: "Product Development"},
		{Name: "Customer Support"},
		{Name: "Finance Review"},
		{Name: "Operations Planning"},
	}
	if err := tx.Create(&boards).Error; err != nil {
		return err
	}

	statuses := []model.ProjectStatus{
		{Name: "on-track", Description: strPtr("Project progressing as planned")},
		{Name: "at-risk", Description: strPtr("Needs attention")},
		{Name: "blocked", Description: strPtr("Halted due to dependencies")},
		{Name: "completed", Description: strPtr("Successfully completed")},
		{Name: "on-hold", Description: strPtr("Temporarily paused")},
	}
	if err := tx.Create(&statuses).Error; err != nil {
		return err
	}

	priorities := []model.ProjectPriority{
		{Name: "high", Description: strPtr("Critical project requiring immediate attention")},
		{Name: "medium", Description: strPtr("Important but not urgent")},
		{Name: "low", Description: strPtr("Low urgency, can be scheduled flexibly")},
	}
	if err := tx.Create(&priorities).Error; err != nil {
		return err
	}

	klog.Info("seeded teams, employees, boards, statuses and priorities")
	return nil
}
