package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	employeeDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/employee"
	projectDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/project"
	requestDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/request"
	taskDatamodel "github.com/frahmantamala/workforce-admin/internal/core/datamodel/task"
	"github.com/frahmantamala/workforce-admin/internal/core/status"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"equipment_requests", "tasks", "projects", "employees"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		people := []employeeDatamodel.Employee{
			{EmployeeCode: "EMP-0001", Name: "Ayu Admin", Email: "admin@example.com", Designation: "Operations Lead", Department: "Operations", Role: "admin"},
			{EmployeeCode: "EMP-0002", Name: "Mona Manager", Email: "mona@example.com", Designation: "Engineering Manager", Department: "Engineering", Role: "manager"},
			{EmployeeCode: "EMP-0003", Name: "Eko Employee", Email: "eko@example.com", Designation: "Backend Engineer", Department: "Engineering", Role: "employee"},
			{EmployeeCode: "EMP-0004", Name: "Sari Employee", Email: "sari@example.com", Designation: "QA Engineer", Department: "Engineering", Role: "employee"},
		}

		ids := make(map[string]int64, len(people))
		for _, p := range people {
			p.IsActive = true
			p.PasswordHash = string(hash)
			row := p
			if err := db.Where(employeeDatamodel.Employee{Email: p.Email}).FirstOrCreate(&row).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", p.Email, err)
			}
			ids[p.Role+":"+p.Email] = row.ID
			fmt.Printf("Seeded %s: %s\n", p.Role, p.Email)
		}

		managerID := ids["manager:mona@example.com"]
		eko := ids["employee:eko@example.com"]
		sari := ids["employee:sari@example.com"]

		if err := seedProject(db, managerID, eko, sari); err != nil {
			log.Fatalf("failed to seed project: %v", err)
		}
		fmt.Println("Sample project seeded successfully")
	},
}

func seedProject(db *gorm.DB, managerID, eko, sari int64) error {
	var existing projectDatamodel.Project
	err := db.Where("name = ?", "Warehouse Revamp").First(&existing).Error
	if err == nil {
		fmt.Println("sample project already exists; skipping")
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	return db.Transaction(func(tx *gorm.DB) error {
		p := &projectDatamodel.Project{
			Name:        "Warehouse Revamp",
			Description: "Replace the inventory scanners and rewire the picking floor.",
			StartDate:   today.AddDate(0, 0, -14),
			EndDate:     today.AddDate(0, 0, 30),
			Status:      string(status.ProjectInProgress),
			ManagerID:   managerID,
			TeamMembers: []int64{eko, sari},
			Teams: []projectDatamodel.Team{
				{ID: "team-floor", Name: "Floor", Members: []int64{eko, sari}, CreatedAt: time.Now().UTC()},
			},
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}

		team := "team-floor"
		tasks := []taskDatamodel.Task{
			{ProjectID: p.ID, Name: "Audit scanners", AssignedTo: eko, TeamID: &team, Deadline: today.AddDate(0, 0, 3), EstimatedHours: 8, Status: string(status.TaskDone)},
			{ProjectID: p.ID, Name: "Install new racks", AssignedTo: sari, TeamID: &team, Deadline: today.AddDate(0, 0, 10), EstimatedHours: 24, Status: string(status.TaskInProgress)},
			{ProjectID: p.ID, Name: "Sign off layout", AssignedTo: managerID, Deadline: today.AddDate(0, 0, 25), EstimatedHours: 2, Status: string(status.TaskToDo)},
		}
		if err := tx.Create(&tasks).Error; err != nil {
			return err
		}

		return tx.Create(&requestDatamodel.EquipmentRequest{
			EmployeeID:  eko,
			ProjectID:   p.ID,
			Equipment:   "Barcode scanner",
			Quantity:    4,
			Reason:      "Current scanners fail on damaged labels.",
			Status:      string(status.RequestPending),
			RequestedAt: time.Now().UTC(),
		}).Error
	})
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
}
