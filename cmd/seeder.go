package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users and a budget plan for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"notifications", "device_registrations", "budget_plans", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"padil@mail.com", "Padil Admin", "admin"},
			{"fadhil@mail.com", "Fadhil Mandor", "supervisor"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists\n", u.Email)
				continue
			}

			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), u.Role,
			).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Printf("Seeded %s user: %s\n", u.Role, u.Email)
		}

		var supervisorID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "fadhil@mail.com").Row().Scan(&supervisorID); err != nil {
			log.Fatalf("failed to lookup supervisor id: %v", err)
		}

		projectName := "Renovasi Rumah Cilodong"
		var planExists int
		row := db.Raw("SELECT 1 FROM budget_plans WHERE project_name = ?", projectName).Row()
		if err := row.Scan(&planExists); err == nil {
			fmt.Println("sample budget plan already exists")
			return
		}

		if err := db.Exec(
			`INSERT INTO budget_plans
				(project_name, plan_status, supervisor_id,
				 entertainment_json, material_tambahan_json, tukang_json, kerja_tambah_json, harga_tukang_json,
				 created_at, updated_at)
			 VALUES (?, 'draft', ?, '[]', '[]', '[]', '[]', '[]', now(), now())`,
			projectName, supervisorID,
		).Error; err != nil {
			log.Fatalf("failed to insert budget plan: %v", err)
		}
		fmt.Println("Seeded budget plan:", projectName)
	},
}
