package database

import (
	"context"
	"log"

	"fireworks-wms-api-server/config"
	"fireworks-wms-api-server/internal/auth"
	"fireworks-wms-api-server/internal/models"

	"github.com/jmoiron/sqlx"
)

// SeedAdmin makes sure the configured admin account exists so the warehouse
// UI can log in on a fresh database.
func SeedAdmin(db *sqlx.DB, cfg config.AdminConfig) error {
	email := cfg.Email
	if email == "" {
		email = "admin@example.com"
	}

	var count int
	err := db.GetContext(context.Background(), &count,
		`SELECT count(*) FROM users WHERE email = $1`, email)
	if err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin user not found. Seeding...")
	password := cfg.Password
	if password == "" {
		password = "changeme"
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(context.Background(),
		`INSERT INTO users (email, name, password, role) VALUES ($1, $2, $3, $4)`,
		email, "Admin", hashed, models.RoleAdmin)
	return err
}
