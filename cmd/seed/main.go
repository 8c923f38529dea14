package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/louiecodes/auth-service/config"
	"github.com/louiecodes/auth-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Base roles
	roles := map[string]int64{}
	for _, name := range []string{"superadmin", "admin", "user"} {
		var id int64
		if err := db.QueryRow(`
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET updated_at = now()
			RETURNING id
		`, name).Scan(&id); err != nil {
			log.Fatalf("failed to upsert role %s: %v", name, err)
		}
		roles[name] = id
	}
	fmt.Printf("roles ensured: %v\n", roles)

	// Superadmin user
	email := "louie@codes.com"
	password := "123456"
	hash, err := helpers.NewArgon2Hasher().Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, first_name, last_name, role_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET role_id = EXCLUDED.role_id
		RETURNING id
	`, email, hash, "Louie", "Codes", roles["superadmin"]).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", id, email, password)
}
