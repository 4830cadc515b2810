// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"portico/internal/config"
	"portico/internal/db"
	"portico/internal/security"
)

const (
	devOrgID     = "dev-org-001"
	devUserID    = "dev-user-001"
	devUser2ID   = "dev-user-002"
	devUserEmail = "dev@example.com"
	memberEmail  = "member@example.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	var existing string
	err = pool.QueryRow(ctx, `SELECT user_id FROM users WHERE lower(email) = lower($1)`, devUserEmail).Scan(&existing)
	if err == nil {
		log.Println("Seed already applied (dev@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()

	if _, err := pool.Exec(ctx, `
		INSERT INTO orgs (org_id, name, created_at) VALUES ($1, $2, $3)
	`, devOrgID, "Acme Dev", now); err != nil {
		log.Fatalf("create org: %v", err)
	}

	var adminRoleID, memberRoleID int
	if err := pool.QueryRow(ctx, `
		INSERT INTO roles (org_id, name) VALUES ($1, $2) RETURNING role_id
	`, devOrgID, "Admin").Scan(&adminRoleID); err != nil {
		log.Fatalf("create admin role: %v", err)
	}
	if err := pool.QueryRow(ctx, `
		INSERT INTO roles (org_id, name) VALUES ($1, $2) RETURNING role_id
	`, devOrgID, "Member").Scan(&memberRoleID); err != nil {
		log.Fatalf("create member role: %v", err)
	}

	for _, u := range []struct {
		id, email string
		roleID    int
	}{
		{devUserID, devUserEmail, adminRoleID},
		{devUser2ID, memberEmail, memberRoleID},
	} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO users (user_id, org_id, role_id, email, password_hash, status, created_at)
			VALUES ($1, $2, $3, $4, $5, 'active', $6)
		`, u.id, devOrgID, u.roleID, u.email, passwordHash, now); err != nil {
			log.Fatalf("create user %s: %v", u.email, err)
		}
	}

	var webResourceID, sshResourceID int
	if err := pool.QueryRow(ctx, `
		INSERT INTO resources (org_id, name) VALUES ($1, $2) RETURNING resource_id
	`, devOrgID, "internal-web").Scan(&webResourceID); err != nil {
		log.Fatalf("create web resource: %v", err)
	}
	if err := pool.QueryRow(ctx, `
		INSERT INTO resources (org_id, name) VALUES ($1, $2) RETURNING resource_id
	`, devOrgID, "build-ssh").Scan(&sshResourceID); err != nil {
		log.Fatalf("create ssh resource: %v", err)
	}

	// Admins reach both resources via their role; the member user gets a
	// direct grant on the web resource only.
	for _, resourceID := range []int{webResourceID, sshResourceID} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO role_resources (role_id, resource_id) VALUES ($1, $2)
		`, adminRoleID, resourceID); err != nil {
			log.Fatalf("grant role resource: %v", err)
		}
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO user_resources (user_id, resource_id) VALUES ($1, $2)
	`, devUser2ID, webResourceID); err != nil {
		log.Fatalf("grant user resource: %v", err)
	}

	for _, action := range []string{"listTargets", "listAccessTokens", "listResources"} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO role_actions (role_id, action_id) VALUES ($1, $2)
		`, adminRoleID, action); err != nil {
			log.Fatalf("grant role action: %v", err)
		}
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO role_actions (role_id, action_id) VALUES ($1, $2)
	`, memberRoleID, "listAccessTokens"); err != nil {
		log.Fatalf("grant member action: %v", err)
	}

	for i, t := range []struct {
		ip       string
		port     int
		protocol string
	}{
		{"10.0.0.10", 8080, "tcp"},
		{"10.0.0.11", 8080, "tcp"},
	} {
		if _, err := pool.Exec(ctx, `
			INSERT INTO targets (resource_id, ip, method, port, protocol, enabled)
			VALUES ($1, $2, 'http', $3, $4, TRUE)
		`, webResourceID, t.ip, t.port, t.protocol); err != nil {
			log.Fatalf("create target %d: %v", i, err)
		}
	}

	// A share-link token for the web resource; the raw secret is printed once
	// here and only its hash is stored.
	accessTokenID := uuid.NewString()
	secret := security.GenerateSessionToken()
	if _, err := pool.Exec(ctx, `
		INSERT INTO resource_access_tokens
			(access_token_id, org_id, resource_id, session_length_ms, expires_at, token_hash, title, description, created_at)
		VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, $8)
	`, accessTokenID, devOrgID, webResourceID, (2 * time.Hour).Milliseconds(),
		security.HashToken(secret), "dev share link", "seeded for local testing", now); err != nil {
		log.Fatalf("create access token: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s\n", devUserEmail, devPassword)
	fmt.Printf("Member login: %s / %s\n", memberEmail, devPassword)
	fmt.Printf("Share link: %s.%s\n", accessTokenID, secret)
}
