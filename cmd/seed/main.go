// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev admin (admin@example.com) already exists.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"projecthub/internal/access"
	"projecthub/internal/config"
	"projecthub/internal/db"
	grantdomain "projecthub/internal/grant/domain"
	grantrepo "projecthub/internal/grant/repository"
	identitydomain "projecthub/internal/identity/domain"
	identityrepo "projecthub/internal/identity/repository"
	membershipdomain "projecthub/internal/membership/domain"
	membershiprepo "projecthub/internal/membership/repository"
	projectdomain "projecthub/internal/project/domain"
	projectrepo "projecthub/internal/project/repository"
	"projecthub/internal/security"
)

const (
	adminEmail   = "admin@example.com"
	ownerEmail   = "owner@example.com"
	memberEmail  = "member@example.com"
	devPassword  = "password123"
	adminID      = "dev-admin-001"
	ownerID      = "dev-owner-001"
	memberID     = "dev-member-001"
	projectID    = "dev-project-001"
	membershipID = "dev-membership-001"
	grantID      = "dev-grant-001"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	principals := identityrepo.NewPostgresRepository(conn)

	existing, err := principals.GetByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (admin@example.com exists). Skipping.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()

	seedPrincipals := []*identitydomain.Principal{
		{ID: adminID, Email: adminEmail, Name: "Dev Admin", Role: identitydomain.RoleAdministrator},
		{ID: ownerID, Email: ownerEmail, Name: "Project Owner", Department: "engineering"},
		{ID: memberID, Email: memberEmail, Name: "Team Member", Department: "engineering"},
	}
	for _, p := range seedPrincipals {
		p.PasswordHash = passwordHash
		if p.Role == "" {
			p.Role = identitydomain.RoleStandard
		}
		p.Status = identitydomain.StatusActive
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := principals.Create(ctx, p); err != nil {
			log.Fatalf("create principal %s: %v", p.Email, err)
		}
	}

	projects := projectrepo.NewPostgresRepository(conn)
	if err := projects.Create(ctx, &projectdomain.Project{
		ID:         projectID,
		Name:       "Atlas Rollout",
		CreatorID:  ownerID,
		Department: "engineering",
		CreatedAt:  now,
	}); err != nil {
		log.Fatalf("create project: %v", err)
	}

	memberships := membershiprepo.NewPostgresRepository(conn)
	if err := memberships.Create(ctx, &membershipdomain.Membership{
		ID:          membershipID,
		ProjectID:   projectID,
		PrincipalID: memberID,
		Role:        membershipdomain.RoleMember,
		CreatedAt:   now,
	}); err != nil {
		log.Fatalf("create membership: %v", err)
	}

	grants := grantrepo.NewPostgresRepository(conn)
	if err := grants.Upsert(ctx, &grantdomain.ModuleGrant{
		ID:          grantID,
		ProjectID:   projectID,
		PrincipalID: memberID,
		Module:      access.ModuleTasksMilestones,
		Level:       access.LevelWrite,
		GrantedBy:   ownerID,
		GrantedAt:   now,
	}); err != nil {
		log.Fatalf("create grant: %v", err)
	}

	log.Println("Seed completed successfully.")
	log.Printf("Admin login: %s / %s", adminEmail, devPassword)
	log.Printf("Owner login: %s / %s", ownerEmail, devPassword)
	log.Printf("Member login: %s / %s", memberEmail, devPassword)
}
