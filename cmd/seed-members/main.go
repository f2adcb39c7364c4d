// Seeds the local CIBN Members table with a test member for
// development. The production table is owned by membership
// administration and must never be touched by this tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"cibn-digital-library/internal/config"
	"cibn-digital-library/internal/database"
	"cibn-digital-library/internal/models"
	"cibn-digital-library/internal/repositories"
)

const createTable = `
IF OBJECT_ID('Members', 'U') IS NULL
CREATE TABLE Members (
	MemberId     NVARCHAR(32)  NOT NULL PRIMARY KEY,
	Surname      NVARCHAR(128) NOT NULL,
	FirstName    NVARCHAR(128) NOT NULL,
	Email        NVARCHAR(256) NULL,
	Phone        NVARCHAR(32)  NULL,
	Arrears      BIGINT        NOT NULL DEFAULT 0,
	AnnualSub    BIGINT        NOT NULL DEFAULT 0,
	Category     NVARCHAR(64)  NOT NULL DEFAULT '',
	IsActive     BIT           NOT NULL DEFAULT 1,
	LastLogin    DATETIME      NULL,
	PasswordHash NVARCHAR(512) NOT NULL
)`

func main() {
	memberID := flag.String("member-id", "CIBN001", "member id to create")
	surname := flag.String("surname", "Adebayo", "member surname")
	firstName := flag.String("first-name", "Ngozi", "member first name")
	email := flag.String("email", "ngozi.adebayo@example.com", "member email")
	password := flag.String("password", "changeme123", "member password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.CIBNDB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		log.Fatalf("Failed to ensure Members table: %v", err)
	}

	repo := repositories.NewMemberRepository(db.DB)
	member := &models.CIBNMember{
		MemberID:  *memberID,
		Surname:   *surname,
		FirstName: *firstName,
		Email:     *email,
		Category:  "Associate",
		IsActive:  true,
	}

	if err := repo.Create(ctx, member, *password); err != nil {
		log.Fatalf("Failed to create member: %v", err)
	}

	fmt.Printf("Created member %s (%s)\n", member.MemberID, member.FullName())
	fmt.Printf("Login with: memberId=%s password=%s\n", *memberID, *password)
}
