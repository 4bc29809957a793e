package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/tripmaster/trip-scout/internal/domain"
	"github.com/tripmaster/trip-scout/internal/repository/postgres"
	"github.com/tripmaster/trip-scout/internal/util"
)

// createuser provisions a staff account from the command line; there is no
// self-service signup.
func main() {
	email := flag.String("email", "", "account email (required)")
	fullName := flag.String("name", "", "full name (required)")
	role := flag.String("role", domain.RoleStaff, "account role: staff or admin")
	password := flag.String("password", "", "initial password (required)")
	flag.Parse()

	if *email == "" || *fullName == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *role != domain.RoleStaff && *role != domain.RoleAdmin {
		log.Fatalf("invalid role %q", *role)
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	// Only the database is needed here; skip the full API configuration.
	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	db, err := postgres.New(dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := util.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user, err := postgres.NewUserRepo(db).Create(context.Background(), *email, *fullName, *role, hash)
	if err != nil {
		log.Fatalf("create account: %v", err)
	}
	fmt.Printf("created %s account %s (%s)\n", user.Role, user.Email, user.ID)
}
