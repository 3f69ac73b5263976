// Command create-admin creates an admin account with a random password and
// prints the credentials once.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"jobboard-backend/internal/config"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

// generateRandomString creates a random hex string of n bytes
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueEmail tries until an unused admin email is found
func generateUniqueEmail(db *gorm.DB, domain string) (string, error) {
	for {
		email := fmt.Sprintf("admin_%s@%s", generateRandomString(4), domain)
		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return email, nil
		}
	}
}

func main() {
	email := flag.String("email", "", "admin email, generated when empty")
	domain := flag.String("domain", "jobboard.local", "domain of generated admin emails")
	name := flag.String("name", "Administrator", "display name")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewDBInstance(&cfg.Database, nil)
	if err != nil {
		log.Fatalf("database failed to initialize: %v", err)
	}
	defer db.Close()

	if *email == "" {
		if *email, err = generateUniqueEmail(db.DB, *domain); err != nil {
			log.Fatalf("failed to generate email: %v", err)
		}
	}
	password := generateRandomString(8)

	admin, err := utilities.CreateAdmin(db.DB, *name, *email, password)
	if err != nil {
		if database.IsUniqueViolation(err) {
			log.Fatalf("email %s is already taken", *email)
		}
		log.Fatal(err)
	}

	// plain password is only ever shown here
	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email:    %s\n", admin.Email)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")
}
