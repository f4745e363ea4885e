package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"resortdesk/internal/database"
	"resortdesk/internal/domain"
	"resortdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Seeds a development database with staff accounts, a few guests and the
// resort's bookable inventory.
func main() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "resortdesk.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM payment_refunds")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM user_credits")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM resources")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	resources := repository.NewResourceRepository(db)

	log.Println("Creating users...")

	type account struct {
		email    string
		name     string
		password string
		role     domain.Role
	}
	accounts := []account{
		{"admin@resortdesk.dev", "Admin", "admin123", domain.RoleAdmin},
		{"frontdesk@resortdesk.dev", "Front Desk", "staff123", domain.RoleStaff},
		{"alice@example.com", "Alice Carter", "guest123", domain.RoleGuest},
		{"bob@example.com", "Bob Nguyen", "guest123", domain.RoleGuest},
		{"carol@example.com", "Carol Diaz", "guest123", domain.RoleGuest},
	}
	for _, a := range accounts {
		hash, _ := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		u := domain.User{
			Email:        a.email,
			PasswordHash: string(hash),
			Name:         a.name,
			Role:         a.role,
		}
		if err := users.Create(ctx, &u); err != nil {
			log.Fatalf("failed to create user %s: %v", a.email, err)
		}
		log.Printf("User created: %s / %s (%s)", a.email, a.password, a.role)
	}

	log.Println("Creating resources...")

	chalets := []domain.Resource{
		{Kind: domain.ResourceChalet, Name: "Lakeside Chalet", Description: "Two-bedroom chalet with a private deck over the lake.", BasePrice: 180, WeekendMarkupPct: 25, Capacity: 4, Active: true},
		{Kind: domain.ResourceChalet, Name: "Forest Cabin", Description: "Cozy cabin at the edge of the pine forest.", BasePrice: 120, WeekendMarkupPct: 20, Capacity: 2, Active: true},
		{Kind: domain.ResourceChalet, Name: "Summit Lodge", Description: "Large lodge sleeping eight, panoramic mountain views.", BasePrice: 340, WeekendMarkupPct: 30, Capacity: 8, Active: true},
		{Kind: domain.ResourceChalet, Name: "Old Boathouse", Description: "Currently closed for renovation.", BasePrice: 150, WeekendMarkupPct: 25, Capacity: 3, Active: false},
	}
	for i := range chalets {
		if err := resources.Create(ctx, &chalets[i]); err != nil {
			log.Fatalf("failed to create chalet %q: %v", chalets[i].Name, err)
		}
	}

	for i := 0; i < 3; i++ {
		session := domain.Resource{
			Kind:             domain.ResourcePoolSession,
			Name:             fmt.Sprintf("Thermal Pool Session %d", i+1),
			Description:      "Two-hour session in the heated thermal pool.",
			BasePrice:        25,
			WeekendMarkupPct: 15,
			Capacity:         12,
			Active:           true,
		}
		if err := resources.Create(ctx, &session); err != nil {
			log.Fatalf("failed to create pool session: %v", err)
		}
	}

	log.Println("Seed complete.")
}
