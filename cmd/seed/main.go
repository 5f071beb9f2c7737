package main

import (
	"fmt"
	"log"
	"time"

	"renthome/internal/database"
	"renthome/internal/domain/auth"
	"renthome/internal/domain/chat"
	"renthome/internal/domain/listing"
	"renthome/internal/domain/notification"
	"renthome/internal/domain/visit"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	db, err := database.Connect("renthome.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&listing.Listing{},
		&chat.Conversation{},
		&chat.Message{},
		&visit.Visit{},
		&notification.Notification{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM conversations")
	db.Exec("DELETE FROM visits")
	db.Exec("DELETE FROM listings")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := auth.User{
		Email:        "admin@renthome.local",
		PasswordHash: string(adminHash),
		Role:         auth.RoleAdmin,
		Name:         "Admin",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@renthome.local / admin123")

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := auth.User{
		Email:        "marta@renthome.local",
		PasswordHash: string(ownerHash),
		Role:         auth.RoleOwner,
		Name:         "Marta",
		Phone:        "+7 777 123 4501",
	}
	db.Create(&owner)

	tenants := []auth.User{}
	for i, name := range []string{"Aray", "Bekzat", "Dina"} {
		hash, _ := bcrypt.GenerateFromPassword([]byte("tenant123"), bcrypt.DefaultCost)
		t := auth.User{
			Email:        fmt.Sprintf("%s@renthome.local", name),
			PasswordHash: string(hash),
			Role:         auth.RoleTenant,
			Name:         name,
			Phone:        fmt.Sprintf("+7 777 123 45%02d", i+10),
		}
		db.Create(&t)
		tenants = append(tenants, t)
	}
	log.Printf("Created %d tenants (password tenant123)", len(tenants))

	// ================== LISTINGS ==================
	log.Println("Creating listings...")

	listings := []listing.Listing{
		{OwnerID: owner.ID, Title: "Sunny 2-room near the park", Address: "Abay Ave 12", City: "Almaty", Rooms: 2, Price: 220000, IsActive: true},
		{OwnerID: owner.ID, Title: "Studio in the center", Address: "Dostyk 5", City: "Almaty", Rooms: 1, Price: 160000, IsActive: true},
		{OwnerID: owner.ID, Title: "Family 3-room with balcony", Address: "Turan 44", City: "Astana", Rooms: 3, Price: 280000, IsActive: true},
	}
	for i := range listings {
		db.Create(&listings[i])
	}

	// ================== VISITS ==================
	log.Println("Creating visits...")

	v := visit.Visit{
		ListingID:      listings[0].ID,
		TenantID:       tenants[0].ID,
		OwnerID:        owner.ID,
		Status:         visit.StatusCompleted,
		ScheduledAt:    time.Now().Add(-48 * time.Hour),
		TenantDecision: visit.DecisionUndecided,
		OwnerDecision:  visit.DecisionUndecided,
	}
	db.Create(&v)

	// ================== CONVERSATION ==================
	log.Println("Creating a conversation...")

	a, b := tenants[0].ID, owner.ID
	if a > b {
		a, b = b, a
	}
	conv := chat.Conversation{
		ID:           uuid.New().String(),
		ListingID:    listings[0].ID,
		ParticipantA: a,
		ParticipantB: b,
	}
	db.Create(&conv)
	db.Create(&chat.Message{
		ConversationID: conv.ID,
		SenderID:       tenants[0].ID,
		Text:           "Hi! Is the apartment still available?",
		CreatedAt:      time.Now().Add(-47 * time.Hour),
	})
	db.Create(&chat.Message{
		ConversationID: conv.ID,
		SenderID:       owner.ID,
		Text:           "Yes, come see it this week.",
		CreatedAt:      time.Now().Add(-46 * time.Hour),
	})

	log.Println("Seed complete.")
}
