package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"expertdesk/internal/database"
	"expertdesk/internal/domain/appointment"
	"expertdesk/internal/domain/auth"
	"expertdesk/internal/domain/chat"
	"expertdesk/internal/domain/notification"
	"expertdesk/internal/domain/request"
)

// Seeds a local database with demo accounts and one worked conversation.
// Intended for development against the sqlite driver.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "expertdesk.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&request.ServiceRequest{},
		&chat.Message{},
		&notification.Notification{},
		&appointment.Appointment{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM appointments")
	db.Exec("DELETE FROM service_requests")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	admin := auth.User{
		Email:        "admin@expertdesk.io",
		PasswordHash: hash("admin123"),
		Name:         "Admin",
		Role:         auth.RoleAdmin,
	}
	expert := auth.User{
		Email:        "expert@expertdesk.io",
		PasswordHash: hash("expert123"),
		Name:         "Ирина",
		FirstName:    "Соколова",
		Role:         auth.RoleExpert,
	}
	client := auth.User{
		Email:        "client@expertdesk.io",
		PasswordHash: hash("client123"),
		Name:         "Данияр",
		FirstName:    "Ахметов",
		Role:         auth.RoleClient,
	}
	for _, u := range []*auth.User{&admin, &expert, &client} {
		if err := db.Create(u).Error; err != nil {
			log.Fatal("user create failed:", err)
		}
	}

	log.Println("Creating demo request...")
	req := request.ServiceRequest{
		ClientID:    client.ID,
		ExpertID:    sql.NullInt64{Int64: expert.ID, Valid: true},
		Title:       "Tax declaration review",
		Description: "Need a review of my annual tax declaration before filing.",
		Status:      request.StatusInProgress,
		Priority:    request.PriorityMedium,
	}
	if err := db.Create(&req).Error; err != nil {
		log.Fatal("request create failed:", err)
	}

	// The expert opens the conversation, which unlocks it for the client.
	log.Println("Creating conversation...")
	first := chat.Message{
		ID:          uuid.New().String(),
		RequestID:   req.ID,
		SenderID:    expert.ID,
		RecipientID: sql.NullInt64{Int64: client.ID, Valid: true},
		Content:     "Hello! I have picked up your request. Could you attach last year's declaration?",
		SentAt:      time.Now().Add(-2 * time.Hour),
	}
	reply := chat.Message{
		ID:          uuid.New().String(),
		RequestID:   req.ID,
		SenderID:    client.ID,
		RecipientID: sql.NullInt64{Int64: expert.ID, Valid: true},
		Content:     "Hi, sure. Uploading it this evening.",
		SentAt:      time.Now().Add(-90 * time.Minute),
	}
	for _, m := range []*chat.Message{&first, &reply} {
		if err := db.Create(m).Error; err != nil {
			log.Fatal("message create failed:", err)
		}
	}

	log.Println("Creating notifications...")
	notif := notification.Notification{
		UserID:    client.ID,
		Type:      notification.TypeNewMessage,
		Title:     "New message",
		Body:      "Ирина Соколова sent you a message about \"Tax declaration review\".",
		MessageID: sql.NullString{String: first.ID, Valid: true},
	}
	if err := db.Create(&notif).Error; err != nil {
		log.Fatal("notification create failed:", err)
	}

	log.Println("Creating appointment...")
	appt := appointment.Appointment{
		ClientID:        client.ID,
		ExpertID:        expert.ID,
		RequestID:       sql.NullInt64{Int64: req.ID, Valid: true},
		ScheduledAt:     time.Now().Add(48 * time.Hour).Truncate(time.Hour),
		DurationMinutes: 45,
		Type:            appointment.TypeVideo,
		Status:          appointment.StatusScheduled,
		Notes:           "Walk through the declaration together.",
	}
	if err := db.Create(&appt).Error; err != nil {
		log.Fatal("appointment create failed:", err)
	}

	log.Println("Seed complete.")
	log.Println("  admin@expertdesk.io / admin123")
	log.Println("  expert@expertdesk.io / expert123")
	log.Println("  client@expertdesk.io / client123")
}

func hash(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	return string(h)
}
