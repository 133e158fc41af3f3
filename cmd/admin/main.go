package main

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pairchat/backend/internal/config"
	"pairchat/backend/internal/session"
	"pairchat/backend/internal/storage"
)

// Small operator CLI for inspecting the document collections directly.
func main() {
	cfg := config.Load()
	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	store := storage.NewStorageService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <users|room> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "users":
		users, err := store.ListUsers()
		if err != nil {
			log.Fatalf("list users: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\n", u.UID, u.Name, u.Email)
		}
	case "room":
		if len(os.Args) < 4 {
			fmt.Println("Usage: admin room <uid1> <uid2>")
			os.Exit(1)
		}
		roomID := session.RoomID(os.Args[2], os.Args[3])
		fmt.Printf("room: %s\n", roomID)
		if room, err := store.GetRoomByID(roomID); err == nil {
			fmt.Printf("participants: %v\n", []string(room.Participants))
		}
		msgs, err := store.ListMessages(roomID)
		if err != nil {
			log.Fatalf("list messages: %v", err)
		}
		for _, m := range msgs {
			fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04:05"), m.SenderID, m.Text)
		}
	default:
		fmt.Printf("unknown command %q\n", os.Args[1])
		os.Exit(1)
	}
}
