// cmd/adduser/main.go
// Creates a tournament organiser account, or resets the password of an existing one.
//
// Usage:
//
//	go run ./cmd/adduser -username simon -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/golfapi/config"
	bundb "github.com/padraicbc/golfapi/db"
	"github.com/padraicbc/golfapi/handlers"
	"github.com/padraicbc/golfapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPassword(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	ctx := context.Background()
	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatal("create tables:", err)
	}

	user := &models.User{
		Username: *username,
		Password: hash,
	}
	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		log.Fatal("insert user:", err)
	}

	admin := ""
	if cfg.IsAdmin(*username) {
		admin = " (admin)"
	}
	fmt.Printf("user %q saved%s\n", *username, admin)
}
