package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"arrow-be/internal/entity"
	"arrow-be/internal/repository/memory"
	"arrow-be/internal/repository/unitofwork"
	"arrow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// seed inserts the demo pitches into Postgres. Running it twice is harmless:
// a pitch whose title already exists is skipped.
func main() {
	owner := flag.String("owner", "", "email of an existing user to own the seeded pitches")
	flag.Parse()

	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	var ownerUser *entity.User
	if *owner != "" {
		ownerUser, err = uow.UserRepository().FindByEmail(ctx, strings.ToLower(strings.TrimSpace(*owner)))
		if err != nil {
			color.Red("Error: Failed to look up owner: %v", err)
			os.Exit(1)
		}
		if ownerUser == nil {
			color.Red("Error: No user with email %s", *owner)
			os.Exit(1)
		}
	}

	color.Cyan("Seeding demo pitches...")
	for _, p := range memory.DemoPitches() {
		existing, err := uow.PitchRepository().FindByTitle(ctx, p.Title)
		if err != nil {
			color.Red("Error: Failed to check %q: %v", p.Title, err)
			os.Exit(1)
		}
		if existing != nil {
			color.Yellow("Skip: %q already exists", p.Title)
			continue
		}

		pitch := p
		if ownerUser != nil {
			pitch.OwnerId = ownerUser.Id
			pitch.OwnerEmail = ownerUser.Email
		}
		if err := uow.PitchRepository().Create(ctx, &pitch); err != nil {
			color.Red("Error: Failed to create %q: %v", p.Title, err)
			os.Exit(1)
		}
		color.Green("Created: %q (%s)", pitch.Title, pitch.Id)
	}

	color.Green("✅ Seeding completed.")
}
