package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/instacommunity/backend/internal/db"
	"github.com/instacommunity/backend/internal/models"
	"github.com/instacommunity/backend/pkg/config"
	"github.com/instacommunity/backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Running database migrations")

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	err = database.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Post{},
		&models.PostImage{},
		&models.Tag{},
		&models.PostTag{},
		&models.Comment{},
		&models.PostLike{},
	)
	if err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	logger.Info("Migrations complete")
}
