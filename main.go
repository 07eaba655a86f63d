package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/inkwell-app/inkwell-backend/api"
	"github.com/inkwell-app/inkwell-backend/auth"
	"github.com/inkwell-app/inkwell-backend/config"
	"github.com/inkwell-app/inkwell-backend/database"
)

func main() {
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	c := config.New()

	db, err := openDatabase(c)
	if err != nil {
		log.Error().Err(err).Msg("Error connecting to database")
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Error().Err(err).Msg("Error testing database connection")
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("Error migrating database schema")
		os.Exit(1)
	}

	// The signing secret must come from the environment; the process refuses
	// to start without one.
	secret, err := config.RequireString(c, "JWT_SECRET")
	if err != nil {
		log.Error().Err(err).Msg("Error loading token secret")
		os.Exit(1)
	}

	tokenTTL := time.Duration(config.GetInt(c, "TOKEN_TTL_HOURS", 24)) * time.Hour
	tokens, err := auth.NewTokenService(secret, tokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing token service")
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(database.New(db), tokens)
	if err != nil {
		log.Error().Err(err).Msg("Error initializing server")
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the store selected by DB_TYPE. TranslateError is
// on so unique-index violations surface as gorm.ErrDuplicatedKey regardless
// of the driver.
func openDatabase(c map[string]string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	dbType := config.GetString(c, "DB_TYPE", "postgres")
	log.Info().Str("dbType", dbType).Msg("Connecting to database")

	var db *gorm.DB
	var err error
	switch dbType {
	case "postgres":
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "inkwell"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		)
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(config.GetString(c, "DB_PATH", "inkwell.db")), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
	if err != nil {
		return nil, err
	}

	// Route reads to a replica when one is configured
	if replicaDSN := config.GetString(c, "DATABASE_REPLICA_URL", ""); replicaDSN != "" && dbType == "postgres" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
	}

	return db, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
