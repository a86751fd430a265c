package main

import (
	"time"

	"github.com/raulvilera/projetoarp/internal/config"
	"github.com/raulvilera/projetoarp/internal/database"
	logger "github.com/raulvilera/projetoarp/internal/logging"
	"github.com/raulvilera/projetoarp/internal/models"
	"github.com/raulvilera/projetoarp/internal/router"
	"github.com/raulvilera/projetoarp/internal/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env before viper reads the environment. Missing file is fine.
	_ = godotenv.Load()

	// Bootstrap logger with defaults; configuration is not loaded yet.
	log, err := logger.Init(logger.DefaultOptions())
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := config.Init(".", log); err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Re-initialize the logger with the configured rotation settings.
	logConf := config.Conf.Logging
	log, err = logger.Init(logger.Options{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize Database
	database.Init(log)

	// Load the questionnaire catalog at startup
	questionnaire, err := models.LoadQuestionnaire(config.Conf.Questionnaire.Path)
	if err != nil {
		log.Fatal("Failed to load questionnaire", zap.Error(err))
	}
	log.Info("Questionnaire catalog loaded", zap.Int("sections", len(questionnaire.Sections)))

	emailService := services.NewEmailService(log)

	if config.Conf.Alerts.Enabled {
		interval := time.Duration(config.Conf.Alerts.IntervalHours) * time.Hour
		services.NewScheduler(log, emailService, questionnaire, interval).Start()
	}

	// Setup router, passing the logger to it
	r := router.Setup(log, questionnaire, emailService)

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
