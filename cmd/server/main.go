package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/clemarais/moodjournal/internal/alarms"
	"github.com/clemarais/moodjournal/internal/config"
	"github.com/clemarais/moodjournal/internal/database"
	"github.com/clemarais/moodjournal/internal/handlers"
	"github.com/clemarais/moodjournal/internal/jobs"
	"github.com/clemarais/moodjournal/internal/notify"
	"github.com/clemarais/moodjournal/internal/repository"
	cronjobs "github.com/clemarais/moodjournal/internal/scheduler"
	"github.com/clemarais/moodjournal/internal/services"
	"github.com/clemarais/moodjournal/internal/storage"
	"github.com/clemarais/moodjournal/pkg/logger"
	"github.com/clemarais/moodjournal/pkg/middleware"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Storage error: %v", err)
	}

	clk := clock.New()
	notifier := notify.NewLog()

	// --- Repositories ---
	reminderRepo := repository.NewReminderRepository(store)
	entryRepo := repository.NewEntryRepository(store)
	goalRepo := repository.NewGoalRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)
	subscriptionRepo := repository.NewSubscriptionRepository(store)
	suggestionRepo := repository.NewSuggestionRepository(store)

	// --- Services ---
	var reminderService *services.ReminderService
	var moodCheck *jobs.MoodCheck
	alarmManager := alarms.NewManager(clk, func(name string) {
		switch {
		case name == services.MoodCheckAlarm:
			if err := moodCheck.Run(context.Background()); err != nil {
				logger.Log.WithError(err).Error("Mood check failed")
			}
		case name == services.SweepAlarm, strings.HasPrefix(name, services.ReminderAlarmPrefix):
			reminderService.HandleAlarm(name)
		default:
			logger.Log.Warnf("Unknown alarm %q fired", name)
		}
	})
	defer alarmManager.Stop()

	reminderService = services.NewReminderService(reminderRepo, alarmManager, notifier, clk)
	entryService := services.NewEntryService(entryRepo, clk)
	statsService := services.NewStatsService(entryRepo, clk)
	goalService := services.NewGoalService(goalRepo, entryRepo, clk)
	exportService := services.NewExportService(entryRepo, clk)
	weatherService := services.NewWeatherService(http.DefaultClient, services.DefaultWeatherBaseURL)
	predictionService := services.NewPredictionService(entryRepo, clk)
	settingsService := services.NewSettingsService(settingsRepo, alarmManager, clk)
	subscriptionService := services.NewSubscriptionService(subscriptionRepo, cfg.LicenseSecret, clk)
	suggestionService := services.NewSuggestionService(entryRepo, suggestionRepo, clk)
	moodCheck = jobs.NewMoodCheck(settingsService, entryService, notifier, clk)

	if err := settingsService.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start mood check: %v", err)
	}
	if err := reminderService.StartSweep(); err != nil {
		log.Fatalf("Failed to start reminder sweep: %v", err)
	}

	journalCron := cronjobs.StartJournalCronJobs(reminderService, goalService)
	defer journalCron.Stop()

	// --- Handlers ---
	reminderHandler := handlers.NewReminderHandler(reminderService)
	entryHandler := handlers.NewEntryHandler(entryService, statsService, goalService)
	goalHandler := handlers.NewGoalHandler(goalService)
	exportHandler := handlers.NewExportHandler(exportService)
	weatherHandler := handlers.NewWeatherHandler(weatherService)
	predictionHandler := handlers.NewPredictionHandler(predictionService, weatherService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Reminder routes
	router.HandleFunc("/reminders", reminderHandler.CreateReminderHandler).Methods("POST")
	router.HandleFunc("/reminders", reminderHandler.GetRemindersHandler).Methods("GET")
	router.HandleFunc("/reminders/{id}", reminderHandler.UpdateReminderHandler).Methods("PUT")
	router.HandleFunc("/reminders/{id}/toggle", reminderHandler.ToggleReminderHandler).Methods("POST")
	router.HandleFunc("/reminders/{id}", reminderHandler.DeleteReminderHandler).Methods("DELETE")

	// Journal routes
	router.HandleFunc("/entries", entryHandler.CreateEntryHandler).Methods("POST")
	router.HandleFunc("/entries", entryHandler.GetEntriesHandler).Methods("GET")
	router.HandleFunc("/entries/{id}", entryHandler.DeleteEntryHandler).Methods("DELETE")
	router.HandleFunc("/stats", entryHandler.GetStatsHandler).Methods("GET")

	// Goal routes
	router.HandleFunc("/goals", goalHandler.CreateGoalHandler).Methods("POST")
	router.HandleFunc("/goals", goalHandler.GetGoalsHandler).Methods("GET")
	router.HandleFunc("/goals/{id}", goalHandler.UpdateGoalHandler).Methods("PUT")
	router.HandleFunc("/goals/{id}/archive", goalHandler.ArchiveGoalHandler).Methods("POST")
	router.HandleFunc("/goals/{id}", goalHandler.DeleteGoalHandler).Methods("DELETE")

	// Settings and subscription routes
	router.HandleFunc("/settings", settingsHandler.GetSettingsHandler).Methods("GET")
	router.HandleFunc("/settings", settingsHandler.UpdateSettingsHandler).Methods("PUT")
	router.HandleFunc("/subscription/trial", subscriptionHandler.StartTrialHandler).Methods("POST")
	router.HandleFunc("/subscription/checkout", subscriptionHandler.PurchaseHandler).Methods("POST")
	router.HandleFunc("/subscription/status", subscriptionHandler.GetStatusHandler).Methods("GET")

	// Premium features: export, weather and the mood forecast.
	premiumRoutes := router.PathPrefix("").Subrouter()
	premiumRoutes.Use(middleware.RequirePremium(subscriptionService))
	premiumRoutes.HandleFunc("/export", exportHandler.ExportEntriesHandler).Methods("GET")
	premiumRoutes.HandleFunc("/weather", weatherHandler.GetWeatherHandler).Methods("GET")
	premiumRoutes.HandleFunc("/prediction", predictionHandler.PredictHandler).Methods("GET")
	premiumRoutes.HandleFunc("/suggestions", suggestionHandler.GetSuggestionsHandler).Methods("GET")
	premiumRoutes.HandleFunc("/suggestions/{id}/tried", suggestionHandler.MarkTriedHandler).Methods("POST")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

// openStore picks the storage backend from the configuration.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "memory":
		return storage.NewMemory(), nil
	case "sqlite":
		return storage.OpenSQLite(context.Background(), cfg.SQLitePath)
	case "mongo":
		db, err := database.ConnectDB(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMongo(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
