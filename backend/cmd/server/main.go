package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neurocampus/backend/internal/ai"
	"neurocampus/backend/internal/assignment"
	"neurocampus/backend/internal/authz"
	"neurocampus/backend/internal/course"
	"neurocampus/backend/internal/forum"
	"neurocampus/backend/internal/gateway"
	"neurocampus/backend/internal/grading"
	"neurocampus/backend/internal/shared"
	"neurocampus/backend/internal/storage"
	"neurocampus/backend/internal/submission"
)

func main() {
	log.Println("INFO: Starting NeuroCampus Server...")

	// 1. Load Configuration
	if err := shared.LoadEnv(""); err != nil {
		log.Printf("WARN: No .env file loaded: %v", err)
	}

	config, err := shared.LoadAppConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if err := shared.ValidateAppConfig(config); err != nil {
		log.Fatalf("FATAL: Invalid configuration: %v", err)
	}
	shared.PrintConfig(config)

	// 2. Connect MongoDB
	client, db, err := shared.ConnectMongoDB(&config.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := shared.DisconnectMongoDB(client); err != nil {
			log.Printf("ERROR: MongoDB disconnect failed: %v", err)
		}
	}()

	// 3. Initialize AI Provider
	provider := ai.Unconfigured()
	if config.AI.APIKey != "" {
		completer, err := ai.NewGeminiCompleter(context.Background(), config.AI.APIKey, config.AI.Model, config.AI.RequestTimeout)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Gemini client: %v", err)
		}
		provider = ai.Configured(completer)
	} else {
		log.Println("WARN: GEMINI_API_KEY not set, AI features are disabled")
	}

	// 4. Initialize Storage
	store, err := storage.NewDiskStore(config.Uploads.Dir, config.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize upload storage: %v", err)
	}

	// 5. Initialize Services
	resolver := authz.NewResolver(db)
	svcs := &gateway.Services{
		Courses:     course.NewService(client, db),
		Assignments: assignment.NewService(db, resolver),
		Submissions: submission.NewService(client, db, resolver),
		Grading:     grading.NewOrchestrator(db, resolver, provider),
		Forum:       forum.NewService(db),
		AI:          ai.NewService(provider, db),
		Store:       store,
	}

	// 6. Setup Routes and Server
	router := gateway.SetupRoutes(config, svcs)
	server := &http.Server{
		Addr:         ":" + config.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 7. Start Server in a Goroutine
	go func() {
		log.Printf("INFO: Server listening on port %s", config.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server error: %v", err)
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server shutdown failed: %v", err)
	}

	log.Println("INFO: Server stopped.")
}
