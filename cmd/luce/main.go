package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lucaferrani/luce/internal/api"
	"github.com/lucaferrani/luce/internal/db"
	"github.com/lucaferrani/luce/internal/services"
	"google.golang.org/genai"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	dbPath := getEnv("DB_PATH", filepath.Join("data", "luce.db"))
	port := getEnv("PORT", "8080")
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("secret key init failed: %v", err)
	}

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	assistant := buildAssistant(context.Background())
	handler := api.NewHandler(database, secretKey, location, assistant, cookieSecure)

	app := fiber.New(fiber.Config{
		AppName:               "Luce",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Luce listening on http://0.0.0.0:%s (db: %s, tz: %s, assistant: %v)",
		port, dbPath, location.String(), assistant.Configured())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

// buildAssistant wires the hosted model client when an API key is present.
// Without one the app still runs; only the chat endpoints report unavailable.
func buildAssistant(ctx context.Context) *services.AssistantService {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set, assistant disabled")
		return services.NewAssistantService(nil, "")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		log.Printf("assistant client init failed, assistant disabled: %v", err)
		return services.NewAssistantService(nil, "")
	}
	return services.NewAssistantService(client, os.Getenv("GEMINI_MODEL"))
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
