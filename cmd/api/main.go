package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/corrmaker/Internal/database"
	"github.com/fazecat/corrmaker/Internal/utils/config"
	"github.com/fazecat/corrmaker/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: trade log unavailable: %v", err)
	} else {
		defer datafeed.CloseDatabase()
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		log.Println("Warning: Binance API keys not configured; /api/execute will fail")
	}

	client := datafeed.NewClient(cfg.Venue.RESTBaseURL, apiKey, secretKey, cfg.Venue.RequestsPerSecond)

	jwtManager := internal.NewJWTManager()

	apiServer := &internal.API{
		Config:     cfg,
		Client:     client,
		JWTManager: jwtManager,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    "healthy",
		})
	})

	// Public routes
	r.Get("/api/trades", apiServer.HandleGetTrades)
	r.Get("/api/trades/stats", apiServer.HandleGetStats)
	r.Get("/api/scan", apiServer.HandleScan)
	r.Get("/api/config", apiServer.HandleGetConfig)
	r.Post("/api/token", apiServer.HandleGenerateToken)

	// Protected routes - execution spends real margin
	r.Group(func(r chi.Router) {
		r.Use(internal.JWTAuthMiddleware(jwtManager))
		r.Post("/api/execute", apiServer.HandleExecute)
	})

	log.Println("Starting API server on :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatal(err)
	}
}
