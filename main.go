package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/corrmaker/Internal/database"
	"github.com/fazecat/corrmaker/Internal/handlers"
	"github.com/fazecat/corrmaker/Internal/utils/config"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Trade logging is best-effort: without a database the run still
	// prints its report to the console.
	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: trade log unavailable: %v", err)
	} else {
		defer datafeed.CloseDatabase()
	}

	apiKey := os.Getenv("BINANCE_API_KEY")
	secretKey := os.Getenv("BINANCE_SECRET_KEY")
	if apiKey == "" || secretKey == "" {
		log.Println("Warning: BINANCE_API_KEY / BINANCE_SECRET_KEY not set; scan works, trading will fail")
	}

	client := datafeed.NewClient(cfg.Venue.RESTBaseURL, apiKey, secretKey, cfg.Venue.RequestsPerSecond)

	ctx := context.Background()

	for {
		fmt.Println("\n--- CorrMaker Menu ---")
		fmt.Println("1. Scan (rank by correlation, no orders)")
		fmt.Println("2. Scan & Buy")
		fmt.Println("3. Trade History")
		fmt.Println("4. Configure Settings")
		fmt.Println("5. Exit")
		fmt.Print("Enter choice (1-5): ")

		var choice int
		_, err := fmt.Scanln(&choice)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			continue
		}

		switch choice {
		case 1:
			if _, err := handlers.HandleScan(ctx, cfg, client); err != nil {
				log.Printf("Scan failed: %v", err)
			}
		case 2:
			if err := handlers.HandleScanAndBuy(ctx, cfg, client); err != nil {
				log.Printf("Run failed: %v", err)
			}
		case 3:
			handlers.HandleTradeHistory(ctx, "")
		case 4:
			config.ConfigureInteractive(cfg)
		case 5:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}
