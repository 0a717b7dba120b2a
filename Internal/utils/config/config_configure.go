package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ConfigureInteractive walks the user through the tunable settings and
// saves the result back to config.yaml.
func ConfigureInteractive(cfg *Config) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("\n--- Configure Settings ---")
	fmt.Println("Press Enter to keep the current value.")

	cfg.Screener.ReferenceSymbol = promptString(reader, "Reference symbol", cfg.Screener.ReferenceSymbol)
	cfg.Screener.Timeframe = promptString(reader, "Timeframe", cfg.Screener.Timeframe)
	cfg.Screener.WindowLength = promptInt(reader, "Window length (bars)", cfg.Screener.WindowLength)
	cfg.Screener.TopN = promptInt(reader, "Top N candidates", cfg.Screener.TopN)
	cfg.Screener.CorrThreshold = promptFloat(reader, "Correlation threshold", cfg.Screener.CorrThreshold)
	cfg.Screener.SelectionPolicy = promptString(reader, "Selection policy (signed/absolute)", cfg.Screener.SelectionPolicy)
	cfg.Trading.UsageRatio = promptFloat(reader, "Balance usage ratio (0-1)", cfg.Trading.UsageRatio)
	cfg.Trading.Leverage = promptInt(reader, "Leverage", cfg.Trading.Leverage)
	cfg.Trading.OrderStyle = promptString(reader, "Order style (limit/market)", cfg.Trading.OrderStyle)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid settings, not saved: %v\n", err)
		return
	}

	if err := SaveConfig(cfg); err != nil {
		fmt.Printf("Failed to save config: %v\n", err)
		return
	}
	fmt.Println("Settings saved.")
}

func promptString(reader *bufio.Reader, label, current string) string {
	fmt.Printf("%s [%s]: ", label, current)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, label string, current int) int {
	fmt.Printf("%s [%d]: ", label, current)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	v, err := strconv.Atoi(input)
	if err != nil {
		fmt.Println("Not a number, keeping current value")
		return current
	}
	return v
}

func promptFloat(reader *bufio.Reader, label string, current float64) float64 {
	fmt.Printf("%s [%g]: ", label, current)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Println("Not a number, keeping current value")
		return current
	}
	return v
}
