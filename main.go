package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Herodot91/gov-simulator/internal/app"
	"github.com/Herodot91/gov-simulator/internal/config"
	"github.com/Herodot91/gov-simulator/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg, true)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	err = tui.Run(tui.Options{
		Engine:   a.Engine,
		Exporter: a.Exporter,
		Briefer:  a.Briefer,
		Mode:     cfg.ParsedMode(),
		Budget:   min(cfg.StartingBudget, config.MaxInteractiveBudget),
		Log:      a.Log,
	})
	if err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
