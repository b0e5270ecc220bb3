package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/redistiming/internal/config"
	"github.com/zeusync/redistiming/internal/injector"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building app:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stopCh
		cancel()
	}()

	runErr := app.Run(ctx)
	cancel()
	cleanup()
	_ = app.Logger.Sync()

	if runErr != nil {
		fmt.Fprintln(os.Stderr, "Error running probe:", runErr)
		os.Exit(1)
	}
}
