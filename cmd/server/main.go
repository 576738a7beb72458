package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/serialbridge/backend/internal/infrastructure/config"
	"github.com/serialbridge/backend/internal/infrastructure/server"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides env)")
	configFile := flag.String("config", "", "Path to YAML config file")
	transportKind := flag.String("transport", "", "Transport kind: tcp, pty, loopback (overrides env)")
	transportAddr := flag.String("addr", "", "TCP transport address (overrides env)")
	transportCmd := flag.String("command", "", "PTY transport command (overrides env)")
	dev := flag.Bool("dev", false, "Development mode (colored logs, debug level)")
	flag.Parse()

	// Load configuration: YAML file if given, environment otherwise
	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	// CLI flags override everything
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *transportKind != "" {
		cfg.Transport.Kind = *transportKind
	}
	if *transportAddr != "" {
		cfg.Transport.Address = *transportAddr
	}
	if *transportCmd != "" {
		cfg.Transport.Command = *transportCmd
	}
	if *dev {
		cfg.Logging.Development = true
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
