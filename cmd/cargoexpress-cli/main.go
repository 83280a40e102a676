package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Version is set at build time
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	cli := &CLI{
		BaseURL:   getEnv("CARGO_URL", "http://localhost:8080"),
		SessionID: os.Getenv("CARGO_SESSION"),
		Client:    &http.Client{Timeout: 30 * time.Second},
	}

	var err error
	switch cmd {
	case "login":
		err = cli.loginCommand(args)
	case "session", "sessions":
		err = cli.sessionCommand(args)
	case "order", "orders":
		err = cli.orderCommand(args)
	case "health":
		err = cli.healthCommand(args)
	case "version":
		fmt.Printf("cargoexpress-cli %s\n", Version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`cargoexpress-cli - CargoExpress Admin Command Line Interface

Usage:
  cargoexpress-cli <command> [subcommand] [options]

Environment Variables:
  CARGO_URL      Base URL of CargoExpress server (default: http://localhost:8080)
  CARGO_SESSION  Web session ID for authenticated commands

Commands:
  login     Exchange a dashboard token for a web session
    --token=TOKEN --key=ACCESS_KEY

  session   Manage the current web session
    me              Show the authenticated admin
    refresh         --token=REFRESH_TOKEN
    logout          End the current session

  order     Inspect and update orders
    get       <kind> <id>
    status    <kind> <id> --status=STATUS [--comment=TEXT]
    tracking  <kind> <id> --number=TRACKING
    (kind is "shipping" or "purchase")

  health    Check server health
    live    Liveness check
    ready   Readiness check

  version   Show CLI version
  help      Show this help
`)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
