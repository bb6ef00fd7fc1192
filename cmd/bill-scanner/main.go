package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/tanadet/bill-scanner/internal/expense"
	"github.com/tanadet/bill-scanner/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Optional .env file for local development
	godotenv.Load()

	fs := ff.NewFlagSet("bill-scanner")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "bill-scanner.db", "Config database file path")
		scannerType = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini', 'ollama' or 'mock'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILL_SCANNER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize config store
	slog.Info("Initializing config store...", "path", *dbPath)
	config, err := expense.NewBoltConfig(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize config store", "error", err)
		os.Exit(1)
	}
	defer config.Close()

	categories := expense.CategoryLabels()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch *scannerType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			// Demo mode: keep the app usable without credentials
			slog.Warn("No Gemini API key configured, using mock scanner with sample data")
			scanner = scanning.NewMock()
			break
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel, categories)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel, categories)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	case "mock":
		slog.Info("Using mock scanner with sample data")
		scanner = scanning.NewMock()
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "gemini, ollama or mock")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize tracker and server
	tracker := expense.NewTracker(scanner, expense.NewSheetClient(), config)
	basicAuth := expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := expense.NewServer(tracker, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
