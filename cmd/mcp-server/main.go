// Package main provides the MCP server entry point for the standards corpus.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/standards-dev/tenets/internal/cache"
	"github.com/standards-dev/tenets/internal/corpus"
	mcpserver "github.com/standards-dev/tenets/internal/mcp"
)

func main() {
	// Load .env file if present (local development), ignore if missing
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Create context that cancels on SIGTERM/SIGINT
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Configuration from environment
	corpusDir := getEnv("TENETS_DIR", "docs")
	port := getEnv("PORT", "8080")

	metaCache, err := cache.New(cache.Config{
		Discover:       corpus.DirDiscoverer(corpusDir),
		MaxMemoryUsage: getEnvInt("TENETS_MAX_MEMORY", 0),
		Compression:    getEnv("TENETS_COMPRESSION", "false") == "true",
	})
	if err != nil {
		log.Fatalf("failed to create metadata cache: %v", err)
	}

	// Pre-populate the index so first queries answer from memory. Queries
	// work correctly even if this never completes.
	if metaCache.WarmCacheInBackground() {
		log.Printf("warming metadata cache over %s", corpusDir)
	}

	server := mcpserver.NewServer(&mcpserver.Config{Cache: metaCache})

	mux := http.NewServeMux()
	mux.HandleFunc("/", mcpserver.NewLandingHandler())
	mux.HandleFunc("/health", mcpserver.NewHealthHandler(metaCache))
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(server, nil))

	// Server mode serves MCP over HTTP for remote clients; otherwise MCP
	// runs on stdio with the HTTP endpoints alongside for local testing.
	serverMode := getEnv("SERVER_MODE", "false") == "true"

	if serverMode {
		addr := "0.0.0.0:" + port
		log.Printf("Starting HTTP server on %s (MCP at /mcp, health at /health)", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	} else {
		go func() {
			addr := "0.0.0.0:" + port
			log.Printf("Starting health server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Printf("Health server error: %v", err)
			}
		}()

		log.Println("Starting Tenets Standards MCP Server (stdio mode)...")
		if err := server.Run(ctx); err != nil {
			log.Printf("server error: %v", err)
			os.Exit(1)
		}
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
