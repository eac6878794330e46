package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/LLNL/bioimage-agent/internal/bridge"
	"github.com/LLNL/bioimage-agent/internal/catalog"
	"github.com/LLNL/bioimage-agent/internal/viewer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bioimage-viewer %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("bioimage-viewer - headless image viewer daemon")
			fmt.Println()
			fmt.Println("Usage: bioimage-viewer [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --host           Listen host (default 127.0.0.1)")
			fmt.Println("  --port           Listen port (default 64908)")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  BIOIMAGE_HOST         Listen host")
			fmt.Println("  BIOIMAGE_PORT         Listen port")
			fmt.Println("  BIOIMAGE_LOG_LEVEL    Set to 'debug' for verbose logging")
			fmt.Println()
			fmt.Println("The daemon accepts one JSON-line command per TCP connection:")
			fmt.Println("  [\"<command-id>\", [<args>]]")
			return
		}
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	_ = godotenv.Load()

	host := flag.String("host", envOr("BIOIMAGE_HOST", "127.0.0.1"), "listen host")
	port := flag.Int("port", envInt("BIOIMAGE_PORT", bridge.DefaultPort), "listen port")
	flag.Parse()

	v := viewer.New()
	loop := viewer.NewLoop(v)
	loop.Start()
	defer loop.Stop()

	registry := catalog.NewRegistry()
	registry.SetPoster(loop)

	srv := bridge.NewServer(loop, registry)
	if err := srv.Listen(*host, *port); err != nil {
		log.Fatalf("Startup error: %v", err)
	}
	log.Printf("bioimage-viewer v%s listening on %s", Version, srv.Addr())
	if os.Getenv("BIOIMAGE_LOG_LEVEL") == "debug" {
		log.Printf("built %s, commit %s", BuildTime, GitCommit)
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("shutting down")
		if err := srv.Close(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if err := srv.Serve(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
