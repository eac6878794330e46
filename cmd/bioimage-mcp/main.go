package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/LLNL/bioimage-agent/internal/client"
	"github.com/LLNL/bioimage-agent/internal/server"
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
			fmt.Printf("bioimage-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("bioimage-mcp - MCP front-end for the bioimage viewer daemon")
			fmt.Println()
			fmt.Println("Usage: bioimage-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --host           Viewer daemon host (default 127.0.0.1)")
			fmt.Println("  --port           Viewer daemon port (default 64908)")
			fmt.Println("  --timeout        Per-command timeout in seconds (default 5)")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  BIOIMAGE_HOST         Viewer daemon host")
			fmt.Println("  BIOIMAGE_PORT         Viewer daemon port")
			fmt.Println("  BIOIMAGE_TIMEOUT      Per-command timeout in seconds")
			fmt.Println("  BIOIMAGE_LOG_LEVEL    Set to 'debug' for verbose logging")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client and start the viewer daemon first.")
			return
		}
	}

	// Logging goes to stderr; stdout carries the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Optional .env for local setups; absence is not an error.
	_ = godotenv.Load()

	host := flag.String("host", "", "viewer daemon host")
	port := flag.Int("port", 0, "viewer daemon port")
	timeout := flag.Int("timeout", 0, "per-command timeout in seconds")
	flag.Parse()

	c := client.New(*host, *port, time.Duration(*timeout)*time.Second)

	if os.Getenv("BIOIMAGE_LOG_LEVEL") == "debug" {
		log.Printf("bioimage-mcp v%s (built %s, commit %s), daemon at %s:%d",
			Version, BuildTime, GitCommit, c.Host, c.Port)
	}

	srv := server.New("bioimage-mcp", Version, c)
	if err := server.ServeStdio(srv); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
