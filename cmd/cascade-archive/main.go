package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/cascade-archive/internal/config"
	"github.com/ironsheep/cascade-archive/internal/extractor"
	"github.com/ironsheep/cascade-archive/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	serve := false
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("cascade-archive %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "serve":
			serve = true
		default:
			fmt.Fprintf(os.Stderr, "unknown argument %q (try --help)\n", os.Args[1])
			os.Exit(2)
		}
	}

	// Logs go to stderr; in serve mode stdout is for MCP protocol
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(os.LookupEnv)
	if err != nil {
		if config.IsNotExist(err) {
			log.Fatalf("Config file named by %s not found: %v", config.EnvConfig, err)
		}
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.DebugLogging() {
		log.Printf("cascade-archive v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if serve {
		server.Version = Version
		srv := server.New(cfg)
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
		return
	}

	if _, err := extractor.RunConfig(cfg, nil, nil); err != nil {
		log.Fatalf("Archive failed: %v", err)
	}
}

func printHelp() {
	fmt.Println("cascade-archive - detect faces or bodies in an image and archive the crops")
	fmt.Println()
	fmt.Println("Usage: cascade-archive [serve | options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)           Run one detection and archive pass")
	fmt.Println("  serve            Run as an MCP server over stdin/stdout")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %-28s YAML config file\n", config.EnvConfig)
	fmt.Printf("  %-28s Source image (default ./img/visage.jpg)\n", config.EnvImage)
	fmt.Printf("  %-28s Existing archive directory (default ./archive/)\n", config.EnvDir)
	fmt.Printf("  %-28s face_frontal or body\n", config.EnvVariant)
	fmt.Printf("  %-28s pigo or opencv\n", config.EnvBackend)
	fmt.Printf("  %-28s Cascade model file\n", config.EnvModel)
	fmt.Printf("  %-28s Directory holding default cascade files\n", config.EnvModelDir)
	fmt.Printf("  %-28s true/false, log every detection\n", config.EnvDebug)
	fmt.Printf("  %-28s debug to enable debug logging\n", config.EnvLogLevel)
}
