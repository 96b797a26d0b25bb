package main

import (
	"errors"
	"fmt"
	"os"

	"ytmusicbot/internal/config"
)

var (
	errHelp       = errors.New("help requested")
	errInitConfig = errors.New("init config requested")
)

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > BOT_TOKEN > config file > defaults
func parseArgs(args []string) (config.Config, string, error) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			return config.Config{}, "", errHelp
		}
		if arg == "--init-config" {
			return config.Config{}, "", errInitConfig
		}
	}

	var configPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--config requires a path argument")
			}
			configPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to load config: %w", err)
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Verbose = true

		case "--parallel", "-p":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--parallel requires a number argument")
			}
			i++
			var n int
			if _, err := fmt.Sscanf(args[i], "%d", &n); err != nil {
				return config.Config{}, "", fmt.Errorf("invalid parallel downloads value: %s", args[i])
			}
			cfg.MaxConcurrentDownloads = n

		case "--browser", "-b":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--browser requires a browser name")
			}
			i++
			cfg.CookiesBrowser = args[i]

		case "--format", "-f":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--format requires a format name")
			}
			i++
			cfg.AudioFormat = args[i]

		case "--status-addr":
			if i+1 >= len(args) {
				return config.Config{}, "", fmt.Errorf("--status-addr requires an address")
			}
			i++
			cfg.StatusAddr = args[i]

		case "--config", "-c":
			i++

		default:
			return config.Config{}, "", fmt.Errorf("unknown argument: %s", arg)
		}
	}

	return cfg, configPath, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		return nil
	}

	if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nSet bot_token (or export BOT_TOKEN), then start the bot.")
	fmt.Println("Available options:")
	fmt.Println("  max_concurrent_downloads: 1-10 (downloads running at once)")
	fmt.Println("  search_limit: 1-50 (results kept per search)")
	fmt.Println("  audio_format: mp3, m4a, opus")
	fmt.Println("  tagger: taglib, id3v2 (id3v2 is mp3 only)")
	fmt.Println("  cookies_browser: brave, chrome, firefox, etc.")
	fmt.Println("  cover_lookup: true/false (album covers from Deezer)")
	fmt.Println("  status_addr: e.g. 127.0.0.1:8080 (empty disables the status server)")
	return nil
}

func printUsage() {
	fmt.Println("ytmusicbot - Telegram bot that finds songs on YouTube Music and sends them as audio")
	fmt.Println()
	fmt.Println("Usage: ytmusicbot [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Show detailed output")
	fmt.Println("  -p, --parallel <n>         Concurrent downloads (1-10, default: 3)")
	fmt.Println("  -b, --browser <name>       Browser to extract cookies from")
	fmt.Println("  -f, --format <format>      Audio format: mp3, m4a, opus (default: mp3)")
	fmt.Println("      --status-addr <addr>   Serve queue status over HTTP on addr")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./ytmusicbot.yaml")
	fmt.Println("  ~/.config/ytmusicbot/config.yaml")
	fmt.Println("  ~/.ytmusicbot.yaml")
	fmt.Println()
	fmt.Println("The bot token is read from bot_token or the BOT_TOKEN environment variable.")
	fmt.Println()
	fmt.Println("Logging:")
	fmt.Println("  Normal mode: logs saved to ~/.local/share/ytmusicbot/logs/")
	fmt.Println("  Verbose mode: all output to stdout, no file logging")
}
