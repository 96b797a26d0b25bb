package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"ytmusicbot/internal/bot"
	"ytmusicbot/internal/cache"
	"ytmusicbot/internal/catalog"
	"ytmusicbot/internal/config"
	"ytmusicbot/internal/downloader"
	"ytmusicbot/internal/logger"
	"ytmusicbot/internal/lyrics"
	"ytmusicbot/internal/metadata"
	"ytmusicbot/internal/pipeline"
	"ytmusicbot/internal/provider/deezer"
	"ytmusicbot/internal/queue"
	"ytmusicbot/internal/shutdown"
	"ytmusicbot/internal/web"
	"ytmusicbot/pkg/utils"
)

// How long in-flight handlers get to finish after a shutdown signal.
const drainTimeout = 30 * time.Second

func main() {
	cfg, configPath, err := parseArgs(os.Args[1:])
	switch {
	case errors.Is(err, errHelp):
		printUsage()
		return
	case errors.Is(err, errInitConfig):
		if err := initConfigFile(); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
			os.Exit(1)
		}
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		printUsage()
		os.Exit(1)
	}

	log := logger.New(cfg.Verbose)
	defer log.Close()

	if !cfg.Verbose {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("ytmusicbot_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if configPath != "" {
		log.Debug("Loaded configuration from: %s", configPath)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		os.Exit(1)
	}

	sh := shutdown.New()
	sh.Listen(func(sig os.Signal) {
		log.Info("Received %s, shutting down...", sig)
	})

	err = run(sh, cfg, log)
	if !sh.Close(drainTimeout) {
		log.Warn("Some handlers were still running after %s", drainTimeout)
	}
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("=== Bot stopped ===")
}

func run(sh *shutdown.Handler, cfg config.Config, log *logger.Logger) error {
	log.Debug("Checking dependencies...")
	if err := utils.CheckDependencies(); err != nil {
		return fmt.Errorf("dependency check failed: %w", err)
	}

	tmpDir, err := utils.CreateTempDir(cfg.TempDir, "ytmusicbot-")
	if err != nil {
		return fmt.Errorf("error creating temporary folder: %w", err)
	}
	log.Debug("Temporary folder: %s", tmpDir)

	sh.AddCleanup(func() {
		log.Debug("Cleaning up...")
		if err := utils.Cleanup(tmpDir, cfg.TempDir); err != nil {
			log.Warn("Error during cleanup: %v", err)
		}
	})

	tagger, err := metadata.NewTagger(cfg.Tagger)
	if err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	log.Info("Authorized as @%s", api.Self.UserName)

	admission := queue.New(cfg.MaxConcurrentDownloads)
	results := cache.NewResultCache()
	meta := cache.NewMetadataStore()
	artifacts := cache.NewArtifactCache()

	searcher := catalog.NewChain([]catalog.Searcher{
		catalog.NewYTMusic(log),
		catalog.NewYouTube(),
	}, log)

	var covers pipeline.CoverFinder
	if cfg.CoverLookup {
		covers = deezer.New(cfg.SearchTimeout)
	}

	p := pipeline.New(pipeline.Deps{
		Admission:       admission,
		Metadata:        meta,
		Artifacts:       artifacts,
		Fetcher:         downloader.New(cfg, log),
		Artwork:         metadata.NewArtworkFetcher(cfg.SearchTimeout),
		Covers:          covers,
		Tagger:          tagger,
		Logger:          log,
		TempRoot:        tmpDir,
		DownloadTimeout: cfg.DownloadTimeout,
	})

	b := bot.New(bot.Deps{
		API:       api,
		Searcher:  searcher,
		Lyrics:    lyrics.NewClient(cfg.LyricsTimeout),
		Pipeline:  p,
		Results:   results,
		Metadata:  meta,
		Artifacts: artifacts,
		Admission: admission,
		Spawner:   sh,
		Config:    cfg,
		Logger:    log,
	})

	g, ctx := errgroup.WithContext(sh.Context())
	g.Go(func() error {
		return b.Run(ctx)
	})
	if cfg.StatusAddr != "" {
		status := web.NewServer(ctx, web.Deps{
			Admission: admission,
			Results:   results,
			Metadata:  meta,
			Artifacts: artifacts,
			Logger:    log,
		})
		g.Go(func() error {
			if err := status.ListenAndServe(ctx, cfg.StatusAddr); err != nil {
				return fmt.Errorf("status server: %w", err)
			}
			return nil
		})
	}

	return g.Wait()
}
