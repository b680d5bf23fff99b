package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/scenelingo/internal/app"
	"github.com/abhisek/scenelingo/internal/catalog"
	"github.com/abhisek/scenelingo/internal/config"
	"github.com/abhisek/scenelingo/internal/llm"
	"github.com/abhisek/scenelingo/internal/logging"
	"github.com/abhisek/scenelingo/internal/metrics"
	"github.com/abhisek/scenelingo/internal/speech"
	"github.com/abhisek/scenelingo/internal/stats"
	"github.com/abhisek/scenelingo/internal/store"
	"github.com/abhisek/scenelingo/internal/vocab"
)

// appOptions are the per-command knobs of the TUI.
type appOptions struct {
	StartScene *catalog.Scene
	SkipSplash bool
}

// backend is the storage shared by the TUI and the one-shot commands.
type backend struct {
	store   *store.Store
	stats   *stats.Service
	closers []io.Closer
}

// openBackend opens the SQLite database and, for the redis storage
// backend, the Redis connection holding the stats record.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	b := &backend{store: st, closers: []io.Closer{st}}

	blobs := st.Blobs()
	if cfg.Storage.Backend == config.BackendRedis {
		r, err := store.DialRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		b.closers = append(b.closers, r)
		blobs = r
	}

	b.stats = stats.NewService(blobs, stats.WithGoal(cfg.Learning.DailyGoal))
	return b, nil
}

func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i].Close())
	}
	return errors.Join(errs...)
}

// runApp builds the dependencies from the configuration and launches the
// TUI.
func runApp(cmd *cobra.Command, ao appOptions) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	logFile, err := logging.Setup(cfg.Log.Level, logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		srv := metrics.NewServer(cfg.Metrics.Addr, m)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	events := b.store.EventRepo()
	pcfg := cfg.ProviderConfig()

	// Both providers are optional: the app falls back to a placeholder
	// card without vocabulary, and to the scene picture without images.
	text, err := llm.NewProvider(ctx, pcfg, events, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Scenes will show a placeholder card.")
		log.WithError(err).Warn("vocabulary provider unavailable")
		text = nil
	}
	images, err := llm.NewImageProvider(ctx, pcfg, events, m)
	if err != nil {
		log.WithError(err).Info("image generation unavailable")
		images = nil
	}
	fetcher := vocab.NewFetcher(text, images, vocab.WithTimeouts(pcfg.Timeout, pcfg.ImageTimeout))

	imageDir := cfg.Learning.ImageDir
	if imageDir == "" {
		imageDir = vocab.DefaultImageDir()
	}
	shell := app.NewShell(b.stats, events, m, newSpeaker(cfg), vocab.ImageFiles{Dir: imageDir})

	log.WithFields(log.Fields{
		"provider": pcfg.Provider,
		"storage":  cfg.Storage.Backend,
		"images":   fetcher.CanFetchImages(),
	}).Info("starting scenelingo")

	return app.Run(ctx, app.Options{
		Shell:         shell,
		Fetcher:       fetcher,
		EventRepo:     events,
		ProviderReady: fetcher.CanFetchVocabulary(),
		StartScene:    ao.StartScene,
		SkipSplash:    ao.SkipSplash,
		Location:      time.Local,
	})
}

// newSpeaker returns the configured speech engine, or a silent one when
// speech is disabled or no engine is installed.
func newSpeaker(cfg *config.Config) speech.Speaker {
	if cfg.Speech.Disabled {
		return speech.Nop{}
	}
	s := speech.New(cfg.Speech.Command, cfg.Speech.Rate)
	if !s.Available() {
		log.Warn("no speech engine found; pronunciation is disabled")
		return speech.Nop{}
	}
	log.WithField("engine", s.Engine()).Debug("speech enabled")
	return s
}
