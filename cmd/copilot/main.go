// copilot connects to the meeting co-pilot backend and streams the live
// transcript and insights to the console.
// Usage: go run ./cmd/copilot --config configs/copilot.yaml
//
// Without --config it targets a local backend on ws://localhost:8000/ws.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/kube-copilot/copilot/internal/config"
	"github.com/kube-copilot/copilot/internal/model"
	"github.com/kube-copilot/copilot/internal/session"
	"github.com/kube-copilot/copilot/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	language := flag.String("language", "", "session language: de or en (overrides config)")
	sessionID := flag.String("session-id", "", "session identifier (overrides config)")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("copilot", version.String())
		return
	}

	// Pick up a local .env before config env expansion
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	var cfg *config.ClientConfig
	if *configPath != "" {
		var err error
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		cfg = config.Default()
	}

	if *language != "" {
		cfg.Session.Language = *language
	}
	if *sessionID != "" {
		cfg.Session.SessionID = *sessionID
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Session.SessionID == "" {
		cfg.Session.SessionID = uuid.NewString()
	}

	mgr := session.NewManager(session.Config{
		URL:              cfg.Server.URL(),
		PingInterval:     cfg.Heartbeat.PingInterval,
		PongTimeout:      cfg.Heartbeat.PongTimeout,
		HandshakeTimeout: cfg.Transport.HandshakeTimeout,
		WriteTimeout:     cfg.Transport.WriteTimeout,
		BufferSize:       cfg.Transport.BufferSize,
	}, session.Callbacks{
		StatusChange: func(from, to model.Status) {
			logger.Info("session status", "from", from, "to", to)
		},
		Transcript: func(text string) {
			fmt.Printf("\n[TRANSCRIPT] %s\n", text)
		},
		Insight: func(in model.Insight) {
			fmt.Printf("\n[INSIGHT] %s\n", strings.TrimSpace(in.Text))
		},
	}, logger)

	mgr.Start(model.Language(cfg.Session.Language), cfg.Session.SessionID)

	// Stats printer
	statsDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-statsDone:
				return
			case <-ticker.C:
				stats := mgr.Stats()
				logger.Info("stats",
					"messages", stats.MessagesReceived,
					"transcripts", stats.TranscriptUpdates,
					"insights", stats.InsightsKept,
					"deduped", stats.InsightsDeduped,
					"pings", stats.PingsSent,
					"pongs", stats.PongsReceived,
				)
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("listening started - press Ctrl+C to stop")
	<-sigCh

	// First signal: graceful stop, wait for the backend to flush and
	// confirm. Second signal or timeout forces teardown.
	logger.Info("stopping session (Ctrl+C again to force)")
	mgr.Stop()

	select {
	case <-sigCh:
		logger.Warn("forcing teardown")
	case <-sessionSettled(mgr):
	case <-time.After(10 * time.Second):
		logger.Warn("no stop confirmation, forcing teardown")
	}

	close(statsDone)
	mgr.Close()

	stats := mgr.Stats()
	logger.Info("session finished",
		"transcripts", stats.TranscriptUpdates,
		"insights", stats.InsightsKept,
		"deduped", stats.InsightsDeduped,
	)
}

// sessionSettled closes the returned channel once the manager reaches a
// state with no live transport.
func sessionSettled(mgr session.Manager) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			switch mgr.Snapshot().Status {
			case model.StatusIdle, model.StatusDisconnected:
				return
			}
			time.Sleep(100 * time.Millisecond)
		}
	}()
	return done
}
