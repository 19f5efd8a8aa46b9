package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"clipchat/api"
	"clipchat/auth"
	"clipchat/common"
	"clipchat/config"
	"clipchat/demo/tui"
	"clipchat/events"
	"clipchat/limiter"
	"clipchat/llm"
	"clipchat/media"
	"clipchat/ops"
)

func main() {
	root := &cobra.Command{
		Use:   "clipchat",
		Short: "Chat-driven media editing service",
	}
	root.AddCommand(serveCmd(), demoCmd(), eventsCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			deps, shutdown, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer shutdown()

			if cfg.SweepSchedule != "" {
				janitor := &media.Janitor{TempRoot: cfg.TempRoot, MaxAge: config.SweepMaxAge}
				if err := janitor.Start(cfg.SweepSchedule); err != nil {
					return err
				}
				defer janitor.Stop()
			}

			r := api.NewRouter(deps)
			log.Printf("Starting API server on %s", cfg.Addr)
			log.Println("API endpoints available:")
			log.Println("  GET  /api/health")
			log.Println("  GET  /api/operations")
			log.Println("  GET  /api/supported-formats")
			log.Println("  POST /api/probe")
			log.Println("  POST /api/process")
			log.Println("  POST /api/transition")
			log.Println("  POST /api/chat")
			return r.Run(cfg.Addr)
		},
	}
}

// buildDeps wires the handler dependencies. Optional integrations stay nil
// when their configuration is absent; the server runs fine without them.
func buildDeps(ctx context.Context, cfg *config.Config) (*api.Deps, func(), error) {
	registry := ops.NewRegistry()
	pipeline := &media.Pipeline{
		Registry:      registry,
		Prober:        &media.FFprobe{Timeout: config.ProbeTimeout},
		Exec:          &media.Executor{Binary: cfg.FFmpegBinary},
		TempRoot:      cfg.TempRoot,
		MaxInputBytes: cfg.MaxInputBytes,
	}
	deps := &api.Deps{Cfg: cfg, Registry: registry, Pipeline: pipeline}

	var closers []func()
	shutdown := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.CohereAPIKey != "" {
		deps.Chat = llm.New(cfg.CohereAPIKey, "", registry)
		log.Println("Chat endpoint enabled")
	} else {
		log.Println("COHERE_API_KEY not set; chat endpoint disabled")
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		closers = append(closers, func() { pub.Close() })
		pipeline.Events = pub
		log.Printf("Publishing job events to %s", cfg.KafkaTopic)
	}

	if cfg.S3Bucket != "" {
		archive, err := common.NewArchive(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3Prefix)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		pipeline.Archiver = archive
		log.Printf("Archiving outputs to s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
	}

	if cfg.RedisAddr != "" {
		store, err := auth.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		closers = append(closers, func() { store.Close() })
		if cfg.AuthEnabled() {
			deps.Sessions = store
			deps.Google = auth.NewGoogle(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
			log.Println("Google login enabled")
		}
		if cfg.RateLimitPerMinute > 0 {
			deps.Limit = limiter.NewRedis(store.Client(), cfg.RateLimitPerMinute)
		}
	} else if cfg.RateLimitPerMinute > 0 {
		deps.Limit = limiter.NewMemory(cfg.RateLimitPerMinute)
	}

	return deps, shutdown, nil
}

func demoCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive chat client against a running server",
		RunE: func(_ *cobra.Command, _ []string) error {
			program := tea.NewProgram(tui.NewModel(serverURL))
			_, err := program.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&serverURL, "url", "http://localhost:8080", "clipchat server URL")
	return cmd
}

func eventsCmd() *cobra.Command {
	var groupID string
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the job event topic",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BROKERS is not set")
			}

			consumer, err := events.NewConsumer(events.ConsumerConfig{
				Brokers: cfg.KafkaBrokers,
				Topic:   cfg.KafkaTopic,
				GroupID: groupID,
				Handler: events.EventHandlerFunc(func(_ context.Context, ev media.Event) error {
					if ev.Detail != "" {
						log.Printf("job %s: %s %s (%s): %s", ev.JobID, ev.Op, ev.Status, ev.Duration, ev.Detail)
					} else {
						log.Printf("job %s: %s %s (%s)", ev.JobID, ev.Op, ev.Status, ev.Duration)
					}
					return nil
				}),
			})
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := consumer.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "clipchat-events", "consumer group id")
	return cmd
}
