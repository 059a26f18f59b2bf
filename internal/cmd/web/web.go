// Package web configures and runs the web process.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dcorpo/intel/internal/auth"
	"github.com/dcorpo/intel/internal/brief"
	"github.com/dcorpo/intel/internal/brief/publisher"
	"github.com/dcorpo/intel/internal/generation"
	"github.com/dcorpo/intel/internal/newsroom"
	"github.com/dcorpo/intel/internal/platform/config"
	"github.com/dcorpo/intel/internal/platform/otel"
	"github.com/dcorpo/intel/internal/storage"
	"github.com/dcorpo/intel/internal/storage/sqlite"
	"github.com/dcorpo/intel/internal/subscriber"
	webserver "github.com/dcorpo/intel/internal/web"
)

const sessionPurgeInterval = time.Hour

// Config holds the web command configuration.
type Config struct {
	HTTPAddr   string `env:"INTEL_HTTP_ADDR" envDefault:"localhost:8090"`
	DBPath     string `env:"INTEL_DB_PATH" envDefault:"intel.db"`
	SessionKey string `env:"INTEL_SESSION_KEY"`
	Timezone   string `env:"INTEL_TIMEZONE" envDefault:"Asia/Kolkata"`

	AIBaseURL string `env:"INTEL_AI_BASE_URL"`
	AIAPIKey  string `env:"INTEL_AI_API_KEY"`
	AIModel   string `env:"INTEL_AI_MODEL"`

	SearchBaseURL  string `env:"INTEL_SEARCH_BASE_URL"`
	SearchAPIKey   string `env:"INTEL_SEARCH_API_KEY"`
	SearchRequired bool   `env:"INTEL_SEARCH_REQUIRED"`

	// BootstrapAdminEmail and BootstrapAdminPassword seed the first
	// console operator on startup when both are set.
	BootstrapAdminEmail    string `env:"INTEL_BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPassword string `env:"INTEL_BOOTSTRAP_ADMIN_PASSWORD"`
}

// ParseConfig loads the web configuration from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.SessionKey) == "" {
		return Config{}, errors.New("INTEL_SESSION_KEY is required")
	}
	return cfg, nil
}

// unconfiguredGenerator stands in when no AI upstream is configured so
// generation fails cleanly instead of panicking.
type unconfiguredGenerator struct{}

func (unconfiguredGenerator) Generate(context.Context, string) (brief.Content, error) {
	return brief.Content{}, &generation.Error{
		Kind:    generation.KindUnavailable,
		Message: "ai generation is not configured",
	}
}

func buildGenerator(cfg Config) (newsroom.Generator, error) {
	if strings.TrimSpace(cfg.AIBaseURL) == "" {
		log.Print("ai generation disabled: INTEL_AI_BASE_URL is not set")
		return unconfiguredGenerator{}, nil
	}
	return generation.NewClient(generation.Config{
		BaseURL:        cfg.AIBaseURL,
		APIKey:         cfg.AIAPIKey,
		Model:          cfg.AIModel,
		SearchBaseURL:  cfg.SearchBaseURL,
		SearchAPIKey:   cfg.SearchAPIKey,
		SearchRequired: cfg.SearchRequired,
	})
}

func bootstrapOperator(ctx context.Context, sessions *auth.Service, cfg Config) error {
	email := strings.TrimSpace(cfg.BootstrapAdminEmail)
	if email == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}
	_, err := sessions.CreateOperator(ctx, email, cfg.BootstrapAdminPassword, auth.RoleAdmin)
	if errors.Is(err, storage.ErrAlreadyExists) {
		log.Printf("bootstrap operator %s already exists", email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap operator: %w", err)
	}
	log.Printf("bootstrap operator %s created", email)
	return nil
}

func purgeSessions(ctx context.Context, sessions *auth.Service) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sessions.PurgeExpiredSessions(ctx); err != nil {
				log.Printf("purge expired sessions: %v", err)
			}
		}
	}
}

// Run wires the process and serves until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	otelShutdown, err := otel.Setup(ctx, "intel-web")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	sessions, err := auth.NewService(store, auth.Config{SessionKey: []byte(cfg.SessionKey)})
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}
	if err := bootstrapOperator(ctx, sessions, cfg); err != nil {
		return err
	}
	go purgeSessions(ctx, sessions)

	generator, err := buildGenerator(cfg)
	if err != nil {
		return fmt.Errorf("init generation: %w", err)
	}

	server, err := webserver.NewServer(webserver.Config{
		Addr:        cfg.HTTPAddr,
		Briefs:      store,
		Sessions:    sessions,
		Newsroom:    newsroom.NewController(store, generator, publisher.New(store, nil), nil),
		Subscribers: subscriber.NewService(store, nil),
		Location:    location,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}
