// Command server runs the member evaluations HTTP API.
//
//	@title						Member Evaluations API
//	@version					1.0
//	@description				Roster lookup, rating submission and reporting for member evaluations.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/serraej/member-evaluations/internal/api"
	"github.com/serraej/member-evaluations/internal/api/handler"
	"github.com/serraej/member-evaluations/internal/core/domain"
	"github.com/serraej/member-evaluations/internal/core/ports"
	"github.com/serraej/member-evaluations/internal/core/service"
	"github.com/serraej/member-evaluations/internal/infrastructure/db/memory"
	mongostore "github.com/serraej/member-evaluations/internal/infrastructure/db/mongo"
	"github.com/serraej/member-evaluations/internal/infrastructure/db/postgres"
	redisstore "github.com/serraej/member-evaluations/internal/infrastructure/db/redis"
	"github.com/serraej/member-evaluations/internal/infrastructure/identity"
	"github.com/serraej/member-evaluations/internal/infrastructure/notion"
	"github.com/serraej/member-evaluations/internal/pkg/config"
	"github.com/serraej/member-evaluations/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "member-evaluations",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// stores groups the persistence adapters chosen at startup.
type stores struct {
	users       ports.UserRepository
	profiles    ports.ProfileRepository
	evaluations ports.EvaluationRepository
	sessions    ports.SessionRepository
	drafts      ports.DraftStore
	health      map[string]handler.PingFunc
	closers     []func(context.Context) error
}

func (s *stores) close(ctx context.Context, log zerolog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("failed to close store")
		}
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		st.close(closeCtx, log)
	}()

	authService, err := newAuthService(cfg, st, log)
	if err != nil {
		return err
	}

	directory := service.NewDirectoryService(notion.NewDirectory(notion.Config{
		SecretKey:        cfg.Notion.SecretKey,
		DatabaseID:       cfg.Notion.DatabaseID,
		NameProperty:     cfg.Notion.NameProperty,
		CategoryProperty: cfg.Notion.CategoryProperty,
		SectorProperty:   cfg.Notion.SectorProperty,
	}, logger.Component("notion")), logger.Component("directory"))

	rubric := domain.Rubric{
		Criteria: cfg.Evaluation.Criteria,
		Min:      cfg.Evaluation.MinScore,
		Max:      cfg.Evaluation.MaxScore,
	}
	var evalOpts []service.EvaluationOption
	if cfg.Evaluation.VerifySubjects {
		evalOpts = append(evalOpts, service.WithSubjectVerifier(directory))
	}
	evaluations := service.NewEvaluationService(st.evaluations, st.drafts, rubric, logger.Component("evaluations"), evalOpts...)
	reports := service.NewReportService(st.evaluations, logger.Component("reports"))

	e := api.NewRouter(api.Deps{
		Auth:           authService,
		Directory:      directory,
		Evaluations:    evaluations,
		Reports:        reports,
		Health:         st.health,
		AllowedOrigins: cfg.CORSOrigins,
		Log:            log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("auth", cfg.AuthMode).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{health: make(map[string]handler.PingFunc)}

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		repo := postgres.NewAuthRepository(pool)
		st.users, st.profiles = repo, repo
		st.evaluations = postgres.NewEvaluationRepository(pool)
		st.health["postgres"] = pool.Ping
		st.closers = append(st.closers, func(context.Context) error { pool.Close(); return nil })

	case config.StoreDriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		repo := mongostore.NewAuthRepository(db)
		st.users, st.profiles = repo, repo
		st.evaluations = mongostore.NewEvaluationRepository(db)
		st.health["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		st.closers = append(st.closers, client.Disconnect)

	default:
		log.Warn().Msg("evaluations are kept in memory and lost on restart")
		st.evaluations = memory.NewEvaluationRepository()
	}

	if cfg.Redis.Addr == "" {
		st.sessions = memory.NewSessionStore()
		st.drafts = memory.NewDraftStore()
		return st, nil
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		st.close(ctx, log)
		return nil, err
	}
	st.sessions = redisstore.NewSessionStore(rdb)
	st.drafts = redisstore.NewDraftStore(rdb, cfg.Redis.DraftTTL)
	st.health["redis"] = redisstore.Ping(rdb)
	st.closers = append(st.closers, func(context.Context) error { return rdb.Close() })
	return st, nil
}

// newAuthService picks the credential source. Static mode and the memory
// store both authenticate against the identity table and disable sign-up.
func newAuthService(cfg *config.Config, st *stores, log zerolog.Logger) (*service.AuthService, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET is empty; using an insecure development secret")
		secret = "development-only-secret"
	}

	if cfg.AuthMode == config.AuthModeStatic || st.users == nil {
		table, err := identity.Load(cfg.StaticUsersFile)
		if err != nil {
			return nil, err
		}
		return service.NewAuthService(table, nil, table, st.sessions, secret, cfg.TokenTTL, logger.Component("auth")), nil
	}

	authn := service.NewPasswordAuthenticator(st.users, st.profiles)
	return service.NewAuthService(authn, st.users, st.profiles, st.sessions, secret, cfg.TokenTTL, logger.Component("auth")), nil
}
