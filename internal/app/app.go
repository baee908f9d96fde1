package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"quotations/go_backend/internal/app/config"
	apphttp "quotations/go_backend/internal/app/http"
	"quotations/go_backend/internal/app/http/handlers"
	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/catering"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/dashboard"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote"
	pdfgen "quotations/go_backend/internal/domain/quote/pdf/gofpdf"
	"quotations/go_backend/internal/domain/settings"
	"quotations/go_backend/internal/domain/user"
	"quotations/go_backend/internal/infra/cache"
	"quotations/go_backend/internal/infra/db/postgres"
	"quotations/go_backend/internal/infra/events"
	"quotations/go_backend/internal/infra/notify"
	"quotations/go_backend/internal/infra/storage"
	logx "quotations/go_backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// App holds the process-wide dependencies.
type App struct {
	cfg      config.Config
	db       *postgres.DB
	rdb      *goredis.Client
	producer *events.Producer
	objects  storage.Store

	Services handlers.Services
}

func openDB(ctx context.Context, cfg config.Config) (*postgres.DB, error) {
	return postgres.New(ctx, cfg.DatabaseURL, postgres.Options{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
}

// New connects to every configured backend and builds the services.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	a := &App{cfg: cfg, db: db}

	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.cfg

	var settingsCache settings.Cache
	if cfg.Redis.Enabled() {
		rdb, err := cfg.Redis.New(ctx)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		a.rdb = rdb
		settingsCache = cache.NewSettingsCache(rdb, cfg.ConfigCacheTTL)
		logx.Info().Msg("settings cache: redis")
	}

	if cfg.SupabaseEnabled() {
		a.objects = storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, cfg.SupabaseBucket)
		logx.Info().Str("bucket", cfg.SupabaseBucket).Msg("logo storage: supabase")
	} else {
		local, err := storage.NewLocal(cfg.StorageDir, cfg.PublicBaseURL)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		a.objects = local
		logx.Info().Str("dir", cfg.StorageDir).Msg("logo storage: local")
	}

	users := user.NewService(postgres.NewUserStore(a.db), user.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
	clients := client.NewService(postgres.NewClientStore(a.db))
	sizeStore := postgres.NewSizeStore(a.db)
	sizes := catalog.NewSizeService(sizeStore)
	products := catalog.NewProductService(postgres.NewProductStore(a.db), sizeStore)
	projects := project.NewService(postgres.NewProjectStore(a.db), clients)
	cfgSvc := settings.NewService(postgres.NewSettingsStore(a.db), settingsCache, a.objects)

	deps := quote.Deps{
		Sequencer: postgres.NewSequenceStore(a.db),
		Clients:   clients,
		Products:  products,
		Sizes:     sizes,
		Projects:  projects,
		Settings:  cfgSvc,
		Renderer:  pdfgen.New(),
		Logos:     a.objects,
	}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaClientID)
		if err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
		a.producer = p
		deps.Publisher = p
		logx.Info().Strs("brokers", cfg.KafkaBrokers).Msg("events: kafka")
	}
	if cfg.TelegramEnabled() {
		deps.Notifier = notify.NewTelegram(cfg.TelegramBaseURL, cfg.TelegramBotToken, cfg.TelegramChatID)
		logx.Info().Msg("notifications: telegram")
	}

	a.Services = handlers.Services{
		Users:     users,
		Clients:   clients,
		Sizes:     sizes,
		Products:  products,
		Projects:  projects,
		Settings:  cfgSvc,
		Quotes:    quote.NewService(postgres.NewQuotationStore(a.db), deps),
		Catering:  catering.NewService(postgres.NewCateringStore(a.db), deps),
		Dashboard: dashboard.NewService(postgres.NewDashboardStore(a.db), currencyOf{cfgSvc}),
	}
	return nil
}

// currencyOf adapts the configuration service for the dashboard.
type currencyOf struct{ svc *settings.Service }

func (c currencyOf) CurrencyCode(ctx context.Context) (string, error) {
	cfg, err := c.svc.Get(ctx)
	if err != nil {
		return "", err
	}
	return cfg.Currency, nil
}

func (a *App) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logx.Warn().Err(err).Msg("kafka producer close")
		}
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) Handler() http.Handler {
	opts := apphttp.Options{
		CORSAllowOrigin: a.cfg.CORSAllowOrigin,
		Tokens:          a.Services.Users.Tokens(),
	}
	if _, ok := a.objects.(*storage.Local); ok {
		opts.UploadsDir = a.cfg.StorageDir
	}
	return apphttp.NewRouter(opts, handlers.New(a.Services, a.db))
}

// Run migrates the schema and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logx.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Migrate applies pending schema migrations and exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer db.Close()
	return db.Migrate(ctx)
}

// CreateAdmin registers an administrator account from the command line.
func CreateAdmin(ctx context.Context, cfg config.Config, name, email, password string) (*user.User, error) {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	users := user.NewService(postgres.NewUserStore(db), user.NewTokens(cfg.JWTSecret, cfg.JWTTTL))
	return users.Register(ctx, &user.Principal{Role: user.RoleAdmin}, user.RegisterInput{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     user.RoleAdmin,
	})
}
