package app

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"path"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/pkg/pkgconfig"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
	"github.com/stepski011/DevStore/internal/pkg/pkgroutine"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
)

func (a *App) initConfig() {
	file := configPath()

	if err := pkgconfig.LoadEnv(envPath(file)); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := pkgconfig.NewViper(file)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))

	a.config = cfg
}

// configPath resolves config.yaml: CONFIG_PATH wins, LOCAL=true reads ./config.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

// envPath is the config.env next to config.yaml.
func envPath(configFile string) string {
	return path.Join(path.Dir(configFile), "config.env")
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(pkgroutine.DefaultMaxGoroutine)
	a.uuid = pkguid.NewUUID()
}

func (a *App) initResources() {
	if addr := a.config.GetString("redis.address"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: a.config.GetString("redis.password"),
			DB:       int(a.config.GetInt("redis.db")),
		})

		ctx, cancel := context.WithTimeout(a.ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, rate limiting falls back to memory", "address", addr, "error", err)
			_ = client.Close()
		} else {
			a.redis = client
		}
	}

	if a.config.GetString("database.driver") == "postgres" {
		db, err := sql.Open("postgres", a.config.GetString("database.dsn"))
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		db.SetMaxOpenConns(int(a.config.GetInt("database.max_open_conns")))
		db.SetMaxIdleConns(int(a.config.GetInt("database.max_idle_conns")))
		db.SetConnMaxLifetime(5 * time.Minute)

		ctx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			slog.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		if err := store.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		a.db = db
	}

	if a.config.GetString("upload.driver") == "s3" || a.config.GetString("mail.driver") == "ses" {
		cfg, err := awsconfig.LoadDefaultConfig(a.ctx, awsconfig.WithRegion(a.config.GetString("aws.region")))
		if err != nil {
			slog.Error("failed to load aws config", "error", err)
			os.Exit(1)
		}
		a.aws = &cfg
	}
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	var limiter pkgrouter.Limiter
	window := a.config.GetDuration("ratelimit.window")
	limit := int(a.config.GetInt("ratelimit.max"))
	if a.redis != nil {
		limiter = pkgrouter.NewRedisLimiter(a.redis, window, limit)
	} else {
		limiter = pkgrouter.NewMemoryLimiter(window, limit)
	}

	proxies, err := pkgrouter.ParseTrustedProxies(a.config.GetArray("ratelimit.trusted_proxies"))
	if err != nil {
		slog.Error("failed to parse trusted proxies", "error", err)
		os.Exit(1)
	}

	a.router.Use(
		pkgrouter.SecureHeaders(a.config.GetString("env") != "production"),
		pkgrouter.RateLimit(limiter, proxies...),
		pkgrouter.ParameterPollution(a.config.GetArray("hpp.whitelist")...),
		pkgrouter.Sanitize(),
	)

	corsHandler := cors.New(corsOptions(a.config.GetArray("cors.origins")))

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// corsOptions allows any origin without credentials, or the listed origins
// with credentials.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	}
	return opts
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

func (a *App) initClosers() {
	a.addCloser("Config", func(context.Context) error {
		return a.config.Close()
	})
	if a.redis != nil {
		a.addCloser("Redis", func(context.Context) error {
			return a.redis.Close()
		})
	}
	if a.db != nil {
		a.addCloser("Database", func(context.Context) error {
			return a.db.Close()
		})
	}
}
