package main

import (
	"flag"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/sdsdc/bibliotheque/config"
	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/handler"
	"github.com/sdsdc/bibliotheque/internal/jsonlog"
	"github.com/sdsdc/bibliotheque/repository"
	"github.com/sdsdc/bibliotheque/repository/postgres"
	"github.com/sdsdc/bibliotheque/service"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Baseline defaults, overridable first by the optional config file and
	// then by command line flags.
	var cfg config.Config
	cfg.Port = 5000
	cfg.Env = "development"
	cfg.Database.DSN = os.Getenv("BIBLIOTHEQUE_DB_DSN")
	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 25
	cfg.Database.MaxIdleTime = "15m"
	cfg.JWT.Secret = os.Getenv("BIBLIOTHEQUE_JWT_SECRET")
	cfg.JWT.Issuer = "bibliotheque"
	cfg.SMTP.Port = 25
	cfg.Limiter.RPS = 2
	cfg.Limiter.Burst = 4
	cfg.Limiter.Enabled = true

	if path := os.Getenv("BIBLIOTHEQUE_CONFIG"); path != "" {
		err := config.LoadFile(path, &cfg)
		if err != nil {
			logger.PrintFatal(err, map[string]string{"config_file": path})
		}
	}

	flag.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flag.StringVar(&cfg.Env, "env", cfg.Env, "Environment (development|staging|production)")
	flag.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "PostgreSQL DSN")
	flag.IntVar(&cfg.Database.MaxOpenConns, "db-max-open-conns", cfg.Database.MaxOpenConns, "PostgreSQL max open connections")
	flag.IntVar(&cfg.Database.MaxIdleConns, "db-max-idle-conns", cfg.Database.MaxIdleConns, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.Database.MaxIdleTime, "db-max-idle-time", cfg.Database.MaxIdleTime, "PostgreSQL max connection idle time")
	flag.StringVar(&cfg.JWT.Secret, "jwt-secret", cfg.JWT.Secret, "JWT signing secret")
	flag.StringVar(&cfg.JWT.Issuer, "jwt-issuer", cfg.JWT.Issuer, "JWT issuer")
	flag.StringVar(&cfg.SMTP.Host, "smtp-host", cfg.SMTP.Host, "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", cfg.SMTP.Port, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", cfg.SMTP.Username, "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", cfg.SMTP.Password, "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", cfg.SMTP.Sender, "SMTP sender")
	flag.Float64Var(&cfg.Limiter.RPS, "limiter-rps", cfg.Limiter.RPS, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.Limiter.Burst, "limiter-burst", cfg.Limiter.Burst, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.Limiter.Enabled, "limiter-enabled", cfg.Limiter.Enabled, "Enable rate limiter")
	flag.BoolVar(&cfg.Metrics.Enabled, "metrics-enabled", cfg.Metrics.Enabled, "Enable request metrics")
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.Cors.TrustedOrigins = strings.Fields(val)
		return nil
	})
	flag.Parse()

	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and the stats cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.BookStats](30 * time.Minute))
	go cache.Start()

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
