package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/respd-go/internal/infra/buildinfo"
	"github.com/yndnr/respd-go/internal/infra/confloader"
	"github.com/yndnr/respd-go/internal/infra/shutdown"
	"github.com/yndnr/respd-go/internal/infra/tlsroots"
	"github.com/yndnr/respd-go/internal/server/config"
	"github.com/yndnr/respd-go/internal/server/httpserver"
	"github.com/yndnr/respd-go/internal/server/redisserver"
	"github.com/yndnr/respd-go/internal/telemetry/logger"
	"github.com/yndnr/respd-go/internal/telemetry/metric"
)

const (
	shutdownTimeout = 30 * time.Second
	defaultEnvFile  = ".env"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options carries the command-line inputs of one server run.
type options struct {
	configFile string
	envFile    string
	addr       string
	logLevel   string
	logOutput  io.Writer
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "respd-server",
		Usage:   "RESP server answering PING and ECHO",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				EnvVars: []string{"RESPD_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file (default: ./.env when present)",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address, overrides server.redis.addr",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, options{
				configFile: c.String("config"),
				envFile:    c.String("env-file"),
				addr:       c.String("addr"),
				logLevel:   c.String("log-level"),
				logOutput:  os.Stdout,
			})
		},
	}
}

// loadConfig builds the effective configuration from defaults, file, .env,
// environment and flags, and verifies it.
func loadConfig(opts options) (*config.ServerConfig, error) {
	cfg := config.Default()

	var loaderOpts []confloader.Option
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, confloader.WithEnvFile(opts.envFile))
	} else {
		loaderOpts = append(loaderOpts, confloader.WithOptionalEnvFile(defaultEnvFile))
	}

	overrides := make(map[string]any)
	if opts.addr != "" {
		overrides["server.redis.addr"] = opts.addr
	}
	if opts.logLevel != "" {
		overrides["log.level"] = opts.logLevel
	}
	if len(overrides) > 0 {
		loaderOpts = append(loaderOpts, confloader.WithOverrides(overrides))
	}

	if err := confloader.NewLoader(loaderOpts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// serve runs the server until a termination signal arrives or ctx is done.
func serve(ctx context.Context, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: opts.logOutput,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting respd-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", opts.configFile)
	log.Info("effective configuration", config.Summary(cfg)...)

	metrics := metric.NewRegistry()

	redisCfg, err := redisConfig(cfg)
	if err != nil {
		return err
	}
	redisSrv := redisserver.New(redisCfg, metrics, log)

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, log)

	if err := redisSrv.Start(ctx); err != nil {
		return fmt.Errorf("start redis server: %w", err)
	}
	shutdownHandler.OnShutdown("redis", redisSrv.Shutdown)

	if cfg.Server.HTTP.Enabled {
		router := httpserver.NewRouter(&httpserver.RouterConfig{
			Metrics: metrics,
			Logger:  log,
		})
		httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router, log)
		if err := httpSrv.Start(); err != nil {
			_ = redisSrv.Shutdown(context.Background())
			return fmt.Errorf("start http server: %w", err)
		}
		shutdownHandler.OnShutdown("http", httpSrv.Shutdown)
	}

	if opts.configFile != "" {
		watcher, err := watchConfig(opts, log)
		if err != nil {
			log.Warn("configuration hot reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

func redisConfig(cfg *config.ServerConfig) (*redisserver.Config, error) {
	policy, err := redisserver.ParseErrorPolicy(cfg.Server.Redis.ErrorPolicy)
	if err != nil {
		return nil, err
	}
	r := cfg.Server.Redis
	rc := &redisserver.Config{
		Address:        r.Addr,
		ReadTimeout:    r.ReadTimeout,
		WriteTimeout:   r.WriteTimeout,
		IdleTimeout:    r.IdleTimeout,
		MaxConnections: r.MaxConnections,
		RateLimit:      r.RateLimit,
		ErrorPolicy:    policy,
		Limits:         cfg.Protocol.Limits(),
	}
	if r.TLS.Enabled {
		tlsCfg, err := tlsroots.ServerTLSConfig(r.TLS.CertFile, r.TLS.KeyFile, r.TLS.ClientCAFile)
		if err != nil {
			return nil, fmt.Errorf("server.redis.tls: %w", err)
		}
		rc.TLSConfig = tlsCfg
		rc.TLSAddress = r.TLS.Addr
	}
	return rc, nil
}

// watchConfig reloads the configuration whenever the file changes and
// applies the new log level. Other settings take effect on restart.
func watchConfig(opts options, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(opts.configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(opts)
		if err != nil {
			log.Warn("configuration reload rejected", "file", path, "error", err)
			return
		}
		previous := logger.GetLevel()
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("configuration reload rejected", "file", path, "error", err)
			return
		}
		if current := logger.GetLevel(); current != previous {
			log.Info("log level changed", "from", previous, "to", current)
		}
	})
	watcher.StartAsync()

	return watcher, nil
}
