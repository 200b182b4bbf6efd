package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/jobdash/app/dashboard"
	"github.com/umputun/jobdash/app/persistence"
	"github.com/umputun/jobdash/app/web"
)

var opts struct {
	Listen  string `short:"l" long:"listen" env:"JOBDASH_LISTEN" default:"127.0.0.1:8080" description:"web server listen address"`
	BaseURL string `long:"base-url" env:"JOBDASH_BASE_URL" description:"base URL path for reverse proxy (e.g., /jobs)"`
	PerPage int    `long:"per-page" env:"JOBDASH_PER_PAGE" default:"4" description:"jobs per page of bucket view"`
	Dbg     bool   `long:"dbg" env:"JOBDASH_DEBUG" description:"debug mode"`

	Store struct {
		Type       string        `long:"type" env:"TYPE" choice:"sqlite" choice:"postgres" choice:"mongo" default:"sqlite" description:"job store type"`
		DSN        string        `long:"dsn" env:"DSN" default:"jobs.db" description:"sqlite file, postgres or mongo url"`
		Table      string        `long:"table" env:"TABLE" default:"delayed_jobs" description:"jobs table for sql stores"`
		Database   string        `long:"database" env:"DATABASE" description:"mongo database"`
		Collection string        `long:"collection" env:"COLLECTION" default:"delayed_backend_mongoid_jobs" description:"mongo jobs collection"`
		Init       bool          `long:"init" env:"INIT" description:"create jobs table and index if missing"`
		Attempts   int           `long:"attempts" env:"ATTEMPTS" default:"5" description:"connect attempts on startup"`
		Delay      time.Duration `long:"delay" env:"DELAY" default:"1s" description:"initial delay between connect attempts"`
	} `group:"store" namespace:"store" env-namespace:"JOBDASH_STORE"`

	Sweep struct {
		Policy      string `long:"policy" env:"POLICY" choice:"continue" choice:"abort" default:"continue" description:"bulk requeue/clear on failure"`
		Concurrency int    `long:"concurrency" env:"CONCURRENCY" default:"1" description:"parallel mutations of bulk requeue/clear"`
	} `group:"sweep" namespace:"sweep" env-namespace:"JOBDASH_SWEEP"`

	Auth struct {
		User         string  `long:"user" env:"USER" default:"jobdash" description:"basic auth user for mutating requests"`
		PasswordHash string  `long:"hash" env:"HASH" description:"bcrypt hash of basic auth password, auth disabled if empty"`
		Rate         float64 `long:"rate" env:"RATE" default:"10" description:"mutating requests per second per client"`
	} `group:"auth" namespace:"auth" env-namespace:"JOBDASH_AUTH"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"jobdash.log" description:"file name of the log"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max size of the log file in megabytes"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of old log files to keep"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max age of old log files in days"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"compress rotated log files"`
	} `group:"log" namespace:"log" env-namespace:"JOBDASH_LOG"`
}

var revision = "unknown"

// jobStore is a dashboard store owned by main
type jobStore interface {
	dashboard.Store
	Initialize(ctx context.Context) error
	Close() error
}

func main() {
	fmt.Printf("jobdash %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel) // handle SIGQUIT, SIGINT and SIGTERM

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	store, err := makeStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to make job store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[WARN] failed to close job store: %v", err)
		}
	}()
	connectStore(ctx, store)

	policy, err := dashboard.ParseSweepPolicy(opts.Sweep.Policy)
	if err != nil {
		return err
	}
	svc := dashboard.New(store, dashboard.Opts{PerPage: opts.PerPage, Sweep: policy, Concurrency: opts.Sweep.Concurrency})

	srv, err := web.New(svc, web.Config{
		BaseURL:      validateBaseURL(opts.BaseURL),
		Version:      revision,
		AuthUser:     opts.Auth.User,
		PasswordHash: opts.Auth.PasswordHash,
		MutationRate: opts.Auth.Rate,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, opts.Listen)
}

// makeStore creates the job store selected by options, it doesn't check connectivity
func makeStore(ctx context.Context) (jobStore, error) {
	switch opts.Store.Type {
	case "sqlite":
		return persistence.NewSQLStore(persistence.DialectSQLite, opts.Store.DSN, opts.Store.Table)
	case "postgres":
		return persistence.NewSQLStore(persistence.DialectPostgres, opts.Store.DSN, opts.Store.Table)
	case "mongo":
		return persistence.NewMongoStore(ctx, opts.Store.DSN, opts.Store.Database, opts.Store.Collection)
	default:
		return nil, fmt.Errorf("unknown store type %q", opts.Store.Type)
	}
}

// connectStore pings the store with backoff and initializes it if asked to.
// An unreachable store is not fatal, the dashboard reports it until the store is back.
func connectStore(ctx context.Context, store jobStore) {
	rptr := repeater.New(&strategy.Backoff{Repeats: max(opts.Store.Attempts, 1), Duration: opts.Store.Delay, Factor: 2, Jitter: true})
	err := rptr.Do(ctx, func() error {
		if err := store.Ping(ctx); err != nil {
			log.Printf("[DEBUG] job store %s not ready, %v", store, err)
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("[WARN] job store %s is unavailable, %v", store, err)
		return
	}
	log.Printf("[INFO] connected to job store %s", store)

	if !opts.Store.Init {
		return
	}
	if err := store.Initialize(ctx); err != nil {
		log.Printf("[WARN] failed to initialize job store %s: %v", store, err)
	}
}

// validateBaseURL normalizes base url, drops trailing slash and treats "/" as empty
func validateBaseURL(u string) string {
	u = strings.TrimRight(u, "/")
	if u != "" && !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return u
}

// setupLogs configures lgr and returns the writer logs go to
func setupLogs() io.Writer {
	out := io.Writer(os.Stdout)
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	logOpts := []log.Option{log.Msec, log.LevelBraces, log.Out(out), log.Err(out)}
	if opts.Dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFile, log.CallerFunc)
	}
	log.Setup(logOpts...)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %s received, shutting down", sig)
			cancel()
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
