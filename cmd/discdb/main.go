// Package main is the entry point for the discdb server.
//
// discdb keeps a list of optical disc records in memory and exposes them over
// a small JSON HTTP API. Configuration is read from CLI flags, a .env file and
// an optional YAML config file, in that order of precedence.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lmittmann/tint"
	"github.com/maruel/discdb/internal/config"
	"github.com/maruel/discdb/internal/discs"
	"github.com/maruel/discdb/internal/server"
	"github.com/maruel/discdb/internal/storage"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "discdb: %v\n", err)
		os.Exit(1)
	}
}

// overrides holds the flag values that can replace config file settings.
type overrides struct {
	http            string
	configPath      string
	seed            string
	idRule          string
	hideErrorDetail bool
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	schema := flag.Bool("schema", false, "Print the JSON schema of a disc record and exit")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	var o overrides
	flag.StringVar(&o.http, "http", "", "Address to listen on (default from config, localhost:3000)")
	flag.StringVar(&o.configPath, "config", "", "Path to an optional YAML config file")
	flag.StringVar(&o.seed, "seed", "", "Path to a YAML seed file replacing the built-in records")
	flag.StringVar(&o.idRule, "id-rule", "", "How new ids are assigned: tail or max")
	flag.BoolVar(&o.hideErrorDetail, "hide-error-detail", false, "Do not expose internal error messages in 500 responses")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}

	if *version {
		printVersion()
		return nil
	}
	if *schema {
		return printSchema()
	}

	env, err := loadDotEnv(*envFile)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["log-level"] {
		if v := env["LOG_LEVEL"]; v != "" {
			*logLevel = v
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}
	slog.SetDefault(newLogger(ll))

	cfg, err := resolveConfig(&o, env, set)
	if err != nil {
		return err
	}

	seed := storage.DefaultSeed()
	if cfg.SeedFile != "" {
		if seed, err = storage.LoadSeed(cfg.SeedFile); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Loaded seed file", "path", cfg.SeedFile, "count", len(seed))
	}
	store := storage.NewDiscStore(seed, cfg.IDRule)

	// Watch own executable for modifications (for development restarts)
	if err := watchExecutable(ctx, stop); err != nil {
		return fmt.Errorf("failed to watch executable: %w", err)
	}

	// Normalize addr: ":3000" becomes "localhost:3000"
	addr := cfg.HTTP
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	buildVersion, _, _, _ := getBuildInfo()
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(ctx, store, &server.Config{Config: cfg, Version: buildVersion}),
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Starting server", "addr", addr, "idRule", cfg.IDRule.String(), "discs", store.Len(), "version", buildVersion)
		serverErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.InfoContext(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.InfoContext(ctx, "Server stopped")
	}
	return nil
}

// resolveConfig loads the config file then applies .env values, then flags
// that were explicitly set.
func resolveConfig(o *overrides, env map[string]string, set map[string]bool) (*config.Config, error) {
	pick := func(name, key, flagValue string) string {
		if set[name] {
			return flagValue
		}
		return env[key]
	}
	cfg, err := config.Load(pick("config", "CONFIG", o.configPath))
	if err != nil {
		return nil, err
	}
	if v := pick("http", "HTTP", o.http); v != "" {
		cfg.HTTP = v
	}
	if v := pick("seed", "SEED", o.seed); v != "" {
		cfg.SeedFile = v
	}
	if v := pick("id-rule", "ID_RULE", o.idRule); v != "" {
		if cfg.IDRule, err = discs.ParseIDRule(v); err != nil {
			return nil, err
		}
	}
	if set["hide-error-detail"] {
		cfg.HideErrorDetail = o.hideErrorDetail
	} else if v := env["HIDE_ERROR_DETAIL"]; v != "" {
		if cfg.HideErrorDetail, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid HIDE_ERROR_DETAIL: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(ll *slog.LevelVar) *slog.Logger {
	// Skip timestamps when running under systemd (it adds its own).
	underSystemd := os.Getenv("JOURNAL_STREAM") != ""
	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if underSystemd && a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			if a.Key == "ip" {
				if v := a.Value.String(); v == "127.0.0.1" || v == "::1" {
					return slog.Attr{}
				}
			}
			switch t := a.Value.Any().(type) {
			case string:
				if t == "" {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
}

func printSchema() error {
	data, err := json.MarshalIndent(discs.Schema(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Printf("%s\n", data)
	return err
}

func printVersion() {
	version, goVersion, revision, dirty := getBuildInfo()
	fmt.Printf("discdb %s\n", version)
	fmt.Printf("  Go version: %s\n", goVersion)
	fmt.Printf("  Revision:   %s\n", revision)
	if dirty {
		fmt.Printf("  Modified:   true\n")
	}
}

func getBuildInfo() (version, goVersion, revision string, dirty bool) {
	version = "unknown"
	goVersion = "unknown"
	revision = "unknown"
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	goVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	return
}

// loadDotEnv parses KEY=value lines. A missing file yields an empty map.
func loadDotEnv(path string) (map[string]string, error) {
	env := make(map[string]string)
	raw, err := os.ReadFile(path) //nolint:gosec // G304: path comes from a flag
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return env, nil
		}
		return nil, err
	}
	for line := range strings.SplitSeq(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if strings.HasPrefix(val, "'") || strings.HasSuffix(val, "'") {
			return nil, fmt.Errorf("single quotes are not supported in %s: %s", path, line)
		}
		if strings.HasPrefix(val, "\"") {
			unquoted, err := strconv.Unquote(val)
			if err != nil {
				return nil, fmt.Errorf("failed to unquote %s: %w", key, err)
			}
			val = unquoted
		}
		env[key] = val
	}
	return env, nil
}

// watchExecutable calls stop when the running binary is replaced so a
// supervisor can restart it.
func watchExecutable(ctx context.Context, stop context.CancelFunc) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	if exe, err = filepath.EvalSymlinks(exe); err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(exe); err != nil {
		_ = w.Close()
		return err
	}
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Chmod) {
					slog.InfoContext(ctx, "Executable modified, initiating shutdown")
					stop()
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.WarnContext(ctx, "Error watching executable", "err", err)
			}
		}
	}()
	return nil
}
