package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jarv/ytgoat/internal/api"
	"github.com/jarv/ytgoat/internal/channels"
	"github.com/jarv/ytgoat/internal/config"
	"github.com/jarv/ytgoat/internal/database"
	"github.com/jarv/ytgoat/internal/logging"
	"github.com/jarv/ytgoat/internal/render"
	"github.com/jarv/ytgoat/internal/session"
	"github.com/jarv/ytgoat/internal/tasks"
	"github.com/jarv/ytgoat/internal/ui"
	"github.com/jarv/ytgoat/internal/version"
)

const defaultHarnessAddr = "localhost:5000"

var logger *slog.Logger

func setupLogging(queries *database.Queries, debug bool) {
	slogHandler := logging.NewDatabaseHandlerWithDebug(queries, debug)
	logger = slog.New(slogHandler)

	// Set the global logger for other packages
	logging.SetLogger(logger)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytgoat [options] [command]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  analyze <url>...    Send URLs to the backend for analysis\n")
		fmt.Fprintf(os.Stderr, "  analyze -f <file>   Send the URLs listed in file (one per line)\n")
		fmt.Fprintf(os.Stderr, "  download            Download every pending item\n")
		fmt.Fprintf(os.Stderr, "  watch               Print backend progress until it goes idle\n\n")
		fmt.Fprintf(os.Stderr, "Without a command the terminal UI is started.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	var server = flag.String("s", "", "Backend URL (overrides the saved setting)")
	flag.StringVar(server, "server", "", "Backend URL (overrides the saved setting)")
	var showVersion = flag.Bool("version", false, "Show version information")
	var debug = flag.Bool("debug", false, "Enable debug logging")
	var harness = flag.Bool("harness", false, "Run a fake backend for manual testing")
	var harnessAddr = flag.String("harness-addr", defaultHarnessAddr, "Listen address of the fake backend")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersion())
		return
	}

	if *harness {
		if err := runBackendHarness(*harnessAddr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(flag.Args(), *server, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs
type app struct {
	db      *sql.DB
	queries *database.Queries
	cfg     config.Config
	client  *api.Client
}

func newApp(server string, debug bool) (*app, error) {
	db, queries, err := database.InitDB()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Setup logging after database is initialized
	setupLogging(queries, debug)

	cfg, err := config.LoadConfig(queries)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.GetDefaultConfig()
	}

	if server != "" {
		if err := config.ValidateURL(server); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("invalid server URL: %w", err)
		}
		cfg.ServerURL = server
	}

	return &app{
		db:      db,
		queries: queries,
		cfg:     cfg,
		client:  api.NewClient(cfg.ServerURL, cfg.Timeout()),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logger.Error("Error closing database", "error", err)
	}
}

func run(args []string, server string, debug bool) error {
	a, err := newApp(server, debug)
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		return a.runTUI()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "analyze":
		return a.analyze(ctx, args[1:])
	case "download":
		if err := a.client.DownloadVideoList(ctx); err != nil {
			return err
		}
		fmt.Println("Download started")
		return nil
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("unknown command '%s'", args[0])
	}
}

func (a *app) newSession() (*session.Controller, error) {
	return session.New(a.client, session.Options{
		Poll:     a.cfg.PollConfig(),
		ViewMode: render.ParseMode(a.cfg.ViewMode),
	})
}

func (a *app) analyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	file := fs.String("f", "", "Read URLs from file, one per line")
	if err := fs.Parse(args); err != nil {
		return err
	}

	urls := fs.Args()
	if *file != "" {
		fromFile, err := config.ReadURLList(*file)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return errors.New("'analyze' requires at least one URL or -f <file>")
	}

	for _, u := range urls {
		if err := config.ValidateURL(u); err != nil {
			return err
		}
	}

	text := strings.Join(urls, "\n")
	msg, err := a.client.AnalyzeURLText(ctx, text)
	if err != nil {
		return err
	}

	if err := a.queries.AddURLHistory(ctx, database.AddURLHistoryParams{
		UrlText:     text,
		SubmittedAt: time.Now(),
	}); err != nil {
		logger.Warn("Failed to record URL history", "error", err)
	}

	if msg.Message != "" {
		fmt.Println(msg.Message)
	}
	fmt.Printf("Sent %d URL(s) to %s\n", len(urls), a.client.BaseURL())
	return nil
}

func (a *app) watch(ctx context.Context) error {
	sess, err := a.newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Watch(ctx, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *app) runTUI() error {
	sess, err := a.newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	// Create and start task manager
	taskManager := tasks.NewManager(tasks.DefaultWorkers)
	ctx := context.Background()
	if err := taskManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start task manager: %w", err)
	}
	defer func() {
		if stopErr := taskManager.Stop(); stopErr != nil {
			logger.Debug("Task manager already stopped", "error", stopErr)
		}
	}()

	if err := taskManager.RegisterHandler(tasks.NewCommandHandler(a.client)); err != nil {
		return fmt.Errorf("failed to register command handler: %w", err)
	}
	importer := channels.NewImporter()
	if err := taskManager.RegisterHandler(tasks.NewChannelImportHandler(importer, a.client)); err != nil {
		return fmt.Errorf("failed to register channel import handler: %w", err)
	}

	model := ui.NewModel(sess, taskManager, a.queries, a.cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	return nil
}
