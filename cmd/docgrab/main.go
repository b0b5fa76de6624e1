package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/blob"
	"github.com/fwojciec/docgrab/fs"
	"github.com/fwojciec/docgrab/goquery"
	dochttp "github.com/fwojciec/docgrab/http"
	"github.com/fwojciec/docgrab/retrieve"
	"github.com/fwojciec/docgrab/rod"
	docslog "github.com/fwojciec/docgrab/slog"
	"github.com/fwojciec/docgrab/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PreferenceService docgrab.PreferenceService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docgrab"),
		kong.Description("Find document links on web pages and save them locally"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docgrab --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	// Open database
	if m.PreferenceService == nil {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCGRAB_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		m.PreferenceService = sqlite.NewPreferenceService(m.DB)
	}
	deps.PreferenceService = m.PreferenceService

	prefs, err := m.PreferenceService.FindPreferences(ctx)
	if err != nil {
		return fmt.Errorf("failed to read preferences: %w", err)
	}
	if cli.Ext != "" {
		prefs.Extension = docgrab.NormalizeExtension(cli.Ext)
	}
	deps.Preferences = prefs

	if cmd == "config" {
		return kongCtx.Run(deps)
	}

	logger := newLogger(stderr, cli.Verbose)
	client := dochttp.NewClient()
	httpFetcher := dochttp.NewFetcher(dochttp.WithClient(client), dochttp.WithTimeout(cli.Timeout))
	deps.Sizer = httpFetcher
	deps.Notifier = NewTerminalNotifier(stderr, prefs.ShowNotifications)

	var extractor docgrab.ReferenceExtractor = goquery.NewExtractor(
		goquery.WithExtension(prefs.Extension),
		goquery.WithLogger(logger),
	)
	if cli.Verbose {
		extractor = docslog.NewLoggingExtractor(extractor, logger)
	}
	deps.Extractor = extractor

	dir, err := filepath.Abs(cli.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}

	// Pages stays nil for fetch and --no-browser: no page is loaded, so
	// local files that cannot be read in-process fail with ENOCONTEXT.
	var pages docgrab.PageLocator
	var fetcher docgrab.Fetcher = httpFetcher
	if (cmd == "scan" || cmd == "get") && !cli.NoBrowser {
		session, err := rod.NewSession(rod.WithDownloadDir(dir))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --no-browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		rodFetcher := rod.NewFetcher(session, rod.WithFetchTimeout(cli.Timeout))
		defer rodFetcher.Close()
		fetcher = rodFetcher
		pages = session
	}
	if cli.Verbose {
		fetcher = docslog.NewLoggingFetcher(fetcher, logger)
	}
	deps.Fetcher = fetcher

	if cmd == "get" || cmd == "fetch" {
		store, err := blob.NewStore(ctx, blob.DefaultLifeWindow)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}
		defer store.Close()

		opener := dochttp.NewOpener(
			dochttp.WithOpenerClient(client),
			dochttp.WithRateLimit(cli.RateLimit),
		)
		var transfers docgrab.Transferer = fs.NewDownloader(dir,
			fs.WithOpener("http", opener),
			fs.WithOpener("https", opener),
			fs.WithOpener(blob.Scheme, store),
		)
		if cli.Verbose {
			transfers = docslog.NewLoggingTransferer(transfers, logger)
		}

		var retriever docgrab.Retriever = &retrieve.Retriever{
			Transfers: transfers,
			Blobs:     httpFetcher,
			Objects:   store,
			Pages:     pages,
			Logger:    logger,
		}
		if cli.Verbose {
			retriever = docslog.NewLoggingRetriever(retriever, logger)
		}
		deps.Batch = &retrieve.Batch{
			Retriever: retriever,
			Progress:  progressPrinter(stdout),
		}
	}

	return kongCtx.Run(deps)
}

// newLogger writes text logs to w. Verbose adds debug diagnostics such as
// skipped elements and strategy fallbacks.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// defaultDBPath returns DOCGRAB_DB or ~/.docgrab/docgrab.db. The directory
// is created when the database is opened, so failures surface there.
func defaultDBPath() string {
	if path := os.Getenv("DOCGRAB_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docgrab.db"
	}
	return filepath.Join(home, ".docgrab", "docgrab.db")
}
