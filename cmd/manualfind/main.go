// Command manualfind locates and verifies official PDF manuals for consumer
// appliances: keyword search, sitemap probing and a classifier-guided crawl
// of manufacturer support sites, with byte-level PDF verification.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
	"github.com/robeeeeeet/manual-agent-sub002/crawl"
	"github.com/robeeeeeet/manual-agent-sub002/gemini"
	"github.com/robeeeeeet/manual-agent-sub002/google"
	"github.com/robeeeeeet/manual-agent-sub002/goquery"
	"github.com/robeeeeeet/manual-agent-sub002/htmltomarkdown"
	mahttp "github.com/robeeeeeet/manual-agent-sub002/http"
	"github.com/robeeeeeet/manual-agent-sub002/rod"
	maslog "github.com/robeeeeeet/manual-agent-sub002/slog"
	"github.com/robeeeeeet/manual-agent-sub002/sqlite"
	"github.com/robeeeeeet/manual-agent-sub002/trafilatura"
)

// crawlRequestsPerSecond is the per-domain politeness limit for crawling and
// verification downloads.
const crawlRequestsPerSecond = 1.0

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

	// SQLite database used by the domain cache.
	DB *sqlite.DB

	// DomainService for end-to-end testing.
	DomainService manualagent.DomainService
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
		kong.Name("manualfind"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'manualfind --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set MANUALFIND_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DomainService = sqlite.NewDomainService(m.DB)
	deps.Domains = m.DomainService

	if cmd == "find" {
		discoverer, closeFn, err := m.buildEngine(ctx, cli.Find, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Discoverer = discoverer
	}

	return kongCtx.Run(deps)
}

// buildEngine wires the full discovery stack for the find command. The
// returned close function releases the page fetcher.
func (m *Main) buildEngine(ctx context.Context, cmd FindCmd, stderr io.Writer) (manualagent.Discoverer, func(), error) {
	googleKey := os.Getenv("GOOGLE_API_KEY")
	googleCSE := os.Getenv("GOOGLE_CSE_ID")
	if googleKey == "" || googleCSE == "" {
		return nil, nil, fmt.Errorf("GOOGLE_API_KEY and GOOGLE_CSE_ID must be set for search")
	}

	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
		return nil, nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var logf crawl.LogFunc
	if cmd.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
		logf = func(format string, args ...any) {
			fmt.Fprintf(stderr, format+"\n", args...)
		}
	}

	var fetcher manualagent.Fetcher
	closeFn := func() {}
	if cmd.Render {
		rodFetcher, err := rod.NewFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		fetcher = rodFetcher
		closeFn = func() { _ = rodFetcher.Close() }
	} else {
		fetcher = mahttp.NewFetcher()
	}

	limiter := crawl.NewDomainLimiter(crawlRequestsPerSecond)

	engine := &crawl.Engine{
		Search:   maslog.NewLoggingSearchService(google.NewSearchService(googleKey, googleCSE), logger),
		Resolver: mahttp.NewResolver(),
		Domains:  m.DomainService,
		Sitemaps: mahttp.NewSitemapService(nil),
		Explorer: &crawl.Explorer{
			Fetcher:     fetcher,
			Extractor:   trafilatura.NewExtractor(),
			Converter:   htmltomarkdown.NewConverter(),
			Links:       goquery.NewExtractor(),
			Classifier:  maslog.NewLoggingClassifier(gemini.NewClassifier(client), logger),
			RateLimiter: limiter,
			Logger:      logf,
		},
		Verifier: maslog.NewLoggingVerifier(&crawl.Verifier{
			Downloader:  mahttp.NewDownloader(),
			Checker:     gemini.NewChecker(client),
			RateLimiter: limiter,
			Logger:      logf,
		}, logger),
		Timeout: cmd.Timeout,
		Logger:  logf,
	}

	return engine, closeFn, nil
}

func defaultDBPath() string {
	if path := os.Getenv("MANUALFIND_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "manualfind.db"
	}
	dir := filepath.Join(home, ".manualfind")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "manualfind.db")
}
