package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Chunkys0up7/webvisibility/pkg/analyze"
	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/mcp"
	"github.com/Chunkys0up7/webvisibility/pkg/simulate"
	"github.com/Chunkys0up7/webvisibility/pkg/storage"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

const version = "1.0.0"

const storeGCInterval = 5 * time.Minute

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "analyze":
		runAnalyze(os.Args[2:])
	case "batch":
		runBatch(os.Args[2:])
	case "compare":
		runCompare(os.Args[2:])
	case "profiles":
		runProfiles(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "mcp-server":
		runMcpServer(os.Args[2:])
	case "version":
		fmt.Printf("webvis %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `webvis - Web page scraper and LLM accessibility analyzer

Usage:
  webvis <command> [options]

Commands:
  analyze     Analyze one URL or local HTML file
  batch       Analyze the configured targets (or a URL list) concurrently
  compare     Analyze two URLs and compare them
  profiles    List the built-in crawler profiles
  validate    Validate configuration file
  mcp-server  Start MCP server for AI tool integration
  version     Show version info

Run 'webvis <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file. An empty path yields the
// built-in defaults.
func loadConfig(path string) (*config.AppConfig, error) {
	cfg := &config.AppConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	return cfg, nil
}

// setupLogger creates a configured logrus.Logger with the given log level.
func setupLogger(logLevelStr string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
	}

	return log
}

// loadAndValidateConfig loads the config file, validates it, and logs warnings.
func loadAndValidateConfig(configFile string, log *logrus.Logger) *config.AppConfig {
	if configFile != "" {
		log.Infof("Loading configuration from %s", configFile)
	}
	appCfg, err := loadConfig(configFile)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	warnings, err := appCfg.Validate()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	return appCfg
}

// openStore opens the report cache when a state directory is configured.
// Returns nil (no caching) otherwise.
func openStore(appCfg *config.AppConfig, log *logrus.Logger) storage.ReportStore {
	if appCfg.StateDir == "" {
		return nil
	}
	store, err := storage.NewBadgerStore(appCfg.StateDir, appCfg.CacheTTL, log.WithField("component", "storage"))
	if err != nil {
		log.Warnf("Report cache unavailable, continuing without it: %v", err)
		return nil
	}
	return store
}

// writeReport marshals the value as JSON or YAML to the writer.
func writeReport(w io.Writer, value interface{}, format string) error {
	switch format {
	case "yaml":
		return yaml.NewEncoder(w).Encode(value)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	default:
		return fmt.Errorf("unknown output format: %s (supported: json, yaml)", format)
	}
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log *logrus.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warnf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	return ctx, cancel
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// runAnalyze handles the analyze subcommand.
func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (optional)")
	urlFlag := fs.String("url", "", "URL to analyze")
	htmlFile := fs.String("file", "", "Local HTML file to analyze instead of fetching")
	renderedFile := fs.String("rendered-file", "", "Rendered HTML file to compare against the static fetch")
	userAgent := fs.String("user-agent", "", "User agent for the fetch")
	profilesFlag := fs.String("profiles", "", "Comma-separated crawler profile keys (default: all)")
	llmView := fs.Bool("llm-view", true, "Build the markdown rendition")
	directivesFlag := fs.Bool("directives", true, "Fetch and evaluate robots.txt and llms.txt")
	noCache := fs.Bool("no-cache", false, "Bypass the report cache")
	output := fs.String("output", "json", "Output format: json or yaml")
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis analyze [options] [url]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  webvis analyze https://example.com/docs\n")
		fmt.Fprintf(os.Stderr, "  webvis analyze -file page.html -rendered-file page_rendered.html\n")
		fmt.Fprintf(os.Stderr, "  webvis analyze -profiles googlebot,llm-generic -output yaml https://example.com\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	target := *urlFlag
	if target == "" && fs.NArg() > 0 {
		target = fs.Arg(0)
	}
	if target == "" && *htmlFile == "" {
		fmt.Fprintln(os.Stderr, "Error: a URL or -file is required")
		fs.Usage()
		os.Exit(1)
	}

	log := setupLogger(*logLevel)
	appCfg := loadAndValidateConfig(*configFile, log)

	for _, key := range splitList(*profilesFlag) {
		if _, ok := simulate.ProfileByKey(key); !ok {
			log.Fatalf("Unknown crawler profile: %s (see 'webvis profiles')", key)
		}
	}

	opts := analyze.Options{
		UserAgent:        *userAgent,
		Profiles:         splitList(*profilesFlag),
		EnableLLMView:    *llmView,
		EnableDirectives: *directivesFlag,
		SkipCache:        *noCache,
	}

	if *renderedFile != "" {
		rendered, err := os.ReadFile(*renderedFile)
		if err != nil {
			log.Fatalf("Failed to read rendered HTML file: %v", err)
		}
		opts.RenderedHTML = string(rendered)
	}

	store := openStore(appCfg, log)
	if store != nil {
		defer store.Close()
	}
	analyzer := analyze.NewAnalyzer(appCfg, store, log)

	ctx, cancel := signalContext(log)
	defer cancel()

	var report interface{}
	var analysisErr error

	if *htmlFile != "" {
		rawHTML, err := os.ReadFile(*htmlFile)
		if err != nil {
			log.Fatalf("Failed to read HTML file: %v", err)
		}
		// Directive inspection needs a real URL; skip it for local files
		// unless one was provided.
		if target == "" {
			opts.EnableDirectives = false
		}
		report, analysisErr = analyzer.AnalyzeHTML(ctx, string(rawHTML), target, opts)
	} else {
		report, analysisErr = analyzer.Analyze(ctx, target, opts)
	}

	if err := writeReport(os.Stdout, report, *output); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	if analysisErr != nil {
		log.Errorf("Analysis failed: %v", analysisErr)
		os.Exit(1)
	}
}

// runBatch handles the batch subcommand. Targets come from the config
// file's targets map, or from -urls.
func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")
	urlsFlag := fs.String("urls", "", "Comma-separated URLs (overrides configured targets)")
	outputDir := fs.String("output-dir", "", "Write one JSON report per URL into this directory")
	output := fs.String("output", "json", "Output format for stdout summary: json or yaml")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis batch [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  webvis batch -config config.yaml -output-dir reports/\n")
		fmt.Fprintf(os.Stderr, "  webvis batch -urls https://a.example.com,https://b.example.com\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(*logLevel)

	cfgPath := *configFile
	if *urlsFlag != "" && cfgPath == "config.yaml" {
		if _, err := os.Stat(cfgPath); err != nil {
			cfgPath = ""
		}
	}
	appCfg := loadAndValidateConfig(cfgPath, log)

	urls := splitList(*urlsFlag)
	if len(urls) == 0 {
		keys := make([]string, 0, len(appCfg.Targets))
		for k := range appCfg.Targets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			urls = append(urls, appCfg.Targets[k].URL)
		}
	}
	if len(urls) == 0 {
		log.Fatal("No URLs to analyze: configure targets or pass -urls")
	}

	store := openStore(appCfg, log)
	if store != nil {
		defer store.Close()
	}
	analyzer := analyze.NewAnalyzer(appCfg, store, log)

	ctx, cancel := signalContext(log)
	defer cancel()

	opts := analyze.Options{
		EnableLLMView:    appCfg.EnableLLMView,
		EnableDirectives: appCfg.EnableDirectives,
	}
	results := analyzer.Batch(ctx, urls, opts)

	type batchSummary struct {
		URL    string  `json:"url" yaml:"url"`
		Status string  `json:"status" yaml:"status"`
		Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
		Grade  string  `json:"scraper_grade,omitempty" yaml:"scraper_grade,omitempty"`
		Total  float64 `json:"scraper_total,omitempty" yaml:"scraper_total,omitempty"`
	}

	summaries := make([]batchSummary, 0, len(results))
	hasFailure := false
	for _, r := range results {
		s := batchSummary{URL: r.URL}
		if r.Err != nil {
			s.Status = "error"
			s.Error = r.Err.Error()
			hasFailure = true
		} else {
			s.Status = string(r.Report.Status)
			s.Grade = r.Report.ScraperScore.Grade
			s.Total = r.Report.ScraperScore.Total
		}
		summaries = append(summaries, s)

		if *outputDir != "" && r.Report != nil {
			if err := writeReportFile(*outputDir, r.URL, r.Report); err != nil {
				log.Errorf("Failed to write report for '%s': %v", r.URL, err)
			}
		}
	}
	if err := writeReport(os.Stdout, summaries, *output); err != nil {
		log.Fatalf("Failed to write summary: %v", err)
	}
	if hasFailure {
		os.Exit(1)
	}
}

// writeReportFile writes one report as JSON under dir, named after the URL.
func writeReportFile(dir, url string, report interface{}) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	name := utils.SanitizeFilename(url) + ".json"
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return writeReport(f, report, "json")
}

// runCompare handles the compare subcommand.
func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (optional)")
	output := fs.String("output", "json", "Output format: json or yaml")
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis compare [options] <url_a> <url_b>\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: exactly two URLs are required")
		fs.Usage()
		os.Exit(1)
	}

	log := setupLogger(*logLevel)
	appCfg := loadAndValidateConfig(*configFile, log)

	store := openStore(appCfg, log)
	if store != nil {
		defer store.Close()
	}
	analyzer := analyze.NewAnalyzer(appCfg, store, log)

	ctx, cancel := signalContext(log)
	defer cancel()

	comparison, err := analyzer.CompareURLs(ctx, fs.Arg(0), fs.Arg(1), analyze.Options{})
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	if err := writeReport(os.Stdout, comparison, *output); err != nil {
		log.Fatalf("Failed to write comparison: %v", err)
	}
}

// runProfiles handles the profiles subcommand.
func runProfiles(args []string) {
	fs := flag.NewFlagSet("profiles", flag.ExitOnError)
	output := fs.String("output", "text", "Output format: text, json or yaml")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis profiles [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	profiles := simulate.Profiles()

	if *output != "text" {
		if err := writeReport(os.Stdout, profiles, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Crawler profiles:")
	fmt.Println()
	for _, p := range profiles {
		fmt.Printf("  %s  (%s)\n", p.Key, p.Name)
		fmt.Printf("    User agent: %s\n", p.UserAgent)
		fmt.Printf("    JS: %t  Images: %t  CSS: %t  Ajax: %t\n",
			p.ExecutesJS, p.ProcessesImages, p.AccessesCSS, p.HandlesAjax)
		if len(p.Limitations) > 0 {
			fmt.Printf("    Limitations: %s\n", strings.Join(p.Limitations, "; "))
		}
		fmt.Println()
	}
}

// runValidate handles the validate subcommand.
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", "config.yaml", "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doValidate(*configFile, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doValidate performs validation and writes output to the provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, stdout, stderr io.Writer) int {
	appCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	warnings, err := appCfg.Validate()
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
		return 1
	}
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}

	keys := make([]string, 0, len(appCfg.Targets))
	for k := range appCfg.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hasError := false
	for _, key := range keys {
		target := appCfg.Targets[key]
		targetWarnings, err := target.Validate()
		if err != nil {
			fmt.Fprintf(stderr, "ERROR: [%s] %v\n", key, err)
			hasError = true
			continue
		}
		for _, w := range targetWarnings {
			fmt.Fprintf(stdout, "WARN: [%s] %s\n", key, w)
		}
		fmt.Fprintf(stdout, "OK: [%s]\n", key)
	}
	if hasError {
		return 1
	}

	fmt.Fprintln(stdout, "\nConfiguration valid.")
	return 0
}

// runMcpServer handles the mcp-server subcommand.
func runMcpServer(args []string) {
	fs := flag.NewFlagSet("mcp-server", flag.ExitOnError)
	configFile := fs.String("config", "", "Path to config file (optional)")
	transport := fs.String("transport", "stdio", "Transport: stdio or sse")
	port := fs.Int("port", 8080, "Port for SSE transport")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webvis mcp-server [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  webvis mcp-server\n")
		fmt.Fprintf(os.Stderr, "  webvis mcp-server -transport sse -port 8080\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(*logLevel)

	// Stdio transport uses stdout for the protocol; keep logs on stderr
	// and out of the way.
	if *transport == "stdio" && log.GetLevel() > logrus.WarnLevel {
		log.SetLevel(logrus.WarnLevel)
	}

	appCfg := loadAndValidateConfig(*configFile, log)

	// Server.Shutdown owns closing the store.
	store := openStore(appCfg, log)

	ctx, cancel := signalContext(log)
	defer cancel()

	if store != nil {
		go store.RunGC(ctx, storeGCInterval)
	}

	srv, err := mcp.NewServer(&mcp.ServerConfig{
		AppConfig: appCfg,
		Store:     store,
		Transport: *transport,
		Port:      *port,
		Logger:    log,
	})
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Shutdown error: %v", err)
		}
		os.Exit(0)
	}()

	if err := srv.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
