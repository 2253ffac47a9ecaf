// Package analyze wires the feature extractors, crawler simulation and
// scoring into complete per-URL reports.
package analyze

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/detect"
	"github.com/Chunkys0up7/webvisibility/pkg/directives"
	"github.com/Chunkys0up7/webvisibility/pkg/fetch"
	"github.com/Chunkys0up7/webvisibility/pkg/meta"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/parse"
	"github.com/Chunkys0up7/webvisibility/pkg/score"
	"github.com/Chunkys0up7/webvisibility/pkg/simulate"
	"github.com/Chunkys0up7/webvisibility/pkg/storage"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
	"github.com/Chunkys0up7/webvisibility/pkg/view"
)

// Options selects the optional sections of an analysis run.
type Options struct {
	UserAgent        string   // Empty uses the configured default
	Profiles         []string // Empty runs the whole registry
	EnableLLMView    bool
	EnableDirectives bool
	RenderedHTML     string // When set, compared against the static HTML
	SkipCache        bool
}

// Analyzer runs the full pipeline for one document or URL.
type Analyzer struct {
	cfg         *config.AppConfig
	fetcher     *fetch.Fetcher
	parser      *parse.Parser
	metaEx      *meta.Extractor
	detector    *detect.Detector
	classifier  *detect.Classifier
	sim         *simulate.Simulator
	engine      *score.Engine
	viewBuilder *view.Builder
	checker     *directives.Checker
	store       storage.ReportStore
	log         *logrus.Logger
}

// NewAnalyzer creates an Analyzer. A nil store disables report caching.
func NewAnalyzer(cfg *config.AppConfig, store storage.ReportStore, log *logrus.Logger) *Analyzer {
	fetcher := fetch.NewFetcher(cfg, log)
	return &Analyzer{
		cfg:         cfg,
		fetcher:     fetcher,
		parser:      parse.NewParser(log),
		metaEx:      meta.NewExtractor(log),
		detector:    detect.NewDetector(log),
		classifier:  detect.NewClassifier(cfg.Rendering, log),
		sim:         simulate.NewSimulator(log),
		engine:      score.NewEngine(cfg.Scoring, log),
		viewBuilder: view.NewBuilder(view.DefaultConfig(), log),
		checker:     directives.NewChecker(fetcher, cfg.DefaultUserAgent, log),
		store:       store,
		log:         log,
	}
}

// AnalyzeDocument extracts all features from raw HTML. This is the pure
// part of the pipeline; it performs no I/O.
func (a *Analyzer) AnalyzeDocument(rawHTML, sourceURL string) (models.DocumentFeatures, error) {
	content, structure, hidden, err := a.parser.Parse(rawHTML)
	if err != nil {
		return models.DocumentFeatures{}, err
	}

	metaFeatures, err := a.metaEx.Extract(rawHTML)
	if err != nil {
		return models.DocumentFeatures{}, err
	}

	js := a.detector.Detect(rawHTML)
	rendering := a.classifier.Classify(rawHTML, js)

	return models.DocumentFeatures{
		SourceURL:  sourceURL,
		Content:    content,
		Structure:  structure,
		Hidden:     hidden,
		Meta:       metaFeatures,
		JavaScript: js,
		Rendering:  rendering,
	}, nil
}

// Analyze fetches a URL and produces its full report. Fetch and parse
// failures yield a report with status "error" so batch callers can keep
// going; the error is returned alongside for single-run callers.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, opts Options) (*models.Report, error) {
	start := time.Now()

	if a.store != nil && !opts.SkipCache {
		if cached, found, err := a.store.Get(rawURL); err == nil && found {
			a.log.WithField("url", rawURL).Debug("Report served from cache")
			return cached, nil
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = a.cfg.DefaultUserAgent
	}

	result, err := a.fetcher.FetchHTML(ctx, rawURL, userAgent)
	if err != nil {
		a.log.WithFields(logrus.Fields{
			"url":            rawURL,
			"error_category": utils.CategorizeError(err),
		}).Errorf("Fetch failed: %v", err)
		return errorReport(rawURL, start, err), err
	}

	sourceURL := result.FinalURL
	if sourceURL == "" {
		sourceURL = rawURL
	}

	report, analysisErr := a.AnalyzeHTML(ctx, result.HTML, sourceURL, opts)
	if analysisErr != nil {
		report.DurationSeconds = time.Since(start).Seconds()
		return report, analysisErr
	}

	report.PageSizeBytes = result.SizeBytes
	report.DurationSeconds = time.Since(start).Seconds()

	if a.store != nil {
		if putErr := a.store.Put(report); putErr != nil {
			a.log.Warnf("Failed to cache report for '%s': %v", rawURL, putErr)
		}
	}
	return report, nil
}

// AnalyzeHTML analyzes HTML that is already in hand, for local files and
// tests. Directive inspection needs an absolute sourceURL and is skipped
// otherwise.
func (a *Analyzer) AnalyzeHTML(ctx context.Context, rawHTML, sourceURL string, opts Options) (*models.Report, error) {
	start := time.Now()
	var degraded []string

	features, err := a.AnalyzeDocument(rawHTML, sourceURL)
	if err != nil {
		return errorReport(sourceURL, start, err), err
	}

	var comparison *models.ContentComparison
	if opts.RenderedHTML != "" {
		comparison, err = a.CompareContent(rawHTML, opts.RenderedHTML)
		if err != nil {
			degraded = append(degraded, "content comparison failed: "+err.Error())
		} else if comparison.JavaScriptDependent {
			// The rendered page carries content the static HTML lacks.
			features.JavaScript.DynamicContentDetected = true
		}
	}

	var directiveSummary *models.DirectiveSummary
	if opts.EnableDirectives && sourceURL != "" {
		directiveSummary, err = a.checker.Inspect(ctx, sourceURL, simulate.Profiles())
		if err != nil {
			degraded = append(degraded, "directive inspection failed: "+err.Error())
			directiveSummary = nil
		}
	}

	simulations := a.sim.SimulateAll(ctx, features, directiveSummary, opts.Profiles)
	for _, outcome := range simulations {
		if outcome.Error != "" {
			degraded = append(degraded, "profile "+outcome.ProfileKey+": "+outcome.Error)
		}
	}

	scraperScore, llmScore, recs := a.engine.ScoreWithCrawler(features, genericCrawlerResult(simulations))
	recs = appendDirectiveRecommendations(recs, directiveSummary)

	var llmView *models.LLMView
	if opts.EnableLLMView {
		llmView, err = a.viewBuilder.Build(rawHTML)
		if err != nil {
			degraded = append(degraded, "LLM view failed: "+err.Error())
		}
	}

	report := &models.Report{
		ID:              uuid.NewString(),
		URL:             sourceURL,
		AnalyzedAt:      time.Now().UTC(),
		Status:          models.ReportStatusOK,
		Features:        features,
		Simulations:     simulations,
		ScraperScore:    scraperScore,
		LLMScore:        llmScore,
		Recommendations: recs,
		LLMView:         llmView,
		Directives:      directiveSummary,
		Comparison:      comparison,
		DurationSeconds: time.Since(start).Seconds(),
	}

	if len(degraded) > 0 {
		report.Status = models.ReportStatusPartial
		report.ErrorMessage = strings.Join(degraded, "; ")
	}

	a.log.WithFields(logrus.Fields{
		"url":     sourceURL,
		"status":  report.Status,
		"scraper": scraperScore.Total,
		"llm":     llmScore.Total,
	}).Debug("Analysis complete")

	return report, nil
}

// genericCrawlerResult picks the generic LLM profile's simulation for the
// crawler-access score component, keeping report sections consistent.
func genericCrawlerResult(simulations []models.ProfileOutcome) *models.CrawlerAccessibilityResult {
	for _, outcome := range simulations {
		if outcome.ProfileKey == simulate.ProfileLLMGeneric && outcome.Result != nil {
			return outcome.Result
		}
	}
	return nil
}

// appendDirectiveRecommendations folds crawl-policy findings into the
// recommendation list, preserving priority order.
func appendDirectiveRecommendations(recs []models.Recommendation, summary *models.DirectiveSummary) []models.Recommendation {
	if summary == nil {
		return recs
	}

	if summary.HasRobotsTxt && !summary.IsCrawlable {
		recs = append(recs, models.Recommendation{
			Title:       "Allow this page in robots.txt",
			Description: "robots.txt disallows this path for generic crawlers, so nothing else on the page matters to them.",
			Priority:    models.PriorityCritical,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactCritical,
			Category:    "crawler_access",
		})
	}
	if !summary.HasSitemap {
		recs = append(recs, models.Recommendation{
			Title:       "Publish a sitemap",
			Description: "No sitemap is advertised in robots.txt. A sitemap helps crawlers discover and prioritize pages.",
			Priority:    models.PriorityLow,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactLow,
			Category:    "crawler_access",
		})
	}
	if !summary.HasLLMSTxt {
		recs = append(recs, models.Recommendation{
			Title:       "Publish an llms.txt",
			Description: "An llms.txt file gives language-model crawlers a curated outline of the site's most useful content.",
			Priority:    models.PriorityLow,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactLow,
			Category:    "crawler_access",
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}

func errorReport(url string, start time.Time, err error) *models.Report {
	return &models.Report{
		ID:              uuid.NewString(),
		URL:             url,
		AnalyzedAt:      time.Now().UTC(),
		Status:          models.ReportStatusError,
		ErrorMessage:    err.Error(),
		DurationSeconds: time.Since(start).Seconds(),
	}
}
