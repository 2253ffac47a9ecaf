package score

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.AppConfig{}
	_, err := cfg.Validate()
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(cfg.Scoring, log)
}

// wellFormedArticle models a static article page: title, description, one
// JSON-LD block, semantic layout, no scripts.
func wellFormedArticle() models.DocumentFeatures {
	return models.DocumentFeatures{
		Content: models.ContentFeatures{
			WordCount:  600,
			Paragraphs: 8,
			Links:      12,
		},
		Structure: models.StructureFeatures{
			HasSemanticHTML:    true,
			SemanticElements:   []string{"article", "footer", "header"},
			Headings:           models.HeadingOutline{H1: []string{"Title"}, H2: []string{"A", "B"}, H3: []string{"C"}},
			TotalElements:      120,
			MaxDepth:           10,
			HasProperStructure: true,
		},
		Meta: models.MetaFeatures{
			Title:       strings.Repeat("t", 45),
			Description: strings.Repeat("d", 140),
			HasJSONLD:   true,
			StructuredData: []models.StructuredDataItem{
				{Kind: models.StructuredDataJSONLD, Payload: map[string]any{"@type": "Article"}},
			},
		},
		Rendering: models.RenderingClassification{Type: models.RenderingUnknown},
	}
}

func clientRenderedApp() models.DocumentFeatures {
	return models.DocumentFeatures{
		Content: models.ContentFeatures{WordCount: 20},
		Structure: models.StructureFeatures{
			TotalElements: 15,
			MaxDepth:      6,
		},
		JavaScript: models.JavaScriptFeatures{
			TotalScripts:           18,
			ExternalScripts:        12,
			InlineScripts:          6,
			IsSPA:                  true,
			HasAjax:                true,
			DynamicContentDetected: true,
		},
		Rendering: models.RenderingClassification{Type: models.RenderingCSR},
	}
}

func TestScore_WellFormedArticleScoresHigh(t *testing.T) {
	e := newTestEngine(t)
	scraper, llm, _ := e.Score(wellFormedArticle())

	assert.GreaterOrEqual(t, scraper.Total, 80.0, "components: %+v", scraper.Components)
	gradeRank := map[string]int{"A+": 0, "A": 1, "A-": 2, "B+": 3, "B": 4, "B-": 5}
	_, gradeOK := gradeRank[scraper.Grade]
	assert.True(t, gradeOK, "grade %q should be B- or better", scraper.Grade)

	assert.GreaterOrEqual(t, llm.Total, 80.0, "LLM axis should also score high for static content")
}

func TestScore_ClientRenderedAppScoresLow(t *testing.T) {
	e := newTestEngine(t)
	scraper, llm, recs := e.Score(clientRenderedApp())

	assert.Less(t, scraper.Total, 60.0)
	assert.Less(t, llm.Total, 60.0)

	// The JS dependency must surface as a critical recommendation.
	require.NotEmpty(t, recs)
	assert.Equal(t, models.PriorityCritical, recs[0].Priority)
}

func TestScore_TotalIsSumOfComponents(t *testing.T) {
	e := newTestEngine(t)
	for _, features := range []models.DocumentFeatures{wellFormedArticle(), clientRenderedApp(), {}} {
		scraper, llm, _ := e.Score(features)
		for _, composite := range []models.CompositeScore{scraper, llm} {
			sum := 0.0
			for _, c := range composite.Components {
				sum += c.Score
				assert.GreaterOrEqual(t, c.Percentage, 0.0)
				assert.LessOrEqual(t, c.Percentage, 100.0)
				assert.InDelta(t, c.Percentage/100*c.MaxScore, c.Score, 1e-9)
			}
			assert.InDelta(t, sum, composite.Total, 1e-9)
			assert.Equal(t, models.Grade(composite.Total), composite.Grade)
		}
	}
}

func TestScore_ComponentWeightsFollowConfig(t *testing.T) {
	e := newTestEngine(t)
	scraper, llm, _ := e.Score(wellFormedArticle())

	weightOf := func(cs models.CompositeScore, name string) float64 {
		for _, c := range cs.Components {
			if c.Name == name {
				return c.MaxScore
			}
		}
		t.Fatalf("component %s missing", name)
		return 0
	}

	assert.Equal(t, 20.0, weightOf(scraper, ComponentStaticContent))
	assert.Equal(t, 25.0, weightOf(scraper, ComponentJavaScript))
	assert.Equal(t, 30.0, weightOf(llm, ComponentStaticContent))
	assert.Equal(t, 5.0, weightOf(llm, ComponentJavaScript))

	// Both axes expose the same component order.
	require.Len(t, scraper.Components, 6)
	for i := range scraper.Components {
		assert.Equal(t, scraper.Components[i].Name, llm.Components[i].Name)
		assert.Equal(t, scraper.Components[i].Percentage, llm.Components[i].Percentage)
	}
}

func TestScore_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	s1, l1, r1 := e.Score(wellFormedArticle())
	s2, l2, r2 := e.Score(wellFormedArticle())

	assert.Equal(t, s1, s2)
	assert.Equal(t, l1, l2)
	assert.Equal(t, r1, r2)
}

func TestScoreWithCrawler_NilSimulationIsNeutral(t *testing.T) {
	e := newTestEngine(t)
	scraper, _, _ := e.ScoreWithCrawler(wellFormedArticle(), nil)

	for _, c := range scraper.Components {
		if c.Name == ComponentCrawlerAccess {
			assert.Equal(t, 50.0, c.Percentage)
			return
		}
	}
	t.Fatal("crawler_access component missing")
}

func TestScore_SSRMitigatesJSDependency(t *testing.T) {
	e := newTestEngine(t)

	csrApp := clientRenderedApp()
	ssrApp := clientRenderedApp()
	ssrApp.Rendering = models.RenderingClassification{Type: models.RenderingSSR, IsSSR: true}

	csrScraper, _, csrRecs := e.Score(csrApp)
	ssrScraper, _, ssrRecs := e.Score(ssrApp)

	assert.Greater(t, ssrScraper.Total, csrScraper.Total)

	hasCriticalJS := func(recs []models.Recommendation) bool {
		for _, r := range recs {
			if r.Category == ComponentJavaScript && r.Priority == models.PriorityCritical {
				return true
			}
		}
		return false
	}
	assert.True(t, hasCriticalJS(csrRecs), "CSR app should get the critical SSR recommendation")
	assert.False(t, hasCriticalJS(ssrRecs), "SSR app should not")
}

func TestRecommendations_SortedByPriority(t *testing.T) {
	e := newTestEngine(t)
	_, _, recs := e.Score(clientRenderedApp())

	require.NotEmpty(t, recs)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.Rank(), recs[i].Priority.Rank(),
			"recommendations out of priority order at %d", i)
	}
}

func TestRecommendations_MissingMetaSurface(t *testing.T) {
	e := newTestEngine(t)
	_, _, recs := e.Score(models.DocumentFeatures{})

	titles := make([]string, 0, len(recs))
	for _, r := range recs {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Add a title tag")
	assert.Contains(t, titles, "Add a meta description")
	assert.Contains(t, titles, "Add JSON-LD structured data")
}
