package score

import (
	"fmt"
	"sort"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// buildRecommendations derives prioritized advice from the features and
// component results. Output order is priority rank, insertion order within
// the same rank.
func buildRecommendations(features models.DocumentFeatures, results []componentResult) []models.Recommendation {
	var recs []models.Recommendation

	js := features.JavaScript
	if js.DynamicContentDetected && !features.Rendering.IsSSR {
		recs = append(recs, models.Recommendation{
			Title:       "Serve content without requiring JavaScript",
			Description: "Core content is built client side and is invisible to non-rendering crawlers and language models. Adopt server-side rendering or static generation so the initial HTML carries the content.",
			Priority:    models.PriorityCritical,
			Difficulty:  models.DifficultyHard,
			Impact:      models.ImpactCritical,
			Category:    ComponentJavaScript,
			CodeExample: "// Next.js: render on the server per request\nexport async function getServerSideProps() {\n  const data = await fetchContent();\n  return { props: { data } };\n}",
			Resources: []string{
				"https://developers.google.com/search/docs/crawling-indexing/javascript/javascript-seo-basics",
			},
		})
	}

	m := features.Meta
	if m.Title == "" {
		recs = append(recs, models.Recommendation{
			Title:       "Add a title tag",
			Description: "The document has no title. Every crawler and ranking system uses it as the primary label for the page.",
			Priority:    models.PriorityCritical,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactCritical,
			Category:    ComponentMetaTags,
			CodeExample: "<title>Concise page summary, 30 to 60 characters</title>",
		})
	}
	if m.Description == "" {
		recs = append(recs, models.Recommendation{
			Title:       "Add a meta description",
			Description: "A meta description gives crawlers and social previews a ready-made summary instead of an arbitrary text snippet.",
			Priority:    models.PriorityHigh,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactHigh,
			Category:    ComponentMetaTags,
			CodeExample: `<meta name="description" content="One or two sentences, 120 to 160 characters.">`,
		})
	}

	if !m.HasJSONLD && !m.HasMicrodata && !m.HasRDFa {
		recs = append(recs, models.Recommendation{
			Title:       "Add JSON-LD structured data",
			Description: "Structured data is the most reliable page content for both search engines and language models because it needs no inference.",
			Priority:    models.PriorityHigh,
			Difficulty:  models.DifficultyMedium,
			Impact:      models.ImpactHigh,
			Category:    ComponentStructuredData,
			CodeExample: "<script type=\"application/ld+json\">\n{\n  \"@context\": \"https://schema.org\",\n  \"@type\": \"Article\",\n  \"headline\": \"...\"\n}\n</script>",
			Resources:   []string{"https://schema.org/docs/gs.html"},
		})
	}

	for _, r := range results {
		if r.name == ComponentSemanticHTML && r.percentage < 50 {
			recs = append(recs, models.Recommendation{
				Title:       "Use semantic HTML elements",
				Description: fmt.Sprintf("Semantic structure scores %.0f%%. Replacing generic divs with main, article, nav and friends lets crawlers identify the content without heuristics.", r.percentage),
				Priority:    models.PriorityHigh,
				Difficulty:  models.DifficultyMedium,
				Impact:      models.ImpactMedium,
				Category:    ComponentSemanticHTML,
				CodeExample: "<main>\n  <article>\n    <h1>Page subject</h1>\n    ...\n  </article>\n</main>",
			})
		}
		if r.name == ComponentStaticContent && r.percentage < 50 {
			recs = append(recs, models.Recommendation{
				Title:       "Increase static text content",
				Description: "Little text is readable without rendering. Non-rendering clients judge the page almost entirely by what the raw HTML contains.",
				Priority:    models.PriorityMedium,
				Difficulty:  models.DifficultyMedium,
				Impact:      models.ImpactMedium,
				Category:    ComponentStaticContent,
			})
		}
	}

	if len(m.OpenGraph) == 0 {
		recs = append(recs, models.Recommendation{
			Title:       "Add Open Graph tags",
			Description: "Social and chat crawlers build previews exclusively from Open Graph tags.",
			Priority:    models.PriorityMedium,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactMedium,
			Category:    ComponentMetaTags,
			CodeExample: `<meta property="og:title" content="...">` + "\n" + `<meta property="og:description" content="...">`,
		})
	}

	if features.Hidden.Total() > 10 {
		recs = append(recs, models.Recommendation{
			Title:       "Review hidden content volume",
			Description: fmt.Sprintf("%d elements are CSS- or attribute-hidden. Scrapers read them anyway, which can distort how the page is summarized.", features.Hidden.Total()),
			Priority:    models.PriorityLow,
			Difficulty:  models.DifficultyEasy,
			Impact:      models.ImpactLow,
			Category:    ComponentStaticContent,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})
	return recs
}
