package score

import (
	"fmt"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// Every component accumulates raw points against a fixed ceiling and
// reports the percentage. Thresholds saturate: past a healthy amount of
// content, more of it stops raising the score.

func staticContentComponent(features models.DocumentFeatures) componentResult {
	r := componentResult{name: ComponentStaticContent}
	raw, max := 0.0, 20.0

	c := features.Content
	switch {
	case c.WordCount >= 500:
		raw += 10
		r.strengths = append(r.strengths, fmt.Sprintf("substantial static text (%d words)", c.WordCount))
	case c.WordCount >= 200:
		raw += 7
	case c.WordCount >= 50:
		raw += 4
		r.issues = append(r.issues, fmt.Sprintf("limited static text (%d words)", c.WordCount))
	default:
		r.issues = append(r.issues, fmt.Sprintf("almost no static text (%d words)", c.WordCount))
	}

	switch {
	case c.Paragraphs >= 5:
		raw += 5
	case c.Paragraphs >= 2:
		raw += 3
	case c.Paragraphs >= 1:
		raw += 1
	default:
		r.issues = append(r.issues, "no paragraph elements")
	}

	switch {
	case c.Links >= 10:
		raw += 5
		r.strengths = append(r.strengths, fmt.Sprintf("rich internal linking (%d links)", c.Links))
	case c.Links >= 5:
		raw += 3
	case c.Links >= 1:
		raw += 1
	default:
		r.issues = append(r.issues, "no links for crawler discovery")
	}

	r.percentage = raw / max * 100
	return r
}

func semanticHTMLComponent(features models.DocumentFeatures) componentResult {
	r := componentResult{name: ComponentSemanticHTML}
	raw, max := 0.0, 17.0

	s := features.Structure
	switch {
	case len(s.SemanticElements) >= 3:
		raw += 5
		r.strengths = append(r.strengths, fmt.Sprintf("%d distinct semantic elements", len(s.SemanticElements)))
	case len(s.SemanticElements) >= 1:
		raw += 3
	default:
		r.issues = append(r.issues, "no semantic HTML5 elements (page is div soup)")
	}

	switch h1s := len(s.Headings.H1); {
	case h1s == 1:
		raw += 3
	case h1s > 1:
		raw += 1
		r.issues = append(r.issues, fmt.Sprintf("%d h1 elements, want exactly one", h1s))
	default:
		r.issues = append(r.issues, "missing h1 heading")
	}

	switch h2s := len(s.Headings.H2); {
	case h2s >= 2:
		raw += 2
	case h2s >= 1:
		raw += 1
	}
	if len(s.Headings.H3) >= 1 {
		raw += 2
	}

	if s.HasProperStructure {
		raw += 3
	}

	if s.MaxDepth <= 32 {
		raw += 2
	} else {
		r.issues = append(r.issues, fmt.Sprintf("DOM nesting depth %d exceeds 32", s.MaxDepth))
	}

	r.percentage = raw / max * 100
	return r
}

func structuredDataComponent(features models.DocumentFeatures) componentResult {
	r := componentResult{name: ComponentStructuredData}
	raw, max := 0.0, 20.0

	m := features.Meta
	if m.HasJSONLD {
		raw += 12
		jsonldCount := 0
		for _, item := range m.StructuredData {
			if item.Kind == models.StructuredDataJSONLD {
				jsonldCount++
			}
		}
		if jsonldCount >= 2 {
			raw += 3
		}
		r.strengths = append(r.strengths, fmt.Sprintf("JSON-LD present (%d blocks)", jsonldCount))
	}
	if m.HasMicrodata {
		raw += 3
	}
	if m.HasRDFa {
		raw += 2
	}

	if raw == 0 {
		r.issues = append(r.issues, "no structured data in any format")
	}
	if len(m.SkippedBlocks) > 0 {
		r.issues = append(r.issues, fmt.Sprintf("%d malformed structured-data blocks skipped", len(m.SkippedBlocks)))
	}

	r.percentage = raw / max * 100
	if r.percentage > 100 {
		r.percentage = 100
	}
	return r
}

func metaTagsComponent(features models.DocumentFeatures) componentResult {
	r := componentResult{name: ComponentMetaTags}
	raw, max := 0.0, 15.0

	m := features.Meta
	switch titleLen := len(m.Title); {
	case titleLen >= 30 && titleLen <= 60:
		raw += 4
		r.strengths = append(r.strengths, "title length in the optimal range")
	case titleLen > 0:
		raw += 2
		r.issues = append(r.issues, fmt.Sprintf("title length %d outside the 30-60 range", titleLen))
	default:
		r.issues = append(r.issues, "missing title tag")
	}

	switch descLen := len(m.Description); {
	case descLen >= 120 && descLen <= 160:
		raw += 4
	case descLen > 0:
		raw += 2
		r.issues = append(r.issues, fmt.Sprintf("meta description length %d outside the 120-160 range", descLen))
	default:
		r.issues = append(r.issues, "missing meta description")
	}

	switch ogCount := len(m.OpenGraph); {
	case ogCount >= 4:
		raw += 4
		r.strengths = append(r.strengths, "complete Open Graph tag set")
	case ogCount >= 1:
		raw += 2
	default:
		r.issues = append(r.issues, "no Open Graph tags")
	}

	if len(m.TwitterCard) >= 1 {
		raw += 2
	}
	if m.CanonicalURL != "" {
		raw += 1
	} else {
		r.issues = append(r.issues, "no canonical URL")
	}

	r.percentage = raw / max * 100
	return r
}

func javascriptComponent(features models.DocumentFeatures) componentResult {
	r := componentResult{name: ComponentJavaScript}
	raw, max := 0.0, 25.0

	js := features.JavaScript
	switch {
	case !js.DynamicContentDetected:
		raw += 10
		r.strengths = append(r.strengths, "content does not depend on JavaScript execution")
	case features.Rendering.IsSSR:
		raw += 7
		r.strengths = append(r.strengths, "server-side rendering mitigates JavaScript dependency")
	default:
		r.issues = append(r.issues, "content requires JavaScript execution to appear")
	}

	switch {
	case js.TotalScripts == 0:
		raw += 8
	case js.TotalScripts <= 5:
		raw += 6
	case js.TotalScripts <= 15:
		raw += 3
	default:
		raw += 1
		r.issues = append(r.issues, fmt.Sprintf("heavy script usage (%d scripts)", js.TotalScripts))
	}

	if !js.IsSPA {
		raw += 4
	} else {
		r.issues = append(r.issues, "single-page-application shell detected")
	}
	if !js.HasAjax {
		raw += 3
	} else {
		r.issues = append(r.issues, "content loaded via AJAX after page load")
	}

	r.percentage = raw / max * 100
	return r
}

// crawlerAccessComponent maps a generic-crawler simulation straight to a
// percentage. Without a simulation it sits at a neutral midpoint.
func crawlerAccessComponent(result *models.CrawlerAccessibilityResult) componentResult {
	r := componentResult{name: ComponentCrawlerAccess}
	if result == nil {
		r.percentage = 50
		r.issues = append(r.issues, "no crawler simulation available")
		return r
	}
	r.percentage = result.AccessibilityScore
	for _, cat := range []models.ContentCategory{
		models.CategoryDynamic, models.CategoryJavaScript, models.CategoryAjax,
		models.CategoryImages, models.CategoryCSS,
	} {
		if entry, ok := result.Inaccessible[cat]; ok {
			r.issues = append(r.issues, fmt.Sprintf("%s inaccessible to a generic crawler (%s impact)", cat, entry.Impact))
		}
	}
	if len(result.Inaccessible) == 0 {
		r.strengths = append(r.strengths, "all content classes visible to a generic crawler")
	}
	return r
}
