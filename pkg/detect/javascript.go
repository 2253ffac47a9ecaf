package detect

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

const (
	maxIndicatorsPerFramework = 5
	// A SPA framework above this confidence marks the page as dynamic
	// even without other signals.
	dynamicConfidenceThreshold = 0.3
)

// Detector finds JavaScript frameworks and dynamic-content signals in raw
// HTML. It never executes scripts; everything is pattern evidence.
type Detector struct {
	log *logrus.Logger
}

// NewDetector creates a Detector logging through the given logger.
func NewDetector(log *logrus.Logger) *Detector {
	return &Detector{log: log}
}

// Detect scans rawHTML for script usage, framework signatures and
// dynamic-content indicators. A document that fails to parse yields zero
// features, not an error: no scripts found is a valid verdict.
func (d *Detector) Detect(rawHTML string) models.JavaScriptFeatures {
	features := models.JavaScriptFeatures{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		d.log.Warnf("JS detection: document did not parse: %v", err)
		return features
	}

	var scriptParts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		features.TotalScripts++
		if src, ok := s.Attr("src"); ok && src != "" {
			features.ExternalScripts++
			scriptParts = append(scriptParts, src)
			return
		}
		if body := strings.TrimSpace(s.Text()); body != "" {
			features.InlineScripts++
			scriptParts = append(scriptParts, body)
		}
	})
	scriptContent := strings.Join(scriptParts, " ")

	features.Frameworks = matchFrameworks(scriptContent, rawHTML)

	for _, ind := range spaIndicators {
		if ind.re.MatchString(rawHTML) {
			features.IsSPA = true
			break
		}
	}
	for _, ind := range ajaxIndicators {
		if ind.re.MatchString(scriptContent) {
			features.HasAjax = true
			break
		}
	}

	features.DynamicContentDetected = features.IsSPA || features.HasAjax
	if !features.DynamicContentDetected {
		for _, fw := range features.Frameworks {
			if fw.Confidence > dynamicConfidenceThreshold && isSPAFramework(fw.Name) {
				features.DynamicContentDetected = true
				break
			}
		}
	}

	d.log.WithFields(logrus.Fields{
		"scripts":    features.TotalScripts,
		"frameworks": len(features.Frameworks),
		"spa":        features.IsSPA,
		"ajax":       features.HasAjax,
	}).Debug("JS detection complete")

	return features
}

// matchFrameworks evaluates every signature against script content and raw
// HTML. Confidence is distinct matched patterns over total patterns,
// capped at 1.0. Results sort by confidence descending, table order
// breaking ties, so repeated runs agree.
func matchFrameworks(scriptContent, rawHTML string) []models.FrameworkMatch {
	var matches []models.FrameworkMatch
	for _, sig := range frameworkSignatures {
		matched := 0
		var indicators []string
		for i, re := range sig.compiled {
			inScript := re.MatchString(scriptContent)
			inHTML := re.MatchString(rawHTML)
			if !inScript && !inHTML {
				continue
			}
			matched++
			if len(indicators) < maxIndicatorsPerFramework {
				where := "html"
				if inScript {
					where = "script"
				}
				indicators = append(indicators, where+": "+sig.Patterns[i])
			}
		}
		if matched == 0 {
			continue
		}
		confidence := float64(matched) / float64(len(sig.Patterns))
		if confidence > 1.0 {
			confidence = 1.0
		}
		matches = append(matches, models.FrameworkMatch{
			Name:       sig.Name,
			Confidence: confidence,
			Indicators: indicators,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// isSPAFramework reports whether name renders client side (CSR role or a
// hydrating SSR framework shell).
func isSPAFramework(name string) bool {
	for _, sig := range frameworkSignatures {
		if sig.Name == name {
			return sig.Role == RoleCSR || sig.Role == RoleSSR
		}
	}
	return false
}
