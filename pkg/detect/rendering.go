package detect

import (
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// Classifier decides whether a page is server-rendered, client-rendered,
// hybrid, or unknown, from static fingerprints alone.
type Classifier struct {
	cfg      config.RenderingConfig
	extraSSR []*regexp.Regexp
	extraCSR []*regexp.Regexp
	log      *logrus.Logger
}

// NewClassifier builds a Classifier from validated rendering config.
// Extra indicator patterns that fail to compile were already dropped by
// config validation, so compile errors here are ignored.
func NewClassifier(cfg config.RenderingConfig, log *logrus.Logger) *Classifier {
	extraSSR, _ := utils.CompileRegexPatterns(cfg.ExtraSSRPatterns)
	extraCSR, _ := utils.CompileRegexPatterns(cfg.ExtraCSRPatterns)
	return &Classifier{cfg: cfg, extraSSR: extraSSR, extraCSR: extraCSR, log: log}
}

// Classify weighs SSR and CSR fingerprints plus detected frameworks into a
// rendering verdict. Framework identity dominates: a page carrying an SSR
// framework with any SSR evidence classifies ssr regardless of CSR noise.
// Indicator majorities come next; hybrid needs both an SSR and a CSR
// framework present with no indicator majority either way.
func (c *Classifier) Classify(rawHTML string, js models.JavaScriptFeatures) models.RenderingClassification {
	result := models.RenderingClassification{}

	ssrScore := 0
	for _, ind := range ssrIndicators {
		if ind.re.MatchString(rawHTML) {
			ssrScore++
			result.Evidence = append(result.Evidence, "SSR indicator: "+ind.desc)
		}
	}
	for _, re := range c.extraSSR {
		if re.MatchString(rawHTML) {
			ssrScore++
			result.Evidence = append(result.Evidence, "SSR indicator: custom pattern "+re.String())
		}
	}

	csrScore := 0
	for _, ind := range csrIndicators {
		if ind.re.MatchString(rawHTML) {
			csrScore++
			result.Evidence = append(result.Evidence, "CSR indicator: "+ind.desc)
		}
	}
	for _, re := range c.extraCSR {
		if re.MatchString(rawHTML) {
			csrScore++
			result.Evidence = append(result.Evidence, "CSR indicator: custom pattern "+re.String())
		}
	}

	ssrFrameworks, csrFrameworks := c.frameworksPresent(rawHTML, &result)
	frameworkCount := len(ssrFrameworks) + len(csrFrameworks)

	cfg := c.cfg
	switch {
	case len(ssrFrameworks) > 0 && ssrScore > 0:
		result.Type = models.RenderingSSR
		result.Confidence = utils.Clamp(
			cfg.FrameworkConfidenceBase+cfg.ConfidenceStep*float64(ssrScore)+cfg.ConfidenceStep*float64(frameworkCount),
			0, cfg.FrameworkConfidenceMax)
	case len(csrFrameworks) > 0 && csrScore > 0:
		result.Type = models.RenderingCSR
		result.Confidence = utils.Clamp(
			cfg.FrameworkConfidenceBase+cfg.ConfidenceStep*float64(csrScore)+cfg.ConfidenceStep*float64(frameworkCount),
			0, cfg.FrameworkConfidenceMax)
	case ssrScore > csrScore:
		result.Type = models.RenderingSSR
		result.Confidence = utils.Clamp(
			cfg.IndicatorConfidenceBase+cfg.ConfidenceStep*float64(ssrScore),
			0, cfg.IndicatorConfidenceMax)
	case csrScore > ssrScore:
		result.Type = models.RenderingCSR
		result.Confidence = utils.Clamp(
			cfg.IndicatorConfidenceBase+cfg.ConfidenceStep*float64(csrScore),
			0, cfg.IndicatorConfidenceMax)
	case len(ssrFrameworks) > 0 && len(csrFrameworks) > 0:
		result.Type = models.RenderingHybrid
		result.Confidence = cfg.HybridConfidence
	default:
		result.Type = models.RenderingUnknown
		result.Confidence = cfg.UnknownConfidence
	}

	result.IsSSR = result.Type == models.RenderingSSR
	result.LowConfidence = result.Confidence < cfg.LowConfidenceThreshold

	c.log.WithFields(logrus.Fields{
		"type":       result.Type,
		"confidence": result.Confidence,
		"ssr_score":  ssrScore,
		"csr_score":  csrScore,
	}).Debug("Rendering classified")

	return result
}

// frameworksPresent records which SSR- and CSR-role frameworks have at
// least one fingerprint in the raw HTML.
func (c *Classifier) frameworksPresent(rawHTML string, result *models.RenderingClassification) (ssr, csr []string) {
	for _, sig := range frameworkSignatures {
		if sig.Role == RoleLibrary {
			continue
		}
		for i, re := range sig.compiled {
			if !re.MatchString(rawHTML) {
				continue
			}
			result.FrameworkIndicators = append(result.FrameworkIndicators, sig.Name+": "+sig.Patterns[i])
			if sig.Role == RoleSSR {
				ssr = append(ssr, sig.Name)
			} else {
				csr = append(csr, sig.Name)
			}
			break
		}
	}
	return ssr, csr
}
