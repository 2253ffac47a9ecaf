package analyze

import (
	"context"
	"fmt"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// similarityThreshold marks content as JavaScript dependent when the
// static rendition is this much less than identical to the rendered one.
const similarityThreshold = 0.95

// lowConfidenceGuard keeps cross-document comparisons from asserting a
// rendering difference on shaky classifications.
const lowConfidenceGuard = 0.5

// CompareContent measures how much of a rendered page's text already
// exists in the static HTML.
func (a *Analyzer) CompareContent(staticHTML, renderedHTML string) (*models.ContentComparison, error) {
	staticContent, _, _, err := a.parser.Parse(staticHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing static HTML: %w", err)
	}
	renderedContent, _, _, err := a.parser.Parse(renderedHTML)
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}

	similarity := utils.SimilarityRatio(staticContent.Text, renderedContent.Text)

	return &models.ContentComparison{
		StaticWordCount:     staticContent.WordCount,
		RenderedWordCount:   renderedContent.WordCount,
		Similarity:          similarity,
		JavaScriptDependent: similarity < similarityThreshold,
	}, nil
}

// URLComparison is the outcome of analyzing two URLs side by side.
type URLComparison struct {
	A          *models.Report `json:"a"`
	B          *models.Report `json:"b"`
	Similarity float64        `json:"similarity"`
	// RenderingDiffers is nil when either page's rendering classification
	// is low-confidence; a difference is only asserted on solid evidence.
	RenderingDiffers *bool `json:"rendering_differs,omitempty"`
}

// CompareURLs analyzes both URLs and compares their content and rendering.
// A failed analysis on either side fails the comparison.
func (a *Analyzer) CompareURLs(ctx context.Context, urlA, urlB string, opts Options) (*URLComparison, error) {
	reportA, err := a.Analyze(ctx, urlA, opts)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", urlA, err)
	}
	reportB, err := a.Analyze(ctx, urlB, opts)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", urlB, err)
	}

	comparison := &URLComparison{
		A:          reportA,
		B:          reportB,
		Similarity: utils.SimilarityRatio(reportA.Features.Content.Text, reportB.Features.Content.Text),
	}

	renderingA := reportA.Features.Rendering
	renderingB := reportB.Features.Rendering
	if renderingA.Confidence > lowConfidenceGuard && renderingB.Confidence > lowConfidenceGuard {
		differs := renderingA.Type != renderingB.Type
		comparison.RenderingDiffers = &differs
	}

	return comparison, nil
}
