// Package view builds the markdown rendition of a page's statically
// accessible content, the page as a non-rendering language model ingests
// it, plus token-bounded chunk statistics.
package view

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/token"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// strippedSelector removes everything a non-rendering consumer never sees.
const strippedSelector = "script, style, noscript, iframe, svg, path, template, link, meta"

// Builder converts static HTML content to markdown and chunks it.
type Builder struct {
	cfg Config
	log *logrus.Logger
}

// Config holds chunking parameters for the rendition.
type Config struct {
	MaxChunkTokens int // Chunks larger than this are split recursively
	ChunkOverlap   int // Token overlap between adjacent chunks
}

// DefaultConfig returns chunk sizes matching common embedding windows.
func DefaultConfig() Config {
	return Config{
		MaxChunkTokens: 512,
		ChunkOverlap:   50,
	}
}

// NewBuilder creates a Builder. A zero MaxChunkTokens falls back to defaults.
func NewBuilder(cfg Config, log *logrus.Logger) *Builder {
	if cfg.MaxChunkTokens <= 0 {
		cfg = DefaultConfig()
	}
	return &Builder{cfg: cfg, log: log}
}

// Build parses rawHTML, strips script, style and other non-text elements,
// and converts the remainder to markdown. CSS-hidden text stays in: a
// consumer that never renders the page still reads it from the markup. The
// input is parsed fresh so callers' documents are never mutated.
func (b *Builder) Build(rawHTML string) (*models.LLMView, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("HTML document (%v): %w", err, utils.ErrParsing)
	}

	content := doc.Find("body").First()
	if content.Length() == 0 {
		content = doc.Selection
	}

	content.Find(strippedSelector).Remove()

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, fmt.Errorf("extracting static content HTML: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(contentHTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrMarkdownConversion, err)
	}
	markdown = strings.TrimSpace(markdown)

	// Prepend the document title as an h1 when the body content has none.
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" && !strings.HasPrefix(markdown, "#") {
		if markdown == "" {
			markdown = "# " + title
		} else {
			markdown = "# " + title + "\n\n" + markdown
		}
	}

	result := &models.LLMView{
		Markdown:   markdown,
		TokenCount: token.Estimate(markdown),
	}

	chunks, err := chunkMarkdown(markdown, b.cfg)
	if err != nil {
		// Chunk statistics are supplementary. The rendition itself stands.
		b.log.WithField("error", err).Warn("Chunking markdown rendition failed")
	} else {
		result.Chunks = chunks
	}

	b.log.WithFields(logrus.Fields{
		"markdown_bytes": len(markdown),
		"token_count":    result.TokenCount,
		"chunks":         len(result.Chunks),
	}).Debug("Built LLM content view")

	return result, nil
}
