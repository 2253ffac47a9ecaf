// Package meta extracts head metadata and embedded structured data from
// HTML documents. Extraction degrades instead of failing: malformed
// structured-data blocks are recorded and skipped, never fatal.
package meta

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// Extractor pulls MetaFeatures out of raw HTML.
type Extractor struct {
	log *logrus.Logger
}

// NewExtractor creates an Extractor logging through the given logger.
func NewExtractor(log *logrus.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract parses rawHTML and collects title, description, social tags,
// canonical URL and all structured data blocks.
func (e *Extractor) Extract(rawHTML string) (models.MetaFeatures, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.MetaFeatures{}, fmt.Errorf("HTML document (%v): %w", err, utils.ErrParsing)
	}

	features := models.MetaFeatures{
		OpenGraph:   map[string]string{},
		TwitterCard: map[string]string{},
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, hasContent := s.Attr("content")
		if !hasContent || (name == "" && property == "") {
			return
		}
		features.MetaTags = append(features.MetaTags, models.MetaTag{
			Name:     name,
			Property: property,
			Content:  content,
		})

		switch {
		case strings.HasPrefix(property, "og:"):
			features.OpenGraph[strings.TrimPrefix(property, "og:")] = content
		case strings.HasPrefix(name, "twitter:"):
			features.TwitterCard[strings.TrimPrefix(name, "twitter:")] = content
		}

		switch strings.ToLower(name) {
		case "description":
			if features.Description == "" {
				features.Description = content
			}
		case "keywords":
			if features.Keywords == "" {
				features.Keywords = content
			}
		}
	})

	// Title resolution order: title element, og:title, twitter:title.
	features.Title = utils.CleanText(doc.Find("title").First().Text())
	if features.Title == "" {
		features.Title = features.OpenGraph["title"]
	}
	if features.Title == "" {
		features.Title = features.TwitterCard["title"]
	}

	if features.Description == "" {
		features.Description = features.OpenGraph["description"]
	}
	if features.Description == "" {
		features.Description = features.TwitterCard["description"]
	}

	// Canonical: rel=canonical link, falling back to og:url.
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "canonical") {
			return true
		}
		if href, ok := s.Attr("href"); ok && href != "" {
			features.CanonicalURL = href
			return false
		}
		return true
	})
	if features.CanonicalURL == "" {
		features.CanonicalURL = features.OpenGraph["url"]
	}

	e.extractStructuredData(doc, &features)

	if len(features.OpenGraph) == 0 {
		features.OpenGraph = nil
	}
	if len(features.TwitterCard) == 0 {
		features.TwitterCard = nil
	}

	e.log.WithFields(logrus.Fields{
		"meta_tags":       len(features.MetaTags),
		"structured_data": len(features.StructuredData),
		"skipped_blocks":  len(features.SkippedBlocks),
	}).Debug("Extracted metadata")

	return features, nil
}
