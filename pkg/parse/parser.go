package parse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/token"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// nonContentSelector matches elements whose text never reaches a reader.
// They are stripped before text extraction but counted beforehand.
const nonContentSelector = "script, style, noscript, iframe, svg, path, template"

// semanticTags is the ordered set of semantic HTML5 elements we report.
var semanticTags = []string{
	"article", "aside", "details", "figcaption", "figure",
	"footer", "header", "main", "mark", "nav", "section", "summary", "time",
}

// structuralTags is the subset of semanticTags that counts toward the
// proper-structure check. Inline tags like time or mark say nothing
// about page layout.
var structuralTags = map[string]bool{
	"header": true, "main": true, "article": true, "section": true,
	"nav": true, "footer": true, "aside": true,
}

const (
	maxHiddenSamples     = 20
	hiddenSampleTextLen  = 100
	recommendedMaxDepth  = 32 // Lighthouse DOM depth guidance
)

// Parser extracts content, structure and hidden-content features from raw
// HTML without executing anything.
type Parser struct {
	log *logrus.Logger
}

// NewParser creates a Parser logging through the given logger.
func NewParser(log *logrus.Logger) *Parser {
	return &Parser{log: log}
}

// Parse tokenizes rawHTML once and derives the static feature set. The
// same input always produces the same output; nothing here touches the
// network or a JS runtime.
func (p *Parser) Parse(rawHTML string) (models.ContentFeatures, models.StructureFeatures, models.HiddenContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return models.ContentFeatures{}, models.StructureFeatures{}, models.HiddenContent{},
			fmt.Errorf("HTML document (%v): %w", err, utils.ErrParsing)
	}

	// Counts and structure come from the intact tree; text extraction
	// mutates it below.
	content := p.countElements(doc)
	structure := p.extractStructure(doc)
	hidden := p.extractHidden(doc)

	doc.Find(nonContentSelector).Remove()
	text := utils.CleanText(documentText(doc))

	content.Text = text
	content.CharacterCount = len(text)
	content.WordCount = utils.CountWords(text)
	content.EstimatedTokens = token.Estimate(text)

	p.log.WithFields(logrus.Fields{
		"words":    content.WordCount,
		"elements": structure.TotalElements,
		"hidden":   hidden.Total(),
	}).Debug("Parsed document")

	return content, structure, hidden, nil
}

func (p *Parser) countElements(doc *goquery.Document) models.ContentFeatures {
	stylesheets := doc.Find("style").Length()
	doc.Find("link").Each(func(_ int, s *goquery.Selection) {
		if rel, ok := s.Attr("rel"); ok && strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			stylesheets++
		}
	})

	return models.ContentFeatures{
		Paragraphs:  doc.Find("p").Length(),
		Links:       doc.Find("a").Length(),
		Images:      doc.Find("img").Length(),
		Tables:      doc.Find("table").Length(),
		Lists:       doc.Find("ul, ol").Length(),
		Stylesheets: stylesheets,
	}
}

func (p *Parser) extractStructure(doc *goquery.Document) models.StructureFeatures {
	var found []string
	for _, tag := range semanticTags {
		if doc.Find(tag).Length() > 0 {
			found = append(found, tag)
		}
	}

	outline := models.HeadingOutline{}
	for level := 1; level <= 6; level++ {
		var texts []string
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			if t := utils.CleanText(s.Text()); t != "" {
				texts = append(texts, t)
			}
		})
		switch level {
		case 1:
			outline.H1 = texts
		case 2:
			outline.H2 = texts
		case 3:
			outline.H3 = texts
		case 4:
			outline.H4 = texts
		case 5:
			outline.H5 = texts
		case 6:
			outline.H6 = texts
		}
	}

	depth := 0
	if body := doc.Find("body"); len(body.Nodes) > 0 {
		depth = maxElementDepth(body.Nodes[0])
	} else if len(doc.Nodes) > 0 {
		depth = maxElementDepth(doc.Nodes[0])
	}

	hasStructural := false
	for _, tag := range found {
		if structuralTags[tag] {
			hasStructural = true
			break
		}
	}

	return models.StructureFeatures{
		HasSemanticHTML:    len(found) > 0,
		SemanticElements:   found,
		Headings:           outline,
		TotalElements:      doc.Find("*").Length(),
		MaxDepth:           depth,
		HasProperStructure: hasStructural && len(outline.H1) == 1,
	}
}

func (p *Parser) extractHidden(doc *goquery.Document) models.HiddenContent {
	hidden := models.HiddenContent{}

	sample := func(s *goquery.Selection, reason string) {
		if len(hidden.Samples) >= maxHiddenSamples {
			return
		}
		hidden.Samples = append(hidden.Samples, models.HiddenElement{
			Tag:    goquery.NodeName(s),
			Text:   utils.TruncateText(utils.CleanText(s.Text()), hiddenSampleTextLen),
			Reason: reason,
		})
	}

	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		norm := utils.NormalizeAttr(style)
		if strings.Contains(norm, "display:none") {
			hidden.DisplayNoneCount++
			sample(s, "display_none")
		} else if strings.Contains(norm, "visibility:hidden") {
			hidden.VisibilityHiddenCount++
			sample(s, "visibility_hidden")
		}
	})

	doc.Find("[hidden]").Each(func(_ int, s *goquery.Selection) {
		hidden.HiddenAttributeCount++
		sample(s, "hidden_attribute")
	})

	return hidden
}

// documentText prefers the body text; documents without a body (fragments,
// severely malformed pages) fall back to the whole tree.
func documentText(doc *goquery.Document) string {
	if body := doc.Find("body"); len(body.Nodes) > 0 {
		return body.Text()
	}
	return doc.Text()
}

// maxElementDepth returns the deepest chain of element nodes below n.
func maxElementDepth(n *html.Node) int {
	deepest := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if d := maxElementDepth(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// ExceedsRecommendedDepth reports whether the DOM nesting goes past the
// depth commonly flagged by page-quality tooling.
func ExceedsRecommendedDepth(s models.StructureFeatures) bool {
	return s.MaxDepth > recommendedMaxDepth
}
