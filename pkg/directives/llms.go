package directives

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

// ParseLLMSOutline parses llms.txt content (markdown) into its sections.
// Every heading starts a section; links land in the section they appear
// under, preserving document order. Links before any heading go into an
// untitled leading section.
func ParseLLMSOutline(content string) []models.LLMSSection {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	source := []byte(content)
	reader := text.NewReader(source)
	doc := goldmark.DefaultParser().Parse(reader)

	var sections []models.LLMSSection
	current := -1

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			sections = append(sections, models.LLMSSection{Title: nodeText(node, source)})
			current = len(sections) - 1
			return ast.WalkSkipChildren, nil

		case *ast.Link:
			link := models.LLMSLink{
				Title: nodeText(node, source),
				URL:   string(node.Destination),
			}
			if current < 0 {
				sections = append(sections, models.LLMSSection{})
				current = 0
			}
			sections[current].Links = append(sections[current].Links, link)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return sections
}

// nodeText concatenates the text segments under a node.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if textNode, ok := child.(*ast.Text); ok {
			buf.Write(textNode.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
