package view

import (
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
	"github.com/Chunkys0up7/webvisibility/pkg/token"
)

// headingRegex matches markdown headings at the start of lines.
var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

// chunkMarkdown splits markdown by headers first, falling back to recursive
// character splitting for sections that still exceed the token budget. Each
// stat records the nearest heading so oversized sections are attributable.
func chunkMarkdown(markdown string, cfg Config) ([]models.ChunkStat, error) {
	if markdown == "" {
		return nil, nil
	}

	lenFunc := func(s string) int {
		return token.Estimate(s)
	}

	recursiveSplitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.MaxChunkTokens),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithLenFunc(lenFunc),
	)

	splitter := textsplitter.NewMarkdownTextSplitter(
		textsplitter.WithHeadingHierarchy(true),
		textsplitter.WithChunkSize(cfg.MaxChunkTokens),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithSecondSplitter(recursiveSplitter),
		textsplitter.WithLenFunc(lenFunc),
	)

	parts, err := splitter.SplitText(markdown)
	if err != nil {
		return nil, err
	}

	stats := make([]models.ChunkStat, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		stats = append(stats, models.ChunkStat{
			Index:      len(stats),
			TokenCount: token.Estimate(part),
			Heading:    nearestHeading(part),
		})
	}

	return stats, nil
}

// nearestHeading returns the last heading in the chunk, the one governing
// the trailing content, or "" for heading-free chunks.
func nearestHeading(content string) string {
	matches := headingRegex.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return ""
	}
	last := matches[len(matches)-1]
	if len(last) < 3 {
		return ""
	}
	return strings.TrimSpace(last[2])
}
