package models

// ContentFeatures captures the text that a non-rendering client can see in
// the raw HTML, plus element counts used by the scoring engine.
type ContentFeatures struct {
	Text            string `json:"text"`                       // Cleaned visible text (scripts/styles excluded)
	CharacterCount  int    `json:"character_count"`
	WordCount       int    `json:"word_count"`
	EstimatedTokens int    `json:"estimated_tokens"`           // BPE token estimate of Text
	Paragraphs      int    `json:"paragraphs"`
	Links           int    `json:"links"`
	Images          int    `json:"images"`
	Tables          int    `json:"tables"`
	Lists           int    `json:"lists"`                      // ul + ol
	Stylesheets     int    `json:"stylesheets"`                // style tags + rel=stylesheet links
}

// HeadingOutline holds the text of every heading grouped by level.
type HeadingOutline struct {
	H1 []string `json:"h1,omitempty"`
	H2 []string `json:"h2,omitempty"`
	H3 []string `json:"h3,omitempty"`
	H4 []string `json:"h4,omitempty"`
	H5 []string `json:"h5,omitempty"`
	H6 []string `json:"h6,omitempty"`
}

// Level returns the heading texts for level 1..6, nil otherwise.
func (h HeadingOutline) Level(n int) []string {
	switch n {
	case 1:
		return h.H1
	case 2:
		return h.H2
	case 3:
		return h.H3
	case 4:
		return h.H4
	case 5:
		return h.H5
	case 6:
		return h.H6
	}
	return nil
}

// StructureFeatures describes the document skeleton: semantic HTML usage,
// heading hierarchy and DOM shape.
type StructureFeatures struct {
	HasSemanticHTML    bool           `json:"has_semantic_html"`
	SemanticElements   []string       `json:"semantic_elements,omitempty"` // Distinct semantic tags present, sorted
	Headings           HeadingOutline `json:"headings"`
	TotalElements      int            `json:"total_elements"`
	MaxDepth           int            `json:"max_depth"`           // Deepest element nesting under body
	HasProperStructure bool           `json:"has_proper_structure"` // Semantic tag present and exactly one h1
}

// HiddenElement samples one CSS- or attribute-hidden element for evidence.
type HiddenElement struct {
	Tag    string `json:"tag"`
	Text   string `json:"text,omitempty"` // Truncated text content
	Reason string `json:"reason"`         // display_none, visibility_hidden or hidden_attribute
}

// HiddenContent counts elements hidden via inline styles or the hidden
// attribute. These stay visible to text extraction on purpose: a scraper
// that does not apply CSS will read them.
type HiddenContent struct {
	DisplayNoneCount      int             `json:"display_none_count"`
	VisibilityHiddenCount int             `json:"visibility_hidden_count"`
	HiddenAttributeCount  int             `json:"hidden_attribute_count"`
	Samples               []HiddenElement `json:"samples,omitempty"`
}

// Total returns the combined number of hidden elements found.
func (h HiddenContent) Total() int {
	return h.DisplayNoneCount + h.VisibilityHiddenCount + h.HiddenAttributeCount
}

// MetaTag is a single meta element with whichever of name/property was set.
type MetaTag struct {
	Name     string `json:"name,omitempty"`
	Property string `json:"property,omitempty"`
	Content  string `json:"content"`
}

// StructuredDataKind identifies which embedding format an item came from.
type StructuredDataKind string

const (
	StructuredDataJSONLD    StructuredDataKind = "json-ld"
	StructuredDataMicrodata StructuredDataKind = "microdata"
	StructuredDataRDFa      StructuredDataKind = "rdfa"
)

// StructuredDataItem is one machine-readable data block extracted from the
// document, normalized to a generic payload regardless of source format.
type StructuredDataItem struct {
	Kind    StructuredDataKind `json:"kind"`
	Payload map[string]any     `json:"payload"`
}

// MetaFeatures collects everything a crawler learns from the head of the
// document and from embedded structured data.
type MetaFeatures struct {
	Title          string               `json:"title,omitempty"`
	Description    string               `json:"description,omitempty"`
	Keywords       string               `json:"keywords,omitempty"`
	CanonicalURL   string               `json:"canonical_url,omitempty"`
	MetaTags       []MetaTag            `json:"meta_tags,omitempty"`
	OpenGraph      map[string]string    `json:"open_graph,omitempty"`
	TwitterCard    map[string]string    `json:"twitter_card,omitempty"`
	StructuredData []StructuredDataItem `json:"structured_data,omitempty"`
	HasJSONLD      bool                 `json:"has_json_ld"`
	HasMicrodata   bool                 `json:"has_microdata"`
	HasRDFa        bool                 `json:"has_rdfa"`
	SkippedBlocks  []string             `json:"skipped_blocks,omitempty"` // Malformed blocks noted, not fatal
}

// FrameworkMatch is one detected JavaScript framework with the fraction of
// its signature patterns that matched.
type FrameworkMatch struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"` // matched/total patterns, capped at 1.0
	Indicators []string `json:"indicators,omitempty"`
}

// JavaScriptFeatures summarizes script usage and client-side behavior
// signals found in the raw HTML.
type JavaScriptFeatures struct {
	TotalScripts           int              `json:"total_scripts"`
	InlineScripts          int              `json:"inline_scripts"`
	ExternalScripts        int              `json:"external_scripts"`
	Frameworks             []FrameworkMatch `json:"frameworks,omitempty"` // Sorted by confidence desc
	IsSPA                  bool             `json:"is_spa"`
	HasAjax                bool             `json:"has_ajax"`
	DynamicContentDetected bool             `json:"dynamic_content_detected"`
}

// RenderingType classifies how a page produces its content.
type RenderingType string

const (
	RenderingSSR     RenderingType = "ssr"
	RenderingCSR     RenderingType = "csr"
	RenderingHybrid  RenderingType = "hybrid"
	RenderingUnknown RenderingType = "unknown"
)

// RenderingClassification is the verdict on server- vs client-side
// rendering, with the evidence that produced it.
type RenderingClassification struct {
	Type                RenderingType `json:"type"`
	IsSSR               bool          `json:"is_ssr"`
	Confidence          float64       `json:"confidence"` // [0, 1]
	LowConfidence       bool          `json:"low_confidence"`
	Evidence            []string      `json:"evidence,omitempty"`
	FrameworkIndicators []string      `json:"framework_indicators,omitempty"`
}

// DocumentFeatures is the full feature bundle extracted from one HTML
// document. Everything downstream (simulation, scoring, views) reads from
// this and never re-parses the source.
type DocumentFeatures struct {
	SourceURL  string                  `json:"source_url,omitempty"`
	Content    ContentFeatures         `json:"content"`
	Structure  StructureFeatures       `json:"structure"`
	Hidden     HiddenContent           `json:"hidden"`
	Meta       MetaFeatures            `json:"meta"`
	JavaScript JavaScriptFeatures      `json:"javascript"`
	Rendering  RenderingClassification `json:"rendering"`
}
