package meta

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chunkys0up7/webvisibility/pkg/models"
)

func newTestExtractor() *Extractor {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewExtractor(log)
}

func TestExtract_HeadMetadata(t *testing.T) {
	doc := `<html><head>
		<title>  Page   Title  </title>
		<meta name="description" content="A page about things.">
		<meta name="keywords" content="go, html, parsing">
		<meta property="og:title" content="OG Title">
		<meta property="og:image" content="https://example.com/img.png">
		<meta name="twitter:card" content="summary">
		<link rel="canonical" href="https://example.com/page">
	</head><body></body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "Page Title", features.Title)
	assert.Equal(t, "A page about things.", features.Description)
	assert.Equal(t, "go, html, parsing", features.Keywords)
	assert.Equal(t, "https://example.com/page", features.CanonicalURL)
	assert.Equal(t, "OG Title", features.OpenGraph["title"])
	assert.Equal(t, "https://example.com/img.png", features.OpenGraph["image"])
	assert.Equal(t, "summary", features.TwitterCard["card"])
	assert.Len(t, features.MetaTags, 5)
}

func TestExtract_TitleFallbacks(t *testing.T) {
	e := newTestExtractor()

	// No title element: og:title wins.
	features, err := e.Extract(`<html><head>
		<meta property="og:title" content="From OG">
	</head></html>`)
	require.NoError(t, err)
	assert.Equal(t, "From OG", features.Title)

	// Neither title nor og: twitter:title.
	features, err = e.Extract(`<html><head>
		<meta name="twitter:title" content="From Twitter">
	</head></html>`)
	require.NoError(t, err)
	assert.Equal(t, "From Twitter", features.Title)
}

func TestExtract_CanonicalFallsBackToOGURL(t *testing.T) {
	e := newTestExtractor()
	features, err := e.Extract(`<html><head>
		<meta property="og:url" content="https://example.com/canonical-ish">
	</head></html>`)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/canonical-ish", features.CanonicalURL)
}

func TestExtract_JSONLD(t *testing.T) {
	doc := `<html><head>
		<script type="application/ld+json">
		{"@context": "https://schema.org", "@type": "Article", "headline": "Hello"}
		</script>
		<script type="application/ld+json">
		[{"@type": "Person", "name": "Alice"}, {"@type": "Person", "name": "Bob"}]
		</script>
	</head></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	assert.True(t, features.HasJSONLD)
	require.Len(t, features.StructuredData, 3)
	assert.Equal(t, models.StructuredDataJSONLD, features.StructuredData[0].Kind)
	assert.Equal(t, "Article", features.StructuredData[0].Payload["@type"])
	assert.Equal(t, "Alice", features.StructuredData[1].Payload["name"])
	assert.Equal(t, "Bob", features.StructuredData[2].Payload["name"])
	assert.Empty(t, features.SkippedBlocks)
}

func TestExtract_MalformedJSONLDIsSkippedNotFatal(t *testing.T) {
	doc := `<html><head>
		<script type="application/ld+json">{not valid json</script>
		<script type="application/ld+json">{"@type": "WebPage"}</script>
	</head></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	// The good block survives, the bad one is noted.
	require.Len(t, features.StructuredData, 1)
	assert.Equal(t, "WebPage", features.StructuredData[0].Payload["@type"])
	require.Len(t, features.SkippedBlocks, 1)
	assert.Contains(t, features.SkippedBlocks[0], "json-ld block 1")
	assert.True(t, features.HasJSONLD)
}

func TestExtract_Microdata(t *testing.T) {
	doc := `<html><body>
		<div itemscope itemtype="https://schema.org/Product">
			<span itemprop="name">Widget</span>
			<meta itemprop="sku" content="W-1">
			<a itemprop="url" href="/widget">details</a>
			<img itemprop="image" src="/widget.png">
			<time itemprop="released" datetime="2024-01-15">January</time>
		</div>
	</body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	assert.True(t, features.HasMicrodata)
	require.Len(t, features.StructuredData, 1)
	item := features.StructuredData[0]
	assert.Equal(t, models.StructuredDataMicrodata, item.Kind)
	assert.Equal(t, "https://schema.org/Product", item.Payload["type"])

	props, ok := item.Payload["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Widget", props["name"])
	assert.Equal(t, "W-1", props["sku"])
	assert.Equal(t, "/widget", props["url"])
	assert.Equal(t, "/widget.png", props["image"])
	assert.Equal(t, "2024-01-15", props["released"])
}

func TestExtract_MicrodataRepeatedProps(t *testing.T) {
	doc := `<html><body>
		<div itemscope itemtype="https://schema.org/Recipe">
			<span itemprop="ingredient">flour</span>
			<span itemprop="ingredient">water</span>
		</div>
	</body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	props := features.StructuredData[0].Payload["properties"].(map[string]any)
	list, ok := props["ingredient"].([]any)
	require.True(t, ok, "repeated itemprop should become a list")
	assert.Equal(t, []any{"flour", "water"}, list)
}

func TestExtract_MicrodataNestedItem(t *testing.T) {
	doc := `<html><body>
		<div itemscope itemtype="https://schema.org/Person">
			<span itemprop="name">Jane</span>
			<div itemprop="worksFor" itemscope itemtype="https://schema.org/Organization">
				<span itemprop="name">Acme</span>
			</div>
		</div>
	</body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	// Both scopes surface as entries, and the inner one is also attached
	// to its parent under its itemprop name.
	require.Len(t, features.StructuredData, 2)
	person := features.StructuredData[0]
	assert.Equal(t, "https://schema.org/Person", person.Payload["type"])

	props := person.Payload["properties"].(map[string]any)
	assert.Equal(t, "Jane", props["name"], "inner item's props must not leak into the parent")

	org, ok := props["worksFor"].(map[string]any)
	require.True(t, ok, "nested item should sit under its itemprop name")
	assert.Equal(t, "https://schema.org/Organization", org["type"])
	orgProps := org["properties"].(map[string]any)
	assert.Equal(t, "Acme", orgProps["name"])
}

func TestExtract_RDFa(t *testing.T) {
	doc := `<html><body>
		<div vocab="https://schema.org/" typeof="Person">
			<span property="name">Carol</span>
			<a property="url" href="https://carol.example">home</a>
			<meta property="jobTitle" content="Engineer">
		</div>
	</body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	assert.True(t, features.HasRDFa)
	require.Len(t, features.StructuredData, 1)
	item := features.StructuredData[0]
	assert.Equal(t, models.StructuredDataRDFa, item.Kind)
	assert.Equal(t, "Person", item.Payload["type"])
	assert.Equal(t, "https://schema.org/", item.Payload["vocab"])

	props := item.Payload["properties"].(map[string]any)
	assert.Equal(t, "Carol", props["name"])
	assert.Equal(t, "https://carol.example", props["url"])
	assert.Equal(t, "Engineer", props["jobTitle"])
}

func TestExtract_RDFaNestedItem(t *testing.T) {
	doc := `<html><body>
		<div vocab="https://schema.org/" typeof="Person">
			<span property="name">Carol</span>
			<div property="affiliation" typeof="Organization">
				<span property="name">Initech</span>
			</div>
		</div>
	</body></html>`

	e := newTestExtractor()
	features, err := e.Extract(doc)
	require.NoError(t, err)

	require.Len(t, features.StructuredData, 2)
	person := features.StructuredData[0]
	props := person.Payload["properties"].(map[string]any)
	assert.Equal(t, "Carol", props["name"])

	org, ok := props["affiliation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Organization", org["type"])
	assert.Equal(t, "Initech", org["properties"].(map[string]any)["name"])
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := newTestExtractor()
	features, err := e.Extract("")
	require.NoError(t, err)

	assert.Empty(t, features.Title)
	assert.Empty(t, features.StructuredData)
	assert.False(t, features.HasJSONLD)
	assert.False(t, features.HasMicrodata)
	assert.False(t, features.HasRDFa)
}
