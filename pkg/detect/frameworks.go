package detect

import "regexp"

// FrameworkRole classifies how a framework typically delivers content.
type FrameworkRole int

const (
	RoleLibrary FrameworkRole = iota // DOM/utility library, no rendering verdict
	RoleCSR                          // Client-side rendering by default
	RoleSSR                          // Server-side or static generation by default
)

// FrameworkSignature defines detection patterns for a JavaScript framework.
// Confidence is the fraction of patterns that match, so pattern lists
// should stay roughly comparable in size.
type FrameworkSignature struct {
	Name     string
	Role     FrameworkRole
	Patterns []string // Case-insensitive regexes applied to script content and raw HTML

	compiled []*regexp.Regexp
}

// frameworkSignatures contains detection patterns for known web frameworks
// Order matters: ties in confidence resolve by position
var frameworkSignatures = []FrameworkSignature{
	{
		Name: "React",
		Role: RoleCSR,
		Patterns: []string{
			`react\.js`,
			`react-dom`,
			`ReactDOM`,
			`__REACT_DEVTOOLS`,
			`data-reactroot`,
			`data-reactid`,
			`_reactRootContainer`,
		},
	},
	{
		Name: "Vue",
		Role: RoleCSR,
		Patterns: []string{
			`vue\.js`,
			`vue\.min\.js`,
			`__vue__`,
			`v-if=`,
			`v-for=`,
			`v-bind`,
			`data-v-`,
		},
	},
	{
		Name: "Angular",
		Role: RoleCSR,
		Patterns: []string{
			`angular\.js`,
			`ng-app`,
			`ng-controller`,
			`ng-model`,
			`ng-version`,
			`@angular`,
		},
	},
	{
		Name: "Next.js",
		Role: RoleSSR,
		Patterns: []string{
			`_next/static`,
			`__NEXT_DATA__`,
			`next/router`,
		},
	},
	{
		Name: "Nuxt.js",
		Role: RoleSSR,
		Patterns: []string{
			`_nuxt/`,
			`__NUXT__`,
			`nuxt\.js`,
		},
	},
	{
		Name: "Gatsby",
		Role: RoleSSR,
		Patterns: []string{
			`___gatsby`,
			`gatsby-`,
			`/page-data/`,
		},
	},
	{
		Name: "SvelteKit",
		Role: RoleSSR,
		Patterns: []string{
			`sveltekit`,
			`_app/immutable`,
			`data-sveltekit`,
		},
	},
	{
		Name: "Svelte",
		Role: RoleCSR,
		Patterns: []string{
			`svelte`,
			`__svelte`,
		},
	},
	{
		Name: "jQuery",
		Role: RoleLibrary,
		Patterns: []string{
			`jquery`,
			`\$\(document\)\.ready`,
			`\$\.ajax`,
		},
	},
	{
		Name: "Backbone",
		Role: RoleLibrary,
		Patterns: []string{
			`backbone\.js`,
			`Backbone\.Model`,
		},
	},
	{
		Name: "Ember",
		Role: RoleLibrary,
		Patterns: []string{
			`ember\.js`,
			`Ember\.Application`,
		},
	},
	{
		Name: "Alpine.js",
		Role: RoleLibrary,
		Patterns: []string{
			`alpine\.js`,
			`x-data=`,
			`x-show=`,
		},
	},
}

// indicator is a regex with a human-readable description for evidence lists.
type indicator struct {
	desc string
	re   *regexp.Regexp
}

func mustIndicator(desc, pattern string) indicator {
	return indicator{desc: desc, re: regexp.MustCompile(`(?i)` + pattern)}
}

// spaIndicators signal a single-page-application shell in the raw HTML.
var spaIndicators = []indicator{
	mustIndicator("app mount div", `<div[^>]+id=["']app["']`),
	mustIndicator("root mount div", `<div[^>]+id=["']root["']`),
	mustIndicator("next root div", `<div[^>]+id=["']__next["']`),
	mustIndicator("react root attribute", `data-reactroot`),
	mustIndicator("angular app attribute", `ng-app`),
	mustIndicator("vue app attribute", `v-app`),
}

// ajaxIndicators signal dynamic data loading in script content.
var ajaxIndicators = []indicator{
	mustIndicator("XMLHttpRequest usage", `XMLHttpRequest`),
	mustIndicator("fetch call", `fetch\(`),
	mustIndicator("axios client", `axios`),
	mustIndicator("jQuery ajax", `\.ajax\(`),
	mustIndicator("http get call", `\.get\(`),
	mustIndicator("http post call", `\.post\(`),
}

// ssrIndicators are server-rendering fingerprints in the raw HTML.
var ssrIndicators = []indicator{
	mustIndicator("generator meta tag", `<meta[^>]*name=["']?generator["']?[^>]*content=["']?(?:next\.js|nuxt\.js|gatsby|sveltekit)`),
	mustIndicator("framework meta tag", `<meta[^>]*name=["']?framework["']?[^>]*content=["']?(?:next|nuxt|gatsby|sveltekit)`),
	mustIndicator("Vue server-rendered marker", `data-server-rendered`),
	mustIndicator("Next.js data payload", `__NEXT_DATA__`),
	mustIndicator("Nuxt state payload", `window\.__NUXT__`),
	mustIndicator("serialized initial state", `window\.__INITIAL_STATE__`),
	mustIndicator("preloaded state", `window\.__PRELOADED_STATE__`),
	mustIndicator("React SSR root attribute", `data-reactroot`),
	mustIndicator("populated next root", `<div[^>]+id=["']__next["'][^>]*>\s*<`),
}

// csrIndicators are client-rendering fingerprints: empty mount points and
// scripts that build the page after load.
var csrIndicators = []indicator{
	mustIndicator("empty root mount point", `<div[^>]+id=["']root["'][^>]*>\s*</div>`),
	mustIndicator("empty app mount point", `<div[^>]+id=["']app["'][^>]*>\s*</div>`),
	mustIndicator("javascript required notice", `you need to enable javascript`),
	mustIndicator("client mount call", `document\.getElementById\(["'](?:root|app)["']\)`),
	mustIndicator("loading placeholder", `class=["'][^"']*(?:spinner|loading)[^"']*["']`),
}

func init() {
	for i := range frameworkSignatures {
		sig := &frameworkSignatures[i]
		sig.compiled = make([]*regexp.Regexp, len(sig.Patterns))
		for j, p := range sig.Patterns {
			sig.compiled[j] = regexp.MustCompile(`(?i)` + p)
		}
	}
}

// Signatures returns a copy of the framework signature table.
func Signatures() []FrameworkSignature {
	out := make([]FrameworkSignature, len(frameworkSignatures))
	copy(out, frameworkSignatures)
	return out
}
