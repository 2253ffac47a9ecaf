package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestGetEffectiveUserAgent(t *testing.T) {
	tests := []struct {
		name      string
		targetCfg TargetConfig
		appCfg    AppConfig
		expected  string
	}{
		{
			name:      "target overrides global",
			targetCfg: TargetConfig{UserAgent: "CustomBot/2.0"},
			appCfg:    AppConfig{DefaultUserAgent: "Default/1.0"},
			expected:  "CustomBot/2.0",
		},
		{
			name:      "empty target falls back to global",
			targetCfg: TargetConfig{},
			appCfg:    AppConfig{DefaultUserAgent: "Default/1.0"},
			expected:  "Default/1.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetEffectiveUserAgent(tt.targetCfg, tt.appCfg)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEffectiveLLMView(t *testing.T) {
	tests := []struct {
		name      string
		targetCfg TargetConfig
		appCfg    AppConfig
		expected  bool
	}{
		{
			name:      "target enabled overrides global disabled",
			targetCfg: TargetConfig{EnableLLMView: boolPtr(true)},
			appCfg:    AppConfig{EnableLLMView: false},
			expected:  true,
		},
		{
			name:      "target disabled overrides global enabled",
			targetCfg: TargetConfig{EnableLLMView: boolPtr(false)},
			appCfg:    AppConfig{EnableLLMView: true},
			expected:  false,
		},
		{
			name:      "target nil uses global enabled",
			targetCfg: TargetConfig{EnableLLMView: nil},
			appCfg:    AppConfig{EnableLLMView: true},
			expected:  true,
		},
		{
			name:      "target nil uses global disabled",
			targetCfg: TargetConfig{EnableLLMView: nil},
			appCfg:    AppConfig{EnableLLMView: false},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetEffectiveLLMView(tt.targetCfg, tt.appCfg)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestGetEffectiveDirectives(t *testing.T) {
	assert.True(t, GetEffectiveDirectives(TargetConfig{EnableDirectives: boolPtr(true)}, AppConfig{}))
	assert.False(t, GetEffectiveDirectives(TargetConfig{EnableDirectives: boolPtr(false)}, AppConfig{EnableDirectives: true}))
	assert.True(t, GetEffectiveDirectives(TargetConfig{}, AppConfig{EnableDirectives: true}))
}

func TestWeightSet_Sum(t *testing.T) {
	assert.Equal(t, 100.0, DefaultScraperWeights().Sum())
	assert.Equal(t, 100.0, DefaultLLMWeights().Sum())
	assert.True(t, WeightSet{}.IsZero())
	assert.False(t, DefaultScraperWeights().IsZero())
}

func TestAppConfig_YAMLUnmarshal(t *testing.T) {
	raw := `
default_user_agent: "TestBot/1.0"
batch_workers: 8
state_dir: "/tmp/state"
scoring:
  scraper:
    static_content: 20
    semantic_html: 20
    structured_data: 20
    meta_tags: 10
    javascript: 25
    crawler_access: 5
targets:
  example:
    url: "https://example.com"
    profiles: ["googlebot", "llm-generic"]
`
	var cfg AppConfig
	err := yaml.Unmarshal([]byte(raw), &cfg)
	assert.NoError(t, err)
	assert.Equal(t, "TestBot/1.0", cfg.DefaultUserAgent)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, 100.0, cfg.Scoring.Scraper.Sum())

	target, ok := cfg.Targets["example"]
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", target.URL)
	assert.Equal(t, []string{"googlebot", "llm-generic"}, target.Profiles)
}
