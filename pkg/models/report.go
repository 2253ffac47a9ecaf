package models

import "time"

// ReportStatus represents the overall outcome of an analysis run.
type ReportStatus string

const (
	ReportStatusUnset   ReportStatus = ""        // Zero value = unset/unknown
	ReportStatusOK      ReportStatus = "ok"      // Analysis completed
	ReportStatusPartial ReportStatus = "partial" // Completed with degraded sections
	ReportStatusError   ReportStatus = "error"   // Analysis failed outright
)

// String implements fmt.Stringer for logging
func (s ReportStatus) String() string {
	if s == "" {
		return "unset"
	}
	return string(s)
}

// IsValid returns true if the status is a known operational value
func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusOK, ReportStatusPartial, ReportStatusError:
		return true
	}
	return false
}

// ChunkStat describes one chunk of the LLM-visible markdown rendition.
type ChunkStat struct {
	Index      int    `json:"index"`
	TokenCount int    `json:"token_count"`
	Heading    string `json:"heading,omitempty"` // Nearest preceding heading
}

// LLMView is the markdown rendition of statically accessible content, the
// page as a non-rendering language model ingests it.
type LLMView struct {
	Markdown   string      `json:"markdown"`
	TokenCount int         `json:"token_count"`
	Chunks     []ChunkStat `json:"chunks,omitempty"`
}

// Report is the complete result of analyzing one URL or document.
type Report struct {
	ID              string             `json:"id"` // UUID per analysis run
	URL             string             `json:"url,omitempty"`
	AnalyzedAt      time.Time          `json:"analyzed_at"`
	Status          ReportStatus       `json:"status"`
	ErrorMessage    string             `json:"error_message,omitempty"`
	Features        DocumentFeatures   `json:"features"`
	Simulations     []ProfileOutcome   `json:"simulations,omitempty"`
	ScraperScore    CompositeScore     `json:"scraper_score"`
	LLMScore        CompositeScore     `json:"llm_score"`
	Recommendations []Recommendation   `json:"recommendations,omitempty"`
	LLMView         *LLMView           `json:"llm_view,omitempty"`
	Directives      *DirectiveSummary  `json:"directives,omitempty"`
	Comparison      *ContentComparison `json:"comparison,omitempty"`
	PageSizeBytes   int                `json:"page_size_bytes,omitempty"`
	DurationSeconds float64            `json:"duration_seconds"`
}

// Simulation returns the outcome for a profile key, nil when absent.
func (r *Report) Simulation(key string) *ProfileOutcome {
	for i := range r.Simulations {
		if r.Simulations[i].ProfileKey == key {
			return &r.Simulations[i]
		}
	}
	return nil
}
