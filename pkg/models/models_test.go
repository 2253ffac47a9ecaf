package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade_Buckets(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{97, "A+"},
		{96.9, "A"},
		{93, "A"},
		{90, "A-"},
		{87, "B+"},
		{85, "B"},
		{83, "B"},
		{80, "B-"},
		{77, "C+"},
		{73, "C"},
		{70, "C-"},
		{67, "D+"},
		{63, "D"},
		{60, "D-"},
		{59.9, "F"},
		{0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.score), "Grade(%v)", tt.score)
	}
}

func TestImpactLevel_Penalty(t *testing.T) {
	assert.Equal(t, 40.0, ImpactCritical.Penalty())
	assert.Equal(t, 25.0, ImpactHigh.Penalty())
	assert.Equal(t, 15.0, ImpactMedium.Penalty())
	assert.Equal(t, 5.0, ImpactLow.Penalty())
	assert.Equal(t, 0.0, ImpactLevel("bogus").Penalty())
}

func TestPriority_Rank(t *testing.T) {
	// Critical must sort before high, high before medium, medium before low.
	assert.Less(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, Priority("bogus").Rank(), PriorityLow.Rank())
}

func TestReportStatus(t *testing.T) {
	assert.Equal(t, "unset", ReportStatusUnset.String())
	assert.Equal(t, "ok", ReportStatusOK.String())

	assert.True(t, ReportStatusOK.IsValid())
	assert.True(t, ReportStatusPartial.IsValid())
	assert.True(t, ReportStatusError.IsValid())
	assert.False(t, ReportStatusUnset.IsValid())
	assert.False(t, ReportStatus("weird").IsValid())
}

func TestHeadingOutline_Level(t *testing.T) {
	outline := HeadingOutline{
		H1: []string{"Main"},
		H3: []string{"Sub A", "Sub B"},
	}
	assert.Equal(t, []string{"Main"}, outline.Level(1))
	assert.Nil(t, outline.Level(2))
	assert.Len(t, outline.Level(3), 2)
	assert.Nil(t, outline.Level(7))
	assert.Nil(t, outline.Level(0))
}

func TestHiddenContent_Total(t *testing.T) {
	h := HiddenContent{DisplayNoneCount: 2, VisibilityHiddenCount: 1, HiddenAttributeCount: 3}
	assert.Equal(t, 6, h.Total())
	assert.Equal(t, 0, HiddenContent{}.Total())
}

func TestReport_Simulation(t *testing.T) {
	r := &Report{
		Simulations: []ProfileOutcome{
			{ProfileKey: "googlebot", Result: &CrawlerAccessibilityResult{Crawler: "googlebot"}},
			{ProfileKey: "basic-scraper", Error: "simulation failed"},
		},
	}

	got := r.Simulation("googlebot")
	assert.NotNil(t, got)
	assert.NotNil(t, got.Result)

	failed := r.Simulation("basic-scraper")
	assert.NotNil(t, failed)
	assert.Nil(t, failed.Result)
	assert.NotEmpty(t, failed.Error)

	assert.Nil(t, r.Simulation("missing"))
}
