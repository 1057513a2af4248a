package metrics

import (
	"strings"
	"testing"
)

// All increments live in this one test so the package-global counters render
// exact values regardless of test order.
func TestRenderCountersAndHistogram(t *testing.T) {
	IncAnalysisStarted()
	IncAnalysisStarted()
	IncAnalysisCompleted()
	IncParseScoreFallback()

	ObserveAnalysisDurationMs(40)
	ObserveAnalysisDurationMs(900)
	ObserveAnalysisDurationMs(70000)
	ObserveAnalysisDurationMs(-5)

	out := Render()
	for _, want := range []string{
		"analysis_started_total 2",
		"analysis_completed_total 1",
		"analysis_failed_total 0",
		"parse_score_fallback_total 1",
		`analysis_duration_ms_bucket{le="100"} 2`,
		`analysis_duration_ms_bucket{le="1000"} 3`,
		`analysis_duration_ms_bucket{le="60000"} 3`,
		`analysis_duration_ms_bucket{le="+Inf"} 4`,
		"analysis_duration_ms_sum 70940",
		"analysis_duration_ms_count 4",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render output missing %q:\n%s", want, out)
		}
	}
}
