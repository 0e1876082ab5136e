package analytics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcc-sewer-dashboard/models"
)

func TestRiskBucketBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  models.RiskCategory
	}{
		{0, models.RiskNone},
		{-1, models.RiskNone},
		{0.5, models.RiskLow},
		{2, models.RiskLow},
		{2.0001, models.RiskMedium},
		{4, models.RiskMedium},
		{4.5, models.RiskHigh},
		{6, models.RiskHigh},
		{6.01, models.RiskCritical},
		{8, models.RiskCritical},
		{8.1, models.RiskNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskBucket(tt.score), "score %v", tt.score)
	}
}

func TestRiskScore(t *testing.T) {
	assert.Equal(t, 1.0, RiskScore(models.ConditionGood, 0))
	assert.Equal(t, 4.0, RiskScore(models.ConditionPoor, 5))
	// connection term saturates at 3
	assert.Equal(t, 7.0, RiskScore(models.ConditionBroken, 40))
	assert.InDelta(t, 2.4, RiskScore(models.ConditionUnknown, 2), 1e-12)

	r := Assess(models.Manhole{Condition: models.ConditionBroken, Connections: 15})
	assert.Equal(t, Risk{Score: 7, Category: models.RiskCritical}, r)
}

func TestRiskMonotonic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("risk never decreases with more connections", prop.ForAll(
		func(sev, a, b int) bool {
			c := models.Conditions[sev]
			lo, hi := min(a, b), max(a, b)
			return RiskScore(c, lo) <= RiskScore(c, hi)
		},
		gen.IntRange(0, 3),
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.Property("risk never decreases with worse condition", prop.ForAll(
		func(a, b, conn int) bool {
			lo, hi := models.Conditions[min(a, b)], models.Conditions[max(a, b)]
			return RiskScore(lo, conn) <= RiskScore(hi, conn)
		},
		gen.IntRange(0, 3),
		gen.IntRange(0, 3),
		gen.IntRange(0, 100),
	))

	properties.Property("known grades always land in a bucket", prop.ForAll(
		func(sev, conn int) bool {
			return RiskBucket(RiskScore(models.Conditions[sev], conn)) != models.RiskNone
		},
		gen.IntRange(0, 3),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

func TestParsePair(t *testing.T) {
	s, e, ok := ParsePair("MH1-MH2")
	require.True(t, ok)
	assert.Equal(t, "MH1", s)
	assert.Equal(t, "MH2", e)

	for _, bad := range []string{"", "MH1", "-MH2", "MH1-", "A-B-C"} {
		_, _, ok := ParsePair(bad)
		assert.False(t, ok, bad)
	}
}

func TestDegreesTriangle(t *testing.T) {
	got := Degrees([]string{"A-B", "B-C", "A-C"})
	want := map[string]int{"A": 2, "B": 2, "C": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("degrees mismatch (-want +got):\n%s", diff)
	}
}

func TestDegreesMultigraph(t *testing.T) {
	got := Degrees([]string{"A-B", "A-B", "C-C", "broken", "D-"})
	assert.Equal(t, map[string]int{"A": 2, "B": 2, "C": 2}, got)
}

func TestConnectivityJoin(t *testing.T) {
	manholes := []models.Manhole{
		{ID: "A", Condition: models.ConditionBroken, Ward: "Ward 1"},
		{ID: "B", Condition: models.ConditionGood, Ward: "Ward 2"},
	}
	pairs := []string{"A-B", "A-C", "A-D", "A-E", "X-Y"}
	report := Connectivity(pairs, manholes)

	require.Len(t, report.Rows, 7)
	top := report.Rows[0]
	assert.Equal(t, "A", top.ManholeID)
	assert.Equal(t, 4, top.ConnectionCount)
	assert.True(t, top.Critical)
	assert.Equal(t, "Ward 1", top.Ward)

	var unmatched ManholeConnectivity
	for _, r := range report.Rows {
		if r.ManholeID == "X" {
			unmatched = r
		}
	}
	assert.Equal(t, ManholeConnectivity{ManholeID: "X", ConnectionCount: 1}, unmatched)

	assert.Equal(t, 4, report.Max)
	assert.Equal(t, 1, report.Min)
	assert.Equal(t, 1, report.HighlyConnected)
	assert.InDelta(t, 10.0/7.0, report.Average, 1e-12)
	require.Len(t, report.CriticalConnected, 1)
	assert.Len(t, report.TopConnected, 7)
}

func TestConnectivityEmpty(t *testing.T) {
	report := Connectivity(nil, nil)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.Average)
	assert.NotNil(t, report.CriticalConnected)
}

func TestCountByCanonicalOrder(t *testing.T) {
	items := []string{"Poor", "Good", "Weird", "Good"}
	got := CountBy(items, func(s string) string { return s }, Labels(models.Conditions))
	want := []Count{
		{"Good", 2, 50},
		{"Fair", 0, 0},
		{"Poor", 1, 25},
		{"Broken", 0, 0},
		{"Weird", 1, 25},
	}
	assert.Equal(t, want, got)
}

func TestModeTieBreak(t *testing.T) {
	assert.Equal(t, "Brick", Mode([]string{"PVC", "Brick", "PVC", "Brick", "Steel"}))
	assert.Equal(t, "", Mode(nil))
}

func TestPercentAndMean(t *testing.T) {
	assert.Zero(t, Percent(3, 0))
	assert.Equal(t, 25.0, Percent(1, 4))
	assert.Zero(t, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestHistogram(t *testing.T) {
	bins := Histogram([]float64{0, 1, 2, 3, 4, 10}, 5)
	require.Len(t, bins, 5)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[4].Upper)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, 1, bins[4].Count)

	flat := Histogram([]float64{7, 7}, 3)
	assert.Equal(t, 2, flat[1].Count)
	assert.Empty(t, Histogram(nil, 20))
}

func TestCrosstab(t *testing.T) {
	manholes := []models.Manhole{
		{Condition: models.ConditionGood, Material: models.MaterialPVC},
		{Condition: models.ConditionGood, Material: models.MaterialPVC},
		{Condition: models.ConditionPoor, Material: models.MaterialBrick},
	}
	ct := CrosstabBy(manholes,
		func(m models.Manhole) string { return string(m.Condition) },
		func(m models.Manhole) string { return string(m.Material) },
		Labels(models.Conditions), nil)
	assert.Equal(t, []string{"Good", "Poor"}, ct.Rows)
	assert.Equal(t, []string{"Brick", "PVC"}, ct.Columns)
	assert.Equal(t, 2, ct.Get("Good", "PVC"))
	assert.Equal(t, 1, ct.Get("Poor", "Brick"))
	assert.Zero(t, ct.Get("Fair", "PVC"))
}
