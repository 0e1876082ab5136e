package generators

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

func TestPipeCondition(t *testing.T) {
	g, f, p, b := models.ConditionGood, models.ConditionFair, models.ConditionPoor, models.ConditionBroken
	tests := []struct {
		start, end models.Condition
		want       models.Condition
	}{
		{g, g, g},
		{g, f, f},
		{f, g, f},
		{f, f, f},
		{g, p, p},
		{b, g, p},
		{f, b, p},
		{p, f, p},
		{b, b, p},
		{models.ConditionUnknown, g, g},
		{models.ConditionUnknown, f, f},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PipeCondition(tt.start, tt.end), "%s/%s", tt.start, tt.end)
	}
}

func TestChooseFollowsWeights(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 11))
	const draws = 100000
	counts := make(map[models.Condition]int)
	for i := 0; i < draws; i++ {
		counts[Choose(rng, ManholeConditions)]++
	}
	for _, c := range ManholeConditions {
		assert.InDelta(t, c.Weight, float64(counts[c.Value])/draws, 0.01, c.Value)
	}
}

func TestStreamsAreIndependentAndRepeatable(t *testing.T) {
	s := NewStreams(42)
	a1 := s.Stream(StageManholes).Uint64()
	a2 := s.Stream(StageManholes).Uint64()
	b := s.Stream(StagePipes).Uint64()
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
	assert.NotEqual(t, a1, NewStreams(43).Stream(StageManholes).Uint64())
}

func TestSyntheticManholes(t *testing.T) {
	manholes := SyntheticManholes(NewStreams(42).Stream(StageManholes), DefaultManholeCount)
	require.Len(t, manholes, DefaultManholeCount)

	ids := make(map[string]bool)
	conditionCounts := make(map[models.Condition]int)
	for _, m := range manholes {
		assert.False(t, ids[m.ID], "duplicate id %s", m.ID)
		ids[m.ID] = true

		assert.Contains(t, models.Conditions, m.Condition)
		conditionCounts[m.Condition]++

		assert.GreaterOrEqual(t, m.Connections, 1)
		assert.LessOrEqual(t, m.Connections, 14)

		center, ok := geo.ZoneCenters[m.Zone]
		require.True(t, ok, m.Zone)
		assert.LessOrEqual(t, math.Abs(m.Latitude-center.Latitude), geo.ClusterJitter)
		assert.LessOrEqual(t, math.Abs(m.Longitude-center.Longitude), geo.ClusterJitter)

		assert.GreaterOrEqual(t, m.Depth, 1.5)
		assert.LessOrEqual(t, m.Depth, 6.0)
		require.NotNil(t, m.LastInspection)
	}
	assert.Equal(t, "MH0001", manholes[0].ID)
	assert.Equal(t, "MH0200", manholes[199].ID)

	var share float64
	for _, n := range conditionCounts {
		share += float64(n) / float64(len(manholes))
	}
	assert.InDelta(t, 1.0, share, 1e-9)
}

func TestPlaceOnGridDropsNothingValid(t *testing.T) {
	in := []models.Manhole{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	out := PlaceOnGrid(NewStreams(1).Stream(StageCoordinates), in)
	require.Len(t, out, 3)
	for _, m := range out {
		assert.True(t, geo.IsValid(m.Location()))
		assert.GreaterOrEqual(t, m.Elevation, 5.0)
		assert.Less(t, m.Depth, 4.5)
	}
	// input untouched
	assert.Zero(t, in[0].Latitude)
}

func TestDropInvalidCoordinates(t *testing.T) {
	in := []models.Manhole{
		{ID: "ok", Latitude: 12.9, Longitude: 74.8},
		{ID: "nan", Latitude: math.NaN(), Longitude: 74.8},
	}
	out := DropInvalidCoordinates(in)
	require.Len(t, out, 1)
	assert.Equal(t, "ok", out[0].ID)
}

func TestBuildNetworkPrefersSameZone(t *testing.T) {
	streams := NewStreams(42)
	manholes := SyntheticManholes(streams.Stream(StageManholes), DefaultManholeCount)
	pipes := BuildNetwork(streams.Stream(StagePipes), manholes, SyntheticNetwork(DefaultPipeCount))
	require.Len(t, pipes, DefaultPipeCount)

	zoneOf := make(map[string]string)
	for _, m := range manholes {
		zoneOf[m.ID] = m.Zone
	}
	for _, p := range pipes {
		assert.NotEqual(t, p.StartManhole, p.EndManhole)
		assert.Equal(t, zoneOf[p.StartManhole], zoneOf[p.EndManhole], p.ID)
	}
	assert.Equal(t, "PIPE0000", pipes[0].ID)
	assert.Equal(t, "PIPE0149", pipes[149].ID)
}

func TestBuildNetworkFallsBackAcrossZones(t *testing.T) {
	manholes := []models.Manhole{
		{ID: "A", Zone: "Zone A", Condition: models.ConditionGood},
		{ID: "B", Zone: "Zone B", Condition: models.ConditionBroken, Latitude: 0.001},
	}
	pipes := BuildNetwork(rand.New(rand.NewPCG(3, 3)), manholes, SyntheticNetwork(20))
	require.Len(t, pipes, 20)
	for _, p := range pipes {
		assert.NotEqual(t, p.StartManhole, p.EndManhole)
		assert.Equal(t, models.ConditionPoor, p.Condition)
		assert.Equal(t, "Scheduled", p.MaintenanceStatus)
	}
}

func TestBuildNetworkTooFewManholes(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	assert.Empty(t, BuildNetwork(rng, nil, SyntheticNetwork(10)))
	assert.Empty(t, BuildNetwork(rng, []models.Manhole{{ID: "solo"}}, SyntheticNetwork(10)))
}

func TestSourceNetworkOptions(t *testing.T) {
	opts := SourceNetwork(250, SourcePipeLimit)
	assert.Equal(t, 100, opts.Count)
	assert.Equal(t, models.Layer1, opts.FixedLayer)
	assert.Equal(t, 7, SourceNetwork(7, SourcePipeLimit).Count)

	streams := NewStreams(5)
	manholes := SyntheticManholes(streams.Stream(StageManholes), 30)
	pipes := BuildNetwork(streams.Stream(StagePipes), manholes, SourceNetwork(12, SourcePipeLimit))
	require.Len(t, pipes, 12)
	assert.Equal(t, "P0000", pipes[0].ID)
	for _, p := range pipes {
		assert.Equal(t, models.Layer1, p.Layer)
	}
}

func TestNetworkProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("pipe lengths are non-negative geodesics of their endpoints", prop.ForAll(
		func(seed uint64, nManholes, nPipes int) bool {
			streams := NewStreams(seed)
			manholes := SyntheticManholes(streams.Stream(StageManholes), nManholes)
			pipes := BuildNetwork(streams.Stream(StagePipes), manholes, SyntheticNetwork(nPipes))
			for _, p := range pipes {
				if p.Length < 0 {
					return false
				}
				if math.Abs(geo.Distance(p.Start, p.End)-p.Length) > 1e-9 {
					return false
				}
				if p.StartManhole == p.EndManhole {
					return false
				}
			}
			return true
		},
		gen.UInt64(),
		gen.IntRange(2, 120),
		gen.IntRange(0, 80),
	))

	properties.Property("identical seeds give identical networks", prop.ForAll(
		func(seed uint64) bool {
			build := func() []models.Pipe {
				streams := NewStreams(seed)
				manholes := SyntheticManholes(streams.Stream(StageManholes), 40)
				return BuildNetwork(streams.Stream(StagePipes), manholes, SyntheticNetwork(25))
			}
			a, b := build(), build()
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return len(a) == len(b)
		},
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
