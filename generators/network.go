package generators

import (
	"fmt"
	"math/rand/v2"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

const (
	// DefaultPipeCount is the size of a fully synthetic network.
	DefaultPipeCount = 150
	// SourcePipeLimit caps a network regenerated from a pipe source table.
	SourcePipeLimit = 100
)

var (
	PipeMaterials = []Weighted[models.Material]{
		{models.MaterialPVC, 0.40},
		{models.MaterialConcrete, 0.30},
		{models.MaterialClay, 0.15},
		{models.MaterialHDPE, 0.10},
		{models.MaterialCastIron, 0.05},
	}
	PipeDiameters = []Weighted[models.Diameter]{
		{models.Diameter150, 0.10},
		{models.Diameter225, 0.20},
		{models.Diameter300, 0.40},
		{models.Diameter450, 0.20},
		{models.Diameter600, 0.10},
	}
	PipeLayers = []Weighted[models.Layer]{
		{models.Layer1, 0.60},
		{models.Layer2, 0.30},
		{models.Layer3, 0.10},
	}
)

// NetworkOptions controls how pipes are laid between manholes.
type NetworkOptions struct {
	Count int
	// IDFormat receives the zero-based pipe index.
	IDFormat string
	// FixedLayer, when set, replaces the weighted layer draw.
	FixedLayer models.Layer
}

// SyntheticNetwork is the option set for a network with no source table.
func SyntheticNetwork(count int) NetworkOptions {
	return NetworkOptions{Count: count, IDFormat: "PIPE%04d"}
}

// SourceNetwork is the option set for a network regenerated against a pipe
// source table of rows entries.
func SourceNetwork(rows, limit int) NetworkOptions {
	return NetworkOptions{Count: min(rows, limit), IDFormat: "P%04d", FixedLayer: models.Layer1}
}

// PipeCondition derives a pipe grade from its two endpoint manholes: any
// Poor or Broken end makes it Poor, otherwise any Fair end makes it Fair,
// otherwise it is Good.
func PipeCondition(start, end models.Condition) models.Condition {
	switch {
	case start.IsCritical() || end.IsCritical():
		return models.ConditionPoor
	case start == models.ConditionFair || end == models.ConditionFair:
		return models.ConditionFair
	default:
		return models.ConditionGood
	}
}

// BuildNetwork lays opts.Count pipes between manholes. The first endpoint is
// uniform over the table; the second prefers another manhole of the same
// zone and is never the first. Tables with fewer than two manholes produce
// no pipes.
func BuildNetwork(rng *rand.Rand, manholes []models.Manhole, opts NetworkOptions) []models.Pipe {
	if len(manholes) < 2 || opts.Count <= 0 {
		return []models.Pipe{}
	}
	if opts.IDFormat == "" {
		opts.IDFormat = "PIPE%04d"
	}

	byZone := make(map[string][]int)
	for i, m := range manholes {
		byZone[m.Zone] = append(byZone[m.Zone], i)
	}

	pipes := make([]models.Pipe, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		first := rng.IntN(len(manholes))
		second := pickPartner(rng, first, byZone[manholes[first].Zone], len(manholes))

		start, end := manholes[first], manholes[second]
		material := Choose(rng, PipeMaterials)
		diameter := Choose(rng, PipeDiameters)
		layer := opts.FixedLayer
		if layer == "" {
			layer = Choose(rng, PipeLayers)
		}
		condition := PipeCondition(start.Condition, end.Condition)
		status := "OK"
		if condition == models.ConditionPoor {
			status = "Scheduled"
		}

		pipes = append(pipes, models.Pipe{
			ID:                fmt.Sprintf(opts.IDFormat, i),
			Start:             start.Location(),
			End:               end.Location(),
			Length:            geo.Distance(start.Location(), end.Location()),
			Material:          material,
			Diameter:          diameter,
			Layer:             layer,
			Depth:             Uniform(rng, 2.0, 6.0),
			Slope:             Round(Uniform(rng, 0.5, 3.0), 2),
			FlowCapacity:      Uniform(rng, 10, 100),
			InstallationYear:  IntBetween(rng, 1990, 2023),
			Condition:         condition,
			MaintenanceStatus: status,
			StartManhole:      start.ID,
			EndManhole:        end.ID,
		})
	}
	return pipes
}

// pickPartner chooses the second endpoint for first. sameZone holds every
// index in first's zone, first included.
func pickPartner(rng *rand.Rand, first int, sameZone []int, total int) int {
	if len(sameZone) > 1 {
		// draw among the zone members other than first
		k := rng.IntN(len(sameZone) - 1)
		for _, idx := range sameZone {
			if idx == first {
				continue
			}
			if k == 0 {
				return idx
			}
			k--
		}
	}
	// draw among every other index by skipping over first
	k := rng.IntN(total - 1)
	if k >= first {
		k++
	}
	return k
}
