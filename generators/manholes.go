package generators

import (
	"fmt"
	"math/rand/v2"
	"time"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

// DefaultManholeCount is the size of the mock table used when no source
// file is available.
const DefaultManholeCount = 200

var (
	ManholeMaterials = []Weighted[models.Material]{
		{models.MaterialConcrete, 0.35},
		{models.MaterialPVC, 0.25},
		{models.MaterialBrick, 0.20},
		{models.MaterialSteel, 0.15},
		{models.MaterialCastIron, 0.05},
	}
	ManholeConditions = []Weighted[models.Condition]{
		{models.ConditionGood, 0.50},
		{models.ConditionFair, 0.30},
		{models.ConditionPoor, 0.15},
		{models.ConditionBroken, 0.05},
	}
	CoverTypes = []Weighted[models.CoverType]{
		{models.CoverCircular, 0.40},
		{models.CoverRectangular, 0.30},
		{models.CoverSquare, 0.20},
		{models.CoverOval, 0.10},
	}
)

// Zones used by synthetic tables, in display order.
var Zones = []string{"Zone A", "Zone B", "Zone C", "Zone D"}

const (
	syntheticRoads = 20
	syntheticWards = 10
)

// inspectionMonths are the month-end dates an inspection can fall on.
var inspectionMonths = func() []time.Time {
	var months []time.Time
	for m := time.Date(2022, time.February, 1, 0, 0, 0, 0, time.UTC); !m.After(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)); m = m.AddDate(0, 1, 0) {
		months = append(months, m.AddDate(0, 0, -1))
	}
	return months
}()

// SyntheticManholes samples n manholes from the fixed categorical
// distributions. Each manhole is placed inside its zone's cluster.
func SyntheticManholes(rng *rand.Rand, n int) []models.Manhole {
	if n < 0 {
		n = 0
	}
	manholes := make([]models.Manhole, n)
	for i := range manholes {
		inspected := inspectionMonths[rng.IntN(len(inspectionMonths))]
		manholes[i] = models.Manhole{
			ID:               fmt.Sprintf("MH%04d", i+1),
			Material:         Choose(rng, ManholeMaterials),
			Condition:        Choose(rng, ManholeConditions),
			CoverType:        Choose(rng, CoverTypes),
			Connections:      IntBetween(rng, 1, 15),
			Road:             fmt.Sprintf("Road %d", IntBetween(rng, 1, syntheticRoads+1)),
			Ward:             fmt.Sprintf("Ward %d", IntBetween(rng, 1, syntheticWards+1)),
			Zone:             Zones[rng.IntN(len(Zones))],
			InstallationYear: IntBetween(rng, 1990, 2023),
			LastInspection:   &inspected,
			FlowRate:         Round(Uniform(rng, 0.5, 10.0), 2),
		}
	}

	for i := range manholes {
		p := geo.ClusterPoint(rng, geo.ZoneCenters[manholes[i].Zone])
		manholes[i].Latitude = p.Latitude
		manholes[i].Longitude = p.Longitude
	}
	for i := range manholes {
		manholes[i].Elevation = Round(Uniform(rng, 5, 100), 1)
		manholes[i].Depth = Round(Uniform(rng, 1.5, 6.0), 1)
	}
	return manholes
}

// PlaceOnGrid assigns grid-jittered coordinates plus elevation and depth to
// manholes that arrived without positions, then drops any row whose
// coordinates are not finite.
func PlaceOnGrid(rng *rand.Rand, manholes []models.Manhole) []models.Manhole {
	points := geo.GridLayout(rng, len(manholes), geo.Origin)
	out := make([]models.Manhole, 0, len(manholes))
	for i, m := range manholes {
		m.Latitude = points[i].Latitude
		m.Longitude = points[i].Longitude
		out = append(out, m)
	}
	for i := range out {
		out[i].Elevation = Uniform(rng, 5, 50)
	}
	for i := range out {
		out[i].Depth = Uniform(rng, 1.5, 4.5)
	}
	return DropInvalidCoordinates(out)
}

// DropInvalidCoordinates removes manholes without a usable position.
func DropInvalidCoordinates(manholes []models.Manhole) []models.Manhole {
	out := manholes[:0:0]
	for _, m := range manholes {
		if geo.IsValid(m.Location()) {
			out = append(out, m)
		}
	}
	return out
}
