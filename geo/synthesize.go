package geo

import (
	"math"
	"math/rand/v2"

	"mcc-sewer-dashboard/models"
)

// Origin is the Mangalore city reference point every synthetic layout is
// centred on.
var Origin = models.Location{Latitude: 12.9141, Longitude: 74.8560}

const (
	// GridStep is the angular spacing between neighbouring grid cells.
	GridStep = 0.0015
	// GridJitter bounds the uniform noise added to each grid coordinate.
	GridJitter = 0.0005
	// ClusterJitter bounds the noise around a zone centre.
	ClusterJitter = 0.002
)

// GridLayout places n points on a square grid of side ceil(sqrt(n)) centred
// on origin and jitters each coordinate independently by ±GridJitter. The
// output depends only on n, origin and the state of rng.
func GridLayout(rng *rand.Rand, n int, origin models.Location) []models.Location {
	if n <= 0 {
		return []models.Location{}
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	// Offsets run from -side/2 to side/2-1 steps, so the grid sits half a
	// step south-west of origin. Existing layouts depend on this placement.
	half := float64(side) / 2

	points := make([]models.Location, n)
	for i := range points {
		row := float64(i / side)
		col := float64(i % side)
		points[i] = models.Location{
			Latitude:  origin.Latitude + (row-half)*GridStep,
			Longitude: origin.Longitude + (col-half)*GridStep,
		}
	}
	for i := range points {
		points[i].Latitude += jitter(rng, GridJitter)
	}
	for i := range points {
		points[i].Longitude += jitter(rng, GridJitter)
	}
	return points
}

// ZoneCenters offsets each synthetic zone from Origin so zone filters
// select visually separate clusters.
var ZoneCenters = map[string]models.Location{
	"Zone A": {Latitude: Origin.Latitude + 0.005, Longitude: Origin.Longitude - 0.005},
	"Zone B": {Latitude: Origin.Latitude - 0.003, Longitude: Origin.Longitude + 0.004},
	"Zone C": {Latitude: Origin.Latitude + 0.004, Longitude: Origin.Longitude + 0.006},
	"Zone D": {Latitude: Origin.Latitude - 0.005, Longitude: Origin.Longitude - 0.003},
}

// ClusterPoint jitters center by ±ClusterJitter on both axes.
func ClusterPoint(rng *rand.Rand, center models.Location) models.Location {
	lat := center.Latitude + jitter(rng, ClusterJitter)
	lon := center.Longitude + jitter(rng, ClusterJitter)
	return models.Location{Latitude: lat, Longitude: lon}
}

// jitter draws uniformly from [-half, half).
func jitter(rng *rand.Rand, half float64) float64 {
	return -half + rng.Float64()*2*half
}
