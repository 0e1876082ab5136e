package mapping

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

var conditionColors = map[models.Condition]string{
	models.ConditionGood:   "green",
	models.ConditionFair:   "blue",
	models.ConditionPoor:   "orange",
	models.ConditionBroken: "red",
}

var materialColors = map[models.Material]string{
	models.MaterialPVC:      "blue",
	models.MaterialConcrete: "gray",
	models.MaterialClay:     "brown",
	models.MaterialHDPE:     "green",
	models.MaterialCastIron: "orange",
}

// ConditionColor is the marker color of a manhole grade; gray when unknown.
func ConditionColor(c models.Condition) string {
	if color, ok := conditionColors[c]; ok {
		return color
	}
	return "gray"
}

// MaterialColor is the line color of a pipe material; blue when unknown.
func MaterialColor(m models.Material) string {
	if color, ok := materialColors[m]; ok {
		return color
	}
	return "blue"
}

// HeatWeight emphasises critical manholes on the heat layer.
func HeatWeight(c models.Condition) float64 {
	switch c {
	case models.ConditionPoor:
		return 2
	case models.ConditionBroken:
		return 3
	default:
		return 1
	}
}

func point(l models.Location) orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// ManholeFeatures builds a point feature per manhole colored by condition.
func ManholeFeatures(manholes []models.Manhole) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, m := range manholes {
		if !geo.IsValid(m.Location()) {
			return nil, fmt.Errorf("manhole %s has no valid position", m.ID)
		}
		f := geojson.NewFeature(point(m.Location()))
		f.ID = m.ID
		f.Properties["manhole_id"] = m.ID
		f.Properties["condition"] = string(m.Condition)
		f.Properties["material"] = string(m.Material)
		f.Properties["cover_type"] = string(m.CoverType)
		f.Properties["no_of_connections"] = m.Connections
		f.Properties["zone"] = m.Zone
		f.Properties["ward"] = m.Ward
		f.Properties["color"] = ConditionColor(m.Condition)
		fc.Append(f)
	}
	return fc, nil
}

// PipeFeatures builds a two-point line feature per pipe colored by material.
func PipeFeatures(pipes []models.Pipe) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, p := range pipes {
		if !geo.IsValid(p.Start) || !geo.IsValid(p.End) {
			return nil, fmt.Errorf("pipe %s has no valid endpoints", p.ID)
		}
		f := geojson.NewFeature(orb.LineString{point(p.Start), point(p.End)})
		f.ID = p.ID
		f.Properties["pipe_id"] = p.ID
		f.Properties["material"] = string(p.Material)
		f.Properties["diameter"] = string(p.Diameter)
		f.Properties["length"] = p.Length
		f.Properties["condition"] = string(p.Condition)
		f.Properties["color"] = MaterialColor(p.Material)
		fc.Append(f)
	}
	return fc, nil
}

// HeatPoint is a weighted sample of the heat layer.
type HeatPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}

// HeatPoints weights each manhole with weight.
func HeatPoints(manholes []models.Manhole, weight func(models.Manhole) float64) []HeatPoint {
	out := make([]HeatPoint, 0, len(manholes))
	for _, m := range manholes {
		if !geo.IsValid(m.Location()) {
			continue
		}
		out = append(out, HeatPoint{Latitude: m.Latitude, Longitude: m.Longitude, Weight: weight(m)})
	}
	return out
}

// Bounds returns the south-west and north-east corners of the manholes, or
// nil when there are none.
func Bounds(manholes []models.Manhole) [][2]float64 {
	if len(manholes) == 0 {
		return nil
	}
	mp := make(orb.MultiPoint, 0, len(manholes))
	for _, m := range manholes {
		mp = append(mp, point(m.Location()))
	}
	b := mp.Bound()
	return [][2]float64{
		{b.Min.Lat(), b.Min.Lon()},
		{b.Max.Lat(), b.Max.Lon()},
	}
}
