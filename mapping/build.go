package mapping

import (
	"fmt"

	"github.com/paulmach/orb/geojson"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

// View is the payload of one map visualisation. Only the layers of the
// requested kind are set. A layer that could not be built is left out and
// described in Notices.
type View struct {
	Kind     models.MapKind             `json:"type"`
	Zoom     int                        `json:"zoom"`
	Center   models.Location            `json:"center"`
	Bounds   [][2]float64               `json:"bounds,omitempty"`
	Manholes *geojson.FeatureCollection `json:"manholes,omitempty"`
	Pipes    *geojson.FeatureCollection `json:"pipes,omitempty"`
	Heat     []HeatPoint                `json:"heat,omitempty"`
	Scene    *Scene                     `json:"scene,omitempty"`
	Topology *Topology                  `json:"topology,omitempty"`
	Notices  []string                   `json:"notices,omitempty"`
}

// Build assembles the layers for kind. manholes and pipes are already
// filtered.
func Build(kind models.MapKind, zoom int, manholes []models.Manhole, pipes []models.Pipe) View {
	if kind == "" {
		kind = models.MapInteractive
	}
	if zoom == 0 {
		zoom = models.DefaultZoom
	}

	locations := make([]models.Location, 0, len(manholes))
	for _, m := range manholes {
		if geo.IsValid(m.Location()) {
			locations = append(locations, m.Location())
		}
	}
	v := View{
		Kind:   kind,
		Zoom:   zoom,
		Center: geo.Center(locations, geo.Origin),
		Bounds: Bounds(manholes),
	}
	notice := func(err error) {
		v.Notices = append(v.Notices, fmt.Sprintf("Error displaying map: %v", err))
	}

	switch kind {
	case models.MapInteractive:
		if fc, err := ManholeFeatures(manholes); err != nil {
			notice(err)
		} else {
			v.Manholes = fc
		}
		if fc, err := PipeFeatures(pipes); err != nil {
			notice(err)
		} else {
			v.Pipes = fc
		}
		v.Heat = HeatPoints(manholes, func(m models.Manhole) float64 { return HeatWeight(m.Condition) })
	case models.Map3D:
		if scene, err := BuildScene(manholes, pipes); err != nil {
			notice(err)
		} else {
			v.Scene = scene
		}
	case models.MapTopology:
		t := BuildTopology(manholes, pipes)
		v.Topology = &t
	case models.MapHeatmap:
		v.Heat = HeatPoints(manholes, func(m models.Manhole) float64 { return float64(m.Connections) })
	default:
		notice(fmt.Errorf("unknown map type %q", kind))
	}
	return v
}
