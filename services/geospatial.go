package services

import (
	"mcc-sewer-dashboard/mapping"
	"mcc-sewer-dashboard/models"
)

// GeospatialView is the map visualisation plus the counts it was built from.
type GeospatialView struct {
	mapping.View
	Filter       models.MapRequest `json:"filter"`
	ManholeCount int               `json:"manhole_count"`
	PipeCount    int               `json:"pipe_count"`
}

// FilterMapData narrows manholes by condition, material and zone. Pipes
// follow the surviving manholes: one endpoint is enough.
func FilterMapData(manholes []models.Manhole, pipes []models.Pipe, req models.MapRequest) ([]models.Manhole, []models.Pipe) {
	conditions := newSelection(req.Conditions)
	materials := newSelection(req.Materials)
	zones := newSelection(req.Zones)
	if len(conditions) == 0 && len(materials) == 0 && len(zones) == 0 {
		return manholes, pipes
	}

	kept := make(map[string]bool)
	outManholes := make([]models.Manhole, 0, len(manholes))
	for _, m := range manholes {
		if conditions.accepts(string(m.Condition)) && materials.accepts(string(m.Material)) && zones.accepts(m.Zone) {
			kept[m.ID] = true
			outManholes = append(outManholes, m)
		}
	}
	outPipes := make([]models.Pipe, 0, len(pipes))
	for _, p := range pipes {
		if kept[p.StartManhole] || kept[p.EndManhole] {
			outPipes = append(outPipes, p)
		}
	}
	return outManholes, outPipes
}

func BuildGeospatial(s *Session, req models.MapRequest) GeospatialView {
	manholes, pipes := FilterMapData(s.Manholes(), s.Pipes(), req)
	return GeospatialView{
		View:         mapping.Build(req.Kind, req.Zoom, manholes, pipes),
		Filter:       req,
		ManholeCount: len(manholes),
		PipeCount:    len(pipes),
	}
}
