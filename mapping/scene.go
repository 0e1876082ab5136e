package mapping

import (
	"fmt"
	"math"

	"mcc-sewer-dashboard/geo"
	"mcc-sewer-dashboard/models"
)

// RGBA color for the 3D scene.
type RGBA [4]uint8

var conditionRGBA = map[models.Condition]RGBA{
	models.ConditionGood:   {0, 255, 0, 200},
	models.ConditionFair:   {0, 150, 255, 200},
	models.ConditionPoor:   {255, 165, 0, 200},
	models.ConditionBroken: {255, 0, 0, 200},
}

var materialRGBA = map[models.Material]RGBA{
	models.MaterialPVC:      {0, 100, 255, 180},
	models.MaterialConcrete: {128, 128, 128, 180},
	models.MaterialClay:     {139, 69, 19, 180},
	models.MaterialHDPE:     {50, 205, 50, 180},
}

// ScenePoint is a manhole placed below ground at its depth.
type ScenePoint struct {
	ID        string           `json:"manhole_id"`
	Condition models.Condition `json:"condition"`
	// Position is longitude, latitude, altitude in meters.
	Position [3]float64 `json:"position"`
	Color    RGBA       `json:"color"`
	Radius   float64    `json:"radius"`
}

// SceneLine is a pipe segment between two underground positions.
type SceneLine struct {
	ID     string     `json:"pipe_id"`
	Source [3]float64 `json:"source"`
	Target [3]float64 `json:"target"`
	Color  RGBA       `json:"color"`
	Width  float64    `json:"width"`
}

// Scene is the 3D layer pair.
type Scene struct {
	Manholes []ScenePoint `json:"manholes"`
	Pipes    []SceneLine  `json:"pipes"`
	Pitch    float64      `json:"pitch"`
}

const (
	sceneRadius = 8
	sceneWidth  = 4
	scenePitch  = 60
)

// BuildScene positions manholes and pipes with depth as negative altitude.
func BuildScene(manholes []models.Manhole, pipes []models.Pipe) (*Scene, error) {
	s := &Scene{
		Manholes: make([]ScenePoint, 0, len(manholes)),
		Pipes:    make([]SceneLine, 0, len(pipes)),
		Pitch:    scenePitch,
	}
	for _, m := range manholes {
		if !geo.IsValid(m.Location()) || math.IsNaN(m.Depth) {
			return nil, fmt.Errorf("manhole %s cannot be placed in 3D", m.ID)
		}
		color, ok := conditionRGBA[m.Condition]
		if !ok {
			color = RGBA{128, 128, 128, 200}
		}
		s.Manholes = append(s.Manholes, ScenePoint{
			ID:        m.ID,
			Condition: m.Condition,
			Position:  [3]float64{m.Longitude, m.Latitude, -m.Depth},
			Color:     color,
			Radius:    sceneRadius,
		})
	}
	for _, p := range pipes {
		if !geo.IsValid(p.Start) || !geo.IsValid(p.End) {
			return nil, fmt.Errorf("pipe %s cannot be placed in 3D", p.ID)
		}
		color, ok := materialRGBA[p.Material]
		if !ok {
			color = RGBA{100, 100, 100, 180}
		}
		s.Pipes = append(s.Pipes, SceneLine{
			ID:     p.ID,
			Source: [3]float64{p.Start.Longitude, p.Start.Latitude, -p.Depth},
			Target: [3]float64{p.End.Longitude, p.End.Latitude, -p.Depth},
			Color:  color,
			Width:  sceneWidth,
		})
	}
	return s, nil
}

// TopologyNode is a manhole drawn in plain longitude/latitude space.
type TopologyNode struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

// TopologyEdge joins two node positions.
type TopologyEdge struct {
	ID   string     `json:"id"`
	From [2]float64 `json:"from"`
	To   [2]float64 `json:"to"`
}

// Topology is the schematic network graph without a basemap.
type Topology struct {
	Nodes []TopologyNode `json:"nodes"`
	Edges []TopologyEdge `json:"edges"`
}

func BuildTopology(manholes []models.Manhole, pipes []models.Pipe) Topology {
	t := Topology{
		Nodes: make([]TopologyNode, 0, len(manholes)),
		Edges: make([]TopologyEdge, 0, len(pipes)),
	}
	for _, m := range manholes {
		t.Nodes = append(t.Nodes, TopologyNode{ID: m.ID, X: m.Longitude, Y: m.Latitude, Color: ConditionColor(m.Condition)})
	}
	for _, p := range pipes {
		t.Edges = append(t.Edges, TopologyEdge{
			ID:   p.ID,
			From: [2]float64{p.Start.Longitude, p.Start.Latitude},
			To:   [2]float64{p.End.Longitude, p.End.Latitude},
		})
	}
	return t
}
