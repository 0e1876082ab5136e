package models

// GlobalFilter is applied before any view-level filter. Empty fields
// select everything.
type GlobalFilter struct {
	Zone string `form:"zone" json:"zone,omitempty" validate:"omitempty,max=64"`
	Ward string `form:"ward" json:"ward,omitempty" validate:"omitempty,max=64"`
}

// ConditionFilter narrows the condition & risk view. Empty lists select
// everything.
type ConditionFilter struct {
	Conditions     []string `form:"conditions" json:"conditions,omitempty"`
	Materials      []string `form:"materials" json:"materials,omitempty"`
	Wards          []string `form:"wards" json:"wards,omitempty"`
	MinConnections *int     `form:"min_connections" json:"min_connections,omitempty" validate:"omitempty,min=0"`
	MaxConnections *int     `form:"max_connections" json:"max_connections,omitempty" validate:"omitempty,min=0"`
}

// PipeFilter narrows the pipe network view.
type PipeFilter struct {
	Materials []string `form:"materials" json:"materials,omitempty"`
	Diameters []string `form:"diameters" json:"diameters,omitempty"`
	Layers    []string `form:"layers" json:"layers,omitempty"`
}

type MapKind string

const (
	MapInteractive MapKind = "interactive"
	Map3D          MapKind = "3d"
	MapTopology    MapKind = "topology"
	MapHeatmap     MapKind = "heatmap"
)

// MapRequest selects the geospatial visualisation and its layer filters.
type MapRequest struct {
	Kind       MapKind  `form:"type" json:"type,omitempty" validate:"omitempty,oneof=interactive 3d topology heatmap"`
	Zoom       int      `form:"zoom" json:"zoom,omitempty" validate:"omitempty,min=10,max=18"`
	Conditions []string `form:"conditions" json:"conditions,omitempty"`
	Materials  []string `form:"materials" json:"materials,omitempty"`
	Zones      []string `form:"zones" json:"zones,omitempty"`
}

// DefaultZoom is used when a map request leaves zoom unset.
const DefaultZoom = 14

type ExportKind string

const (
	ExportManholes   ExportKind = "manholes"
	ExportPipes      ExportKind = "pipes"
	ExportGeospatial ExportKind = "geospatial"
	ExportNetwork    ExportKind = "network"
)

// ExportKinds lists every export in a stable order.
var ExportKinds = []ExportKind{ExportManholes, ExportPipes, ExportGeospatial, ExportNetwork}
